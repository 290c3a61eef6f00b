package application

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bryanwahyu/pipeline-integrity/internal/domain"
)

type sample struct {
	Name  string  `json:"name" validate:"required,max=5"`
	Depth int     `json:"maxDepthPct" validate:"gte=0,lte=100"`
	Notes *string `json:"notes" validate:"omitempty,max=3"`
}

func TestValidate(t *testing.T) {
	long := "abcd"
	tests := []struct {
		name  string
		in    sample
		field string
		msg   string
	}{
		{"required", sample{}, "name", "name is required."},
		{"max string", sample{Name: "toolong"}, "name", "name must be at most 5 characters."},
		{"lte", sample{Name: "ok", Depth: 101}, "maxDepthPct", "maxDepthPct must be at most 100."},
		{"gte", sample{Name: "ok", Depth: -1}, "maxDepthPct", "maxDepthPct must be at least 0."},
		{"optional pointer", sample{Name: "ok", Notes: &long}, "notes", "notes must be at most 3 characters."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.in)
			assert.True(t, errors.Is(err, domain.ErrInvalid))
			var ve *domain.ValidationError
			if assert.True(t, errors.As(err, &ve)) {
				assert.Equal(t, tt.field, ve.Field)
				assert.Equal(t, tt.msg, ve.Message)
			}
		})
	}

	assert.NoError(t, Validate(sample{Name: "ok", Depth: 50}))
}

func TestOptional(t *testing.T) {
	assert.Nil(t, Optional(nil))
	blank := "   "
	assert.Nil(t, Optional(&blank))
	v := "  Demo Operator "
	got := Optional(&v)
	if assert.NotNil(t, got) {
		assert.Equal(t, "Demo Operator", *got)
	}
	assert.Equal(t, "x", Trim(strings.Repeat(" ", 3)+"x\t"))
}

func TestFixedClock(t *testing.T) {
	c := &FixedClock{T: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c.Advance(time.Hour)
	assert.Equal(t, time.Date(2026, 1, 1, 1, 0, 0, 0, time.UTC), c.Now())
	assert.Equal(t, time.UTC, SystemClock{}.Now().Location())
}

func TestID(t *testing.T) {
	assert.Equal(t, "6f9619ff-8b86-d011-b42d-00cf4fc964ff", ID(" 6F9619FF-8B86-D011-B42D-00CF4FC964FF "))
	assert.Equal(t, "6f9619ff-8b86-d011-b42d-00cf4fc964ff", ID("{6f9619ff-8b86-d011-b42d-00cf4fc964ff}"))
	assert.Equal(t, "not-a-uuid", ID(" Not-A-UUID"))
	assert.Empty(t, ID("  "))
}
