package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("creating segment: %w", Invalid("pipelineId", "Invalid PipelineId."))

	assert.True(t, errors.Is(err, ErrInvalid))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Invalid PipelineId.", Message(err))
	assert.Equal(t, "creating segment: pipelineId: Invalid PipelineId.", err.Error())
}

func TestNotFound(t *testing.T) {
	err := fmt.Errorf("loading: %w", NotFound("Segment not found."))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalid))
	assert.Equal(t, "Segment not found.", Message(err))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Not found.", Message(fmt.Errorf("x: %w", ErrNotFound)))
	assert.Equal(t, "", Message(errors.New("boom")))
}
