package seed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/bryanwahyu/pipeline-integrity/internal/application"
	appanalytics "github.com/bryanwahyu/pipeline-integrity/internal/application/analytics"
	appinspections "github.com/bryanwahyu/pipeline-integrity/internal/application/inspections"
	apppipelines "github.com/bryanwahyu/pipeline-integrity/internal/application/pipelines"
	appsegments "github.com/bryanwahyu/pipeline-integrity/internal/application/segments"
	"github.com/bryanwahyu/pipeline-integrity/internal/domain/risk"
	"github.com/bryanwahyu/pipeline-integrity/internal/infra/db/dbtest"
	"github.com/bryanwahyu/pipeline-integrity/internal/infra/db/sqlstore"
)

func newSeeder(t *testing.T) *Seeder {
	return seederOver(t, dbtest.New(t))
}

func seederOver(t *testing.T, store *sqlstore.Store) *Seeder {
	log := zaptest.NewLogger(t)
	clock := &application.FixedClock{T: time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)}
	return &Seeder{
		Pipelines:   &apppipelines.Service{Repo: store.Pipelines, Segments: store.Segments, Clock: clock, Log: log},
		Segments:    &appsegments.Service{Repo: store.Segments, Pipelines: store.Pipelines, Log: log},
		Inspections: &appinspections.Service{Repo: store.Inspections, Segments: store.Segments, Log: log},
		Analytics: &appanalytics.Service{
			Pipelines:   store.Pipelines,
			Segments:    store.Segments,
			Inspections: store.Inspections,
			Risk:        store.Risk,
			Clock:       clock,
			Log:         log,
		},
		Log: log,
	}
}

func TestRun(t *testing.T) {
	s := newSeeder(t)
	ctx := context.Background()
	require.NoError(t, s.Run(ctx))

	sum, err := s.Analytics.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.PipelineCount)
	assert.Equal(t, 6, sum.SegmentCount)
	assert.Equal(t, 10, sum.InspectionCount)
	assert.Equal(t, 2, sum.HighRiskSegmentCount)

	got := map[string]int{}
	for _, r := range sum.TopRiskSegments {
		got[r.SegmentName] = r.Score
	}
	assert.Equal(t, map[string]int{
		"Crowfoot → Tuscany":       39,
		"Tuscany → Nolan Hill":     51,
		"Nolan Hill → Beacon Hill": 87,
		"Saddletowne → Martindale": 46,
		"Martindale → Whitehorn":   73,
		"Whitehorn → Deerfoot Hub": 35,
	}, got)
	assert.Equal(t, "Nolan Hill → Beacon Hill", sum.TopRiskSegments[0].SegmentName)
	assert.Equal(t, risk.SeverityHigh, sum.TopRiskSegments[1].Severity)
	assert.Equal(t, risk.SeverityMed, sum.TopRiskSegments[5].Severity)

	list, err := s.Pipelines.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Bow River Connector", list[0].Name)
	assert.Equal(t, 3, list[0].SegmentCount)
}

func TestRun_SkipsNonEmptyStore(t *testing.T) {
	s := newSeeder(t)
	ctx := context.Background()
	require.NoError(t, s.Run(ctx))
	require.NoError(t, s.Run(ctx))

	n, err := s.Pipelines.Repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

// failingRisk rejects every upsert after the first n.
type failingRisk struct {
	*sqlstore.RiskRepository
	n int
}

func (f *failingRisk) Upsert(ctx context.Context, rs *risk.RiskScore) error {
	if f.n == 0 {
		return errors.New("disk full")
	}
	f.n--
	return f.RiskRepository.Upsert(ctx, rs)
}

func TestRun_FailureLeavesStoreEmpty(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()

	s := seederOver(t, store)
	s.Analytics.Risk = &failingRisk{RiskRepository: store.Risk, n: 3}
	err := s.Run(ctx)
	require.ErrorContains(t, err, "disk full")

	for name, count := range map[string]func(context.Context) (int, error){
		"pipelines":   store.Pipelines.Count,
		"segments":    store.Segments.Count,
		"inspections": store.Inspections.Count,
	} {
		n, err := count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n, name)
	}
	n, err := store.Risk.CountBySeverity(ctx, risk.SeverityMed)
	require.NoError(t, err)
	assert.Zero(t, n)

	s.Analytics.Risk = store.Risk
	require.NoError(t, s.Run(ctx))
	sum, err := s.Analytics.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.PipelineCount)
	assert.Equal(t, 6, len(sum.TopRiskSegments))
}
