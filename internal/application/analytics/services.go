package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/bryanwahyu/pipeline-integrity/internal/application"
	domain "github.com/bryanwahyu/pipeline-integrity/internal/domain/analytics"
	"github.com/bryanwahyu/pipeline-integrity/internal/domain/inspections"
	"github.com/bryanwahyu/pipeline-integrity/internal/domain/pipelines"
	"github.com/bryanwahyu/pipeline-integrity/internal/domain/risk"
	"github.com/bryanwahyu/pipeline-integrity/internal/domain/segments"
)

var recomputeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pipeline_risk_recomputes_total",
	Help: "Risk score recomputes by resulting severity.",
}, []string{"severity"})

// Service implements risk recompute and the dashboard summary.
//
// Recompute is not serialized per segment: two concurrent calls on the same
// segment may interleave their read and write, and the last upsert wins.
type Service struct {
	Pipelines   pipelines.Repository
	Segments    segments.Repository
	Inspections inspections.Repository
	Risk        risk.Repository
	Clock       application.Clock
	Log         *zap.Logger
}

// Recompute derives the segment's risk score from its most recent inspection and
// stores it, creating the record on first use.
func (s *Service) Recompute(ctx context.Context, segmentID string) (domain.RecomputeResult, error) {
	seg, err := s.Segments.Get(ctx, segmentID)
	if err != nil {
		return domain.RecomputeResult{}, err
	}
	list, err := s.Inspections.ListBySegment(ctx, seg.ID)
	if err != nil {
		return domain.RecomputeResult{}, fmt.Errorf("loading inspections of segment %s: %w", seg.ID, err)
	}

	assessment := risk.Baseline()
	latest, ok := inspections.Latest(list)
	if ok {
		assessment = risk.Assess(latest.Method, latest.MaxDepthPct)
	}

	rs := &risk.RiskScore{
		ID:        uuid.NewString(),
		SegmentID: seg.ID,
		Score:     assessment.Score,
		Severity:  assessment.Severity,
		UpdatedAt: s.now(),
	}
	if err := s.Risk.Upsert(ctx, rs); err != nil {
		return domain.RecomputeResult{}, fmt.Errorf("saving risk score of segment %s: %w", seg.ID, err)
	}

	recomputeTotal.WithLabelValues(string(rs.Severity)).Inc()
	s.logger().Debug("risk recomputed",
		zap.String("segment_id", seg.ID),
		zap.Int("inspections", len(list)),
		zap.Int("score", rs.Score),
		zap.String("severity", string(rs.Severity)),
	)
	return domain.RecomputeResult{
		SegmentID: seg.ID,
		Score:     rs.Score,
		Severity:  rs.Severity,
		UpdatedAt: rs.UpdatedAt,
	}, nil
}

// Summary builds the dashboard counters and the top risk ranking.
func (s *Service) Summary(ctx context.Context) (domain.DashboardSummary, error) {
	var out domain.DashboardSummary
	var err error

	if out.PipelineCount, err = s.Pipelines.Count(ctx); err != nil {
		return domain.DashboardSummary{}, fmt.Errorf("counting pipelines: %w", err)
	}
	if out.SegmentCount, err = s.Segments.Count(ctx); err != nil {
		return domain.DashboardSummary{}, fmt.Errorf("counting segments: %w", err)
	}
	if out.InspectionCount, err = s.Inspections.Count(ctx); err != nil {
		return domain.DashboardSummary{}, fmt.Errorf("counting inspections: %w", err)
	}
	if out.HighRiskSegmentCount, err = s.Risk.CountBySeverity(ctx, risk.SeverityHigh); err != nil {
		return domain.DashboardSummary{}, fmt.Errorf("counting high risk segments: %w", err)
	}
	top, err := s.Risk.Top(ctx, domain.TopRiskLimit)
	if err != nil {
		return domain.DashboardSummary{}, fmt.Errorf("ranking segments: %w", err)
	}
	out.TopRiskSegments = top
	if out.TopRiskSegments == nil {
		out.TopRiskSegments = []risk.RankedSegment{}
	}
	return out, nil
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return application.SystemClock{}.Now().Truncate(time.Microsecond)
	}
	return s.Clock.Now().UTC().Truncate(time.Microsecond)
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
