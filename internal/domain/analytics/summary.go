package analytics

import (
	"time"

	"github.com/bryanwahyu/pipeline-integrity/internal/domain/risk"
)

// TopRiskLimit is the size of the dashboard ranking.
const TopRiskLimit = 10

// RecomputeResult is returned by a risk recompute.
type RecomputeResult struct {
	SegmentID string        `json:"segmentId"`
	Score     int           `json:"score"`
	Severity  risk.Severity `json:"severity"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// DashboardSummary value object
type DashboardSummary struct {
	PipelineCount        int                  `json:"pipelineCount"`
	SegmentCount         int                  `json:"segmentCount"`
	InspectionCount      int                  `json:"inspectionCount"`
	HighRiskSegmentCount int                  `json:"highRiskSegmentCount"`
	TopRiskSegments      []risk.RankedSegment `json:"topRiskSegments"`
}
