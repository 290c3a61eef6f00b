package segments

import (
	"github.com/bryanwahyu/pipeline-integrity/internal/domain/inspections"
	"github.com/bryanwahyu/pipeline-integrity/internal/domain/risk"
)

// Segment is a physical section of a pipeline. Coordinates are stored raw.
type Segment struct {
	ID         string  `json:"segmentId"`
	PipelineID string  `json:"pipelineId"`
	Name       string  `json:"name"`
	StartLat   float64 `json:"startLat"`
	StartLng   float64 `json:"startLng"`
	EndLat     float64 `json:"endLat"`
	EndLng     float64 `json:"endLng"`
	LengthKm   float64 `json:"lengthKm"`
}

// Scored is a segment with its current risk score, when one has been computed.
type Scored struct {
	Segment
	RiskScore *int           `json:"riskScore"`
	Severity  *risk.Severity `json:"severity"`
}

// Listing is the segment list row.
type Listing struct {
	Scored
	LatestInspectionDate *inspections.Date `json:"latestInspectionDate"`
}
