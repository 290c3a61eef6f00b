package risk

import "time"

// RiskScore is the derived score of one segment. At most one exists per segment.
type RiskScore struct {
	ID        string    `json:"riskScoreId"`
	SegmentID string    `json:"segmentId"`
	Score     int       `json:"score"`
	Severity  Severity  `json:"severity"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RankedSegment is one row of the top-risk ranking.
type RankedSegment struct {
	SegmentID   string   `json:"segmentId"`
	PipelineID  string   `json:"pipelineId"`
	SegmentName string   `json:"segmentName"`
	Score       int      `json:"score"`
	Severity    Severity `json:"severity"`
}
