package risk

import "context"

// Repository port for risk score persistence
type Repository interface {
	// Upsert inserts the score or, when the segment already has one, overwrites
	// score, severity and updated_at keeping the existing row id.
	Upsert(ctx context.Context, s *RiskScore) error
	GetBySegment(ctx context.Context, segmentID string) (*RiskScore, error)
	CountBySeverity(ctx context.Context, sev Severity) (int, error)
	// Top returns scored segments ordered by score desc; unscored segments never appear.
	Top(ctx context.Context, limit int) ([]RankedSegment, error)
}
