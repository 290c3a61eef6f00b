package inspections

import "context"

// Repository port for inspection persistence
type Repository interface {
	Create(ctx context.Context, in *Inspection) error
	Get(ctx context.Context, id string) (*Inspection, error)
	Delete(ctx context.Context, id string) error
	// ListBySegment orders by inspection date desc; order within one date is unspecified.
	ListBySegment(ctx context.Context, segmentID string) ([]Inspection, error)
	Count(ctx context.Context) (int, error)
}
