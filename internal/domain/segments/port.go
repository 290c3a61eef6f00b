package segments

import "context"

// Repository port for segment persistence
type Repository interface {
	Create(ctx context.Context, s *Segment) error
	Get(ctx context.Context, id string) (*Segment, error)
	Update(ctx context.Context, s *Segment) error
	// Delete removes the segment with its inspections and risk score.
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	// List orders by name; an empty pipelineID lists every segment.
	List(ctx context.Context, pipelineID string) ([]Listing, error)
	Count(ctx context.Context) (int, error)
}
