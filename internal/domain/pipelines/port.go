package pipelines

import "context"

// Repository port for pipeline persistence
type Repository interface {
	Create(ctx context.Context, p *Pipeline) error
	Get(ctx context.Context, id string) (*Pipeline, error)
	Update(ctx context.Context, p *Pipeline) error
	// Delete removes the pipeline and everything beneath it in one transaction.
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	// List orders by name.
	List(ctx context.Context) ([]Listing, error)
	Count(ctx context.Context) (int, error)
}
