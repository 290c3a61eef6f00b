package pipelines

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/pipeline-integrity/internal/application"
	domain "github.com/bryanwahyu/pipeline-integrity/internal/domain/pipelines"
	"github.com/bryanwahyu/pipeline-integrity/internal/domain/segments"
)

// Service implements the pipeline use cases.
type Service struct {
	Repo     domain.Repository
	Segments segments.Repository
	Clock    application.Clock
	Log      *zap.Logger
}

// CreateCommand is the input of Create. Fields are normalized before validation.
type CreateCommand struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Operator *string `json:"operator" validate:"omitempty,max=100"`
	Status   string  `json:"status" validate:"max=50"`
}

// UpdateCommand is the input of Update. A blank status keeps the current one.
type UpdateCommand struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Operator *string `json:"operator" validate:"omitempty,max=100"`
	Status   string  `json:"status" validate:"max=50"`
}

// List returns every pipeline with its segment count, ordered by name.
func (s *Service) List(ctx context.Context) ([]domain.Listing, error) {
	return s.Repo.List(ctx)
}

// Get returns one pipeline with its scored segments.
func (s *Service) Get(ctx context.Context, id string) (*domain.Detail, error) {
	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := s.Segments.List(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("listing segments of pipeline %s: %w", p.ID, err)
	}
	detail := &domain.Detail{Pipeline: *p, Segments: make([]segments.Scored, 0, len(rows))}
	for _, r := range rows {
		detail.Segments = append(detail.Segments, r.Scored)
	}
	return detail, nil
}

// Create stores a new pipeline and returns it as a list row.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*domain.Listing, error) {
	cmd.Name = application.Trim(cmd.Name)
	cmd.Operator = application.Optional(cmd.Operator)
	cmd.Status = application.Trim(cmd.Status)
	if cmd.Status == "" {
		cmd.Status = domain.DefaultStatus
	}
	if err := application.Validate(cmd); err != nil {
		return nil, err
	}

	p := &domain.Pipeline{
		ID:        uuid.NewString(),
		Name:      cmd.Name,
		Operator:  cmd.Operator,
		Status:    cmd.Status,
		CreatedAt: s.now(),
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("creating pipeline: %w", err)
	}
	s.logger().Info("pipeline created", zap.String("pipeline_id", p.ID), zap.String("name", p.Name))
	return &domain.Listing{Pipeline: *p, SegmentCount: 0}, nil
}

// Update overwrites name, operator and (when given) status.
func (s *Service) Update(ctx context.Context, id string, cmd UpdateCommand) error {
	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return err
	}
	cmd.Name = application.Trim(cmd.Name)
	cmd.Operator = application.Optional(cmd.Operator)
	cmd.Status = application.Trim(cmd.Status)
	if err := application.Validate(cmd); err != nil {
		return err
	}

	p.Name = cmd.Name
	p.Operator = cmd.Operator
	if cmd.Status != "" {
		p.Status = cmd.Status
	}
	if err := s.Repo.Update(ctx, p); err != nil {
		return fmt.Errorf("updating pipeline %s: %w", id, err)
	}
	return nil
}

// Delete removes the pipeline with all of its segments, inspections and risk scores.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger().Info("pipeline deleted", zap.String("pipeline_id", id))
	return nil
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
