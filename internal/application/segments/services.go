package segments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/pipeline-integrity/internal/application"
	"github.com/bryanwahyu/pipeline-integrity/internal/domain"
	"github.com/bryanwahyu/pipeline-integrity/internal/domain/pipelines"
	segdomain "github.com/bryanwahyu/pipeline-integrity/internal/domain/segments"
)

// Service implements the segment use cases.
type Service struct {
	Repo      segdomain.Repository
	Pipelines pipelines.Repository
	Log       *zap.Logger
}

// Geometry is shared by create and update.
type Geometry struct {
	Name     string  `json:"name" validate:"required,max=120"`
	StartLat float64 `json:"startLat" validate:"gte=-90,lte=90"`
	StartLng float64 `json:"startLng" validate:"gte=-180,lte=180"`
	EndLat   float64 `json:"endLat" validate:"gte=-90,lte=90"`
	EndLng   float64 `json:"endLng" validate:"gte=-180,lte=180"`
	LengthKm float64 `json:"lengthKm" validate:"gte=0"`
}

type CreateCommand struct {
	PipelineID string `json:"pipelineId"`
	Geometry
}

type UpdateCommand struct {
	Geometry
}

// List returns segments ordered by name, optionally restricted to one pipeline.
func (s *Service) List(ctx context.Context, pipelineID string) ([]segdomain.Listing, error) {
	return s.Repo.List(ctx, application.ID(pipelineID))
}

// Create stores a new segment under an existing pipeline and returns its id.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (string, error) {
	cmd.PipelineID = application.ID(cmd.PipelineID)
	ok, err := s.pipelineExists(ctx, cmd.PipelineID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.Invalid("pipelineId", "Invalid PipelineId.")
	}
	cmd.Name = application.Trim(cmd.Name)
	if err := application.Validate(cmd.Geometry); err != nil {
		return "", err
	}

	seg := cmd.Geometry.apply(&segdomain.Segment{ID: uuid.NewString(), PipelineID: cmd.PipelineID})
	if err := s.Repo.Create(ctx, seg); err != nil {
		return "", fmt.Errorf("creating segment: %w", err)
	}
	s.logger().Info("segment created",
		zap.String("segment_id", seg.ID), zap.String("pipeline_id", seg.PipelineID))
	return seg.ID, nil
}

// Update overwrites name, coordinates and length of a segment.
func (s *Service) Update(ctx context.Context, id string, cmd UpdateCommand) error {
	seg, err := s.Repo.Get(ctx, id)
	if err != nil {
		return err
	}
	cmd.Name = application.Trim(cmd.Name)
	if err := application.Validate(cmd.Geometry); err != nil {
		return err
	}
	if err := s.Repo.Update(ctx, cmd.Geometry.apply(seg)); err != nil {
		return fmt.Errorf("updating segment %s: %w", id, err)
	}
	return nil
}

// Delete removes the segment with its inspections and risk score.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger().Info("segment deleted", zap.String("segment_id", id))
	return nil
}

func (s *Service) pipelineExists(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	ok, err := s.Pipelines.Exists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("checking pipeline %s: %w", id, err)
	}
	return ok, nil
}

func (g Geometry) apply(seg *segdomain.Segment) *segdomain.Segment {
	seg.Name = g.Name
	seg.StartLat, seg.StartLng = g.StartLat, g.StartLng
	seg.EndLat, seg.EndLng = g.EndLat, g.EndLng
	seg.LengthKm = g.LengthKm
	return seg
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
