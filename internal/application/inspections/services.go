package inspections

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/pipeline-integrity/internal/application"
	"github.com/bryanwahyu/pipeline-integrity/internal/domain"
	insdomain "github.com/bryanwahyu/pipeline-integrity/internal/domain/inspections"
	"github.com/bryanwahyu/pipeline-integrity/internal/domain/segments"
)

// Service implements the inspection use cases. Recording an inspection does not
// touch the segment's risk score; that only changes on recompute.
type Service struct {
	Repo     insdomain.Repository
	Segments segments.Repository
	Log      *zap.Logger
}

type CreateCommand struct {
	SegmentID      string         `json:"segmentId"`
	InspectionDate insdomain.Date `json:"inspectionDate"`
	Method         string         `json:"method" validate:"required,max=50"`
	MaxDepthPct    int            `json:"maxDepthPct" validate:"gte=0,lte=100"`
	Notes          *string        `json:"notes" validate:"omitempty,max=1000"`
}

// List returns the inspections of one segment, newest first.
func (s *Service) List(ctx context.Context, segmentID string) ([]insdomain.Inspection, error) {
	segmentID = application.ID(segmentID)
	if segmentID == "" {
		return nil, domain.Invalid("segmentId", "segmentId is required.")
	}
	ok, err := s.Segments.Exists(ctx, segmentID)
	if err != nil {
		return nil, fmt.Errorf("checking segment %s: %w", segmentID, err)
	}
	if !ok {
		return nil, domain.NotFound("Segment not found.")
	}
	return s.Repo.ListBySegment(ctx, segmentID)
}

// Create records an inspection against an existing segment and returns its id.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (string, error) {
	cmd.SegmentID = application.ID(cmd.SegmentID)
	if cmd.SegmentID == "" {
		return "", domain.Invalid("segmentId", "Invalid SegmentId.")
	}
	ok, err := s.Segments.Exists(ctx, cmd.SegmentID)
	if err != nil {
		return "", fmt.Errorf("checking segment %s: %w", cmd.SegmentID, err)
	}
	if !ok {
		return "", domain.Invalid("segmentId", "Invalid SegmentId.")
	}
	if cmd.InspectionDate.IsZero() {
		return "", domain.Invalid("inspectionDate", "inspectionDate is required.")
	}
	cmd.Method = application.Trim(cmd.Method)
	cmd.Notes = application.Optional(cmd.Notes)
	if err := application.Validate(cmd); err != nil {
		return "", err
	}

	in := &insdomain.Inspection{
		ID:             uuid.NewString(),
		SegmentID:      cmd.SegmentID,
		InspectionDate: cmd.InspectionDate,
		Method:         cmd.Method,
		MaxDepthPct:    cmd.MaxDepthPct,
		Notes:          cmd.Notes,
	}
	if err := s.Repo.Create(ctx, in); err != nil {
		return "", fmt.Errorf("creating inspection: %w", err)
	}
	s.logger().Info("inspection recorded",
		zap.String("inspection_id", in.ID),
		zap.String("segment_id", in.SegmentID),
		zap.String("method", in.Method),
		zap.Int("max_depth_pct", in.MaxDepthPct),
	)
	return in.ID, nil
}

// Delete removes one inspection.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
