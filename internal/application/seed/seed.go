package seed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	appanalytics "github.com/bryanwahyu/pipeline-integrity/internal/application/analytics"
	appinspections "github.com/bryanwahyu/pipeline-integrity/internal/application/inspections"
	apppipelines "github.com/bryanwahyu/pipeline-integrity/internal/application/pipelines"
	appsegments "github.com/bryanwahyu/pipeline-integrity/internal/application/segments"
	"github.com/bryanwahyu/pipeline-integrity/internal/domain/inspections"
)

// Seeder loads the demo data set into an empty store.
type Seeder struct {
	Pipelines   *apppipelines.Service
	Segments    *appsegments.Service
	Inspections *appinspections.Service
	Analytics   *appanalytics.Service
	Log         *zap.Logger
}

type segmentSeed struct {
	name               string
	startLat, startLng float64
	endLat, endLng     float64
	lengthKm           float64
	inspections        []inspectionSeed
}

type inspectionSeed struct {
	date   inspections.Date
	method string
	depth  int
	notes  string
}

type pipelineSeed struct {
	name     string
	operator string
	segments []segmentSeed
}

func day(y int, m time.Month, d int) inspections.Date { return inspections.NewDate(y, m, d) }

// Rough coordinates around NW/NE Calgary.
var demo = []pipelineSeed{
	{
		name:     "Calgary Northline",
		operator: "Demo Operator",
		segments: []segmentSeed{
			{"Crowfoot → Tuscany", 51.1235, -114.2072, 51.1278, -114.2485, 6.2, []inspectionSeed{
				{day(2025, 10, 12), inspections.MethodILI, 28, "Minor metal loss indications."},
				{day(2026, 1, 15), inspections.MethodCPCM, 34, "Coating review; moderate indications."},
			}},
			{"Tuscany → Nolan Hill", 51.1278, -114.2485, 51.1609, -114.2451, 4.8, []inspectionSeed{
				{day(2025, 9, 5), inspections.MethodVisual, 12, "No critical issues observed."},
				{day(2026, 1, 20), inspections.MethodILI, 41, "In-line inspection flagged areas to monitor."},
			}},
			{"Nolan Hill → Beacon Hill", 51.1609, -114.2451, 51.1629, -114.1566, 7.4, []inspectionSeed{
				{day(2025, 8, 19), inspections.MethodILI, 77, "High depth feature; prioritize mitigation."},
			}},
		},
	},
	{
		name:     "Bow River Connector",
		operator: "Demo Operator",
		segments: []segmentSeed{
			{"Saddletowne → Martindale", 51.1297, -113.9656, 51.1219, -113.9541, 2.3, []inspectionSeed{
				{day(2025, 11, 2), inspections.MethodCPCM, 22, "Coating anomalies detected."},
				{day(2026, 1, 28), inspections.MethodILI, 36, "Moderate corrosion growth trend."},
			}},
			{"Martindale → Whitehorn", 51.1219, -113.9541, 51.0849, -113.9966, 8.1, []inspectionSeed{
				{day(2025, 7, 10), inspections.MethodVisual, 18, "Routine survey."},
				{day(2026, 2, 1), inspections.MethodILI, 63, "Multiple features clustered; watchlist."},
			}},
			{"Whitehorn → Deerfoot Hub", 51.0849, -113.9966, 51.0748, -114.0087, 1.9, []inspectionSeed{
				{day(2025, 12, 14), inspections.MethodCPCM, 30, "Surface indications; follow-up recommended."},
			}},
		},
	},
}

// Run seeds the store unless it already holds a pipeline. Risk scores are
// produced by the regular recompute so seeding and recompute cannot disagree.
// A failed run deletes the pipelines it created, so the next run starts over
// instead of skipping a half-seeded store.
func (s *Seeder) Run(ctx context.Context) error {
	existing, err := s.Pipelines.Repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("checking existing pipelines: %w", err)
	}
	if existing > 0 {
		s.logger().Info("seed skipped, store not empty", zap.Int("pipelines", existing))
		return nil
	}

	var created []string
	segments, err := s.load(ctx, &created)
	if err != nil {
		s.rollback(context.WithoutCancel(ctx), created)
		return err
	}
	s.logger().Info("seed complete",
		zap.Int("pipelines", len(created)), zap.Int("segments", segments))
	return nil
}

// load writes the demo set, appending every pipeline id to created as soon as
// it exists.
func (s *Seeder) load(ctx context.Context, created *[]string) (int, error) {
	var segmentIDs []string
	for _, ps := range demo {
		operator := ps.operator
		p, err := s.Pipelines.Create(ctx, apppipelines.CreateCommand{
			Name:     ps.name,
			Operator: &operator,
			Status:   "Active",
		})
		if err != nil {
			return 0, fmt.Errorf("seeding pipeline %q: %w", ps.name, err)
		}
		*created = append(*created, p.ID)
		for _, ss := range ps.segments {
			segID, err := s.Segments.Create(ctx, appsegments.CreateCommand{
				PipelineID: p.ID,
				Geometry: appsegments.Geometry{
					Name:     ss.name,
					StartLat: ss.startLat,
					StartLng: ss.startLng,
					EndLat:   ss.endLat,
					EndLng:   ss.endLng,
					LengthKm: ss.lengthKm,
				},
			})
			if err != nil {
				return 0, fmt.Errorf("seeding segment %q: %w", ss.name, err)
			}
			for _, is := range ss.inspections {
				notes := is.notes
				if _, err := s.Inspections.Create(ctx, appinspections.CreateCommand{
					SegmentID:      segID,
					InspectionDate: is.date,
					Method:         is.method,
					MaxDepthPct:    is.depth,
					Notes:          &notes,
				}); err != nil {
					return 0, fmt.Errorf("seeding inspection of %q: %w", ss.name, err)
				}
			}
			segmentIDs = append(segmentIDs, segID)
		}
	}

	for _, id := range segmentIDs {
		if _, err := s.Analytics.Recompute(ctx, id); err != nil {
			return 0, fmt.Errorf("seeding risk score of segment %s: %w", id, err)
		}
	}
	return len(segmentIDs), nil
}

func (s *Seeder) rollback(ctx context.Context, pipelineIDs []string) {
	for _, id := range pipelineIDs {
		if err := s.Pipelines.Delete(ctx, id); err != nil {
			s.logger().Error("seed rollback failed", zap.String("pipeline_id", id), zap.Error(err))
		}
	}
	if len(pipelineIDs) > 0 {
		s.logger().Warn("seed rolled back", zap.Int("pipelines", len(pipelineIDs)))
	}
}

func (s *Seeder) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
