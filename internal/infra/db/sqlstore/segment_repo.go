package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bryanwahyu/pipeline-integrity/internal/domain"
	"github.com/bryanwahyu/pipeline-integrity/internal/domain/inspections"
	"github.com/bryanwahyu/pipeline-integrity/internal/domain/risk"
	"github.com/bryanwahyu/pipeline-integrity/internal/domain/segments"
)

type SegmentRepository struct {
	db *sql.DB
	d  Dialect
}

var _ segments.Repository = (*SegmentRepository)(nil)

var errSegmentNotFound = domain.NotFound("Segment not found.")

func (r *SegmentRepository) Create(ctx context.Context, s *segments.Segment) error {
	const q = `
INSERT INTO segments
(id, pipeline_id, name, start_lat, start_lng, end_lat, end_lng, length_km)
VALUES (?,?,?,?,?,?,?,?);`
	_, err := r.db.ExecContext(ctx, r.d.rebind(q),
		s.ID, s.PipelineID, s.Name, s.StartLat, s.StartLng, s.EndLat, s.EndLng, s.LengthKm)
	return err
}

func (r *SegmentRepository) Get(ctx context.Context, id string) (*segments.Segment, error) {
	const q = `
SELECT id, pipeline_id, name, start_lat, start_lng, end_lat, end_lng, length_km
FROM segments
WHERE id=? LIMIT 1;`
	var s segments.Segment
	err := r.db.QueryRowContext(ctx, r.d.rebind(q), id).Scan(
		&s.ID, &s.PipelineID, &s.Name, &s.StartLat, &s.StartLng, &s.EndLat, &s.EndLng, &s.LengthKm,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errSegmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SegmentRepository) Update(ctx context.Context, s *segments.Segment) error {
	const q = `
UPDATE segments
SET name = ?, start_lat = ?, start_lng = ?, end_lat = ?, end_lng = ?, length_km = ?
WHERE id = ?;`
	res, err := r.db.ExecContext(ctx, r.d.rebind(q),
		s.Name, s.StartLat, s.StartLng, s.EndLat, s.EndLng, s.LengthKm, s.ID)
	if err != nil {
		return err
	}
	return requireAffected(res, errSegmentNotFound)
}

// Delete removes the segment with its inspections and risk score.
func (r *SegmentRepository) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, r.d, `SELECT 1 FROM segments WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if !ok {
			return errSegmentNotFound
		}
		stmts := []string{
			`DELETE FROM risk_scores WHERE segment_id = ?`,
			`DELETE FROM inspections WHERE segment_id = ?`,
			`DELETE FROM segments WHERE id = ?`,
		}
		for _, q := range stmts {
			if _, err := tx.ExecContext(ctx, r.d.rebind(q), id); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SegmentRepository) Exists(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.db, r.d, `SELECT 1 FROM segments WHERE id = ?`, id)
}

// List segments annotated with their risk score and latest inspection date
func (r *SegmentRepository) List(ctx context.Context, pipelineID string) ([]segments.Listing, error) {
	query := `
SELECT s.id, s.pipeline_id, s.name, s.start_lat, s.start_lng, s.end_lat, s.end_lng, s.length_km,
       r.score, r.severity,
       (SELECT MAX(i.inspection_date) FROM inspections i WHERE i.segment_id = s.id) AS latest_inspection_date
FROM segments s
LEFT JOIN risk_scores r ON r.segment_id = s.id`
	var args []any
	if pipelineID != "" {
		query += "\nWHERE s.pipeline_id = ?"
		args = append(args, pipelineID)
	}
	query += "\nORDER BY s.name;"

	rows, err := r.db.QueryContext(ctx, r.d.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []segments.Listing{}
	for rows.Next() {
		var l segments.Listing
		var score sql.NullInt64
		var severity sql.NullString
		var latest nullDate
		if err := rows.Scan(
			&l.ID, &l.PipelineID, &l.Name, &l.StartLat, &l.StartLng, &l.EndLat, &l.EndLng, &l.LengthKm,
			&score, &severity, &latest,
		); err != nil {
			return nil, err
		}
		if score.Valid {
			v := int(score.Int64)
			l.RiskScore = &v
		}
		if severity.Valid {
			v := risk.Severity(severity.String)
			l.Severity = &v
		}
		if latest.valid {
			v := latest.d
			l.LatestInspectionDate = &v
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *SegmentRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, r.d, `SELECT COUNT(*) FROM segments`)
}

type nullDate struct {
	d     inspections.Date
	valid bool
}

func (n *nullDate) Scan(src any) error {
	if src == nil {
		n.d, n.valid = inspections.Date{}, false
		return nil
	}
	if err := n.d.Scan(src); err != nil {
		return err
	}
	n.valid = true
	return nil
}
