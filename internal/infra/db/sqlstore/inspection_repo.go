package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bryanwahyu/pipeline-integrity/internal/domain"
	"github.com/bryanwahyu/pipeline-integrity/internal/domain/inspections"
)

type InspectionRepository struct {
	db *sql.DB
	d  Dialect
}

var _ inspections.Repository = (*InspectionRepository)(nil)

var errInspectionNotFound = domain.NotFound("Inspection not found.")

func (r *InspectionRepository) Create(ctx context.Context, in *inspections.Inspection) error {
	const q = `
INSERT INTO inspections (id, segment_id, inspection_date, method, max_depth_pct, notes)
VALUES (?,?,?,?,?,?);`
	_, err := r.db.ExecContext(ctx, r.d.rebind(q),
		in.ID, in.SegmentID, in.InspectionDate, in.Method, in.MaxDepthPct, nullableString(in.Notes))
	return err
}

func (r *InspectionRepository) Get(ctx context.Context, id string) (*inspections.Inspection, error) {
	const q = `
SELECT id, segment_id, inspection_date, method, max_depth_pct, notes
FROM inspections
WHERE id=? LIMIT 1;`
	var in inspections.Inspection
	var notes sql.NullString
	err := r.db.QueryRowContext(ctx, r.d.rebind(q), id).Scan(
		&in.ID, &in.SegmentID, &in.InspectionDate, &in.Method, &in.MaxDepthPct, &notes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errInspectionNotFound
	}
	if err != nil {
		return nil, err
	}
	in.Notes = stringPtr(notes)
	return &in, nil
}

func (r *InspectionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.d.rebind(`DELETE FROM inspections WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return requireAffected(res, errInspectionNotFound)
}

// ListBySegment returns newest first. Rows sharing a date come back in whatever
// order the backend produces.
func (r *InspectionRepository) ListBySegment(ctx context.Context, segmentID string) ([]inspections.Inspection, error) {
	const q = `
SELECT id, segment_id, inspection_date, method, max_depth_pct, notes
FROM inspections
WHERE segment_id = ?
ORDER BY inspection_date DESC;`
	rows, err := r.db.QueryContext(ctx, r.d.rebind(q), segmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []inspections.Inspection{}
	for rows.Next() {
		var in inspections.Inspection
		var notes sql.NullString
		if err := rows.Scan(&in.ID, &in.SegmentID, &in.InspectionDate, &in.Method, &in.MaxDepthPct, &notes); err != nil {
			return nil, err
		}
		in.Notes = stringPtr(notes)
		out = append(out, in)
	}
	return out, rows.Err()
}

func (r *InspectionRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, r.d, `SELECT COUNT(*) FROM inspections`)
}
