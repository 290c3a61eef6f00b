package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bryanwahyu/pipeline-integrity/internal/domain"
	"github.com/bryanwahyu/pipeline-integrity/internal/domain/pipelines"
)

type PipelineRepository struct {
	db *sql.DB
	d  Dialect
}

var _ pipelines.Repository = (*PipelineRepository)(nil)

var errPipelineNotFound = domain.NotFound("Pipeline not found.")

// Create inserts a new pipeline row
func (r *PipelineRepository) Create(ctx context.Context, p *pipelines.Pipeline) error {
	const q = `
INSERT INTO pipelines (id, name, operator_name, status, created_at)
VALUES (?,?,?,?,?);`
	_, err := r.db.ExecContext(ctx, r.d.rebind(q),
		p.ID, p.Name, nullableString(p.Operator), p.Status, r.d.timeArg(p.CreatedAt))
	return err
}

// Get by ID
func (r *PipelineRepository) Get(ctx context.Context, id string) (*pipelines.Pipeline, error) {
	const q = `
SELECT id, name, operator_name, status, created_at
FROM pipelines
WHERE id=? LIMIT 1;`
	var p pipelines.Pipeline
	var operator sql.NullString
	var created scanTime
	err := r.db.QueryRowContext(ctx, r.d.rebind(q), id).Scan(&p.ID, &p.Name, &operator, &p.Status, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errPipelineNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Operator = stringPtr(operator)
	p.CreatedAt = created.t
	return &p, nil
}

// Update overwrites the mutable columns
func (r *PipelineRepository) Update(ctx context.Context, p *pipelines.Pipeline) error {
	const q = `
UPDATE pipelines
SET name = ?, operator_name = ?, status = ?
WHERE id = ?;`
	res, err := r.db.ExecContext(ctx, r.d.rebind(q), p.Name, nullableString(p.Operator), p.Status, p.ID)
	if err != nil {
		return err
	}
	return requireAffected(res, errPipelineNotFound)
}

// Delete removes the pipeline, its segments and their inspections and risk scores.
func (r *PipelineRepository) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, r.d, `SELECT 1 FROM pipelines WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if !ok {
			return errPipelineNotFound
		}
		stmts := []string{
			`DELETE FROM risk_scores WHERE segment_id IN (SELECT id FROM segments WHERE pipeline_id = ?)`,
			`DELETE FROM inspections WHERE segment_id IN (SELECT id FROM segments WHERE pipeline_id = ?)`,
			`DELETE FROM segments WHERE pipeline_id = ?`,
			`DELETE FROM pipelines WHERE id = ?`,
		}
		for _, q := range stmts {
			if _, err := tx.ExecContext(ctx, r.d.rebind(q), id); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PipelineRepository) Exists(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.db, r.d, `SELECT 1 FROM pipelines WHERE id = ?`, id)
}

// List every pipeline with its segment count, ordered by name
func (r *PipelineRepository) List(ctx context.Context) ([]pipelines.Listing, error) {
	const q = `
SELECT p.id, p.name, p.operator_name, p.status, p.created_at,
       (SELECT COUNT(*) FROM segments s WHERE s.pipeline_id = p.id) AS segment_count
FROM pipelines p
ORDER BY p.name;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []pipelines.Listing{}
	for rows.Next() {
		var l pipelines.Listing
		var operator sql.NullString
		var created scanTime
		if err := rows.Scan(&l.ID, &l.Name, &operator, &l.Status, &created, &l.SegmentCount); err != nil {
			return nil, err
		}
		l.Operator = stringPtr(operator)
		l.CreatedAt = created.t
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PipelineRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, r.d, `SELECT COUNT(*) FROM pipelines`)
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
