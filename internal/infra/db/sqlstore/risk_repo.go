package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bryanwahyu/pipeline-integrity/internal/domain"
	"github.com/bryanwahyu/pipeline-integrity/internal/domain/risk"
)

type RiskRepository struct {
	db *sql.DB
	d  Dialect
}

var _ risk.Repository = (*RiskRepository)(nil)

// Upsert insert/update keyed by segment. On update the stored row id is kept and
// copied back into s.
func (r *RiskRepository) Upsert(ctx context.Context, s *risk.RiskScore) error {
	_, err := r.db.ExecContext(ctx, r.d.rebind(r.d.upsertRiskScore()),
		s.ID, s.SegmentID, s.Score, string(s.Severity), r.d.timeArg(s.UpdatedAt))
	if err != nil {
		return err
	}
	const q = `SELECT id FROM risk_scores WHERE segment_id = ?`
	return r.db.QueryRowContext(ctx, r.d.rebind(q), s.SegmentID).Scan(&s.ID)
}

func (r *RiskRepository) GetBySegment(ctx context.Context, segmentID string) (*risk.RiskScore, error) {
	const q = `
SELECT id, segment_id, score, severity, updated_at
FROM risk_scores
WHERE segment_id = ? LIMIT 1;`
	var s risk.RiskScore
	var sev string
	var updated scanTime
	err := r.db.QueryRowContext(ctx, r.d.rebind(q), segmentID).Scan(&s.ID, &s.SegmentID, &s.Score, &sev, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("Risk score not found.")
	}
	if err != nil {
		return nil, err
	}
	s.Severity = risk.Severity(sev)
	s.UpdatedAt = updated.t
	return &s, nil
}

func (r *RiskRepository) CountBySeverity(ctx context.Context, sev risk.Severity) (int, error) {
	return count(ctx, r.db, r.d, `SELECT COUNT(*) FROM risk_scores WHERE severity = ?`, string(sev))
}

// Top ranks scored segments by score desc, then name. Segments without a risk
// score are not joined in at all.
func (r *RiskRepository) Top(ctx context.Context, limit int) ([]risk.RankedSegment, error) {
	if limit <= 0 {
		limit = 10
	}
	const q = `
SELECT s.id, s.pipeline_id, s.name, r.score, r.severity
FROM risk_scores r
JOIN segments s ON s.id = r.segment_id
ORDER BY r.score DESC, s.name
LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, r.d.rebind(q), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []risk.RankedSegment{}
	for rows.Next() {
		var row risk.RankedSegment
		var sev string
		if err := rows.Scan(&row.SegmentID, &row.PipelineID, &row.SegmentName, &row.Score, &sev); err != nil {
			return nil, err
		}
		row.Severity = risk.Severity(sev)
		out = append(out, row)
	}
	return out, rows.Err()
}
