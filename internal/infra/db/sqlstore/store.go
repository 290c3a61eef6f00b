package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Store groups the repositories over one connection pool.
type Store struct {
	DB          *sql.DB
	Dialect     Dialect
	Pipelines   *PipelineRepository
	Segments    *SegmentRepository
	Inspections *InspectionRepository
	Risk        *RiskRepository
}

func New(db *sql.DB, d Dialect) *Store {
	return &Store{
		DB:          db,
		Dialect:     d,
		Pipelines:   &PipelineRepository{db: db, d: d},
		Segments:    &SegmentRepository{db: db, d: d},
		Inspections: &InspectionRepository{db: db, d: d},
		Risk:        &RiskRepository{db: db, d: d},
	}
}

// withTx runs fn in one transaction; any error rolls it back.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func exists(ctx context.Context, q queryRower, d Dialect, query string, args ...any) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, d.rebind(query), args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func count(ctx context.Context, q queryRower, d Dialect, query string, args ...any) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, d.rebind(query), args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// scanTime accepts the timestamp representations of every supported driver.
type scanTime struct {
	t time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	sqliteTimeLayout,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05.999999999 -0700 MST",
}

func (s *scanTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		s.t = v.UTC()
		return nil
	case []byte:
		return s.Scan(string(v))
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				s.t = t.UTC()
				return nil
			}
		}
		return fmt.Errorf("unrecognized timestamp %q", v)
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
