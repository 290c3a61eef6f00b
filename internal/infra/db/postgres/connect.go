package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"

	"github.com/bryanwahyu/pipeline-integrity/internal/infra/db/sqlstore"
)

// Connect opens a Postgres pool through either registered driver:
// "postgres" (lib/pq) or "pgx" (pgx stdlib).
func Connect(ctx context.Context, driver, dsn string, pool sqlstore.Pool) (*sql.DB, error) {
	switch driver {
	case "postgres", "pgx":
	case "postgresql":
		driver = "postgres"
	default:
		return nil, fmt.Errorf("unsupported postgres driver: %s", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if pool == (sqlstore.Pool{}) {
		pool = sqlstore.Pool{MaxOpenConns: 25, MaxIdleConns: 10, ConnMaxLifetime: 30 * time.Minute}
	}
	pool.Apply(db)

	if err := sqlstore.Ping(ctx, db); err != nil {
		return nil, fmt.Errorf("ping postgres (%s): %w", driver, err)
	}
	return db, nil
}
