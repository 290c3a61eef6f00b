package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/bryanwahyu/pipeline-integrity/internal/infra/db/sqlstore"
)

// Connect opens a MySQL pool. The DSN is normalized so that DATE and DATETIME
// columns scan into time.Time, migrations may hold several statements, and
// UPDATE reports matched rows rather than changed rows.
func Connect(ctx context.Context, dsn string, pool sqlstore.Pool) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.MultiStatements = true
	cfg.ClientFoundRows = true
	cfg.Loc = time.UTC

	conn, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	db := sql.OpenDB(conn)
	if pool == (sqlstore.Pool{}) {
		pool = sqlstore.Pool{MaxOpenConns: 25, MaxIdleConns: 10, ConnMaxLifetime: 30 * time.Minute}
	}
	pool.Apply(db)

	if err := sqlstore.Ping(ctx, db); err != nil {
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}
