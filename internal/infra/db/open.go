package db

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/bryanwahyu/pipeline-integrity/internal/config"
	"github.com/bryanwahyu/pipeline-integrity/internal/infra/db/migrate"
	"github.com/bryanwahyu/pipeline-integrity/internal/infra/db/mysql"
	"github.com/bryanwahyu/pipeline-integrity/internal/infra/db/postgres"
	"github.com/bryanwahyu/pipeline-integrity/internal/infra/db/sqlite"
	"github.com/bryanwahyu/pipeline-integrity/internal/infra/db/sqlstore"
)

// Open connects to the configured database and wraps it in a Store. When
// autoMigrate is set the schema is brought to the latest version first.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*sqlstore.Store, error) {
	d, err := sqlstore.DialectFor(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}
	pool := sqlstore.Pool{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	var conn *sql.DB
	switch d {
	case sqlstore.MySQL:
		conn, err = mysql.Connect(ctx, cfg.DSN(), pool)
	case sqlstore.Postgres:
		conn, err = postgres.Connect(ctx, cfg.Database.Driver, cfg.DSN(), pool)
	case sqlstore.SQLite:
		conn, err = sqlite.Connect(ctx, cfg.DSN())
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Database.Driver, err)
	}

	if cfg.Database.AutoMigrate {
		if err := migrate.Up(conn, d, log); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}
	log.Info("database ready", zap.String("driver", cfg.Database.Driver), zap.String("dialect", string(d)))
	return sqlstore.New(conn, d), nil
}
