package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	gomigrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	migsource "github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"github.com/bryanwahyu/pipeline-integrity/internal/infra/db/sqlstore"
)

//go:embed migrations
var migrationsFS embed.FS

// versionTable is the golang-migrate default for the mysql, postgres and sqlite drivers.
const versionTable = "schema_migrations"

// Latest migrates to the newest embedded version.
const Latest = -1

// Up migrates db to the latest schema version.
func Up(db *sql.DB, d sqlstore.Dialect, log *zap.Logger) error {
	return To(db, d, Latest, log)
}

// To migrates db to target.
//   - target < 0 migrates to the latest version.
//   - target == 0 rolls every migration back.
//   - target > 0 migrates up or down to that version.
func To(db *sql.DB, d sqlstore.Dialect, target int, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	m, err := newMigrator(db, d)
	if err != nil {
		return err
	}

	current, dirty, err := m.Version()
	if err != nil && !errors.Is(err, gomigrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is dirty at version %d, fix it manually or force the version", current)
	}

	switch {
	case target < 0:
		err = m.Up()
	case target == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(target))
	}
	if errors.Is(err, gomigrate.ErrNoChange) {
		log.Debug("schema already up to date", zap.String("dialect", string(d)), zap.Uint("version", current))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s to %d: %w", d, target, err)
	}

	version, _, _ := m.Version()
	log.Info("schema migrated",
		zap.String("dialect", string(d)),
		zap.Uint("from", current),
		zap.Uint("to", version),
	)
	return nil
}

// Version reports the applied schema version; 0 when nothing is applied.
func Version(db *sql.DB, d sqlstore.Dialect) (uint, bool, error) {
	m, err := newMigrator(db, d)
	if err != nil {
		return 0, false, err
	}
	v, dirty, err := m.Version()
	if errors.Is(err, gomigrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

// Head returns the newest migration version embedded for d.
func Head(d sqlstore.Dialect) (uint, error) {
	src, err := source(d)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	v, err := src.First()
	if err != nil {
		return 0, fmt.Errorf("read %s migrations: %w", d, err)
	}
	for {
		next, err := src.Next(v)
		if errors.Is(err, fs.ErrNotExist) {
			return v, nil
		}
		if err != nil {
			return 0, fmt.Errorf("read %s migrations: %w", d, err)
		}
		v = next
	}
}

// Applied reads the version table golang-migrate keeps in every dialect. Unlike
// Version it builds no migrator, so it is cheap enough to run on every health request.
func Applied(ctx context.Context, db *sql.DB) (uint, bool, error) {
	var (
		version int64
		dirty   bool
	)
	err := db.QueryRowContext(ctx, `SELECT version, dirty FROM `+versionTable+` LIMIT 1`).Scan(&version, &dirty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if version < 0 {
		return 0, dirty, nil
	}
	return uint(version), dirty, nil
}

// newMigrator binds golang-migrate to an already open pool. The migrator is
// never closed because closing it would close db as well.
func newMigrator(db *sql.DB, d sqlstore.Dialect) (*gomigrate.Migrate, error) {
	var (
		driver database.Driver
		err    error
	)
	switch d {
	case sqlstore.MySQL:
		driver, err = mysql.WithInstance(db, &mysql.Config{})
	case sqlstore.Postgres:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	case sqlstore.SQLite:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", d)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s migrate driver: %w", d, err)
	}

	src, err := source(d)
	if err != nil {
		return nil, err
	}
	m, err := gomigrate.NewWithInstance("iofs", src, string(d), driver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}

func source(d sqlstore.Dialect) (migsource.Driver, error) {
	sub, err := fs.Sub(migrationsFS, "migrations/"+string(d))
	if err != nil {
		return nil, fmt.Errorf("open %s migrations: %w", d, err)
	}
	src, err := iofs.New(sub, ".")
	if err != nil {
		return nil, fmt.Errorf("create %s migration source: %w", d, err)
	}
	return src, nil
}
