package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/bryanwahyu/pipeline-integrity/internal/infra/db/sqlstore"
)

// MemoryDSN is a private in-memory database with foreign keys enforced.
const MemoryDSN = "file::memory:?_pragma=foreign_keys(1)"

// Connect opens a SQLite database. It is limited to one connection so an
// in-memory database is shared by every query and writers never contend.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	if path, ok := filePath(dsn); ok {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite directory: %w", err)
			}
		}
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := sqlstore.Ping(ctx, db); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

func filePath(dsn string) (string, bool) {
	p := strings.TrimPrefix(dsn, "file:")
	p, _, _ = strings.Cut(p, "?")
	if p == "" || p == ":memory:" {
		return "", false
	}
	return p, true
}
