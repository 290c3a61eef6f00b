// Package dbtest opens migrated in-memory SQLite stores for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/bryanwahyu/pipeline-integrity/internal/infra/db/migrate"
	"github.com/bryanwahyu/pipeline-integrity/internal/infra/db/sqlite"
	"github.com/bryanwahyu/pipeline-integrity/internal/infra/db/sqlstore"
)

// New returns a store over a fresh, fully migrated in-memory database that is
// closed when the test ends.
func New(t testing.TB) *sqlstore.Store {
	t.Helper()
	conn, err := sqlite.Connect(context.Background(), sqlite.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, migrate.Up(conn, sqlstore.SQLite, zaptest.NewLogger(t)))
	return sqlstore.New(conn, sqlstore.SQLite)
}
