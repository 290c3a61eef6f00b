package sqlstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectFor(t *testing.T) {
	cases := map[string]Dialect{
		"mysql":      MySQL,
		"postgres":   Postgres,
		"PostgreSQL": Postgres,
		"pgx":        Postgres,
		"sqlite":     SQLite,
		"sqlite3":    SQLite,
	}
	for driver, want := range cases {
		got, err := DialectFor(driver)
		require.NoError(t, err, driver)
		assert.Equal(t, want, got, driver)
	}

	_, err := DialectFor("oracle")
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestRebind(t *testing.T) {
	q := "SELECT 1 FROM segments WHERE id = ? AND pipeline_id = ?"
	assert.Equal(t, q, MySQL.rebind(q))
	assert.Equal(t, q, SQLite.rebind(q))
	assert.Equal(t, "SELECT 1 FROM segments WHERE id = $1 AND pipeline_id = $2", Postgres.rebind(q))
}

func TestTimeArg(t *testing.T) {
	ts := time.Date(2026, 1, 15, 8, 30, 0, 123000000, time.FixedZone("MST", -7*3600))

	assert.Equal(t, ts.UTC(), MySQL.timeArg(ts))
	assert.Equal(t, "2026-01-15 15:30:00.123+00:00", SQLite.timeArg(ts))

	var s scanTime
	require.NoError(t, s.Scan(SQLite.timeArg(ts)))
	assert.True(t, s.t.Equal(ts))
}

func TestScanTime(t *testing.T) {
	var s scanTime
	require.NoError(t, s.Scan([]byte("2026-01-15T15:30:00Z")))
	assert.Equal(t, time.Date(2026, 1, 15, 15, 30, 0, 0, time.UTC), s.t)

	require.NoError(t, s.Scan("2026-01-15 15:30:00"))
	assert.Equal(t, 15, s.t.Hour())

	assert.Error(t, s.Scan("not a time"))
	assert.Error(t, s.Scan(12))
}
