package sqlstore

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dialect selects the placeholder style and upsert syntax of a backend.
type Dialect string

const (
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// sqliteTimeLayout is the layout modernc.org/sqlite parses back into time.Time.
const sqliteTimeLayout = "2006-01-02 15:04:05.999999999-07:00"

// DialectFor maps a database/sql driver name onto its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "mysql":
		return MySQL, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// rebind rewrites ? placeholders into $n for Postgres. Queries in this package
// never contain a literal question mark.
func (d Dialect) rebind(q string) string {
	if d != Postgres {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 1
	for _, r := range q {
		if r == '?' {
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			n++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d Dialect) timeArg(t time.Time) any {
	t = t.UTC()
	if d == SQLite {
		return t.Format(sqliteTimeLayout)
	}
	return t
}

func (d Dialect) upsertRiskScore() string {
	if d == MySQL {
		return `
INSERT INTO risk_scores (id, segment_id, score, severity, updated_at)
VALUES (?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 score=VALUES(score), severity=VALUES(severity), updated_at=VALUES(updated_at);`
	}
	return `
INSERT INTO risk_scores (id, segment_id, score, severity, updated_at)
VALUES (?,?,?,?,?)
ON CONFLICT (segment_id) DO UPDATE SET
 score = excluded.score,
 severity = excluded.severity,
 updated_at = excluded.updated_at;`
}
