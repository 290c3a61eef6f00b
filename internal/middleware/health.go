package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// HealthChecker is one dependency checked by /health and /ready.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a function to HealthChecker.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Check(ctx context.Context) error { return f(ctx) }

// PingChecker fails when the store does not answer a ping within 2s.
type PingChecker struct {
	DB *sql.DB
}

func (c *PingChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.DB.PingContext(ctx)
}

// SchemaChecker fails while the applied schema is behind Want or a migration
// was left dirty. A ping alone does not notice either.
type SchemaChecker struct {
	Applied func(ctx context.Context) (version uint, dirty bool, err error)
	Want    uint
}

func (c *SchemaChecker) Check(ctx context.Context) error {
	v, dirty, err := c.Applied(ctx)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	switch {
	case dirty:
		return fmt.Errorf("schema dirty at version %d", v)
	case v < c.Want:
		return fmt.Errorf("schema at version %d, want %d", v, c.Want)
	}
	return nil
}

type checkResult struct {
	Status     string  `json:"status"`
	Error      string  `json:"error,omitempty"`
	DurationMs float64 `json:"durationMs"`
}

type healthReport struct {
	Status    string                 `json:"status"`
	CheckedAt time.Time              `json:"checkedAt"`
	Checks    map[string]checkResult `json:"checks"`
}

func (h healthReport) ok() bool { return h.Status == "ok" }

// runChecks runs every checker concurrently under one 5s budget.
func runChecks(ctx context.Context, checkers map[string]HealthChecker) healthReport {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	report := healthReport{
		Status:    "ok",
		CheckedAt: time.Now().UTC(),
		Checks:    make(map[string]checkResult, len(checkers)),
	}
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for name, c := range checkers {
		name, c := name, c
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			err := c.Check(ctx)
			res := checkResult{Status: "ok", DurationMs: float64(time.Since(start).Microseconds()) / 1000}
			if err != nil {
				res.Status, res.Error = "failing", err.Error()
			}

			mu.Lock()
			defer mu.Unlock()
			report.Checks[name] = res
			if err != nil {
				report.Status = "degraded"
			}
		}()
	}
	wg.Wait()
	return report
}

// HealthHandler reports every check as JSON; 503 when any of them fails.
func HealthHandler(checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := runChecks(r.Context(), checkers)
		code := http.StatusOK
		if !report.ok() {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(report)
	}
}

// ReadinessHandler answers "ready" once every check passes, so traffic is held
// back while the store is unreachable or still migrating.
func ReadinessHandler(checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if report := runChecks(r.Context(), checkers); !report.ok() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ready"))
	}
}

// LivenessHandler only proves the process serves HTTP.
func LivenessHandler(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ok"))
}
