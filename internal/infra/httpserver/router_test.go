package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/bryanwahyu/pipeline-integrity/internal/application"
	appanalytics "github.com/bryanwahyu/pipeline-integrity/internal/application/analytics"
	appinspections "github.com/bryanwahyu/pipeline-integrity/internal/application/inspections"
	apppipelines "github.com/bryanwahyu/pipeline-integrity/internal/application/pipelines"
	appsegments "github.com/bryanwahyu/pipeline-integrity/internal/application/segments"
	"github.com/bryanwahyu/pipeline-integrity/internal/infra/db/dbtest"
	"github.com/bryanwahyu/pipeline-integrity/internal/infra/db/migrate"
	"github.com/bryanwahyu/pipeline-integrity/internal/infra/httpserver"
	"github.com/bryanwahyu/pipeline-integrity/internal/middleware"
)

type api struct {
	t *testing.T
	h http.Handler
}

func newAPI(t *testing.T) *api {
	store := dbtest.New(t)
	log := zaptest.NewLogger(t)
	clock := &application.FixedClock{T: time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)}
	svc := httpserver.Services{
		Pipelines:   &apppipelines.Service{Repo: store.Pipelines, Segments: store.Segments, Clock: clock, Log: log},
		Segments:    &appsegments.Service{Repo: store.Segments, Pipelines: store.Pipelines, Log: log},
		Inspections: &appinspections.Service{Repo: store.Inspections, Segments: store.Segments, Log: log},
		Analytics: &appanalytics.Service{
			Pipelines:   store.Pipelines,
			Segments:    store.Segments,
			Inspections: store.Inspections,
			Risk:        store.Risk,
			Clock:       clock,
			Log:         log,
		},
	}
	h := httpserver.NewRouter(svc, httpserver.Options{
		BasePath:       "/api",
		AllowedOrigins: []string{"http://localhost:5173"},
		Health: map[string]middleware.HealthChecker{
			"database": &middleware.PingChecker{DB: store.DB},
			"schema": &middleware.SchemaChecker{
				Applied: func(ctx context.Context) (uint, bool, error) { return migrate.Applied(ctx, store.DB) },
				Want:    1,
			},
		},
		Log:            log,
	})
	return &api{t: t, h: h}
}

func (a *api) do(method, path, body string) *httptest.ResponseRecorder {
	a.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestPipelineLifecycle(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodPost, "/api/pipelines", `{"name":" Calgary Northline ","operator":"Demo Operator"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[map[string]any](t, rec)
	id := created["pipelineId"].(string)
	assert.Equal(t, "/api/pipelines/"+id, rec.Header().Get("Location"))
	assert.Equal(t, "Calgary Northline", created["name"])
	assert.Equal(t, "Active", created["status"])
	assert.Equal(t, float64(0), created["segmentCount"])
	assert.Equal(t, "2026-02-01T08:00:00Z", created["createdAt"])

	rec = a.do(http.MethodGet, "/api/pipelines", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]map[string]any](t, rec), 1)

	rec = a.do(http.MethodPut, "/api/pipelines/"+strings.ToUpper(id), `{"name":"Northline","operator":null,"status":"Inactive"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = a.do(http.MethodGet, "/api/pipelines/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "Northline", detail["name"])
	assert.Nil(t, detail["operator"])
	assert.Equal(t, "Inactive", detail["status"])
	assert.Equal(t, []any{}, detail["segments"])

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/api/pipelines/"+id, "").Code)
	rec = a.do(http.MethodGet, "/api/pipelines/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Pipeline not found.", strings.TrimSpace(rec.Body.String()))
}

func TestRequestErrors(t *testing.T) {
	a := newAPI(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		code   int
		msg    string
	}{
		{"malformed json", http.MethodPost, "/api/pipelines", `{"name":`, http.StatusBadRequest, "Malformed request body"},
		{"empty body", http.MethodPost, "/api/pipelines", "", http.StatusBadRequest, "body is empty"},
		{"blank name", http.MethodPost, "/api/pipelines", `{"name":"  "}`, http.StatusBadRequest, "name is required."},
		{"non uuid id", http.MethodGet, "/api/pipelines/not-a-uuid", "", http.StatusNotFound, ""},
		{"unknown pipeline", http.MethodPut, "/api/pipelines/" + uuid.NewString(), `{"name":"x"}`, http.StatusNotFound, "Pipeline not found."},
		{"unknown segment", http.MethodDelete, "/api/segments/" + uuid.NewString(), "", http.StatusNotFound, "Segment not found."},
		{"bad pipeline filter", http.MethodGet, "/api/segments?pipelineId=bad", "", http.StatusBadRequest, "pipelineId must be a UUID."},
		{"segment without pipeline", http.MethodPost, "/api/segments", `{"pipelineId":"` + uuid.NewString() + `","name":"A"}`, http.StatusBadRequest, "Invalid PipelineId."},
		{"inspections need segment", http.MethodGet, "/api/inspections", "", http.StatusBadRequest, "segmentId is required."},
		{"inspections of unknown segment", http.MethodGet, "/api/inspections?segmentId=" + uuid.NewString(), "", http.StatusNotFound, "Segment not found."},
		{"bad inspection date", http.MethodPost, "/api/inspections", `{"segmentId":"x","inspectionDate":"15/01/2026"}`, http.StatusBadRequest, "Malformed request body"},
		{"trailing text after date", http.MethodPost, "/api/inspections", `{"segmentId":"x","inspectionDate":"2026-01-01junk"}`, http.StatusBadRequest, "invalid date"},
		{"recompute unknown segment", http.MethodPost, "/api/analytics/recompute/" + uuid.NewString(), "", http.StatusNotFound, "Segment not found."},
		{"recompute non uuid", http.MethodPost, "/api/analytics/recompute/abc", "", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), tt.msg)
		})
	}
}

func TestRiskFlow(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodPost, "/api/pipelines", `{"name":"Bow River Connector"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	pipelineID := decodeBody[map[string]any](t, rec)["pipelineId"].(string)

	rec = a.do(http.MethodPost, "/api/segments", `{"pipelineId":"`+pipelineID+`","name":"Saddletowne","startLat":51.1297,"startLng":-113.9656,"endLat":51.1219,"endLng":-113.9541,"lengthKm":2.3}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	segmentID := decodeBody[map[string]string](t, rec)["segmentId"]
	require.NotEmpty(t, segmentID)

	for _, body := range []string{
		`{"segmentId":"` + segmentID + `","inspectionDate":"2025-11-02","method":"CPCM","maxDepthPct":22,"notes":"Coating anomalies detected."}`,
		`{"segmentId":"` + segmentID + `","inspectionDate":"2026-01-28","method":"ILI","maxDepthPct":36}`,
	} {
		rec = a.do(http.MethodPost, "/api/inspections", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.NotEmpty(t, decodeBody[map[string]string](t, rec)["inspectionId"])
	}

	rec = a.do(http.MethodPost, "/api/inspections", `{"segmentId":"`+segmentID+`","inspectionDate":"2026-01-01","method":"ILI","maxDepthPct":101}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "maxDepthPct must be at most 100.")

	rec = a.do(http.MethodGet, "/api/inspections?segmentId="+segmentID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]map[string]any](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, "2026-01-28", list[0]["inspectionDate"])
	assert.Nil(t, list[0]["notes"])

	rec = a.do(http.MethodGet, "/api/segments?pipelineId="+pipelineID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	segs := decodeBody[[]map[string]any](t, rec)
	require.Len(t, segs, 1)
	assert.Nil(t, segs[0]["riskScore"], "no score before the first recompute")
	assert.Equal(t, "2026-01-28", segs[0]["latestInspectionDate"])

	rec = a.do(http.MethodPost, "/api/analytics/recompute/"+segmentID, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decodeBody[map[string]any](t, rec)
	assert.Equal(t, segmentID, res["segmentId"])
	assert.Equal(t, float64(46), res["score"])
	assert.Equal(t, "Med", res["severity"])

	rec = a.do(http.MethodGet, "/api/analytics/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	sum := decodeBody[map[string]any](t, rec)
	assert.Equal(t, float64(1), sum["pipelineCount"])
	assert.Equal(t, float64(1), sum["segmentCount"])
	assert.Equal(t, float64(2), sum["inspectionCount"])
	assert.Equal(t, float64(0), sum["highRiskSegmentCount"])
	top := sum["topRiskSegments"].([]any)
	require.Len(t, top, 1)
	assert.Equal(t, "Saddletowne", top[0].(map[string]any)["segmentName"])

	rec = a.do(http.MethodPut, "/api/segments/"+segmentID, `{"name":"Saddletowne → Martindale","startLat":51.1297,"startLng":-113.9656,"endLat":91,"endLng":-113.9541,"lengthKm":2.3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "endLat must be at most 90.")

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/api/segments/"+segmentID, "").Code)
	rec = a.do(http.MethodGet, "/api/analytics/summary", "")
	sum = decodeBody[map[string]any](t, rec)
	assert.Equal(t, float64(0), sum["inspectionCount"])
	assert.Equal(t, []any{}, sum["topRiskSegments"])
}

func TestUpperCaseBodyIDs(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodPost, "/api/pipelines", `{"name":"Calgary Northline"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	pipelineID := decodeBody[map[string]any](t, rec)["pipelineId"].(string)

	rec = a.do(http.MethodPost, "/api/segments", `{"pipelineId":"`+strings.ToUpper(pipelineID)+`","name":"Crowfoot","lengthKm":6.2}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	segmentID := decodeBody[map[string]string](t, rec)["segmentId"]

	rec = a.do(http.MethodPost, "/api/inspections", `{"segmentId":"`+strings.ToUpper(segmentID)+`","inspectionDate":"2026-01-15","method":"CPCM","maxDepthPct":34}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(http.MethodGet, "/api/inspections?segmentId="+strings.ToUpper(segmentID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]map[string]any](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, segmentID, list[0]["segmentId"])

	rec = a.do(http.MethodGet, "/api/pipelines/"+pipelineID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	segs := decodeBody[map[string]any](t, rec)["segments"].([]any)
	assert.Len(t, segs, 1)
}

func TestOperationalEndpoints(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	report := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "ok", report["status"])
	checks := report["checks"].(map[string]any)
	assert.Equal(t, "ok", checks["database"].(map[string]any)["status"])
	assert.Equal(t, "ok", checks["schema"].(map[string]any)["status"])

	assert.Equal(t, "ok", a.do(http.MethodGet, "/live", "").Body.String())
	assert.Equal(t, "ready", a.do(http.MethodGet, "/ready", "").Body.String())

	a.do(http.MethodGet, "/api/pipelines", "")
	rec = a.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/api/pipelines"`)

	req := httptest.NewRequest(http.MethodOptions, "/api/pipelines", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthReportsSchemaBehind(t *testing.T) {
	store := dbtest.New(t)
	require.NoError(t, migrate.To(store.DB, store.Dialect, 0, nil))
	h := httpserver.NewRouter(httpserver.Services{}, httpserver.Options{
		Health: map[string]middleware.HealthChecker{
			"schema": &middleware.SchemaChecker{
				Applied: func(ctx context.Context) (uint, bool, error) { return migrate.Applied(ctx, store.DB) },
				Want:    1,
			},
		},
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "schema at version 0, want 1")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRateLimitedRouter(t *testing.T) {
	store := dbtest.New(t)
	rl := middleware.NewRateLimiter(0.001, 1)
	t.Cleanup(rl.Close)
	h := httpserver.NewRouter(httpserver.Services{
		Pipelines: &apppipelines.Service{Repo: store.Pipelines, Segments: store.Segments},
	}, httpserver.Options{BasePath: "/api", RateLimiter: rl})

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pipelines", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}
