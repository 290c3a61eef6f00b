package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appanalytics "github.com/bryanwahyu/pipeline-integrity/internal/application/analytics"
	appinspections "github.com/bryanwahyu/pipeline-integrity/internal/application/inspections"
	apppipelines "github.com/bryanwahyu/pipeline-integrity/internal/application/pipelines"
	appsegments "github.com/bryanwahyu/pipeline-integrity/internal/application/segments"
	"github.com/bryanwahyu/pipeline-integrity/internal/domain"
	"github.com/bryanwahyu/pipeline-integrity/internal/middleware"
)

// maxBodyBytes caps request bodies; the largest legitimate payload is an
// inspection with 1000 characters of notes.
const maxBodyBytes = 64 << 10

type Services struct {
	Pipelines   *apppipelines.Service
	Segments    *appsegments.Service
	Inspections *appinspections.Service
	Analytics   *appanalytics.Service
}

type Options struct {
	// BasePath prefixes every API route, e.g. "/api".
	BasePath       string
	AllowedOrigins []string
	// RateLimiter is optional; nil disables limiting.
	RateLimiter *middleware.RateLimiter
	Health      map[string]middleware.HealthChecker
	Log         *zap.Logger
}

type Router struct {
	svc      Services
	basePath string
	log      *zap.Logger
}

func NewRouter(svc Services, opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	r := &Router{svc: svc, basePath: opts.BasePath, log: log}
	mux := chi.NewRouter()

	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(middleware.LoggingMiddleware(log))
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(chimw.Recoverer)
	if len(opts.AllowedOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"Location"},
			MaxAge:         300,
		}))
	}
	if opts.RateLimiter != nil {
		mux.Use(middleware.RateLimitMiddleware(opts.RateLimiter))
	}

	mux.Get("/health", middleware.HealthHandler(opts.Health))
	mux.Get("/ready", middleware.ReadinessHandler(opts.Health))
	mux.Get("/live", middleware.LivenessHandler)
	mux.Method(http.MethodGet, "/metrics", middleware.MetricsHandler())

	id := "/{id:" + middleware.UUIDPattern + "}"
	api := func(rt chi.Router) {
		rt.Route("/pipelines", func(rt chi.Router) {
			rt.Get("/", r.wrap(r.handleListPipelines))
			rt.Post("/", r.wrap(r.handleCreatePipeline))
			rt.Get(id, r.wrap(r.handleGetPipeline))
			rt.Put(id, r.wrap(r.handleUpdatePipeline))
			rt.Delete(id, r.wrap(r.handleDeletePipeline))
		})
		rt.Route("/segments", func(rt chi.Router) {
			rt.Get("/", r.wrap(r.handleListSegments))
			rt.Post("/", r.wrap(r.handleCreateSegment))
			rt.Put(id, r.wrap(r.handleUpdateSegment))
			rt.Delete(id, r.wrap(r.handleDeleteSegment))
		})
		rt.Route("/inspections", func(rt chi.Router) {
			rt.Get("/", r.wrap(r.handleListInspections))
			rt.Post("/", r.wrap(r.handleCreateInspection))
			rt.Delete(id, r.wrap(r.handleDeleteInspection))
		})
		rt.Route("/analytics", func(rt chi.Router) {
			rt.Post("/recompute/{segmentId:"+middleware.UUIDPattern+"}", r.wrap(r.handleRecompute))
			rt.Get("/summary", r.wrap(r.handleSummary))
		})
	}
	if opts.BasePath == "" {
		api(mux)
	} else {
		mux.Route(opts.BasePath, api)
	}

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequest marks errors caused by an unreadable request body.
type badRequest struct{ err error }

func (e *badRequest) Error() string { return e.err.Error() }
func (e *badRequest) Unwrap() error { return e.err }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		var br *badRequest
		switch {
		case errors.As(err, &br):
			http.Error(w, "Malformed request body: "+br.Error(), http.StatusBadRequest)
		case errors.Is(err, domain.ErrInvalid):
			http.Error(w, domain.Message(err), http.StatusBadRequest)
		case errors.Is(err, domain.ErrNotFound):
			http.Error(w, domain.Message(err), http.StatusNotFound)
		default:
			r.log.Error("request failed",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.String("request_id", chimw.GetReqID(req.Context())),
				zap.Error(err),
			)
			http.Error(w, "An unexpected error occurred.", http.StatusInternalServerError)
		}
	}
}

func decode(w http.ResponseWriter, req *http.Request, dst any) error {
	body := http.MaxBytesReader(w, req.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("body is empty")
		}
		return &badRequest{err: err}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func (r *Router) location(format string, args ...any) string {
	return r.basePath + fmt.Sprintf(format, args...)
}

// pathID reads a UUID route param. Ids are stored lower-case.
func pathID(req *http.Request, name string) string {
	return strings.ToLower(chi.URLParam(req, name))
}
