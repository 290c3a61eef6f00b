package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bryanwahyu/pipeline-integrity/internal/infra/db"
	"github.com/bryanwahyu/pipeline-integrity/internal/infra/db/migrate"
	"github.com/bryanwahyu/pipeline-integrity/internal/infra/httpserver"
	"github.com/bryanwahyu/pipeline-integrity/internal/middleware"
)

func newServeCmd(rt *state) *cobra.Command {
	var seedFlag bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("seed") {
				rt.cfg.Seed.Enabled = seedFlag
			}
			return serve(cmd.Context(), rt)
		},
	}
	cmd.Flags().BoolVar(&seedFlag, "seed", false, "load the demo data set into an empty database before serving")
	return cmd
}

func serve(ctx context.Context, rt *state) error {
	cfg, log := rt.cfg, rt.log
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.DB.Close()

	svc := wire(store, log)
	if cfg.Seed.Enabled {
		if err := runSeed(ctx, svc, log); err != nil {
			return err
		}
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		defer limiter.Close()
	}

	head, err := migrate.Head(store.Dialect)
	if err != nil {
		return err
	}
	handler := httpserver.NewRouter(svc, httpserver.Options{
		BasePath:       cfg.Server.BasePath,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RateLimiter:    limiter,
		Health:         healthChecks(store.DB, head),
		Log:            log.Named("http"),
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", addr), zap.String("base_path", cfg.Server.BasePath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}

// healthChecks pings the pool and checks that the schema is at the embedded head.
func healthChecks(conn *sql.DB, head uint) map[string]middleware.HealthChecker {
	return map[string]middleware.HealthChecker{
		"database": &middleware.PingChecker{DB: conn},
		"schema": &middleware.SchemaChecker{
			Applied: func(ctx context.Context) (uint, bool, error) { return migrate.Applied(ctx, conn) },
			Want:    head,
		},
	}
}
