package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bryanwahyu/pipeline-integrity/internal/application"
	appanalytics "github.com/bryanwahyu/pipeline-integrity/internal/application/analytics"
	appinspections "github.com/bryanwahyu/pipeline-integrity/internal/application/inspections"
	apppipelines "github.com/bryanwahyu/pipeline-integrity/internal/application/pipelines"
	"github.com/bryanwahyu/pipeline-integrity/internal/application/seed"
	appsegments "github.com/bryanwahyu/pipeline-integrity/internal/application/segments"
	"github.com/bryanwahyu/pipeline-integrity/internal/config"
	"github.com/bryanwahyu/pipeline-integrity/internal/infra/db/sqlstore"
	"github.com/bryanwahyu/pipeline-integrity/internal/infra/httpserver"
	"github.com/bryanwahyu/pipeline-integrity/internal/logging"
)

// state holds what every subcommand needs after config and logger are up.
type state struct {
	cfg *config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	var configPath string
	rt := &state{}

	root := &cobra.Command{
		Use:           "pipelined",
		Short:         "Pipeline integrity service: pipelines, segments, inspections and risk scores",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if configPath == "" {
				configPath = config.Path()
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("config load error: %w", err)
			}
			log, err := logging.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
			if err != nil {
				return err
			}
			rt.cfg, rt.log = cfg, log
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if rt.log != nil {
				_ = rt.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (default $CONFIG_PATH or ./config.yaml)")

	root.AddCommand(newServeCmd(rt), newMigrateCmd(rt), newSeedCmd(rt))
	return root
}

// wire builds the application services over one store.
func wire(store *sqlstore.Store, log *zap.Logger) httpserver.Services {
	clock := application.SystemClock{}
	return httpserver.Services{
		Pipelines: &apppipelines.Service{
			Repo:     store.Pipelines,
			Segments: store.Segments,
			Clock:    clock,
			Log:      log.Named("pipelines"),
		},
		Segments: &appsegments.Service{
			Repo:      store.Segments,
			Pipelines: store.Pipelines,
			Log:       log.Named("segments"),
		},
		Inspections: &appinspections.Service{
			Repo:     store.Inspections,
			Segments: store.Segments,
			Log:      log.Named("inspections"),
		},
		Analytics: &appanalytics.Service{
			Pipelines:   store.Pipelines,
			Segments:    store.Segments,
			Inspections: store.Inspections,
			Risk:        store.Risk,
			Clock:       clock,
			Log:         log.Named("analytics"),
		},
	}
}

func runSeed(ctx context.Context, svc httpserver.Services, log *zap.Logger) error {
	s := &seed.Seeder{
		Pipelines:   svc.Pipelines,
		Segments:    svc.Segments,
		Inspections: svc.Inspections,
		Analytics:   svc.Analytics,
		Log:         log.Named("seed"),
	}
	return s.Run(ctx)
}
