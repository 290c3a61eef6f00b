package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/pipeline-integrity/internal/infra/db"
	"github.com/bryanwahyu/pipeline-integrity/internal/infra/db/migrate"
)

func newMigrateCmd(rt *state) *cobra.Command {
	var target int
	var status bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database schema migrations (upgrades/downgrades)",
		Long: `Manage the schema version of the configured database.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  pipelined migrate

  # Roll every migration back
  pipelined migrate --target-version 0

  # Show the applied version
  pipelined migrate --status`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt.cfg.Database.AutoMigrate = false
			store, err := db.Open(cmd.Context(), rt.cfg, rt.log)
			if err != nil {
				return err
			}
			defer store.DB.Close()

			if status {
				v, dirty, err := migrate.Version(store.DB, store.Dialect)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "dialect=%s version=%d dirty=%t\n", store.Dialect, v, dirty)
				return err
			}
			return migrate.To(store.DB, store.Dialect, target, rt.log)
		},
	}
	cmd.Flags().IntVar(&target, "target-version", migrate.Latest, "schema version to migrate to; negative means latest, 0 rolls everything back")
	cmd.Flags().BoolVar(&status, "status", false, "print the applied schema version and exit")
	return cmd
}
