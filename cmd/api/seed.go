package main

import (
	"github.com/spf13/cobra"

	"github.com/bryanwahyu/pipeline-integrity/internal/infra/db"
)

func newSeedCmd(rt *state) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo pipelines, segments and inspections into an empty database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := db.Open(cmd.Context(), rt.cfg, rt.log)
			if err != nil {
				return err
			}
			defer store.DB.Close()
			return runSeed(cmd.Context(), wire(store, rt.log), rt.log)
		},
	}
}
