package main

import (
	"github.com/spf13/cobra"

	"migrator/internal/api"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the operational API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, db, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()

			server := api.New(cfg, log, db)
			return server.Start()
		},
	}
}
