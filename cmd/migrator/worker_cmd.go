package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"migrator/internal/catalog"
	"migrator/internal/worker"
)

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consume product batches from Kafka",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, db, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()

			w := worker.New(cfg, log, catalog.NewStore(db.DB))

			ctx, cancel := context.WithCancel(cmd.Context())
			go w.Start(ctx)

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			cancel()
			w.Stop()
			return nil
		},
	}
}
