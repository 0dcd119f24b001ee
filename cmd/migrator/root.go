package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"migrator/internal/config"
	"migrator/internal/database"
	"migrator/internal/logger"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "migrator",
		Short:        "Legacy shop catalog migration tools",
		SilenceUsage: true,
	}
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newCloneCmd())
	cmd.AddCommand(newWorkerCmd())
	cmd.AddCommand(newServeCmd())
	return cmd
}

func execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// setup wires the shared runtime: configuration, logger and the target
// catalog database (schema migrated on open).
func setup() (*config.Config, *logrus.Logger, *database.Database, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	log := logger.New(cfg.LogLevel, cfg.Env)

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, log, db, nil
}
