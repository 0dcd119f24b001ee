package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"migrator/internal/catalog"
	"migrator/internal/cloner"
)

func newCloneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clone <max-offers-count> <code-prefix>",
		Short: "Clone migrated products until the catalog holds the requested offer count",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			maxOffers, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid max-offers-count: %w", err)
			}

			_, log, db, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()

			c := cloner.New(catalog.NewStore(db.DB), log, maxOffers, args[1])
			return c.Run(cmd.Context())
		},
	}
}
