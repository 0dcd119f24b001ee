package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"migrator/internal/catalog"
	"migrator/internal/importer"
	"migrator/internal/queue"
	"migrator/internal/source"
)

func newImportCmd() *cobra.Command {
	var (
		productCodePrefix string
		useQueue          bool
	)

	cmd := &cobra.Command{
		Use:   "import <name> <category-name> <db-login> <db-password> <db-host> <db-name> <db-table-prefix> <images-path>",
		Short: "Import a legacy shop into the target catalog",
		Args:  cobra.ExactArgs(8),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, db, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()

			conn := source.Conn{
				Login:       args[2],
				Password:    args[3],
				Host:        args[4],
				Database:    args[5],
				TablePrefix: args[6],
			}
			src, err := source.Open(conn, cfg.PageSize)
			if err != nil {
				return err
			}
			if err := src.Ping(); err != nil {
				return err
			}

			images := source.Images{Root: args[7]}
			if !images.RootExists() {
				return fmt.Errorf("images path %s is not a directory", args[7])
			}

			params := importer.Params{
				ProjectName:       args[0],
				CategoryName:      args[1],
				ImagesPath:        args[7],
				ProductCodePrefix: productCodePrefix,
				Locale:            cfg.Locale,
				PageSize:          cfg.PageSize,
				ReviewsEnabled:    cfg.ReviewsEnabled,
			}

			env := &importer.Env{
				Source: src,
				Store:  catalog.NewStore(db.DB),
				Images: images,
				Params: params,
				Log:    log,
			}

			var dispatcher importer.BatchDispatcher
			if useQueue {
				kd := queue.NewKafkaDispatcher(cfg.KafkaBrokers, cfg.BatchTopic, params, conn, log)
				defer kd.Close()
				dispatcher = kd
			} else {
				dispatcher = queue.NewInlineDispatcher(importer.NewProductImporter(env))
			}

			return importer.Run(cmd.Context(), env, dispatcher)
		},
	}

	cmd.Flags().StringVar(&productCodePrefix, "product-code-prefix", "", "prefix prepended to every product and offer code")
	cmd.Flags().BoolVar(&useQueue, "queue", false, "publish product batches to Kafka instead of importing them inline")
	return cmd
}
