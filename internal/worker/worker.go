package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"migrator/internal/catalog"
	"migrator/internal/config"
	"migrator/internal/importer"
	"migrator/internal/queue"
	"migrator/internal/source"
)

// Worker consumes product batches from the batch topic and imports them.
// Running several workers against the same topic parallelizes the products
// stage; code uniqueness in the target keeps concurrent batches from
// double-importing.
type Worker struct {
	config  *config.Config
	log     *logrus.Logger
	reader  *kafka.Reader
	store   *catalog.Store
	sources map[string]*source.DB
}

func New(cfg *config.Config, log *logrus.Logger, store *catalog.Store) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{cfg.KafkaBrokers},
		GroupID:        "migrator-worker",
		Topic:          cfg.BatchTopic,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &Worker{
		config:  cfg,
		log:     log,
		reader:  reader,
		store:   store,
		sources: map[string]*source.DB{},
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.log.Info("worker started, waiting for batches")

	for {
		message, err := w.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.log.WithError(err).Error("failed to read message")
			continue
		}

		var batch queue.Batch
		if err := json.Unmarshal(message.Value, &batch); err != nil {
			w.log.WithError(err).Error("failed to decode batch")
			continue
		}

		if err := w.process(ctx, batch); err != nil {
			w.log.WithError(err).Error("failed to process batch")
			continue
		}

		w.log.WithField("products", len(batch.ProductIDs)).Debug("batch processed")
	}
}

func (w *Worker) process(ctx context.Context, batch queue.Batch) error {
	src, err := w.sourceFor(batch.Source, batch.Params.PageSize)
	if err != nil {
		return err
	}

	env := &importer.Env{
		Source: src,
		Store:  w.store,
		Images: source.Images{Root: batch.Params.ImagesPath},
		Params: batch.Params,
		Log:    w.log,
	}
	return importer.NewProductImporter(env).ImportBatch(ctx, batch.ProductIDs)
}

// sourceFor caches legacy connections; batches from the same run share one.
func (w *Worker) sourceFor(conn source.Conn, pageSize int) (*source.DB, error) {
	key := conn.Host + "/" + conn.Database + "/" + conn.TablePrefix
	if db, ok := w.sources[key]; ok {
		return db, nil
	}

	db, err := source.Open(conn, pageSize)
	if err != nil {
		return nil, err
	}
	w.sources[key] = db
	return db, nil
}

func (w *Worker) Stop() {
	w.log.Info("stopping worker")
	w.reader.Close()
}
