package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"migrator/internal/importer"
	"migrator/internal/source"
)

// Batch is the unit of work published to the batch topic. Messages are
// self-contained: workers reopen the legacy database from the carried
// connection settings, so any worker can pick up any batch.
type Batch struct {
	ProductIDs []int64         `json:"product_ids"`
	Params     importer.Params `json:"params"`
	Source     source.Conn     `json:"source"`
}

// InlineDispatcher runs batches synchronously in-process. This is the
// default mode; queueing is opt-in.
type InlineDispatcher struct {
	products *importer.ProductImporter
}

func NewInlineDispatcher(products *importer.ProductImporter) *InlineDispatcher {
	return &InlineDispatcher{products: products}
}

func (d *InlineDispatcher) Dispatch(ctx context.Context, productIDs []int64) error {
	return d.products.ImportBatch(ctx, productIDs)
}

// KafkaDispatcher publishes batches to the batch topic for parallel workers.
type KafkaDispatcher struct {
	writer *kafka.Writer
	params importer.Params
	conn   source.Conn
	log    *logrus.Logger
}

func NewKafkaDispatcher(brokers, topic string, params importer.Params, conn source.Conn, log *logrus.Logger) *KafkaDispatcher {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &KafkaDispatcher{
		writer: writer,
		params: params,
		conn:   conn,
		log:    log,
	}
}

func (d *KafkaDispatcher) Dispatch(ctx context.Context, productIDs []int64) error {
	payload, err := json.Marshal(Batch{
		ProductIDs: productIDs,
		Params:     d.params,
		Source:     d.conn,
	})
	if err != nil {
		return fmt.Errorf("failed to encode batch: %w", err)
	}

	if err := d.writer.WriteMessages(ctx, kafka.Message{Value: payload}); err != nil {
		return fmt.Errorf("failed to publish batch: %w", err)
	}

	d.log.WithField("products", len(productIDs)).Debug("batch published")
	return nil
}

func (d *KafkaDispatcher) Close() error {
	return d.writer.Close()
}
