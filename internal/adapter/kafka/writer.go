// Package kafka publishes reconciled callsign entities to a sink topic, for
// deployments that feed the registry into downstream consumers instead of
// (or besides) the artifact tree.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/chriskacerguis/hamqrzdb/internal/config"
	"github.com/chriskacerguis/hamqrzdb/internal/domain"
)

// Writer produces entity messages to a Kafka topic.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishBatch serializes and publishes multiple entities in a single
// WriteMessages call for efficiency.
func (w *Writer) PublishBatch(ctx context.Context, entities []domain.Entity) error {
	if len(entities) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(entities))
	for i := range entities {
		msg, err := serializeToMessage(entities[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an entity's hamdb document into a Kafka
// message keyed by callsign, so compacted topics retain one document per
// callsign.
func serializeToMessage(e domain.Entity) (kafkago.Message, error) {
	data, err := json.Marshal(domain.BuildDocument(e))
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize entity %s: %w", e.Callsign, err)
	}
	return kafkago.Message{
		Key:   []byte(e.Callsign),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "callsign", Value: []byte(e.Callsign)},
			{Key: "updated_at", Value: []byte(e.LastUpdated.UTC().Format(time.RFC3339))},
		},
	}, nil
}
