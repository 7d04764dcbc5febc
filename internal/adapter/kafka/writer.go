// Package kafka publishes scored counties to a downstream topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/JDCurry/firewatch-risk-service/internal/config"
	"github.com/JDCurry/firewatch-risk-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces scored counties to a Kafka topic.
// It implements pipeline.ResultSink.
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

// PublishBatch serializes and publishes a scored batch in a single
// WriteMessages call. Messages are keyed by county name so consumers see
// scores for one county in order.
func (w *Writer) PublishBatch(ctx context.Context, counties []domain.ScoredCounty) error {
	if len(counties) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(counties))
	for i := range counties {
		msg, err := serializeToMessage(counties[i])
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

// serializeToMessage marshals a ScoredCounty into a Kafka message.
func serializeToMessage(county domain.ScoredCounty) (kafkago.Message, error) {
	data, err := json.Marshal(county)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize scored county: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(county.CountyName),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "risk_category", Value: []byte(county.RiskCategory)},
			{Key: "scored_at", Value: []byte(county.ScoredAt.Format(time.RFC3339))},
		},
	}, nil
}
