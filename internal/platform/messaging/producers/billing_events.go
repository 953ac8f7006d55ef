package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/connector-stripe/internal/config"
	"github.com/segmentio/kafka-go"
)

// BillingEventProducer publishes connector billing events, keyed by org
type BillingEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewBillingEventProducer dials the broker, ensures the billing events topic exists
// and returns an async producer for it
func NewBillingEventProducer(logger *slog.Logger, cfg *config.KafkaConfig) (*BillingEventProducer, error) {
	if cfg.BillingEventsTopic == "" {
		return nil, fmt.Errorf("kafka billing events topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for billing events: %w", err)
	}
	defer conn.Close()

	err = ensureTopic(conn, kafka.TopicConfig{
		Topic:             cfg.BillingEventsTopic,
		NumPartitions:     cfg.NumPartitions,
		ReplicationFactor: cfg.ReplicationFactor,
	}, logger)
	if err != nil {
		return nil, err
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.BillingEventsTopic,
		Balancer:     &kafka.Hash{}, // same org, same partition
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		WriteTimeout: cfg.WriteTimeout,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write billing events", "topic", cfg.BillingEventsTopic, "error", err, "count", len(messages))
			}
		},
	}

	return newBillingEventProducer(logger, writer, cfg.BillingEventsTopic), nil
}

func newBillingEventProducer(logger *slog.Logger, writer KafkaWriter, topic string) *BillingEventProducer {
	return &BillingEventProducer{
		logger: logger,
		writer: writer,
		topic:  topic,
	}
}

// Publish marshals value to JSON and writes it under key
func (p *BillingEventProducer) Publish(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal billing event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish billing event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published billing event", "topic", p.topic, "key", key)
	return nil
}

// Close flushes pending writes and closes the writer
func (p *BillingEventProducer) Close() error {
	p.logger.Info("Closing billing event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}

var _ MessagePublisher = (*BillingEventProducer)(nil)
