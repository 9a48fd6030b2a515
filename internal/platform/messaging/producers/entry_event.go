package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rohith2506/wbso-time-tracker/internal/config"
	"github.com/segmentio/kafka-go"
)

type EntryEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// Creates the producer used by the outbox poller and ensures the topic exists
func NewEntryEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*EntryEventProducer, error) {
	if cfg.EntryEventsTopic == "" {
		return nil, fmt.Errorf("kafka entry events topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for entry event producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.EntryEventsTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure entry events topic %s exists: %w", cfg.EntryEventsTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.EntryEventsTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true, // Using async for high throughput
		WriteTimeout: cfg.MaxWait,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write messages asynchronously", "topic", cfg.EntryEventsTopic, "error", err, "count", len(messages))
			} else {
				logger.Debug("Successfully wrote messages asynchronously", "topic", cfg.EntryEventsTopic, "count", len(messages))
			}
		},
	}

	return &EntryEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.EntryEventsTopic,
	}, nil
}

func (p *EntryEventProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal entry event value: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish entry event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish entry event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published entry event",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *EntryEventProducer) Close() error {
	p.logger.Info("Closing entry event Kafka producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
