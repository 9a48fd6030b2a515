// Package producers publishes entry events to Kafka for the audit pipeline.
package producers

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// MessagePublisher publishes entry events to the primary events topic
type MessagePublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

// DeadLetterPublisher handles messages that could not be processed, routing
// them to a Dead Letter Queue for later inspection
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error
	Close() error
}

// KafkaWriter wraps kafka.Writer methods for testing
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}
