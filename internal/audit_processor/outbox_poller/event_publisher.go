package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rohith2506/wbso-time-tracker/internal/domain/outbox"
	"github.com/rohith2506/wbso-time-tracker/internal/domain/shared"
	"github.com/rohith2506/wbso-time-tracker/internal/platform/messaging/producers"
)

// EventPublisher publishes outbox messages to the audit event stream
type EventPublisher interface {
	PublishEvent(ctx context.Context, message *outbox.Message) error
}

// EventPublisherImpl implements EventPublisher on top of Kafka
type EventPublisherImpl struct {
	outboxRepo outbox.Repository
	producer   producers.MessagePublisher
	logger     *slog.Logger
}

// NewEventPublisher creates a new publisher
func NewEventPublisher(
	outboxRepo outbox.Repository,
	producer producers.MessagePublisher,
	logger *slog.Logger,
) EventPublisher {
	return &EventPublisherImpl{
		outboxRepo: outboxRepo,
		producer:   producer,
		logger:     logger,
	}
}

// PublishEvent pushes one outbox message to Kafka and marks it PROCESSED.
// A payload that cannot be unmarshaled is poison and is marked
// FAILED_TO_PUBLISH immediately rather than retried.
func (p *EventPublisherImpl) PublishEvent(ctx context.Context, message *outbox.Message) error {
	event, err := message.GetEntryEvent()
	if err != nil {
		p.logger.Error("Failed to unmarshal entry event from outbox payload",
			"outbox_id", message.ID, "event_id", message.EventID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	// Add correlation ID to logger
	logger := p.logger
	if event.CorrelationID != "" {
		logger = p.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Info("Attempting to publish outbox message to Kafka",
		"outbox_id", message.ID, "event_id", message.EventID, "entry_id", message.EntryID, "action", event.Action,
	)

	// Key by entry ID so all events for one entry land on the same
	// partition and replay in order.
	if err := p.producer.Publish(ctx, event.EntryID.String(), event); err != nil {
		logger.Error("Failed to publish entry event to Kafka", "outbox_id", message.ID, "event_id", message.EventID, "error", err)
		return fmt.Errorf("failed to publish entry event %s: %w", message.EventID, err)
	}

	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		logger.Error("Failed to update outbox message status to PROCESSED",
			"outbox_id", message.ID, "event_id", message.EventID, "error", err,
		)
		return fmt.Errorf("publish for %s OK, but failed to mark outbox %d as PROCESSED: %w", message.EventID, message.ID, err)
	}

	logger.Info("Outbox message successfully published and marked as PROCESSED", "outbox_id", message.ID, "event_id", message.EventID)
	return nil
}
