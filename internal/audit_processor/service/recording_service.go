// Package service records entry events into the MongoDB audit trail.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rohith2506/wbso-time-tracker/internal/domain/audit"
	"github.com/rohith2506/wbso-time-tracker/internal/domain/shared"
)

type RecordingServiceImpl struct {
	auditRepo audit.Repository
	logger    *slog.Logger
	now       func() time.Time
}

func NewRecordingService(
	auditRepo audit.Repository,
	logger *slog.Logger,
) RecordingService {
	return &RecordingServiceImpl{
		auditRepo: auditRepo,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// RecordEvent persists one entry event as an immutable audit record. Kafka
// delivers at least once, so a duplicate event ID counts as success.
func (s *RecordingServiceImpl) RecordEvent(ctx context.Context, event *shared.EntryEvent) error {
	logger := s.logger
	if event.CorrelationID != "" {
		logger = s.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Info("Recording entry event",
		"event_id", event.EventID.String(),
		"entry_id", event.EntryID.String(),
		"action", event.Action,
	)

	record := audit.FromEvent(event, s.now())
	if err := s.auditRepo.Create(ctx, record); err != nil {
		if errors.Is(err, audit.ErrDuplicateRecord{}) {
			logger.Info("Audit record already exists, treating redelivery as success", "event_id", event.EventID.String())
			return nil
		}
		logger.Error("Failed to create audit record", "event_id", event.EventID.String(), "error", err)
		return fmt.Errorf("failed to record event %s: %w", event.EventID, err)
	}

	logger.Info("Successfully recorded entry event", "event_id", event.EventID.String())
	return nil
}
