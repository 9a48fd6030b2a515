package service

import (
	"context"

	"github.com/rohith2506/wbso-time-tracker/internal/domain/shared"
)

// RecordingService defines the interface for writing entry events into the
// audit trail.
type RecordingService interface {
	RecordEvent(ctx context.Context, event *shared.EntryEvent) error
}
