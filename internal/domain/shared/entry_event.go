package shared

import (
	"time"

	"github.com/google/uuid"
)

// EntryEvent is the Kafka message describing a time entry mutation. It
// carries a full snapshot of the entry content so the audit trail stays
// readable even after the entry itself is deleted.
type EntryEvent struct {
	EventID             uuid.UUID   `json:"event_id"`
	EntryID             uuid.UUID   `json:"entry_id"`
	OwnerID             uuid.UUID   `json:"owner_id"`
	Action              EntryAction `json:"action"`
	Date                time.Time   `json:"date"`
	CentiHours          int64       `json:"centi_hours"` // Hundredths of an hour
	Phase               string      `json:"project_phase"`
	ActivityDescription string      `json:"activity_description"`
	TechnicalChallenge  string      `json:"technical_challenge"`
	CorrelationID       string      `json:"correlation_id,omitempty"`
	OccurredAt          time.Time   `json:"occurred_at"`
}
