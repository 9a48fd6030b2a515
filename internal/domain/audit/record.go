package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/rohith2506/wbso-time-tracker/internal/domain/shared"
)

// Record is a single immutable audit trail entry: one time-entry mutation as
// it was observed, with the content snapshot taken at that moment. Records
// survive deletion of the entry they describe.
type Record struct {
	EventID             uuid.UUID          `json:"event_id" bson:"event_id"`
	EntryID             uuid.UUID          `json:"entry_id" bson:"entry_id"`
	OwnerID             uuid.UUID          `json:"owner_id" bson:"owner_id"`
	Action              shared.EntryAction `json:"action" bson:"action"`
	Date                time.Time          `json:"date" bson:"date"`
	CentiHours          int64              `json:"centi_hours" bson:"centi_hours"` // Hundredths of an hour
	Phase               string             `json:"project_phase" bson:"project_phase"`
	ActivityDescription string             `json:"activity_description" bson:"activity_description"`
	TechnicalChallenge  string             `json:"technical_challenge" bson:"technical_challenge"`
	CorrelationID       string             `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	OccurredAt          time.Time          `json:"occurred_at" bson:"occurred_at"`
	RecordedAt          time.Time          `json:"recorded_at" bson:"recorded_at"`
}

// FromEvent builds an audit record from an entry event
func FromEvent(event *shared.EntryEvent, recordedAt time.Time) *Record {
	return &Record{
		EventID:             event.EventID,
		EntryID:             event.EntryID,
		OwnerID:             event.OwnerID,
		Action:              event.Action,
		Date:                event.Date,
		CentiHours:          event.CentiHours,
		Phase:               event.Phase,
		ActivityDescription: event.ActivityDescription,
		TechnicalChallenge:  event.TechnicalChallenge,
		CorrelationID:       event.CorrelationID,
		OccurredAt:          event.OccurredAt,
		RecordedAt:          recordedAt,
	}
}
