package audit

import (
	"context"

	"github.com/google/uuid"
)

// Repository manages audit record persistence
type Repository interface {
	Create(ctx context.Context, record *Record) error
	GetByEventID(ctx context.Context, eventID uuid.UUID) (*Record, error)
	ListByEntryID(ctx context.Context, entryID uuid.UUID) ([]*Record, error)
	ListByOwnerID(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Record, error)
	CountByOwnerID(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

// ErrRecordNotFound indicates a missing audit record
type ErrRecordNotFound struct {
	EventID uuid.UUID
}

func (e ErrRecordNotFound) Error() string {
	return "audit record not found: " + e.EventID.String()
}

// Is treats a target with the nil event ID as a match for any missing record
func (e ErrRecordNotFound) Is(target error) bool {
	t, ok := target.(ErrRecordNotFound)
	if !ok {
		return false
	}
	if t.EventID == uuid.Nil {
		return true
	}
	return e.EventID == t.EventID
}

// ErrDuplicateRecord indicates event uniqueness violation
type ErrDuplicateRecord struct {
	EventID uuid.UUID
}

func (e ErrDuplicateRecord) Error() string {
	return "duplicate audit record: " + e.EventID.String()
}

// Is treats a target with the nil event ID as a match for any duplicate
func (e ErrDuplicateRecord) Is(target error) bool {
	t, ok := target.(ErrDuplicateRecord)
	if !ok {
		return false
	}
	if t.EventID == uuid.Nil {
		return true
	}
	return e.EventID == t.EventID
}
