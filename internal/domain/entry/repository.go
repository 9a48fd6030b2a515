package entry

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines time entry persistence operations. The store is the
// sole owner of entry identity; lock and aggregation policy operate on data
// it hands out.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Entry, error)
	ListByOwnerAndYear(ctx context.Context, ownerID uuid.UUID, year int) ([]*Entry, error)

	// Update persists the content fields of e. The edit window is re-checked
	// against the store's own clock at the instant the write commits: rows
	// older than the window are left untouched and ErrEntryLocked is returned.
	Update(ctx context.Context, e *Entry) error

	// Delete removes the entry if it is owned by ownerID. Deletion is not
	// subject to the edit window.
	Delete(ctx context.Context, id, ownerID uuid.UUID) error

	WithTx(tx pgx.Tx) Repository
}

// ErrEntryNotFound indicates a missing time entry
type ErrEntryNotFound struct {
	EntryID uuid.UUID
}

func (e ErrEntryNotFound) Error() string {
	return "time entry not found: " + e.EntryID.String()
}

// ErrEntryForbidden indicates an operation on an entry owned by another user
type ErrEntryForbidden struct {
	EntryID uuid.UUID
}

func (e ErrEntryForbidden) Error() string {
	return "time entry is owned by another user: " + e.EntryID.String()
}
