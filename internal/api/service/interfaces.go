package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rohith2506/wbso-time-tracker/internal/domain/audit"
	"github.com/rohith2506/wbso-time-tracker/internal/domain/entry"
	"github.com/rohith2506/wbso-time-tracker/internal/domain/user"
)

// RegisterInput carries the fields needed to create a user and their WBSO
// project configuration
type RegisterInput struct {
	Email              string
	Password           string
	ProjectName        string
	ApplicationNumber  string
	ProjectStartDate   time.Time
	ProjectEndDate     time.Time
	ApprovedCentiHours int64
}

// AuthService defines account registration and session token operations
type AuthService interface {
	// Register creates a new user and returns it with a signed access token.
	// Returns ErrDuplicateEmail if the email is already taken.
	Register(ctx context.Context, input RegisterInput) (*user.User, string, error)

	// Login verifies the credentials and returns the user with a signed
	// access token. Returns ErrInvalidCredentials on any mismatch.
	Login(ctx context.Context, email, password string) (*user.User, string, error)

	// GetUserByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user doesn't exist.
	GetUserByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// CreateEntryInput carries the fields needed to log a new time entry
type CreateEntryInput struct {
	OwnerID             uuid.UUID
	Date                time.Time
	CentiHours          int64
	Phase               entry.Phase
	ActivityDescription string
	TechnicalChallenge  string
	CorrelationID       string
}

// EntryService defines time entry operations. Every mutation is committed
// atomically with its audit outbox message.
type EntryService interface {
	// CreateEntry validates and stores a new time entry
	CreateEntry(ctx context.Context, input CreateEntryInput) (*entry.Entry, error)

	// ListEntries returns the owner's entries, optionally restricted to a
	// calendar year, most recent work date first
	ListEntries(ctx context.Context, ownerID uuid.UUID, year *int) ([]*entry.Entry, error)

	// UpdateEntry applies upd to the entry if it is still inside the edit
	// window. Returns ErrEntryLocked past the window, ErrEntryNotFound when
	// the entry is missing or owned by someone else.
	UpdateEntry(ctx context.Context, ownerID, entryID uuid.UUID, upd entry.Update, correlationID string) (*entry.Entry, error)

	// DeleteEntry removes the entry. Deletion is allowed at any age; the
	// audit trail keeps the former content. Returns ErrEntryForbidden when
	// the entry belongs to someone else.
	DeleteEntry(ctx context.Context, ownerID, entryID uuid.UUID, correlationID string) error

	// GetStats aggregates the owner's logged hours against the approved
	// project budget, optionally restricted to a calendar year
	GetStats(ctx context.Context, ownerID uuid.UUID, year *int) (*entry.ProjectStats, error)
}

// HistoryService exposes the audit trail built by the audit processor
type HistoryService interface {
	// EntryHistory returns every recorded mutation of the entry, oldest
	// first. Returns ErrEntryNotFound when the trail belongs to another
	// user; an entry with no recorded events yet yields an empty slice.
	EntryHistory(ctx context.Context, ownerID, entryID uuid.UUID) ([]*audit.Record, error)

	// OwnerHistory returns one page of the owner's audit trail across all
	// their entries, newest first, along with the total record count
	OwnerHistory(ctx context.Context, ownerID uuid.UUID, page, perPage int) ([]*audit.Record, int64, error)
}
