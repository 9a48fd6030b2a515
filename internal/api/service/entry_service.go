package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rohith2506/wbso-time-tracker/internal/domain/entry"
	"github.com/rohith2506/wbso-time-tracker/internal/domain/outbox"
	"github.com/rohith2506/wbso-time-tracker/internal/domain/shared"
	"github.com/rohith2506/wbso-time-tracker/internal/domain/user"
)

// TxExecutor runs a function inside a database transaction
type TxExecutor interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// EntryServiceImpl implements the EntryService interface
type EntryServiceImpl struct {
	entryRepo  entry.Repository
	outboxRepo outbox.Repository
	userRepo   user.Repository
	tx         TxExecutor
	logger     *slog.Logger
	now        func() time.Time // Injected clock, defaults to time.Now
}

// NewEntryService creates a new time entry service
func NewEntryService(logger *slog.Logger, entryRepo entry.Repository, outboxRepo outbox.Repository, userRepo user.Repository, tx TxExecutor) EntryService {
	return &EntryServiceImpl{
		entryRepo:  entryRepo,
		outboxRepo: outboxRepo,
		userRepo:   userRepo,
		tx:         tx,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateEntry validates and stores a new time entry together with its audit
// outbox message in a single transaction
func (s *EntryServiceImpl) CreateEntry(ctx context.Context, input CreateEntryInput) (*entry.Entry, error) {
	now := s.now()

	e, err := entry.New(input.OwnerID, input.Date, input.CentiHours, input.Phase, input.ActivityDescription, input.TechnicalChallenge, now)
	if err != nil {
		return nil, err
	}

	message, err := s.newOutboxMessage(e, shared.EntryActionCreated, input.CorrelationID, now)
	if err != nil {
		return nil, err
	}

	err = s.tx.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := s.entryRepo.WithTx(tx).Create(ctx, e); err != nil {
			return err
		}
		return s.outboxRepo.WithTx(tx).Create(ctx, message)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Created time entry",
		"entry_id", e.ID.String(),
		"owner_id", e.OwnerID.String(),
		"centi_hours", e.CentiHours,
	)
	return e, nil
}

// ListEntries returns the owner's entries, optionally restricted to a
// calendar year
func (s *EntryServiceImpl) ListEntries(ctx context.Context, ownerID uuid.UUID, year *int) ([]*entry.Entry, error) {
	if year != nil {
		return s.entryRepo.ListByOwnerAndYear(ctx, ownerID, *year)
	}
	return s.entryRepo.ListByOwner(ctx, ownerID)
}

// UpdateEntry applies upd to the entry if it is still inside the edit window.
// The window is checked twice: once here against the loaded entry for an
// early rejection, and again in the UPDATE predicate against the database
// clock so the final decision is made at commit time.
func (s *EntryServiceImpl) UpdateEntry(ctx context.Context, ownerID, entryID uuid.UUID, upd entry.Update, correlationID string) (*entry.Entry, error) {
	e, err := s.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if e.OwnerID != ownerID {
		// An entry owned by someone else is indistinguishable from a missing one
		return nil, entry.ErrEntryNotFound{EntryID: entryID}
	}

	now := s.now()
	if err := e.AuthorizeUpdate(upd, now); err != nil {
		return nil, err
	}

	message, err := s.newOutboxMessage(e, shared.EntryActionUpdated, correlationID, now)
	if err != nil {
		return nil, err
	}

	err = s.tx.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := s.entryRepo.WithTx(tx).Update(ctx, e); err != nil {
			return err
		}
		return s.outboxRepo.WithTx(tx).Create(ctx, message)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Updated time entry",
		"entry_id", e.ID.String(),
		"owner_id", e.OwnerID.String(),
	)
	return e, nil
}

// DeleteEntry removes the entry regardless of its age. The outbox message
// carries the final content snapshot so the audit trail retains what was
// deleted.
func (s *EntryServiceImpl) DeleteEntry(ctx context.Context, ownerID, entryID uuid.UUID, correlationID string) error {
	e, err := s.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	if e.OwnerID != ownerID {
		return entry.ErrEntryForbidden{EntryID: entryID}
	}

	message, err := s.newOutboxMessage(e, shared.EntryActionDeleted, correlationID, s.now())
	if err != nil {
		return err
	}

	err = s.tx.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := s.entryRepo.WithTx(tx).Delete(ctx, entryID, ownerID); err != nil {
			return err
		}
		return s.outboxRepo.WithTx(tx).Create(ctx, message)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Deleted time entry",
		"entry_id", entryID.String(),
		"owner_id", ownerID.String(),
	)
	return nil
}

// GetStats aggregates the owner's logged hours against the approved project
// budget
func (s *EntryServiceImpl) GetStats(ctx context.Context, ownerID uuid.UUID, year *int) (*entry.ProjectStats, error) {
	u, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	entries, err := s.ListEntries(ctx, ownerID, year)
	if err != nil {
		return nil, err
	}

	stats := entry.ComputeStats(entries, u.ApprovedCentiHours)
	return &stats, nil
}

// newOutboxMessage snapshots the entry into an event and wraps it in a
// pending outbox message
func (s *EntryServiceImpl) newOutboxMessage(e *entry.Entry, action shared.EntryAction, correlationID string, occurredAt time.Time) (*outbox.Message, error) {
	event := &shared.EntryEvent{
		EventID:             uuid.New(),
		EntryID:             e.ID,
		OwnerID:             e.OwnerID,
		Action:              action,
		Date:                e.Date,
		CentiHours:          e.CentiHours,
		Phase:               string(e.Phase),
		ActivityDescription: e.ActivityDescription,
		TechnicalChallenge:  e.TechnicalChallenge,
		CorrelationID:       correlationID,
		OccurredAt:          occurredAt,
	}
	return outbox.NewMessage(event)
}
