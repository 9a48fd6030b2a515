package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rohith2506/wbso-time-tracker/internal/domain/audit"
	"github.com/rohith2506/wbso-time-tracker/internal/domain/entry"
)

// HistoryServiceImpl implements the HistoryService interface by reading the
// audit trail the processor writes to MongoDB
type HistoryServiceImpl struct {
	auditRepo audit.Repository
	logger    *slog.Logger
}

// NewHistoryService creates a new audit history service
func NewHistoryService(logger *slog.Logger, auditRepo audit.Repository) HistoryService {
	return &HistoryServiceImpl{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// EntryHistory returns the recorded mutations of a single time entry, oldest
// first. The records outlive the entry, so a deleted entry still answers with
// its trail ending in the delete action. An entry owned by someone else is
// indistinguishable from a missing one.
func (s *HistoryServiceImpl) EntryHistory(ctx context.Context, ownerID, entryID uuid.UUID) ([]*audit.Record, error) {
	records, err := s.auditRepo.ListByEntryID(ctx, entryID)
	if err != nil {
		s.logger.Error("Failed to load entry history",
			"entry_id", entryID.String(),
			"error", err)
		return nil, err
	}

	for _, r := range records {
		if r.OwnerID != ownerID {
			return nil, entry.ErrEntryNotFound{EntryID: entryID}
		}
	}

	return records, nil
}

// OwnerHistory retrieves a paginated page of the owner's audit trail across
// all their entries, newest first.
// Returns records, total count, and any error.
func (s *HistoryServiceImpl) OwnerHistory(ctx context.Context, ownerID uuid.UUID, page, perPage int) ([]*audit.Record, int64, error) {
	offset := (page - 1) * perPage

	records, err := s.auditRepo.ListByOwnerID(ctx, ownerID, perPage, offset)
	if err != nil {
		s.logger.Error("Failed to load owner history",
			"owner_id", ownerID.String(),
			"error", err)
		return nil, 0, err
	}

	total, err := s.auditRepo.CountByOwnerID(ctx, ownerID)
	if err != nil {
		s.logger.Error("Failed to count owner history",
			"owner_id", ownerID.String(),
			"error", err)
		return nil, 0, err
	}

	return records, total, nil
}
