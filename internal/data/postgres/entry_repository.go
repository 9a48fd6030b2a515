// Package postgres provides PostgreSQL implementations of the domain repositories.
// It handles all database operations while maintaining transaction safety and
// proper error handling for the time tracking service.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rohith2506/wbso-time-tracker/internal/domain/entry"
	"github.com/rohith2506/wbso-time-tracker/internal/platform/persistence"
)

// EntryRepository implements the entry.Repository interface for PostgreSQL
type EntryRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewEntryRepository creates a new PostgreSQL time entry repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewEntryRepository(logger *slog.Logger, db *persistence.PostgresDB) entry.Repository {
	return &EntryRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic operations
// across multiple repository calls. The returned repository will use the provided
// transaction for all database operations.
func (r *EntryRepository) WithTx(tx pgx.Tx) entry.Repository {
	return &EntryRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new time entry in the database
func (r *EntryRepository) Create(ctx context.Context, e *entry.Entry) error {
	query := `
		INSERT INTO time_entries (id, owner_id, date, centi_hours, project_phase, activity_description, technical_challenge, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.querier.Exec(ctx, query,
		e.ID,
		e.OwnerID,
		e.Date,
		e.CentiHours,
		e.Phase,
		e.ActivityDescription,
		e.TechnicalChallenge,
		e.CreatedAt,
		e.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create time entry", "error", err)
		return fmt.Errorf("failed to create time entry: %w", err)
	}

	return nil
}

// GetByID retrieves a time entry by its ID
func (r *EntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entry.Entry, error) {
	query := `
		SELECT id, owner_id, date, centi_hours, project_phase, activity_description, technical_challenge, created_at, updated_at
		FROM time_entries
		WHERE id = $1
	`

	var e entry.Entry
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&e.ID,
		&e.OwnerID,
		&e.Date,
		&e.CentiHours,
		&e.Phase,
		&e.ActivityDescription,
		&e.TechnicalChallenge,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entry.ErrEntryNotFound{EntryID: id}
		}
		r.logger.Error("Failed to get time entry", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get time entry: %w", err)
	}

	return &e, nil
}

// ListByOwner retrieves all time entries belonging to ownerID, most recent
// work date first
func (r *EntryRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entry.Entry, error) {
	query := `
		SELECT id, owner_id, date, centi_hours, project_phase, activity_description, technical_challenge, created_at, updated_at
		FROM time_entries
		WHERE owner_id = $1
		ORDER BY date DESC, created_at DESC
	`

	rows, err := r.querier.Query(ctx, query, ownerID)
	if err != nil {
		r.logger.Error("Failed to list time entries", "owner_id", ownerID.String(), "error", err)
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListByOwnerAndYear retrieves the owner's entries whose work date falls in
// the given calendar year. The date range predicate keeps the query on the
// (owner_id, date) index.
func (r *EntryRepository) ListByOwnerAndYear(ctx context.Context, ownerID uuid.UUID, year int) ([]*entry.Entry, error) {
	query := `
		SELECT id, owner_id, date, centi_hours, project_phase, activity_description, technical_challenge, created_at, updated_at
		FROM time_entries
		WHERE owner_id = $1 AND date >= $2 AND date < $3
		ORDER BY date DESC, created_at DESC
	`

	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	nextYearStart := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)

	rows, err := r.querier.Query(ctx, query, ownerID, yearStart, nextYearStart)
	if err != nil {
		r.logger.Error("Failed to list time entries by year", "owner_id", ownerID.String(), "year", year, "error", err)
		return nil, fmt.Errorf("failed to list time entries by year: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Update persists the content fields of e. The edit window is enforced in the
// WHERE clause against the database clock, so the check holds at the instant
// the write lands: rows older than the window match nothing and the update is
// refused.
func (r *EntryRepository) Update(ctx context.Context, e *entry.Entry) error {
	query := `
		UPDATE time_entries
		SET date = $1, centi_hours = $2, project_phase = $3, activity_description = $4, technical_challenge = $5, updated_at = $6
		WHERE id = $7 AND owner_id = $8 AND created_at >= now() - make_interval(secs => $9)
	`

	result, err := r.querier.Exec(ctx, query,
		e.Date,
		e.CentiHours,
		e.Phase,
		e.ActivityDescription,
		e.TechnicalChallenge,
		e.UpdatedAt,
		e.ID,
		e.OwnerID,
		entry.EditWindow.Seconds(),
	)
	if err != nil {
		r.logger.Error("Failed to update time entry", "id", e.ID.String(), "error", err)
		return fmt.Errorf("failed to update time entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Distinguish a locked entry from a missing one. An entry owned by
		// someone else is reported as not found rather than revealed.
		var exists bool
		checkQuery := `SELECT EXISTS (SELECT 1 FROM time_entries WHERE id = $1 AND owner_id = $2)`
		if checkErr := r.querier.QueryRow(ctx, checkQuery, e.ID, e.OwnerID).Scan(&exists); checkErr != nil {
			r.logger.Error("Failed to check time entry existence after refused update", "id", e.ID.String(), "error", checkErr)
			return fmt.Errorf("failed to check time entry existence: %w", checkErr)
		}
		if exists {
			return entry.ErrEntryLocked{EntryID: e.ID}
		}
		return entry.ErrEntryNotFound{EntryID: e.ID}
	}

	return nil
}

// Delete removes the entry if it is owned by ownerID. Deletion is not subject
// to the edit window.
func (r *EntryRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	query := `DELETE FROM time_entries WHERE id = $1 AND owner_id = $2`

	result, err := r.querier.Exec(ctx, query, id, ownerID)
	if err != nil {
		r.logger.Error("Failed to delete time entry", "id", id.String(), "error", err)
		return fmt.Errorf("failed to delete time entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		var exists bool
		checkQuery := `SELECT EXISTS (SELECT 1 FROM time_entries WHERE id = $1)`
		if checkErr := r.querier.QueryRow(ctx, checkQuery, id).Scan(&exists); checkErr != nil {
			r.logger.Error("Failed to check time entry existence after refused delete", "id", id.String(), "error", checkErr)
			return fmt.Errorf("failed to check time entry existence: %w", checkErr)
		}
		if exists {
			return entry.ErrEntryForbidden{EntryID: id}
		}
		return entry.ErrEntryNotFound{EntryID: id}
	}

	return nil
}

func scanEntries(rows pgx.Rows) ([]*entry.Entry, error) {
	var entries []*entry.Entry
	for rows.Next() {
		var e entry.Entry
		if err := rows.Scan(
			&e.ID,
			&e.OwnerID,
			&e.Date,
			&e.CentiHours,
			&e.Phase,
			&e.ActivityDescription,
			&e.TechnicalChallenge,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan time entry row: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate time entry rows: %w", err)
	}
	return entries, nil
}
