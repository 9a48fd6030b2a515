package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rohith2506/wbso-time-tracker/internal/domain/audit"
)

const (
	// AuditCollectionName is the name of the audit trail collection in MongoDB
	AuditCollectionName = "entry_audit_records"
)

// AuditRepository implements the audit.Repository interface for MongoDB
type AuditRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewAuditRepository creates a new MongoDB audit repository
func NewAuditRepository(logger *slog.Logger, db *mongo.Database) audit.Repository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new audit record after checking for duplicates.
// Returns ErrDuplicateRecord if a record with the same event ID exists, which
// makes redelivered events safe to replay.
func (r *AuditRepository) Create(ctx context.Context, record *audit.Record) error {
	collection := r.db.Collection(AuditCollectionName)

	existing, err := r.GetByEventID(ctx, record.EventID)
	if err != nil && !errors.Is(err, audit.ErrRecordNotFound{}) {
		r.logger.Error("Failed to check for existing audit record",
			"event_id", record.EventID.String(),
			"error", err)
		return fmt.Errorf("failed to check for existing audit record: %w", err)
	}

	if existing != nil {
		return audit.ErrDuplicateRecord{EventID: record.EventID}
	}

	_, err = collection.InsertOne(ctx, record)
	if err != nil {
		r.logger.Error("Failed to create audit record",
			"event_id", record.EventID.String(),
			"error", err)
		return fmt.Errorf("failed to create audit record: %w", err)
	}

	return nil
}

// GetByEventID retrieves an audit record by its event ID.
// Returns ErrRecordNotFound if no record exists for the given event.
func (r *AuditRepository) GetByEventID(ctx context.Context, eventID uuid.UUID) (*audit.Record, error) {
	collection := r.db.Collection(AuditCollectionName)

	filter := bson.M{"event_id": eventID}
	var record audit.Record
	err := collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, audit.ErrRecordNotFound{EventID: eventID}
		}
		r.logger.Error("Failed to get audit record",
			"event_id", eventID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get audit record: %w", err)
	}

	return &record, nil
}

// ListByEntryID retrieves the full mutation history of a single time entry,
// oldest first
func (r *AuditRepository) ListByEntryID(ctx context.Context, entryID uuid.UUID) ([]*audit.Record, error) {
	collection := r.db.Collection(AuditCollectionName)

	filter := bson.M{"entry_id": entryID}
	opts := options.Find().SetSort(bson.M{"occurred_at": 1})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list audit records by entry",
			"entry_id", entryID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to list audit records by entry: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*audit.Record
	if err := cursor.All(ctx, &records); err != nil {
		r.logger.Error("Failed to decode audit records",
			"entry_id", entryID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode audit records: %w", err)
	}

	return records, nil
}

// ListByOwnerID retrieves paginated audit records for an owner.
// Results are sorted by occurrence time in descending order (newest first).
func (r *AuditRepository) ListByOwnerID(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*audit.Record, error) {
	collection := r.db.Collection(AuditCollectionName)

	filter := bson.M{"owner_id": ownerID}
	opts := options.Find().
		SetSort(bson.M{"occurred_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list audit records by owner",
			"owner_id", ownerID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to list audit records by owner: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*audit.Record
	if err := cursor.All(ctx, &records); err != nil {
		r.logger.Error("Failed to decode audit records",
			"owner_id", ownerID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode audit records: %w", err)
	}

	return records, nil
}

// CountByOwnerID counts the total number of audit records for an owner
func (r *AuditRepository) CountByOwnerID(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	collection := r.db.Collection(AuditCollectionName)

	filter := bson.M{"owner_id": ownerID}
	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to count audit records",
			"owner_id", ownerID.String(),
			"error", err)
		return 0, fmt.Errorf("failed to count audit records: %w", err)
	}

	return count, nil
}
