package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/peopleops/hris-lifecycle/internal/application/port"
	"github.com/peopleops/hris-lifecycle/internal/domain/entity"
	"github.com/peopleops/hris-lifecycle/internal/domain/workflow"
)

// LifecycleRepository implements port.LifecycleRepository on MongoDB.
// Records are whole documents; Replace is a compare-and-swap on the
// version field.
type LifecycleRepository struct {
	records *mongo.Collection
	logger  *zap.Logger
}

// NewLifecycleRepository creates a new lifecycle repository
func NewLifecycleRepository(db *mongo.Database, logger *zap.Logger) *LifecycleRepository {
	return &LifecycleRepository{
		records: db.Collection("lifecycle_records"),
		logger:  logger,
	}
}

// EnsureIndexes creates the collection's indexes.
func (r *LifecycleRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("category_status"),
		},
		{
			Keys:    bson.D{{Key: "employee_email", Value: 1}},
			Options: options.Index().SetName("employee_email"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_at_desc"),
		},
	}
	_, err := r.records.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a new record. The record's version starts at 0.
func (r *LifecycleRepository) Create(ctx context.Context, rec *entity.LifecycleRecord) error {
	if _, err := r.records.InsertOne(ctx, rec); err != nil {
		r.logger.Error("Failed to insert lifecycle record",
			zap.String("case_id", rec.ID),
			zap.Error(err))
		return fmt.Errorf("failed to insert lifecycle record: %w", err)
	}
	return nil
}

// GetByID retrieves one record by ID.
func (r *LifecycleRepository) GetByID(ctx context.Context, id string) (*entity.LifecycleRecord, error) {
	var rec entity.LifecycleRecord
	err := r.records.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: lifecycle record %s", workflow.ErrNotFound, id)
	}
	if err != nil {
		r.logger.Error("Failed to load lifecycle record",
			zap.String("case_id", id),
			zap.Error(err))
		return nil, fmt.Errorf("failed to load lifecycle record: %w", err)
	}
	return &rec, nil
}

// Replace writes the record back as a whole document, matching on both
// ID and the expected version. A zero match count means the version
// moved underneath the caller.
func (r *LifecycleRepository) Replace(ctx context.Context, rec *entity.LifecycleRecord, expectedVersion int64) error {
	rec.Version = expectedVersion + 1

	res, err := r.records.ReplaceOne(ctx,
		bson.M{"_id": rec.ID, "version": expectedVersion},
		rec,
	)
	if err != nil {
		rec.Version = expectedVersion
		r.logger.Error("Failed to replace lifecycle record",
			zap.String("case_id", rec.ID),
			zap.Error(err))
		return fmt.Errorf("failed to replace lifecycle record: %w", err)
	}
	if res.MatchedCount == 0 {
		rec.Version = expectedVersion
		// Distinguish a stale version from a missing document.
		count, countErr := r.records.CountDocuments(ctx, bson.M{"_id": rec.ID})
		if countErr == nil && count == 0 {
			return fmt.Errorf("%w: lifecycle record %s", workflow.ErrNotFound, rec.ID)
		}
		return fmt.Errorf("%w: lifecycle record %s version %d is stale",
			workflow.ErrConflict, rec.ID, expectedVersion)
	}
	return nil
}

// List retrieves records matching the filter, most recent first.
func (r *LifecycleRepository) List(ctx context.Context, filter port.RecordFilter) ([]*entity.LifecycleRecord, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.EmployeeEmail != "" {
		query["employee_email"] = filter.EmployeeEmail
	}

	cursor, err := r.records.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		r.logger.Error("Failed to list lifecycle records", zap.Error(err))
		return nil, fmt.Errorf("failed to list lifecycle records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*entity.LifecycleRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode lifecycle records: %w", err)
	}
	return records, nil
}

// Verify interface compliance
var _ port.LifecycleRepository = (*LifecycleRepository)(nil)
