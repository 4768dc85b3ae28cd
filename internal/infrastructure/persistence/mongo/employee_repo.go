package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/peopleops/hris-lifecycle/internal/application/port"
	"github.com/peopleops/hris-lifecycle/internal/domain/entity"
	"github.com/peopleops/hris-lifecycle/internal/domain/workflow"
)

// EmployeeRepository implements port.EmployeeDirectory on MongoDB.
type EmployeeRepository struct {
	employees *mongo.Collection
	logger    *zap.Logger
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *mongo.Database, logger *zap.Logger) *EmployeeRepository {
	return &EmployeeRepository{
		employees: db.Collection("employees"),
		logger:    logger,
	}
}

// EnsureIndexes creates the collection's indexes. Work email is the
// natural key; it is unique across the directory.
func (r *EmployeeRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "work_email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_work_email"),
		},
		{
			Keys:    bson.D{{Key: "department", Value: 1}},
			Options: options.Index().SetName("department"),
		},
	}
	_, err := r.employees.Indexes().CreateMany(ctx, indexes)
	return err
}

// GetEmployee retrieves one directory record by ID.
func (r *EmployeeRepository) GetEmployee(ctx context.Context, id string) (*entity.Employee, error) {
	var emp entity.Employee
	err := r.employees.FindOne(ctx, bson.M{"_id": id}).Decode(&emp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: employee %s", workflow.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load employee: %w", err)
	}
	return &emp, nil
}

// GetByEmail retrieves one directory record by work email.
func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*entity.Employee, error) {
	var emp entity.Employee
	err := r.employees.FindOne(ctx, bson.M{"work_email": email}).Decode(&emp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: employee %s", workflow.ErrNotFound, email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load employee: %w", err)
	}
	return &emp, nil
}

// CreateEmployee inserts a new directory record.
func (r *EmployeeRepository) CreateEmployee(ctx context.Context, emp *entity.Employee) error {
	if _, err := r.employees.InsertOne(ctx, emp); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return workflow.NewValidationError("work_email", "is already registered")
		}
		r.logger.Error("Failed to insert employee",
			zap.String("work_email", emp.WorkEmail),
			zap.Error(err))
		return fmt.Errorf("failed to insert employee: %w", err)
	}
	return nil
}

// UpdateEmployee applies a partial patch and returns the updated record.
func (r *EmployeeRepository) UpdateEmployee(ctx context.Context, id string, patch entity.EmployeePatch) (*entity.Employee, error) {
	set := bson.M{"updated_at": time.Now()}
	if patch.Role != nil {
		set["role"] = *patch.Role
	}
	if patch.Department != nil {
		set["department"] = *patch.Department
	}
	if patch.EmploymentStatus != nil {
		set["employment_status"] = *patch.EmploymentStatus
	}
	if patch.AccountStatus != nil {
		set["account_status"] = *patch.AccountStatus
	}

	var emp entity.Employee
	err := r.employees.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&emp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: employee %s", workflow.ErrNotFound, id)
	}
	if err != nil {
		r.logger.Error("Failed to update employee",
			zap.String("employee_id", id),
			zap.Error(err))
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	return &emp, nil
}

// ListEmployees retrieves directory records matching the filter.
func (r *EmployeeRepository) ListEmployees(ctx context.Context, filter entity.EmployeeFilter) ([]*entity.Employee, error) {
	query := bson.M{}
	if filter.Department != "" {
		query["department"] = filter.Department
	}
	if filter.EmploymentStatus != "" {
		query["employment_status"] = filter.EmploymentStatus
	}

	cursor, err := r.employees.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "work_email", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer cursor.Close(ctx)

	var employees []*entity.Employee
	if err := cursor.All(ctx, &employees); err != nil {
		return nil, fmt.Errorf("failed to decode employees: %w", err)
	}
	return employees, nil
}

// Verify interface compliance
var _ port.EmployeeDirectory = (*EmployeeRepository)(nil)
