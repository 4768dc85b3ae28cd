package port

import (
	"context"

	"github.com/peopleops/hris-lifecycle/internal/domain/entity"
)

// RecordFilter narrows lifecycle record listings.
type RecordFilter struct {
	Category      string
	Status        string
	EmployeeEmail string
}

// LifecycleRepository defines persistence operations for LifecycleRecord.
// Records are read and written as whole documents; Replace is a
// compare-and-swap on the record's version and must fail with
// workflow.ErrConflict when the stored version differs from expected.
type LifecycleRepository interface {
	Create(ctx context.Context, rec *entity.LifecycleRecord) error
	GetByID(ctx context.Context, id string) (*entity.LifecycleRecord, error)
	Replace(ctx context.Context, rec *entity.LifecycleRecord, expectedVersion int64) error
	List(ctx context.Context, filter RecordFilter) ([]*entity.LifecycleRecord, error)
}

// EmployeeDirectory defines the engine's view of the employee master
// store. The directory is owned elsewhere; the engine reads it for
// denormalized case fields and writes it only through automation.
type EmployeeDirectory interface {
	GetEmployee(ctx context.Context, id string) (*entity.Employee, error)
	GetByEmail(ctx context.Context, email string) (*entity.Employee, error)
	CreateEmployee(ctx context.Context, emp *entity.Employee) error
	UpdateEmployee(ctx context.Context, id string, patch entity.EmployeePatch) (*entity.Employee, error)
	ListEmployees(ctx context.Context, filter entity.EmployeeFilter) ([]*entity.Employee, error)
}
