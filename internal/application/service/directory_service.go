package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/peopleops/hris-lifecycle/internal/application/port"
	"github.com/peopleops/hris-lifecycle/internal/domain/entity"
	"github.com/peopleops/hris-lifecycle/internal/domain/workflow"
)

// DirectoryService manages employee master records. Writes outside
// lifecycle automation are admin maintenance: seeding the directory and
// correcting bad data.
type DirectoryService interface {
	Create(ctx context.Context, actor entity.Actor, emp *entity.Employee) (*entity.Employee, error)
	Get(ctx context.Context, id string) (*entity.Employee, error)
	GetByEmail(ctx context.Context, email string) (*entity.Employee, error)
	Update(ctx context.Context, actor entity.Actor, id string, patch entity.EmployeePatch) (*entity.Employee, error)
	List(ctx context.Context, filter entity.EmployeeFilter) ([]*entity.Employee, error)
}

type directoryServiceImpl struct {
	directory port.EmployeeDirectory
	logger    Logger
	now       func() time.Time
}

// NewDirectoryService creates a new DirectoryService
func NewDirectoryService(directory port.EmployeeDirectory, logger Logger) DirectoryService {
	return &directoryServiceImpl{
		directory: directory,
		logger:    logger,
		now:       time.Now,
	}
}

// Create registers a new directory record. Work email must be unique.
func (s *directoryServiceImpl) Create(ctx context.Context, actor entity.Actor, emp *entity.Employee) (*entity.Employee, error) {
	if err := authorizeMutation(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(emp.WorkEmail) == "" {
		return nil, workflow.NewValidationError("work_email", "is required")
	}
	if emp.FirstName == "" && emp.LastName == "" {
		return nil, workflow.NewValidationError("name", "first or last name is required")
	}

	if existing, err := s.directory.GetByEmail(ctx, emp.WorkEmail); err != nil && !isNotFound(err) {
		return nil, err
	} else if existing != nil {
		return nil, workflow.NewValidationError("work_email", "is already registered")
	}

	now := s.now()
	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}
	if emp.EmploymentStatus == "" {
		emp.EmploymentStatus = entity.EmploymentStatusActive
	}
	if emp.AccountStatus == "" {
		emp.AccountStatus = entity.AccountStatusEnabled
	}
	emp.CreatedAt = now
	emp.UpdatedAt = now

	if err := s.directory.CreateEmployee(ctx, emp); err != nil {
		s.logger.Error("Failed to create employee", "error", err, "work_email", emp.WorkEmail)
		return nil, err
	}

	s.logger.Info("Employee created", "employee_id", emp.ID, "work_email", emp.WorkEmail)
	return emp, nil
}

// Get retrieves one directory record by ID.
func (s *directoryServiceImpl) Get(ctx context.Context, id string) (*entity.Employee, error) {
	return s.directory.GetEmployee(ctx, id)
}

// GetByEmail retrieves one directory record by work email.
func (s *directoryServiceImpl) GetByEmail(ctx context.Context, email string) (*entity.Employee, error) {
	return s.directory.GetByEmail(ctx, email)
}

// Update applies a partial patch to a directory record.
func (s *directoryServiceImpl) Update(ctx context.Context, actor entity.Actor, id string, patch entity.EmployeePatch) (*entity.Employee, error) {
	if err := authorizeMutation(actor); err != nil {
		return nil, err
	}
	if patch.IsZero() {
		return nil, workflow.NewValidationError("patch", "no fields to update")
	}

	emp, err := s.directory.UpdateEmployee(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Employee updated", "employee_id", id)
	return emp, nil
}

// List retrieves directory records matching the filter.
func (s *directoryServiceImpl) List(ctx context.Context, filter entity.EmployeeFilter) ([]*entity.Employee, error) {
	return s.directory.ListEmployees(ctx, filter)
}
