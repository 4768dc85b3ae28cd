package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/peopleops/hris-lifecycle/internal/application/port"
	"github.com/peopleops/hris-lifecycle/internal/domain/entity"
	"github.com/peopleops/hris-lifecycle/internal/domain/workflow"
)

// Retention window stamped on offboarded records. Records are never
// hard-deleted; a downstream archival job acts on the stamp.
const retentionWindow = 7 * 365 * 24 * time.Hour

// Automator applies directory side effects for status transitions. It
// runs inside the mutation, before persistence: a failed side effect
// aborts the whole operation so the record never claims an effect that
// did not land.
type Automator struct {
	directory port.EmployeeDirectory
	logger    Logger
	now       func() time.Time
}

// NewAutomator creates a new Automator
func NewAutomator(directory port.EmployeeDirectory, logger Logger) *Automator {
	return &Automator{
		directory: directory,
		logger:    logger,
		now:       time.Now,
	}
}

// OnStatusChange runs the category automation bound to the target status.
// Statuses with no automation return nil effects.
func (a *Automator) OnStatusChange(ctx context.Context, rec *entity.LifecycleRecord, target workflow.Status) ([]entity.AutomationEffect, error) {
	category := workflow.Category(rec.Category)

	switch {
	case category == workflow.CategoryOnboarding && target == workflow.StatusApproved:
		return a.ActivateEmployment(ctx, rec)
	case category == workflow.CategoryRoleChange && target == workflow.StatusApproved:
		return a.SyncRoleChange(ctx, rec)
	case category == workflow.CategoryOffboarding && target == workflow.StatusAccessRevoked:
		return a.RevokeAccess(ctx, rec)
	default:
		return nil, nil
	}
}

// ActivateEmployment creates (or reactivates) the subject's directory
// record with an enabled account. Idempotent on re-approval: an existing
// directory record is patched rather than duplicated.
func (a *Automator) ActivateEmployment(ctx context.Context, rec *entity.LifecycleRecord) ([]entity.AutomationEffect, error) {
	d := rec.Details
	now := a.now()

	existing, err := a.directory.GetByEmail(ctx, d.WorkEmail)
	if err != nil && !isNotFound(err) {
		return nil, &workflow.AutomationError{Effect: entity.EffectAccountActivated, Err: err}
	}

	if existing != nil {
		active := entity.EmploymentStatusActive
		enabled := entity.AccountStatusEnabled
		patch := entity.EmployeePatch{
			Role:             &d.Role,
			Department:       &d.Department,
			EmploymentStatus: &active,
			AccountStatus:    &enabled,
		}
		if _, err := a.directory.UpdateEmployee(ctx, existing.ID, patch); err != nil {
			return nil, &workflow.AutomationError{Effect: entity.EffectAccountActivated, Err: err}
		}
		rec.EmployeeRecordID = existing.ID
	} else {
		emp := &entity.Employee{
			ID:               uuid.NewString(),
			EmployeeNumber:   d.EmployeeNumber,
			FirstName:        d.FirstName,
			LastName:         d.LastName,
			WorkEmail:        d.WorkEmail,
			Role:             d.Role,
			Department:       d.Department,
			EmploymentStatus: entity.EmploymentStatusActive,
			AccountStatus:    entity.AccountStatusEnabled,
			HiredAt:          d.StartDate,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := a.directory.CreateEmployee(ctx, emp); err != nil {
			return nil, &workflow.AutomationError{Effect: entity.EffectAccountActivated, Err: err}
		}
		rec.EmployeeRecordID = emp.ID
	}

	a.logger.Info("Employment activated",
		"case_id", rec.ID,
		"work_email", d.WorkEmail,
	)

	return []entity.AutomationEffect{
		{
			Type:    entity.EffectAccountActivated,
			Message: fmt.Sprintf("account %s activated in %s as %s", d.WorkEmail, d.Department, d.Role),
		},
	}, nil
}

// SyncRoleChange writes the approved target role and department to the
// subject's directory record.
func (a *Automator) SyncRoleChange(ctx context.Context, rec *entity.LifecycleRecord) ([]entity.AutomationEffect, error) {
	d := rec.Details
	var patch entity.EmployeePatch
	var effects []entity.AutomationEffect

	if d.RoleTo != "" {
		patch.Role = &d.RoleTo
		effects = append(effects, entity.AutomationEffect{
			Type:    entity.EffectRoleSynced,
			Message: fmt.Sprintf("role changed from %s to %s", orUnset(d.RoleFrom), d.RoleTo),
		})
	}
	if d.DepartmentTo != "" {
		patch.Department = &d.DepartmentTo
		effects = append(effects, entity.AutomationEffect{
			Type:    entity.EffectDepartmentSynced,
			Message: fmt.Sprintf("department changed from %s to %s", orUnset(d.DepartmentFrom), d.DepartmentTo),
		})
	}
	if patch.IsZero() {
		return nil, nil
	}

	if _, err := a.directory.UpdateEmployee(ctx, rec.EmployeeRecordID, patch); err != nil {
		return nil, &workflow.AutomationError{Effect: entity.EffectRoleSynced, Err: err}
	}

	a.logger.Info("Role change synced",
		"case_id", rec.ID,
		"employee_record_id", rec.EmployeeRecordID,
	)

	return effects, nil
}

// RevokeAccess disables the subject's account, marks employment
// terminated, and stamps the record's retention schedule.
func (a *Automator) RevokeAccess(ctx context.Context, rec *entity.LifecycleRecord) ([]entity.AutomationEffect, error) {
	terminated := entity.EmploymentStatusTerminated
	disabled := entity.AccountStatusDisabled
	patch := entity.EmployeePatch{
		EmploymentStatus: &terminated,
		AccountStatus:    &disabled,
	}
	if _, err := a.directory.UpdateEmployee(ctx, rec.EmployeeRecordID, patch); err != nil {
		return nil, &workflow.AutomationError{Effect: entity.EffectAccessRevoked, Err: err}
	}

	deleteAt := a.now().Add(retentionWindow)
	rec.RetentionDeleteAt = &deleteAt

	a.logger.Info("Access revoked",
		"case_id", rec.ID,
		"employee_record_id", rec.EmployeeRecordID,
		"retention_delete_at", deleteAt,
	)

	return []entity.AutomationEffect{
		{
			Type:    entity.EffectAccessRevoked,
			Message: fmt.Sprintf("account for %s disabled, employment terminated", rec.EmployeeEmail),
		},
		{
			Type:    entity.EffectArchivalScheduled,
			Message: "record scheduled for archival on " + deleteAt.Format("2006-01-02"),
		},
	}, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, workflow.ErrNotFound)
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}
