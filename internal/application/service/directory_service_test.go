package service

import (
	"context"
	"errors"
	"testing"

	"github.com/peopleops/hris-lifecycle/internal/domain/entity"
	"github.com/peopleops/hris-lifecycle/internal/domain/workflow"
)

func TestDirectoryService_Create(t *testing.T) {
	tests := []struct {
		name    string
		actor   entity.Actor
		emp     *entity.Employee
		setup   func(*mockDirectory)
		wantErr error
	}{
		{
			name:  "valid employee",
			actor: actorHR,
			emp: &entity.Employee{
				EmployeeNumber: "E-2001",
				FirstName:      "Noel",
				LastName:       "Garcia",
				WorkEmail:      "noel.garcia@corp.test",
			},
		},
		{
			name:    "employee role actors are blocked",
			actor:   entity.Actor{Email: "staff@corp.test", Role: entity.RoleEmployee},
			emp:     &entity.Employee{WorkEmail: "x@corp.test", FirstName: "X"},
			wantErr: workflow.ErrForbidden,
		},
		{
			name:    "missing work email",
			actor:   actorHR,
			emp:     &entity.Employee{FirstName: "Noel"},
			wantErr: workflow.ErrValidation,
		},
		{
			name:    "missing name",
			actor:   actorHR,
			emp:     &entity.Employee{WorkEmail: "noel.garcia@corp.test"},
			wantErr: workflow.ErrValidation,
		},
		{
			name:  "duplicate work email",
			actor: actorHR,
			emp:   &entity.Employee{WorkEmail: "taken@corp.test", FirstName: "Noel"},
			setup: func(d *mockDirectory) {
				d.getByEmailFunc = func(ctx context.Context, email string) (*entity.Employee, error) {
					return &entity.Employee{ID: "emp-9", WorkEmail: email}, nil
				}
			},
			wantErr: workflow.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			directory := &mockDirectory{}
			if tt.setup != nil {
				tt.setup(directory)
			}
			svc := NewDirectoryService(directory, &mockLogger{})

			got, err := svc.Create(context.Background(), tt.actor, tt.emp)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Create() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() unexpected error: %v", err)
			}

			if got.ID == "" {
				t.Error("no id generated")
			}
			if got.EmploymentStatus != entity.EmploymentStatusActive {
				t.Errorf("employment status = %s, want %s", got.EmploymentStatus, entity.EmploymentStatusActive)
			}
			if got.AccountStatus != entity.AccountStatusEnabled {
				t.Errorf("account status = %s, want %s", got.AccountStatus, entity.AccountStatusEnabled)
			}
			if len(directory.created) != 1 {
				t.Errorf("directory creates = %d, want 1", len(directory.created))
			}
		})
	}
}

func TestDirectoryService_Update(t *testing.T) {
	directory := &mockDirectory{}
	svc := NewDirectoryService(directory, &mockLogger{})

	_, err := svc.Update(context.Background(), actorHR, "emp-1", entity.EmployeePatch{})
	if !errors.Is(err, workflow.ErrValidation) {
		t.Fatalf("Update() with empty patch error = %v, want %v", err, workflow.ErrValidation)
	}

	role := "Lead Analyst"
	if _, err := svc.Update(context.Background(), actorHR, "emp-1", entity.EmployeePatch{Role: &role}); err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if len(directory.patches) != 1 {
		t.Fatalf("patches applied = %d, want 1", len(directory.patches))
	}
	if p := directory.patches[0]; p.Role == nil || *p.Role != role {
		t.Errorf("patch = %+v, want role %s", p, role)
	}
}
