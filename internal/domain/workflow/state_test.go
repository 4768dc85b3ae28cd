package workflow

import (
	"errors"
	"testing"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    Status
		wantErr bool
	}{
		{raw: "IN_PROGRESS", want: StatusInProgress},
		{raw: "in_progress", want: StatusInProgress},
		{raw: "in progress", want: StatusInProgress},
		{raw: "Pending Approval", want: StatusPendingApproval},
		{raw: "pending", want: StatusPendingApproval},
		{raw: "approved", want: StatusApproved},
		{raw: "done", want: StatusCompleted},
		{raw: "Completed", want: StatusCompleted},
		{raw: "rejected", want: StatusRejected},
		{raw: "access revoked", want: StatusAccessRevoked},
		{raw: "ACCESS_REVOKED", want: StatusAccessRevoked},
		{raw: "  approved  ", want: StatusApproved},
		{raw: "", wantErr: true},
		{raw: "archived", wantErr: true},
		{raw: "garbage", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizeStatus(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("NormalizeStatus(%q) error = %v, want %v", tt.raw, err, ErrValidation)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeStatus(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeStatus(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestStatusClassification(t *testing.T) {
	terminal := map[Status]bool{
		StatusCompleted:     true,
		StatusRejected:      true,
		StatusAccessRevoked: true,
	}
	positive := map[Status]bool{
		StatusApproved:      true,
		StatusCompleted:     true,
		StatusAccessRevoked: true,
	}

	for s := range validStatuses {
		if s.IsTerminal() != terminal[s] {
			t.Errorf("%s IsTerminal() = %v, want %v", s, s.IsTerminal(), terminal[s])
		}
		if s.IsPositive() != positive[s] {
			t.Errorf("%s IsPositive() = %v, want %v", s, s.IsPositive(), positive[s])
		}
	}

	if Status("ARCHIVED").IsValid() {
		t.Error("unknown status reported valid")
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		raw     string
		want    Category
		wantErr bool
	}{
		{raw: "onboarding", want: CategoryOnboarding},
		{raw: "Onboarding", want: CategoryOnboarding},
		{raw: "new hire", want: CategoryOnboarding},
		{raw: "role_change", want: CategoryRoleChange},
		{raw: "promotion", want: CategoryRoleChange},
		{raw: "department transfer", want: CategoryRoleChange},
		{raw: "disciplinary", want: CategoryDisciplinary},
		{raw: "Disciplinary Action", want: CategoryDisciplinary},
		{raw: "offboarding", want: CategoryOffboarding},
		{raw: "resignation", want: CategoryOffboarding},
		{raw: "termination", want: CategoryOffboarding},
		{raw: "", wantErr: true},
		{raw: "sabbatical", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizeCategory(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("NormalizeCategory(%q) error = %v, want %v", tt.raw, err, ErrValidation)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeCategory(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeCategory(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestTriggerFor(t *testing.T) {
	for status := range validStatuses {
		trigger, ok := TriggerFor(status)
		if !ok {
			t.Errorf("TriggerFor(%s) has no trigger; every settable status needs one", status)
			continue
		}
		if trigger == "" {
			t.Errorf("TriggerFor(%s) returned empty trigger", status)
		}
	}

	if _, ok := TriggerFor(Status("ARCHIVED")); ok {
		t.Error("TriggerFor accepted an unknown status")
	}
}
