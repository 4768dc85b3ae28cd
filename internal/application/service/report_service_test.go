package service

import (
	"bytes"
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/peopleops/hris-lifecycle/internal/application/port"
	"github.com/peopleops/hris-lifecycle/internal/domain/entity"
	"github.com/peopleops/hris-lifecycle/internal/domain/workflow"
)

func TestReportService_CaseRegister(t *testing.T) {
	rec := newCaseRecord(workflow.CategoryOffboarding, workflow.StatusAccessRevoked)
	rec.Workflow.Checklist[0].Status = entity.TaskStatusCompleted
	attachEvidence(rec, "Clearance Form.pdf")

	repo := &mockLifecycleRepo{
		listFunc: func(ctx context.Context, filter port.RecordFilter) ([]*entity.LifecycleRecord, error) {
			return []*entity.LifecycleRecord{rec}, nil
		},
	}
	svc := NewReportService(repo, &mockLogger{}).(*reportServiceImpl)
	svc.now = func() time.Time { return testNow }

	data, name, err := svc.CaseRegister(context.Background(), port.RecordFilter{})
	if err != nil {
		t.Fatalf("CaseRegister() unexpected error: %v", err)
	}
	if name != "lifecycle-register-20260310.xlsx" {
		t.Errorf("filename = %s", name)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("workbook did not round-trip: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Case Register")
	if err != nil {
		t.Fatalf("sheet read failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header plus one case", len(rows))
	}
	if len(rows[0]) != len(registerHeaders) {
		t.Errorf("header columns = %d, want %d", len(rows[0]), len(registerHeaders))
	}
	if rows[1][0] != rec.ID || rows[1][1] != rec.Category {
		t.Errorf("case row = %v", rows[1])
	}
	if rows[1][7] != "1/"+strconv.Itoa(len(rec.Workflow.Checklist)) {
		t.Errorf("checklist progress = %s", rows[1][7])
	}
	if rows[1][8] != "1" {
		t.Errorf("evidence count = %s, want 1", rows[1][8])
	}
}

func TestReportService_CaseRegister_Empty(t *testing.T) {
	svc := NewReportService(&mockLifecycleRepo{}, &mockLogger{})

	data, name, err := svc.CaseRegister(context.Background(), port.RecordFilter{Category: "onboarding"})
	if err != nil {
		t.Fatalf("CaseRegister() unexpected error: %v", err)
	}
	if len(data) == 0 {
		t.Error("empty register should still produce a workbook with headers")
	}
	if name == "" {
		t.Error("missing filename")
	}
}
