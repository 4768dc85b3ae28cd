package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/peopleops/hris-lifecycle/internal/application/port"
	"github.com/peopleops/hris-lifecycle/internal/domain/entity"
	"github.com/peopleops/hris-lifecycle/internal/domain/workflow"
)

// ReportService produces the case-register export: one workbook row per
// lifecycle case, for HR compliance reviews.
type ReportService interface {
	// CaseRegister builds the xlsx workbook for cases matching the filter
	CaseRegister(ctx context.Context, filter port.RecordFilter) ([]byte, string, error)
}

type reportServiceImpl struct {
	repo   port.LifecycleRepository
	logger Logger
	now    func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(repo port.LifecycleRepository, logger Logger) ReportService {
	return &reportServiceImpl{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

var registerHeaders = []string{
	"Case ID", "Category", "Status", "Employee", "Email", "Owner",
	"Stage", "Checklist Done", "Evidence Items", "SLA Due", "SLA Breached",
	"Opened", "Last Updated",
}

// CaseRegister builds the workbook and returns its bytes and a dated
// filename.
func (s *reportServiceImpl) CaseRegister(ctx context.Context, filter port.RecordFilter) ([]byte, string, error) {
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Case Register"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for col, header := range registerHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, "", fmt.Errorf("failed to build header cell: %w", err)
		}
		s.setCell(f, sheet, cell, header)
	}

	for row, rec := range records {
		values := []interface{}{
			rec.ID,
			rec.Category,
			rec.Status,
			rec.EmployeeName,
			rec.EmployeeEmail,
			rec.Owner,
			rec.Workflow.Stage,
			checklistProgress(rec),
			len(rec.Evidence),
			rec.Workflow.SLADueAt.Format("2006-01-02"),
			yesNo(slaBreached(rec, s.now())),
			rec.CreatedAt.Format("2006-01-02"),
			rec.UpdatedAt.Format("2006-01-02"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, "", fmt.Errorf("failed to build data cell: %w", err)
			}
			s.setCell(f, sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to serialize workbook: %w", err)
	}

	name := "lifecycle-register-" + s.now().Format("20060102") + ".xlsx"
	s.logger.Info("Case register exported", "cases", len(records), "file", name)

	return buf.Bytes(), name, nil
}

func (s *reportServiceImpl) setCell(f *excelize.File, sheet, cell string, value interface{}) {
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		s.logger.Error("Failed to set cell value", "sheet", sheet, "cell", cell, "error", err)
	}
}

func checklistProgress(rec *entity.LifecycleRecord) string {
	done := 0
	for _, t := range rec.Workflow.Checklist {
		if t.Status == entity.TaskStatusCompleted {
			done++
		}
	}
	return fmt.Sprintf("%d/%d", done, len(rec.Workflow.Checklist))
}

func slaBreached(rec *entity.LifecycleRecord, now time.Time) bool {
	if workflow.Status(rec.Status).IsTerminal() {
		return rec.Workflow.SLABreached
	}
	return now.After(rec.Workflow.SLADueAt)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
