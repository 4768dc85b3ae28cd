package http

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/peopleops/hris-lifecycle/internal/application/service"
	"github.com/peopleops/hris-lifecycle/internal/domain/entity"
)

var validate = validator.New()

// CreateCaseRequest is the POST /lifecycle payload.
type CreateCaseRequest struct {
	Category         string           `json:"category" binding:"required"`
	EmployeeRecordID string           `json:"employee_record_id"`
	Details          CaseDetailsInput `json:"details"`
}

// CaseDetailsInput mirrors entity.CaseDetails with validation tags.
type CaseDetailsInput struct {
	EmployeeNumber     string     `json:"employee_number"`
	FirstName          string     `json:"first_name"`
	LastName           string     `json:"last_name"`
	WorkEmail          string     `json:"work_email" validate:"omitempty,email"`
	Role               string     `json:"role"`
	Department         string     `json:"department"`
	StartDate          *time.Time `json:"start_date"`
	ActivateEmployment bool       `json:"activate_employment_now"`

	RoleFrom       string     `json:"role_from"`
	RoleTo         string     `json:"role_to"`
	DepartmentFrom string     `json:"department_from"`
	DepartmentTo   string     `json:"department_to"`
	EffectiveDate  *time.Time `json:"effective_date"`
	Justification  string     `json:"justification"`

	ViolationSummary string     `json:"violation_summary"`
	IncidentDate     *time.Time `json:"incident_date"`

	Reason         string     `json:"reason"`
	LastWorkingDay *time.Time `json:"last_working_day"`

	Note string `json:"note"`
}

func (in CaseDetailsInput) toEntity() entity.CaseDetails {
	return entity.CaseDetails{
		EmployeeNumber:     in.EmployeeNumber,
		FirstName:          in.FirstName,
		LastName:           in.LastName,
		WorkEmail:          in.WorkEmail,
		Role:               in.Role,
		Department:         in.Department,
		StartDate:          in.StartDate,
		ActivateEmployment: in.ActivateEmployment,
		RoleFrom:           in.RoleFrom,
		RoleTo:             in.RoleTo,
		DepartmentFrom:     in.DepartmentFrom,
		DepartmentTo:       in.DepartmentTo,
		EffectiveDate:      in.EffectiveDate,
		Justification:      in.Justification,
		ViolationSummary:   in.ViolationSummary,
		IncidentDate:       in.IncidentDate,
		Reason:             in.Reason,
		LastWorkingDay:     in.LastWorkingDay,
		Note:               in.Note,
	}
}

// WorkflowActionRequest is the embedded workflow command on PATCH.
type WorkflowActionRequest struct {
	Type       string `json:"type" validate:"required,oneof=toggle-task set-stage remove-evidence"`
	TaskID     string `json:"task_id"`
	Completed  *bool  `json:"completed"`
	StageIndex *int   `json:"stage_index"`
	EvidenceID string `json:"evidence_id"`
}

// UpdateCaseRequest is the PATCH /lifecycle/:id payload.
type UpdateCaseRequest struct {
	Category       *string                `json:"category"`
	Status         *string                `json:"status"`
	Details        *entity.DetailsPatch   `json:"details"`
	WorkflowAction *WorkflowActionRequest `json:"workflow_action"`
}

func (r UpdateCaseRequest) toPatch() service.UpdatePatch {
	patch := service.UpdatePatch{
		Category: r.Category,
		Status:   r.Status,
		Details:  r.Details,
	}
	if r.WorkflowAction != nil {
		patch.WorkflowAction = &service.WorkflowAction{
			Type:       r.WorkflowAction.Type,
			TaskID:     r.WorkflowAction.TaskID,
			Completed:  r.WorkflowAction.Completed,
			StageIndex: r.WorkflowAction.StageIndex,
			EvidenceID: r.WorkflowAction.EvidenceID,
		}
	}
	return patch
}

// ApproveRequest is the POST /lifecycle/:id/approve payload.
type ApproveRequest struct {
	Decision string `json:"decision" binding:"required" validate:"oneof=approve reject"`
	Note     string `json:"note"`
}

// OffboardRequest is the POST /lifecycle/:id/offboard payload.
type OffboardRequest struct {
	Reason string `json:"reason"`
}

// CreateEmployeeRequest is the POST /employees payload.
type CreateEmployeeRequest struct {
	EmployeeNumber string     `json:"employee_number" validate:"required"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	WorkEmail      string     `json:"work_email" validate:"required,email"`
	Role           string     `json:"role"`
	Department     string     `json:"department"`
	HiredAt        *time.Time `json:"hired_at"`
}

func (r CreateEmployeeRequest) toEntity() *entity.Employee {
	return &entity.Employee{
		EmployeeNumber: r.EmployeeNumber,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		WorkEmail:      r.WorkEmail,
		Role:           r.Role,
		Department:     r.Department,
		HiredAt:        r.HiredAt,
	}
}

// MutationResponse pairs a record with the automation effects its
// mutation applied.
type MutationResponse struct {
	Record  *entity.LifecycleRecord   `json:"record"`
	Effects []entity.AutomationEffect `json:"effects,omitempty"`
}

func toMutationResponse(res *service.MutationResult) MutationResponse {
	return MutationResponse{
		Record:  res.Record,
		Effects: res.Effects,
	}
}
