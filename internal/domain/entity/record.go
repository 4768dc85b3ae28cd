package entity

import "time"

// LifecycleRecord is one employment lifecycle case: a single onboarding,
// role-change, disciplinary, or offboarding workflow for one employee.
// The record is the unit of persistence; all workflow sub-state is
// embedded and written back as a whole document.
type LifecycleRecord struct {
	ID               string `json:"id" bson:"_id"`
	EmployeeRecordID string `json:"employee_record_id" bson:"employee_record_id"`
	EmployeeEmail    string `json:"employee_email" bson:"employee_email"`
	EmployeeName     string `json:"employee_name" bson:"employee_name"`

	// Category and Status hold the canonical enum values from the
	// workflow package; they are stored as strings so the document
	// round-trips without a custom codec.
	Category string `json:"category" bson:"category"`
	Status   string `json:"status" bson:"status"`

	Owner   string      `json:"owner" bson:"owner"`
	Details CaseDetails `json:"details" bson:"details"`

	Workflow WorkflowState `json:"workflow" bson:"workflow"`
	Evidence []Evidence    `json:"evidence" bson:"evidence"`

	// Traceability is append-only. Entries are never rewritten or
	// reordered; every successful mutation appends exactly one.
	Traceability []TrailEntry `json:"traceability" bson:"traceability"`

	LastAutomationEffects []AutomationEffect `json:"last_automation_effects,omitempty" bson:"last_automation_effects,omitempty"`
	LastAutomationAt      *time.Time         `json:"last_automation_at,omitempty" bson:"last_automation_at,omitempty"`

	// RetentionDeleteAt is stamped by offboarding automation; records are
	// never hard-deleted, archival is a status plus this schedule.
	RetentionDeleteAt *time.Time `json:"retention_delete_at,omitempty" bson:"retention_delete_at,omitempty"`

	// Version is the optimistic-concurrency token. Every successful
	// write increments it; a stale write fails with a conflict.
	Version int64 `json:"version" bson:"version"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// WorkflowState is the embedded stage/checklist/approval sub-state of a case.
type WorkflowState struct {
	Stage         string          `json:"stage" bson:"stage"`
	StageIndex    int             `json:"stage_index" bson:"stage_index"`
	Stages        []string        `json:"stages" bson:"stages"`
	Checklist     []ChecklistTask `json:"checklist" bson:"checklist"`
	ApprovalChain []ApprovalStep  `json:"approval_chain,omitempty" bson:"approval_chain,omitempty"`
	SLADueAt      time.Time       `json:"sla_due_at" bson:"sla_due_at"`
	SLABreached   bool            `json:"sla_breached" bson:"sla_breached"`
}

// ChecklistTask is one templated task on a case checklist. Required tasks
// gate stage-completion reporting, not status transitions.
type ChecklistTask struct {
	ID       string     `json:"id" bson:"id"`
	Label    string     `json:"label" bson:"label"`
	Status   string     `json:"status" bson:"status"`
	Required bool       `json:"required" bson:"required"`
	DueAt    *time.Time `json:"due_at,omitempty" bson:"due_at,omitempty"`
}

// ApprovalStep is one role-bound step in an ordered sign-off chain. At most
// one step is pending at a time; all steps before it are approved and no
// step after it is decided.
type ApprovalStep struct {
	Order     int        `json:"order" bson:"order"`
	Role      string     `json:"role" bson:"role"`
	Status    string     `json:"status" bson:"status"`
	DecidedBy string     `json:"decided_by,omitempty" bson:"decided_by,omitempty"`
	DecidedAt *time.Time `json:"decided_at,omitempty" bson:"decided_at,omitempty"`
	Note      string     `json:"note,omitempty" bson:"note,omitempty"`
}

// Evidence is one uploaded supporting document attached to a case.
type Evidence struct {
	ID          string    `json:"id" bson:"id"`
	Name        string    `json:"name" bson:"name"`
	Type        string    `json:"type" bson:"type"`
	Note        string    `json:"note,omitempty" bson:"note,omitempty"`
	Ref         string    `json:"ref" bson:"ref"`
	StoragePath string    `json:"storage_path" bson:"storage_path"`
	ContentType string    `json:"content_type" bson:"content_type"`
	SizeBytes   int64     `json:"size_bytes" bson:"size_bytes"`
	UploadedAt  time.Time `json:"uploaded_at" bson:"uploaded_at"`
	UploadedBy  string    `json:"uploaded_by" bson:"uploaded_by"`
}

// TrailEntry is one append-only traceability record.
type TrailEntry struct {
	Action  string    `json:"action" bson:"action"`
	Status  string    `json:"status" bson:"status"`
	Detail  string    `json:"detail,omitempty" bson:"detail,omitempty"`
	ByEmail string    `json:"by_email" bson:"by_email"`
	ByName  string    `json:"by_name" bson:"by_name"`
	At      time.Time `json:"at" bson:"at"`
}

// AutomationEffect is one human-readable side effect applied by a
// transition, returned to the caller for display and retained on the
// record as the most recent batch only.
type AutomationEffect struct {
	Type    string `json:"type" bson:"type"`
	Message string `json:"message" bson:"message"`
}

// Automation effect type constants
const (
	EffectAccountActivated  = "ACCOUNT_ACTIVATED"
	EffectRoleSynced        = "ROLE_SYNCED"
	EffectDepartmentSynced  = "DEPARTMENT_SYNCED"
	EffectAccessRevoked     = "ACCESS_REVOKED"
	EffectArchivalScheduled = "ARCHIVAL_SCHEDULED"
)

// PendingStep returns the current pending approval step, or nil when the
// chain is empty, exhausted, or halted.
func (r *LifecycleRecord) PendingStep() *ApprovalStep {
	for i := range r.Workflow.ApprovalChain {
		if r.Workflow.ApprovalChain[i].Status == StepStatusPending {
			return &r.Workflow.ApprovalChain[i]
		}
	}
	return nil
}

// FindTask returns the checklist task with the given ID, or nil.
func (r *LifecycleRecord) FindTask(taskID string) *ChecklistTask {
	for i := range r.Workflow.Checklist {
		if r.Workflow.Checklist[i].ID == taskID {
			return &r.Workflow.Checklist[i]
		}
	}
	return nil
}

// FindEvidence returns the evidence item with the given ID, or nil.
func (r *LifecycleRecord) FindEvidence(evidenceID string) *Evidence {
	for i := range r.Evidence {
		if r.Evidence[i].ID == evidenceID {
			return &r.Evidence[i]
		}
	}
	return nil
}

// RequiredTasksComplete reports whether every required checklist task is
// completed. Informational: it feeds stage-completion reporting and does
// not gate status transitions.
func (r *LifecycleRecord) RequiredTasksComplete() bool {
	for _, t := range r.Workflow.Checklist {
		if t.Required && t.Status != TaskStatusCompleted {
			return false
		}
	}
	return true
}

// AppendTrail appends one traceability entry stamped with the actor and
// the record's status at the time of the action.
func (r *LifecycleRecord) AppendTrail(action, detail string, actor Actor, at time.Time) {
	r.Traceability = append(r.Traceability, TrailEntry{
		Action:  action,
		Status:  r.Status,
		Detail:  detail,
		ByEmail: actor.Email,
		ByName:  actor.Name,
		At:      at,
	})
}

// Actor identifies who performs an operation. It is bound from request
// identity headers; it is display/audit data plus the role used for
// approval-chain matching, not a session primitive.
type Actor struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// System is the actor recorded for automation-driven trail entries.
var System = Actor{Email: "system@hris.local", Name: "System", Role: RoleAdmin}
