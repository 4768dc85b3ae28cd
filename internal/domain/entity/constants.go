package entity

// Checklist task status constants
const (
	TaskStatusPending   = "PENDING"
	TaskStatusCompleted = "COMPLETED"
)

// Approval step status constants. WAITING marks steps behind the single
// pending step; they become PENDING one at a time as the chain advances.
const (
	StepStatusWaiting  = "WAITING"
	StepStatusPending  = "PENDING"
	StepStatusApproved = "APPROVED"
	StepStatusRejected = "REJECTED"
)

// Employment status constants for directory records
const (
	EmploymentStatusActive     = "ACTIVE"
	EmploymentStatusOnLeave    = "ON_LEAVE"
	EmploymentStatusSuspended  = "SUSPENDED"
	EmploymentStatusTerminated = "TERMINATED"
)

// Account status constants for directory records
const (
	AccountStatusEnabled  = "ENABLED"
	AccountStatusDisabled = "DISABLED"
)

// Actor role constants. Roles arrive from the identity layer; the engine
// only distinguishes them for mutation authorization and approval-chain
// matching.
const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleHR       = "hr"
	RoleDirector = "director"
	RoleAdmin    = "admin"
)

// Trail action constants
const (
	TrailActionCreated         = "CASE_CREATED"
	TrailActionStatusChanged   = "STATUS_CHANGED"
	TrailActionDetailsUpdated  = "DETAILS_UPDATED"
	TrailActionTaskToggled     = "TASK_TOGGLED"
	TrailActionStageChanged    = "STAGE_CHANGED"
	TrailActionEvidenceAdded   = "EVIDENCE_ADDED"
	TrailActionEvidenceRemoved = "EVIDENCE_REMOVED"
	TrailActionApprovalGranted = "APPROVAL_GRANTED"
	TrailActionApprovalDenied  = "APPROVAL_DENIED"
	TrailActionOffboarded      = "OFFBOARDED"
)

// Notification status constants
const (
	NotificationStatusPending = "PENDING"
	NotificationStatusSent    = "SENT"
	NotificationStatusFailed  = "FAILED"
)
