package event

// Type identifies the type of domain event
type Type string

const (
	TypeCaseCreated     Type = "case.created"
	TypeStatusChanged   Type = "case.status_changed"
	TypeCaseApproved    Type = "case.approved"
	TypeCaseRejected    Type = "case.rejected"
	TypeStageChanged    Type = "case.stage_changed"
	TypeTaskToggled     Type = "case.task_toggled"
	TypeEvidenceAdded   Type = "case.evidence_added"
	TypeEvidenceRemoved Type = "case.evidence_removed"
	TypeCaseOffboarded  Type = "case.offboarded"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeCaseCreated,
		TypeStatusChanged,
		TypeCaseApproved,
		TypeCaseRejected,
		TypeStageChanged,
		TypeTaskToggled,
		TypeEvidenceAdded,
		TypeEvidenceRemoved,
		TypeCaseOffboarded:
		return true
	default:
		return false
	}
}
