package workflow

import "strings"

// Status represents a lifecycle case status in the workflow.
type Status string

const (
	StatusInProgress      Status = "IN_PROGRESS"
	StatusPendingApproval Status = "PENDING_APPROVAL"
	StatusApproved        Status = "APPROVED"
	StatusCompleted       Status = "COMPLETED"
	StatusRejected        Status = "REJECTED"
	StatusAccessRevoked   Status = "ACCESS_REVOKED"
)

var validStatuses = map[Status]bool{
	StatusInProgress:      true,
	StatusPendingApproval: true,
	StatusApproved:        true,
	StatusCompleted:       true,
	StatusRejected:        true,
	StatusAccessRevoked:   true,
}

var terminalStatuses = map[Status]bool{
	StatusCompleted:     true,
	StatusRejected:      true,
	StatusAccessRevoked: true,
}

// positiveStatuses are the terminal/positive values gated on required
// evidence for disciplinary and offboarding cases.
var positiveStatuses = map[Status]bool{
	StatusApproved:      true,
	StatusCompleted:     true,
	StatusAccessRevoked: true,
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is a valid workflow status.
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// IsTerminal returns true if the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return terminalStatuses[s]
}

// IsPositive returns true if the status is a terminal/positive value that
// required-evidence gating applies to.
func (s Status) IsPositive() bool {
	return positiveStatuses[s]
}

// legacyStatuses maps the free-text spellings the legacy console stored
// onto the enum.
var legacyStatuses = map[string]Status{
	"in progress":      StatusInProgress,
	"pending approval": StatusPendingApproval,
	"pending":          StatusPendingApproval,
	"approved":         StatusApproved,
	"completed":        StatusCompleted,
	"done":             StatusCompleted,
	"rejected":         StatusRejected,
	"access revoked":   StatusAccessRevoked,
}

// NormalizeStatus maps free-text status input from the API boundary onto
// the closed enum, rejecting unrecognized values.
func NormalizeStatus(raw string) (Status, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", NewValidationError("status", "is required")
	}
	if st := Status(strings.ToUpper(strings.ReplaceAll(s, " ", "_"))); st.IsValid() {
		return st, nil
	}
	if st, ok := legacyStatuses[strings.ToLower(s)]; ok {
		return st, nil
	}
	return "", NewValidationError("status", "unrecognized status "+s)
}
