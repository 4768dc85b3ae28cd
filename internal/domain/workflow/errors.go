package workflow

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation is the kind for missing/invalid required fields.
	ErrValidation = errors.New("validation failed")

	// ErrEvidenceIncomplete is the kind for terminal-status attempts
	// without the category's required evidence.
	ErrEvidenceIncomplete = errors.New("required evidence incomplete")

	// ErrApprovalOrder is the kind for out-of-order or wrong-role
	// approval decisions.
	ErrApprovalOrder = errors.New("approval order violation")

	// ErrInvalidTransition is returned when a status transition is not
	// allowed from the current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAutomation is the kind for side effects that failed after
	// validation passed; the record mutation is not committed.
	ErrAutomation = errors.New("automation side effect failed")

	// ErrNotFound is returned when a record id does not resolve.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a versioned write loses a race.
	ErrConflict = errors.New("record version conflict")

	// ErrForbidden is returned when the actor's role may not perform the
	// operation at all (e.g. employee-role actors on mutating calls).
	ErrForbidden = errors.New("actor not permitted")
)

// ValidationError reports one invalid or missing field.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError builds a ValidationError for a field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// EvidenceIncompleteError names the required evidence items still missing.
type EvidenceIncompleteError struct {
	Missing []string
}

func (e *EvidenceIncompleteError) Error() string {
	return fmt.Sprintf("missing required evidence: %s", strings.Join(e.Missing, ", "))
}

func (e *EvidenceIncompleteError) Unwrap() error { return ErrEvidenceIncomplete }

// ApprovalOrderError explains why an approval decision was refused.
type ApprovalOrderError struct {
	Reason string
}

func (e *ApprovalOrderError) Error() string { return e.Reason }

func (e *ApprovalOrderError) Unwrap() error { return ErrApprovalOrder }

// AutomationError wraps a failed side effect, keeping it distinct from
// validation failures so callers can message "saved but sync failed"
// versus "rejected".
type AutomationError struct {
	Effect string
	Err    error
}

func (e *AutomationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Effect, e.Err)
}

func (e *AutomationError) Unwrap() error { return ErrAutomation }
