package workflow

// Trigger represents an event that can cause a status transition.
type Trigger string

const (
	TriggerSubmit       Trigger = "SUBMIT"
	TriggerRecall       Trigger = "RECALL"
	TriggerApprove      Trigger = "APPROVE"
	TriggerReject       Trigger = "REJECT"
	TriggerComplete     Trigger = "COMPLETE"
	TriggerRevokeAccess Trigger = "REVOKE_ACCESS"
)

// String returns the string representation of the trigger.
func (t Trigger) String() string {
	return string(t)
}

// TriggerFor returns the trigger that moves a case to the target status.
// The engine validates direct status patches by replaying them through
// the state machine, so every settable status maps to a trigger.
func TriggerFor(target Status) (Trigger, bool) {
	switch target {
	case StatusPendingApproval:
		return TriggerSubmit, true
	case StatusInProgress:
		return TriggerRecall, true
	case StatusApproved:
		return TriggerApprove, true
	case StatusRejected:
		return TriggerReject, true
	case StatusCompleted:
		return TriggerComplete, true
	case StatusAccessRevoked:
		return TriggerRevokeAccess, true
	default:
		return "", false
	}
}
