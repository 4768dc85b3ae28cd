package workflow

// BuildCaseStateMachine creates a state machine for one lifecycle case.
// The evidence guard is evaluated on every transition into a
// terminal/positive status; pass nil for an ungated machine.
//
// Offboarding is the only category with an ACCESS_REVOKED edge. Status
// patches and the approve/offboard operations all replay through this
// machine, so the transition graph is the single source of truth for
// which status changes are legal.
func BuildCaseStateMachine(category Category, current Status, evidenceGuard GuardFunc) StateMachine {
	builder := NewBuilder()

	inProgress := builder.Configure(StatusInProgress)
	inProgress.
		Permit(TriggerSubmit, StatusPendingApproval).
		Permit(TriggerReject, StatusRejected).
		PermitIf(TriggerApprove, StatusApproved, evidenceGuard).
		PermitIf(TriggerComplete, StatusCompleted, evidenceGuard)

	pending := builder.Configure(StatusPendingApproval)
	pending.
		Permit(TriggerRecall, StatusInProgress).
		Permit(TriggerReject, StatusRejected).
		PermitIf(TriggerApprove, StatusApproved, evidenceGuard)

	approved := builder.Configure(StatusApproved)
	approved.
		PermitIf(TriggerComplete, StatusCompleted, evidenceGuard)

	if category == CategoryOffboarding {
		inProgress.PermitIf(TriggerRevokeAccess, StatusAccessRevoked, evidenceGuard)
		pending.PermitIf(TriggerRevokeAccess, StatusAccessRevoked, evidenceGuard)
		approved.PermitIf(TriggerRevokeAccess, StatusAccessRevoked, evidenceGuard)
	}

	// COMPLETED, REJECTED and ACCESS_REVOKED are terminal - no outgoing transitions

	return builder.Build(current)
}
