package workflow

// NewExpenseClaimMachine builds the claim lifecycle:
// draft -submit-> submitted -review-> approved -pay-> paid;
// draft, submitted and approved may all be rejected.
func NewExpenseClaimMachine(initialState State) (StateMachine, error) {
	builder := NewBuilder()

	builder.Configure(StateDraft).
		Permit(TriggerSubmit, StateSubmitted).
		Permit(TriggerReject, StateRejected)

	builder.Configure(StateSubmitted).
		Permit(TriggerReview, StateApproved).
		Permit(TriggerReject, StateRejected)

	builder.Configure(StateApproved).
		Permit(TriggerPay, StatePaid).
		Permit(TriggerReject, StateRejected)

	// PAID and REJECTED are terminal

	return builder.Build(initialState)
}

// NewReimbursementMachine builds the reimbursement lifecycle:
// pending -approve-> approved -pay-> paid;
// pending and approved may be rejected.
func NewReimbursementMachine(initialState State) (StateMachine, error) {
	builder := NewBuilder()

	builder.Configure(StatePending).
		Permit(TriggerApprove, StateApproved).
		Permit(TriggerReject, StateRejected)

	builder.Configure(StateApproved).
		Permit(TriggerPay, StatePaid).
		Permit(TriggerReject, StateRejected)

	// PAID and REJECTED are terminal

	return builder.Build(initialState)
}

// NewTopUpMachine builds the top-up lifecycle:
// pending -approve-> approved -complete-> completed. Completing straight
// from pending is the skip-approval fast path; cancellation is a hard
// delete handled outside the machine because it destroys the record.
func NewTopUpMachine(initialState State) (StateMachine, error) {
	builder := NewBuilder()

	builder.Configure(StatePending).
		Permit(TriggerApprove, StateApproved).
		Permit(TriggerComplete, StateCompleted)

	builder.Configure(StateApproved).
		Permit(TriggerComplete, StateCompleted)

	// COMPLETED is terminal

	return builder.Build(initialState)
}
