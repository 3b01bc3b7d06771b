package event

// Type identifies the type of domain event
type Type string

const (
	TypeExpenseSubmitted      Type = "expense.submitted"
	TypeExpensePaid           Type = "expense.paid"
	TypeExpenseRejected       Type = "expense.rejected"
	TypeReimbursementApproved Type = "reimbursement.approved"
	TypeReimbursementPaid     Type = "reimbursement.paid"
	TypeTopUpCompleted        Type = "topup.completed"
	TypeWalletLowBalance      Type = "wallet.low_balance"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeExpenseSubmitted,
		TypeExpensePaid,
		TypeExpenseRejected,
		TypeReimbursementApproved,
		TypeReimbursementPaid,
		TypeTopUpCompleted,
		TypeWalletLowBalance:
		return true
	default:
		return false
	}
}
