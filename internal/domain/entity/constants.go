package entity

// Status constants for Wallet
const (
	WalletStatusActive = "ACTIVE"
	WalletStatusClosed = "CLOSED"
)

// Status constants for ExpenseClaim
const (
	ExpenseStatusDraft     = "DRAFT"
	ExpenseStatusSubmitted = "SUBMITTED"
	ExpenseStatusApproved  = "APPROVED"
	ExpenseStatusPaid      = "PAID"
	ExpenseStatusRejected  = "REJECTED"
)

// Status constants for Reimbursement
const (
	ReimbursementStatusPending  = "PENDING"
	ReimbursementStatusApproved = "APPROVED"
	ReimbursementStatusPaid     = "PAID"
	ReimbursementStatusRejected = "REJECTED"
)

// Status constants for TopUpRequest
const (
	TopUpStatusPending   = "PENDING"
	TopUpStatusApproved  = "APPROVED"
	TopUpStatusCompleted = "COMPLETED"
)

// Document kinds for reference-number sequences
const (
	DocKindWallet        = "WALLET"
	DocKindExpense       = "EXPENSE"
	DocKindReimbursement = "REIMBURSEMENT"
	DocKindTopUp         = "TOPUP"
)

// Human-facing reference-number prefixes per document kind
const (
	DocPrefixWallet        = "WLT"
	DocPrefixExpense       = "EXP"
	DocPrefixReimbursement = "RBM"
	DocPrefixTopUp         = "TOP"
)
