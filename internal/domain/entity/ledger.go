package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntryType discriminates the source of a projected transaction.
type LedgerEntryType string

const (
	LedgerEntryExpense           LedgerEntryType = "expense"
	LedgerEntryTopUp             LedgerEntryType = "topup"
	LedgerEntryReimbursementPaid LedgerEntryType = "reimbursement_paid"
)

// LedgerTransaction is one row of the derived transaction log. It is never
// persisted; the projection is recomputed on demand from submitted claims,
// completed top-ups and paid reimbursements. Amount is signed: expenses
// negative, credits positive.
type LedgerTransaction struct {
	Type      LedgerEntryType `json:"type"`
	Date      time.Time       `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	WalletID  int64           `json:"wallet_id"`
	CompanyID int64           `json:"company_id"`
	DocNumber string          `json:"doc_number"`
}
