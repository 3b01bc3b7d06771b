package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TopUpRequest represents an inbound transfer funding a wallet from a
// company bank account. Cancellation is a hard delete permitted only while
// pending.
type TopUpRequest struct {
	ID             int64           `json:"id"`
	DocNumber      string          `json:"doc_number"`
	WalletID       int64           `json:"wallet_id"`
	CompanyID      int64           `json:"company_id"`
	BankAccountRef string          `json:"bank_account_ref"`
	Amount         decimal.Decimal `json:"amount"`
	Date           time.Time       `json:"date"`
	Status         string          `json:"status"`

	RequestedBy   string     `json:"requested_by,omitempty"`
	ApprovedBy    string     `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	CompletedBy   string     `json:"completed_by,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CompletionRef string     `json:"completion_ref,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
