package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reimbursement records money moving from company funds back to a wallet
// holder. Exactly one exists per submitted expense claim, created in the
// same transaction that marks the claim submitted.
type Reimbursement struct {
	ID               int64  `json:"id"`
	DocNumber        string `json:"doc_number"`
	ExpenseID        int64  `json:"expense_id"`
	ExpenseDocNumber string `json:"expense_doc_number"`
	WalletID         int64  `json:"wallet_id"`
	CompanyID        int64  `json:"company_id"`

	Amount           decimal.Decimal  `json:"amount"`
	AdjustmentAmount *decimal.Decimal `json:"adjustment_amount,omitempty"`
	AdjustmentReason string           `json:"adjustment_reason,omitempty"`
	FinalAmount      decimal.Decimal  `json:"final_amount"`

	Status         string     `json:"status"`
	ApprovedBy     string     `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	BankAccountRef string     `json:"bank_account_ref,omitempty"`
	PaymentDate    *time.Time `json:"payment_date,omitempty"`
	PaymentRef     string     `json:"payment_ref,omitempty"`
	RejectedBy     string     `json:"rejected_by,omitempty"`
	RejectReason   string     `json:"reject_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecomputeFinalAmount refreshes FinalAmount = Amount + AdjustmentAmount.
func (r *Reimbursement) RecomputeFinalAmount() {
	final := r.Amount
	if r.AdjustmentAmount != nil {
		final = final.Add(*r.AdjustmentAmount)
	}
	r.FinalAmount = final
}
