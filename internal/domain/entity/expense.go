package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseClaim represents a cash outlay claimed against a wallet.
// When line items are present the derived totals are recomputed from them;
// otherwise NetAmount equals Amount.
type ExpenseClaim struct {
	ID          int64           `json:"id"`
	DocNumber   string          `json:"doc_number"`
	WalletID    int64           `json:"wallet_id"`
	CompanyID   int64           `json:"company_id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`

	// Derived totals, see ComputeTotals.
	Subtotal    decimal.Decimal `json:"subtotal"`
	VATAmount   decimal.Decimal `json:"vat_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	WHTAmount   decimal.Decimal `json:"wht_amount"`
	NetAmount   decimal.Decimal `json:"net_amount"`

	Status    string    `json:"status"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	LineItems []ExpenseLineItem `json:"line_items,omitempty"`
}

// ExpenseLineItem is one row of an itemized claim.
type ExpenseLineItem struct {
	ID           int64           `json:"id"`
	ExpenseID    int64           `json:"expense_id"`
	Description  string          `json:"description"`
	PreVATAmount decimal.Decimal `json:"pre_vat_amount"`
	VATAmount    decimal.Decimal `json:"vat_amount"`
	WHTAmount    decimal.Decimal `json:"wht_amount"`
}

// Attachment is an opaque reference to a receipt or supporting document.
// Content and upload mechanics live outside the core; only presence matters
// to the submit rule.
type Attachment struct {
	ID        int64     `json:"id"`
	ExpenseID int64     `json:"expense_id"`
	Ref       string    `json:"ref"`
	CreatedAt time.Time `json:"created_at"`
}

// ComputeTotals recomputes the derived totals from the line items:
// subtotal = sum of pre-VAT amounts, vatAmount = sum of VAT amounts,
// totalAmount = subtotal + vatAmount, whtAmount = sum of withholding,
// netAmount = totalAmount - whtAmount. Without line items every total
// collapses to Amount except VATAmount and WHTAmount, which are zero.
func (e *ExpenseClaim) ComputeTotals() {
	if len(e.LineItems) == 0 {
		e.Subtotal = e.Amount
		e.VATAmount = decimal.Zero
		e.TotalAmount = e.Amount
		e.WHTAmount = decimal.Zero
		e.NetAmount = e.Amount
		return
	}

	subtotal := decimal.Zero
	vat := decimal.Zero
	wht := decimal.Zero
	for _, item := range e.LineItems {
		subtotal = subtotal.Add(item.PreVATAmount)
		vat = vat.Add(item.VATAmount)
		wht = wht.Add(item.WHTAmount)
	}

	e.Subtotal = subtotal
	e.VATAmount = vat
	e.TotalAmount = subtotal.Add(vat)
	e.WHTAmount = wht
	e.NetAmount = e.TotalAmount.Sub(wht)
}

// IsEditable reports whether the claim accepts edits in its current state.
// Draft claims are freely editable. Submitted and approved claims require an
// explicit edit mode. Paid claims accept non-monetary edits in edit mode
// only. Rejected claims are immutable.
func (e *ExpenseClaim) IsEditable(editMode bool) bool {
	switch e.Status {
	case ExpenseStatusDraft:
		return true
	case ExpenseStatusSubmitted, ExpenseStatusApproved, ExpenseStatusPaid:
		return editMode
	default:
		return false
	}
}

// AmountLocked reports whether monetary fields (amount, line items) are
// frozen. Amounts lock once the claim is paid.
func (e *ExpenseClaim) AmountLocked() bool {
	return e.Status == ExpenseStatusPaid
}
