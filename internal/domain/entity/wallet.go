package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet represents a petty-cash float held by one person within one company.
// Balance is never negative; BalanceLimit, when set, caps credits only.
type Wallet struct {
	ID                  int64            `json:"id"`
	DocNumber           string           `json:"doc_number"`
	HolderID            string           `json:"holder_id"`
	HolderName          string           `json:"holder_name"`
	CompanyID           int64            `json:"company_id"`
	Currency            string           `json:"currency"`
	Balance             decimal.Decimal  `json:"balance"`
	BalanceLimit        *decimal.Decimal `json:"balance_limit,omitempty"`
	LowBalanceThreshold *decimal.Decimal `json:"low_balance_threshold,omitempty"`
	Status              string           `json:"status"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// IsActive returns true if the wallet accepts balance mutations.
func (w *Wallet) IsActive() bool {
	return w.Status == WalletStatusActive
}

// IsLow returns true if the wallet is active and its balance has fallen to
// or below the configured low-balance threshold. Wallets without a threshold
// are never low.
func (w *Wallet) IsLow() bool {
	if !w.IsActive() || w.LowBalanceThreshold == nil {
		return false
	}
	return w.Balance.LessThanOrEqual(*w.LowBalanceThreshold)
}
