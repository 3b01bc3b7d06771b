package port

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/faraway-yachting/pettycash/internal/domain/entity"
)

// WalletRepository defines persistence operations for Wallet
type WalletRepository interface {
	Create(ctx context.Context, wallet *entity.Wallet) error
	GetByID(ctx context.Context, id int64) (*entity.Wallet, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Wallet, error)
	Update(ctx context.Context, wallet *entity.Wallet) error
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error

	// GetLowBalance returns active wallets whose balance is at or below
	// their low-balance threshold. Wallets without a threshold are skipped.
	GetLowBalance(ctx context.Context) ([]*entity.Wallet, error)
}

// ExpenseClaimRepository defines persistence operations for ExpenseClaim.
// Create and Update persist line items together with the claim row.
type ExpenseClaimRepository interface {
	Create(ctx context.Context, claim *entity.ExpenseClaim) error
	GetByID(ctx context.Context, id int64) (*entity.ExpenseClaim, error)
	GetByWalletID(ctx context.Context, walletID int64) ([]*entity.ExpenseClaim, error)
	Update(ctx context.Context, claim *entity.ExpenseClaim) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error

	// ListSubmitted returns claims that have left draft and were not
	// rejected, i.e. the ones visible in the ledger projection.
	ListSubmitted(ctx context.Context) ([]*entity.ExpenseClaim, error)
}

// ReimbursementRepository defines persistence operations for Reimbursement
type ReimbursementRepository interface {
	Create(ctx context.Context, r *entity.Reimbursement) error
	GetByID(ctx context.Context, id int64) (*entity.Reimbursement, error)
	GetByExpenseID(ctx context.Context, expenseID int64) (*entity.Reimbursement, error)
	ListByStatus(ctx context.Context, status string) ([]*entity.Reimbursement, error)
	Update(ctx context.Context, r *entity.Reimbursement) error
}

// TopUpRepository defines persistence operations for TopUpRequest.
// Delete backs pending-only cancellation; no terminal status is retained.
type TopUpRepository interface {
	Create(ctx context.Context, t *entity.TopUpRequest) error
	GetByID(ctx context.Context, id int64) (*entity.TopUpRequest, error)
	List(ctx context.Context, limit, offset int) ([]*entity.TopUpRequest, error)
	ListByStatus(ctx context.Context, status string) ([]*entity.TopUpRequest, error)
	Update(ctx context.Context, t *entity.TopUpRequest) error
	Delete(ctx context.Context, id int64) error
}

// AttachmentRepository stores opaque attachment references for claims.
// The submit rule only ever needs the count.
type AttachmentRepository interface {
	Add(ctx context.Context, att *entity.Attachment) error
	GetByExpenseID(ctx context.Context, expenseID int64) ([]*entity.Attachment, error)
	CountByExpenseID(ctx context.Context, expenseID int64) (int, error)
}

// SequenceRepository allocates per-kind monotonically increasing counters
// for document numbers. Next must serialize concurrent allocations of the
// same kind; counters never reset.
type SequenceRepository interface {
	Next(ctx context.Context, kind string) (int64, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
