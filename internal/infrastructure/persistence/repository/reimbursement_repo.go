package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/faraway-yachting/pettycash/internal/application/port"
	"github.com/faraway-yachting/pettycash/internal/domain/entity"
	"github.com/faraway-yachting/pettycash/internal/infrastructure/persistence/sqlite"
)

// ReimbursementRepository implements port.ReimbursementRepository
type ReimbursementRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewReimbursementRepository creates a new reimbursement repository
func NewReimbursementRepository(db *sqlite.DB, logger *zap.Logger) port.ReimbursementRepository {
	return &ReimbursementRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new reimbursement. The expense_id column carries a UNIQUE
// constraint backing the one-reimbursement-per-claim rule at the storage
// level.
func (r *ReimbursementRepository) Create(ctx context.Context, reimb *entity.Reimbursement) error {
	query := `
		INSERT INTO reimbursements (
			doc_number, expense_id, expense_doc_number, wallet_id, company_id,
			amount, adjustment_amount, adjustment_reason, final_amount,
			status, approved_by, approved_at, bank_account_ref,
			payment_date, payment_ref, rejected_by, reject_reason,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		reimb.DocNumber,
		reimb.ExpenseID,
		reimb.ExpenseDocNumber,
		reimb.WalletID,
		reimb.CompanyID,
		reimb.Amount,
		nullDecimal(reimb.AdjustmentAmount),
		reimb.AdjustmentReason,
		reimb.FinalAmount,
		reimb.Status,
		reimb.ApprovedBy,
		reimb.ApprovedAt,
		reimb.BankAccountRef,
		reimb.PaymentDate,
		reimb.PaymentRef,
		reimb.RejectedBy,
		reimb.RejectReason,
		reimb.CreatedAt,
		reimb.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create reimbursement", zap.Int64("expense_id", reimb.ExpenseID), zap.Error(err))
		return fmt.Errorf("failed to create reimbursement: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	reimb.ID = id
	return nil
}

// GetByID retrieves a reimbursement by ID, nil when absent
func (r *ReimbursementRepository) GetByID(ctx context.Context, id int64) (*entity.Reimbursement, error) {
	query := reimbursementSelect + ` WHERE id = ?`

	reimb, err := scanReimbursement(r.db.Executor(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get reimbursement by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get reimbursement: %w", err)
	}

	return reimb, nil
}

// GetByExpenseID retrieves the reimbursement spawned by a claim, nil when
// the claim has none yet
func (r *ReimbursementRepository) GetByExpenseID(ctx context.Context, expenseID int64) (*entity.Reimbursement, error) {
	query := reimbursementSelect + ` WHERE expense_id = ?`

	reimb, err := scanReimbursement(r.db.Executor(ctx).QueryRowContext(ctx, query, expenseID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get reimbursement by expense ID", zap.Int64("expense_id", expenseID), zap.Error(err))
		return nil, fmt.Errorf("failed to get reimbursement: %w", err)
	}

	return reimb, nil
}

// ListByStatus returns reimbursements in the given status
func (r *ReimbursementRepository) ListByStatus(ctx context.Context, status string) ([]*entity.Reimbursement, error) {
	query := reimbursementSelect + ` WHERE status = ? ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, status)
	if err != nil {
		r.logger.Error("Failed to list reimbursements", zap.String("status", status), zap.Error(err))
		return nil, fmt.Errorf("failed to list reimbursements: %w", err)
	}
	defer rows.Close()

	var reimbs []*entity.Reimbursement
	for rows.Next() {
		reimb, err := scanReimbursement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reimbursement: %w", err)
		}
		reimbs = append(reimbs, reimb)
	}

	return reimbs, rows.Err()
}

// Update rewrites the mutable reimbursement fields
func (r *ReimbursementRepository) Update(ctx context.Context, reimb *entity.Reimbursement) error {
	query := `
		UPDATE reimbursements
		SET amount = ?, adjustment_amount = ?, adjustment_reason = ?, final_amount = ?,
			status = ?, approved_by = ?, approved_at = ?, bank_account_ref = ?,
			payment_date = ?, payment_ref = ?, rejected_by = ?, reject_reason = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query,
		reimb.Amount,
		nullDecimal(reimb.AdjustmentAmount),
		reimb.AdjustmentReason,
		reimb.FinalAmount,
		reimb.Status,
		reimb.ApprovedBy,
		reimb.ApprovedAt,
		reimb.BankAccountRef,
		reimb.PaymentDate,
		reimb.PaymentRef,
		reimb.RejectedBy,
		reimb.RejectReason,
		reimb.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update reimbursement", zap.Int64("id", reimb.ID), zap.Error(err))
		return fmt.Errorf("failed to update reimbursement: %w", err)
	}

	return nil
}

const reimbursementSelect = `
	SELECT id, doc_number, expense_id, expense_doc_number, wallet_id, company_id,
		amount, adjustment_amount, adjustment_reason, final_amount,
		status, approved_by, approved_at, bank_account_ref,
		payment_date, payment_ref, rejected_by, reject_reason,
		created_at, updated_at
	FROM reimbursements
`

func scanReimbursement(row rowScanner) (*entity.Reimbursement, error) {
	var reimb entity.Reimbursement
	var adjustment decimal.NullDecimal
	var approvedAt, paymentDate sql.NullTime

	err := row.Scan(
		&reimb.ID,
		&reimb.DocNumber,
		&reimb.ExpenseID,
		&reimb.ExpenseDocNumber,
		&reimb.WalletID,
		&reimb.CompanyID,
		&reimb.Amount,
		&adjustment,
		&reimb.AdjustmentReason,
		&reimb.FinalAmount,
		&reimb.Status,
		&reimb.ApprovedBy,
		&approvedAt,
		&reimb.BankAccountRef,
		&paymentDate,
		&reimb.PaymentRef,
		&reimb.RejectedBy,
		&reimb.RejectReason,
		&reimb.CreatedAt,
		&reimb.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if adjustment.Valid {
		reimb.AdjustmentAmount = &adjustment.Decimal
	}
	if approvedAt.Valid {
		reimb.ApprovedAt = &approvedAt.Time
	}
	if paymentDate.Valid {
		reimb.PaymentDate = &paymentDate.Time
	}

	return &reimb, nil
}

// Verify interface compliance
var _ port.ReimbursementRepository = (*ReimbursementRepository)(nil)
