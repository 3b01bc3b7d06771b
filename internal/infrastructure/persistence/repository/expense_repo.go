package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/faraway-yachting/pettycash/internal/application/port"
	"github.com/faraway-yachting/pettycash/internal/domain/entity"
	"github.com/faraway-yachting/pettycash/internal/infrastructure/persistence/sqlite"
)

// ExpenseClaimRepository implements port.ExpenseClaimRepository.
// Line items are persisted together with the claim row; Update replaces the
// whole item set.
type ExpenseClaimRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewExpenseClaimRepository creates a new expense claim repository
func NewExpenseClaimRepository(db *sqlite.DB, logger *zap.Logger) port.ExpenseClaimRepository {
	return &ExpenseClaimRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts the claim and its line items
func (r *ExpenseClaimRepository) Create(ctx context.Context, claim *entity.ExpenseClaim) error {
	query := `
		INSERT INTO expense_claims (
			doc_number, wallet_id, company_id, date, description, amount,
			subtotal, vat_amount, total_amount, wht_amount, net_amount,
			status, created_by, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		claim.DocNumber,
		claim.WalletID,
		claim.CompanyID,
		claim.Date,
		claim.Description,
		claim.Amount,
		claim.Subtotal,
		claim.VATAmount,
		claim.TotalAmount,
		claim.WHTAmount,
		claim.NetAmount,
		claim.Status,
		claim.CreatedBy,
		claim.CreatedAt,
		claim.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create expense claim", zap.Error(err))
		return fmt.Errorf("failed to create expense claim: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	claim.ID = id

	return r.insertLineItems(ctx, claim)
}

// GetByID retrieves a claim with its line items, nil when absent
func (r *ExpenseClaimRepository) GetByID(ctx context.Context, id int64) (*entity.ExpenseClaim, error) {
	query := expenseSelect + ` WHERE id = ?`

	claim, err := scanExpenseClaim(r.db.Executor(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get expense claim by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get expense claim: %w", err)
	}

	items, err := r.lineItems(ctx, claim.ID)
	if err != nil {
		return nil, err
	}
	claim.LineItems = items

	return claim, nil
}

// GetByWalletID retrieves all claims charged against one wallet
func (r *ExpenseClaimRepository) GetByWalletID(ctx context.Context, walletID int64) ([]*entity.ExpenseClaim, error) {
	query := expenseSelect + ` WHERE wallet_id = ? ORDER BY date DESC, id DESC`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, walletID)
	if err != nil {
		r.logger.Error("Failed to get claims by wallet ID", zap.Int64("wallet_id", walletID), zap.Error(err))
		return nil, fmt.Errorf("failed to get expense claims: %w", err)
	}
	defer rows.Close()

	claims, err := collectExpenseClaims(rows)
	if err != nil {
		return nil, err
	}

	for _, claim := range claims {
		items, err := r.lineItems(ctx, claim.ID)
		if err != nil {
			return nil, err
		}
		claim.LineItems = items
	}

	return claims, nil
}

// Update rewrites the claim row and replaces its line items
func (r *ExpenseClaimRepository) Update(ctx context.Context, claim *entity.ExpenseClaim) error {
	query := `
		UPDATE expense_claims
		SET wallet_id = ?, company_id = ?, date = ?, description = ?, amount = ?,
			subtotal = ?, vat_amount = ?, total_amount = ?, wht_amount = ?, net_amount = ?,
			status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query,
		claim.WalletID,
		claim.CompanyID,
		claim.Date,
		claim.Description,
		claim.Amount,
		claim.Subtotal,
		claim.VATAmount,
		claim.TotalAmount,
		claim.WHTAmount,
		claim.NetAmount,
		claim.Status,
		claim.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update expense claim", zap.Int64("id", claim.ID), zap.Error(err))
		return fmt.Errorf("failed to update expense claim: %w", err)
	}

	if _, err := r.db.Executor(ctx).ExecContext(ctx,
		`DELETE FROM expense_line_items WHERE expense_id = ?`, claim.ID); err != nil {
		return fmt.Errorf("failed to clear line items: %w", err)
	}

	return r.insertLineItems(ctx, claim)
}

// UpdateStatus moves a claim to a new workflow status
func (r *ExpenseClaimRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE expense_claims SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query, status, id)
	if err != nil {
		r.logger.Error("Failed to update expense claim status", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to update expense claim status: %w", err)
	}

	return nil
}

// Delete removes a claim; line items and attachments go with it via
// ON DELETE CASCADE
func (r *ExpenseClaimRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM expense_claims WHERE id = ?`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete expense claim", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete expense claim: %w", err)
	}

	return nil
}

// ListSubmitted returns every claim past draft and not rejected. Line items
// are not loaded; the ledger projection only needs the totals.
func (r *ExpenseClaimRepository) ListSubmitted(ctx context.Context) ([]*entity.ExpenseClaim, error) {
	query := expenseSelect + ` WHERE status NOT IN (?, ?) ORDER BY date DESC, id DESC`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query,
		entity.ExpenseStatusDraft, entity.ExpenseStatusRejected)
	if err != nil {
		r.logger.Error("Failed to list submitted claims", zap.Error(err))
		return nil, fmt.Errorf("failed to list submitted claims: %w", err)
	}
	defer rows.Close()

	return collectExpenseClaims(rows)
}

func (r *ExpenseClaimRepository) insertLineItems(ctx context.Context, claim *entity.ExpenseClaim) error {
	if len(claim.LineItems) == 0 {
		return nil
	}

	query := `
		INSERT INTO expense_line_items (
			expense_id, description, pre_vat_amount, vat_amount, wht_amount
		) VALUES (?, ?, ?, ?, ?)
	`

	for i := range claim.LineItems {
		item := &claim.LineItems[i]
		item.ExpenseID = claim.ID

		result, err := r.db.Executor(ctx).ExecContext(ctx, query,
			item.ExpenseID,
			item.Description,
			item.PreVATAmount,
			item.VATAmount,
			item.WHTAmount,
		)
		if err != nil {
			r.logger.Error("Failed to insert line item", zap.Int64("expense_id", claim.ID), zap.Error(err))
			return fmt.Errorf("failed to insert line item: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		item.ID = id
	}

	return nil
}

func (r *ExpenseClaimRepository) lineItems(ctx context.Context, expenseID int64) ([]entity.ExpenseLineItem, error) {
	query := `
		SELECT id, expense_id, description, pre_vat_amount, vat_amount, wht_amount
		FROM expense_line_items
		WHERE expense_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get line items: %w", err)
	}
	defer rows.Close()

	var items []entity.ExpenseLineItem
	for rows.Next() {
		var item entity.ExpenseLineItem
		err := rows.Scan(
			&item.ID,
			&item.ExpenseID,
			&item.Description,
			&item.PreVATAmount,
			&item.VATAmount,
			&item.WHTAmount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

const expenseSelect = `
	SELECT id, doc_number, wallet_id, company_id, date, description, amount,
		subtotal, vat_amount, total_amount, wht_amount, net_amount,
		status, created_by, created_at, updated_at
	FROM expense_claims
`

func scanExpenseClaim(row rowScanner) (*entity.ExpenseClaim, error) {
	var claim entity.ExpenseClaim

	err := row.Scan(
		&claim.ID,
		&claim.DocNumber,
		&claim.WalletID,
		&claim.CompanyID,
		&claim.Date,
		&claim.Description,
		&claim.Amount,
		&claim.Subtotal,
		&claim.VATAmount,
		&claim.TotalAmount,
		&claim.WHTAmount,
		&claim.NetAmount,
		&claim.Status,
		&claim.CreatedBy,
		&claim.CreatedAt,
		&claim.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &claim, nil
}

func collectExpenseClaims(rows *sql.Rows) ([]*entity.ExpenseClaim, error) {
	var claims []*entity.ExpenseClaim
	for rows.Next() {
		claim, err := scanExpenseClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense claim: %w", err)
		}
		claims = append(claims, claim)
	}
	return claims, rows.Err()
}

// Verify interface compliance
var _ port.ExpenseClaimRepository = (*ExpenseClaimRepository)(nil)
