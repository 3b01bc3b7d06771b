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

// WalletRepository implements port.WalletRepository
type WalletRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *sqlite.DB, logger *zap.Logger) port.WalletRepository {
	return &WalletRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new wallet
func (r *WalletRepository) Create(ctx context.Context, wallet *entity.Wallet) error {
	query := `
		INSERT INTO wallets (
			doc_number, holder_id, holder_name, company_id, currency,
			balance, balance_limit, low_balance_threshold, status,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		wallet.DocNumber,
		wallet.HolderID,
		wallet.HolderName,
		wallet.CompanyID,
		wallet.Currency,
		wallet.Balance,
		nullDecimal(wallet.BalanceLimit),
		nullDecimal(wallet.LowBalanceThreshold),
		wallet.Status,
		wallet.CreatedAt,
		wallet.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create wallet", zap.Error(err))
		return fmt.Errorf("failed to create wallet: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	wallet.ID = id
	return nil
}

// GetByID retrieves a wallet by ID, returning nil when absent
func (r *WalletRepository) GetByID(ctx context.Context, id int64) (*entity.Wallet, error) {
	query := walletSelect + ` WHERE id = ?`

	wallet, err := scanWallet(r.db.Executor(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get wallet by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	return wallet, nil
}

// List returns wallets ordered by creation, newest first
func (r *WalletRepository) List(ctx context.Context, limit, offset int) ([]*entity.Wallet, error) {
	query := walletSelect + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list wallets", zap.Error(err))
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	defer rows.Close()

	return collectWallets(rows)
}

// Update rewrites the mutable wallet fields
func (r *WalletRepository) Update(ctx context.Context, wallet *entity.Wallet) error {
	query := `
		UPDATE wallets
		SET holder_id = ?, holder_name = ?, company_id = ?, currency = ?,
			balance_limit = ?, low_balance_threshold = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query,
		wallet.HolderID,
		wallet.HolderName,
		wallet.CompanyID,
		wallet.Currency,
		nullDecimal(wallet.BalanceLimit),
		nullDecimal(wallet.LowBalanceThreshold),
		wallet.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update wallet", zap.Int64("id", wallet.ID), zap.Error(err))
		return fmt.Errorf("failed to update wallet: %w", err)
	}

	return nil
}

// UpdateBalance persists the already-validated balance
func (r *WalletRepository) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	query := `UPDATE wallets SET balance = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query, balance, id)
	if err != nil {
		r.logger.Error("Failed to update wallet balance", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to update wallet balance: %w", err)
	}

	return nil
}

// UpdateStatus flips the wallet status
func (r *WalletRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE wallets SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query, status, id)
	if err != nil {
		r.logger.Error("Failed to update wallet status", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to update wallet status: %w", err)
	}

	return nil
}

// Delete removes a wallet row
func (r *WalletRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM wallets WHERE id = ?`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete wallet", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete wallet: %w", err)
	}

	return nil
}

// GetLowBalance returns active wallets at or below their threshold.
// Amounts are TEXT columns, so the comparison happens in Go, not SQL.
func (r *WalletRepository) GetLowBalance(ctx context.Context) ([]*entity.Wallet, error) {
	query := walletSelect + ` WHERE status = ? AND low_balance_threshold IS NOT NULL`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, entity.WalletStatusActive)
	if err != nil {
		r.logger.Error("Failed to query low-balance wallets", zap.Error(err))
		return nil, fmt.Errorf("failed to query low-balance wallets: %w", err)
	}
	defer rows.Close()

	wallets, err := collectWallets(rows)
	if err != nil {
		return nil, err
	}

	var low []*entity.Wallet
	for _, w := range wallets {
		if w.IsLow() {
			low = append(low, w)
		}
	}
	return low, nil
}

const walletSelect = `
	SELECT id, doc_number, holder_id, holder_name, company_id, currency,
		balance, balance_limit, low_balance_threshold, status,
		created_at, updated_at
	FROM wallets
`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWallet(row rowScanner) (*entity.Wallet, error) {
	var wallet entity.Wallet
	var balanceLimit, lowThreshold decimal.NullDecimal

	err := row.Scan(
		&wallet.ID,
		&wallet.DocNumber,
		&wallet.HolderID,
		&wallet.HolderName,
		&wallet.CompanyID,
		&wallet.Currency,
		&wallet.Balance,
		&balanceLimit,
		&lowThreshold,
		&wallet.Status,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if balanceLimit.Valid {
		wallet.BalanceLimit = &balanceLimit.Decimal
	}
	if lowThreshold.Valid {
		wallet.LowBalanceThreshold = &lowThreshold.Decimal
	}

	return &wallet, nil
}

func collectWallets(rows *sql.Rows) ([]*entity.Wallet, error) {
	var wallets []*entity.Wallet
	for rows.Next() {
		wallet, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet: %w", err)
		}
		wallets = append(wallets, wallet)
	}
	return wallets, rows.Err()
}

// nullDecimal maps an optional amount onto decimal.NullDecimal for storage
func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// Verify interface compliance
var _ port.WalletRepository = (*WalletRepository)(nil)
