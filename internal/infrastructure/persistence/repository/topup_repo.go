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

// TopUpRepository implements port.TopUpRepository
type TopUpRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewTopUpRepository creates a new top-up repository
func NewTopUpRepository(db *sqlite.DB, logger *zap.Logger) port.TopUpRepository {
	return &TopUpRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new top-up request
func (r *TopUpRepository) Create(ctx context.Context, topUp *entity.TopUpRequest) error {
	query := `
		INSERT INTO top_ups (
			doc_number, wallet_id, company_id, bank_account_ref, amount, date,
			status, requested_by, approved_by, approved_at,
			completed_by, completed_at, completion_ref,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		topUp.DocNumber,
		topUp.WalletID,
		topUp.CompanyID,
		topUp.BankAccountRef,
		topUp.Amount,
		topUp.Date,
		topUp.Status,
		topUp.RequestedBy,
		topUp.ApprovedBy,
		topUp.ApprovedAt,
		topUp.CompletedBy,
		topUp.CompletedAt,
		topUp.CompletionRef,
		topUp.CreatedAt,
		topUp.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create top-up", zap.Error(err))
		return fmt.Errorf("failed to create top-up: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	topUp.ID = id
	return nil
}

// GetByID retrieves a top-up by ID, nil when absent
func (r *TopUpRepository) GetByID(ctx context.Context, id int64) (*entity.TopUpRequest, error) {
	query := topUpSelect + ` WHERE id = ?`

	topUp, err := scanTopUp(r.db.Executor(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get top-up by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get top-up: %w", err)
	}

	return topUp, nil
}

// List returns top-ups ordered by creation, newest first
func (r *TopUpRepository) List(ctx context.Context, limit, offset int) ([]*entity.TopUpRequest, error) {
	query := topUpSelect + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list top-ups", zap.Error(err))
		return nil, fmt.Errorf("failed to list top-ups: %w", err)
	}
	defer rows.Close()

	return collectTopUps(rows)
}

// ListByStatus returns top-ups in the given status
func (r *TopUpRepository) ListByStatus(ctx context.Context, status string) ([]*entity.TopUpRequest, error) {
	query := topUpSelect + ` WHERE status = ? ORDER BY date DESC, id DESC`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, status)
	if err != nil {
		r.logger.Error("Failed to list top-ups by status", zap.String("status", status), zap.Error(err))
		return nil, fmt.Errorf("failed to list top-ups: %w", err)
	}
	defer rows.Close()

	return collectTopUps(rows)
}

// Update rewrites the mutable top-up fields
func (r *TopUpRepository) Update(ctx context.Context, topUp *entity.TopUpRequest) error {
	query := `
		UPDATE top_ups
		SET bank_account_ref = ?, amount = ?, date = ?, status = ?,
			approved_by = ?, approved_at = ?,
			completed_by = ?, completed_at = ?, completion_ref = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query,
		topUp.BankAccountRef,
		topUp.Amount,
		topUp.Date,
		topUp.Status,
		topUp.ApprovedBy,
		topUp.ApprovedAt,
		topUp.CompletedBy,
		topUp.CompletedAt,
		topUp.CompletionRef,
		topUp.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update top-up", zap.Int64("id", topUp.ID), zap.Error(err))
		return fmt.Errorf("failed to update top-up: %w", err)
	}

	return nil
}

// Delete removes a top-up row; cancellation of pending requests only
func (r *TopUpRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM top_ups WHERE id = ?`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete top-up", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete top-up: %w", err)
	}

	return nil
}

const topUpSelect = `
	SELECT id, doc_number, wallet_id, company_id, bank_account_ref, amount, date,
		status, requested_by, approved_by, approved_at,
		completed_by, completed_at, completion_ref,
		created_at, updated_at
	FROM top_ups
`

func scanTopUp(row rowScanner) (*entity.TopUpRequest, error) {
	var topUp entity.TopUpRequest
	var approvedAt, completedAt sql.NullTime

	err := row.Scan(
		&topUp.ID,
		&topUp.DocNumber,
		&topUp.WalletID,
		&topUp.CompanyID,
		&topUp.BankAccountRef,
		&topUp.Amount,
		&topUp.Date,
		&topUp.Status,
		&topUp.RequestedBy,
		&topUp.ApprovedBy,
		&approvedAt,
		&topUp.CompletedBy,
		&completedAt,
		&topUp.CompletionRef,
		&topUp.CreatedAt,
		&topUp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if approvedAt.Valid {
		topUp.ApprovedAt = &approvedAt.Time
	}
	if completedAt.Valid {
		topUp.CompletedAt = &completedAt.Time
	}

	return &topUp, nil
}

func collectTopUps(rows *sql.Rows) ([]*entity.TopUpRequest, error) {
	var topUps []*entity.TopUpRequest
	for rows.Next() {
		topUp, err := scanTopUp(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan top-up: %w", err)
		}
		topUps = append(topUps, topUp)
	}
	return topUps, rows.Err()
}

// Verify interface compliance
var _ port.TopUpRepository = (*TopUpRepository)(nil)
