package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/faraway-yachting/pettycash/internal/application/port"
	"github.com/faraway-yachting/pettycash/internal/domain/entity"
	"github.com/faraway-yachting/pettycash/internal/infrastructure/persistence/sqlite"
)

// AttachmentRepository implements port.AttachmentRepository
type AttachmentRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewAttachmentRepository creates a new attachment repository
func NewAttachmentRepository(db *sqlite.DB, logger *zap.Logger) port.AttachmentRepository {
	return &AttachmentRepository{
		db:     db,
		logger: logger,
	}
}

// Add stores an attachment reference against a claim
func (r *AttachmentRepository) Add(ctx context.Context, att *entity.Attachment) error {
	query := `
		INSERT INTO expense_attachments (expense_id, ref, created_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query, att.ExpenseID, att.Ref)
	if err != nil {
		r.logger.Error("Failed to add attachment", zap.Int64("expense_id", att.ExpenseID), zap.Error(err))
		return fmt.Errorf("failed to add attachment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	att.ID = id
	return nil
}

// GetByExpenseID retrieves all attachment references for a claim
func (r *AttachmentRepository) GetByExpenseID(ctx context.Context, expenseID int64) ([]*entity.Attachment, error) {
	query := `
		SELECT id, expense_id, ref, created_at
		FROM expense_attachments
		WHERE expense_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, expenseID)
	if err != nil {
		r.logger.Error("Failed to get attachments", zap.Int64("expense_id", expenseID), zap.Error(err))
		return nil, fmt.Errorf("failed to get attachments: %w", err)
	}
	defer rows.Close()

	var atts []*entity.Attachment
	for rows.Next() {
		var att entity.Attachment
		if err := rows.Scan(&att.ID, &att.ExpenseID, &att.Ref, &att.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		atts = append(atts, &att)
	}

	return atts, rows.Err()
}

// CountByExpenseID returns the number of attachments on a claim
func (r *AttachmentRepository) CountByExpenseID(ctx context.Context, expenseID int64) (int, error) {
	query := `SELECT COUNT(*) FROM expense_attachments WHERE expense_id = ?`

	var count int
	err := r.db.Executor(ctx).QueryRowContext(ctx, query, expenseID).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count attachments", zap.Int64("expense_id", expenseID), zap.Error(err))
		return 0, fmt.Errorf("failed to count attachments: %w", err)
	}

	return count, nil
}

// Verify interface compliance
var _ port.AttachmentRepository = (*AttachmentRepository)(nil)
