package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/faraway-yachting/pettycash/internal/application/port"
	"github.com/faraway-yachting/pettycash/internal/infrastructure/persistence/sqlite"
)

// SequenceRepository implements port.SequenceRepository on a counter table.
// The upsert increments the per-kind row and returns the new value in one
// statement; concurrent allocations of the same kind serialize on the row,
// so the counter never repeats and never resets.
type SequenceRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewSequenceRepository creates a new sequence repository
func NewSequenceRepository(db *sqlite.DB, logger *zap.Logger) port.SequenceRepository {
	return &SequenceRepository{
		db:     db,
		logger: logger,
	}
}

// Next allocates the next counter value for the given document kind
func (r *SequenceRepository) Next(ctx context.Context, kind string) (int64, error) {
	query := `
		INSERT INTO doc_sequences (kind, value) VALUES (?, 1)
		ON CONFLICT(kind) DO UPDATE SET value = value + 1
		RETURNING value
	`

	var value int64
	err := r.db.Executor(ctx).QueryRowContext(ctx, query, kind).Scan(&value)
	if err != nil {
		r.logger.Error("Failed to allocate sequence", zap.String("kind", kind), zap.Error(err))
		return 0, fmt.Errorf("failed to allocate sequence for %s: %w", kind, err)
	}

	return value, nil
}

// Verify interface compliance
var _ port.SequenceRepository = (*SequenceRepository)(nil)
