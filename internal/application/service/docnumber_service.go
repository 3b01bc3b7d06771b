package service

import (
	"context"
	"fmt"
	"time"

	"github.com/faraway-yachting/pettycash/internal/application/port"
	"github.com/faraway-yachting/pettycash/internal/domain/entity"
)

// DocumentNumberService issues human-facing reference numbers of the form
// {PREFIX}-{YY}{MM}-{NNNN}. The YYMM segment is informational only: the
// per-kind counter increases forever and never resets at a month boundary.
// Uniqueness is guaranteed by the sequence repository, which serializes
// increments on a counter row, not by the wall clock.
type DocumentNumberService interface {
	Next(ctx context.Context, kind string) (string, error)
}

var docPrefixes = map[string]string{
	entity.DocKindWallet:        entity.DocPrefixWallet,
	entity.DocKindExpense:       entity.DocPrefixExpense,
	entity.DocKindReimbursement: entity.DocPrefixReimbursement,
	entity.DocKindTopUp:         entity.DocPrefixTopUp,
}

type documentNumberServiceImpl struct {
	seqRepo port.SequenceRepository
	now     func() time.Time
}

// NewDocumentNumberService creates a new DocumentNumberService
func NewDocumentNumberService(seqRepo port.SequenceRepository) DocumentNumberService {
	return &documentNumberServiceImpl{
		seqRepo: seqRepo,
		now:     time.Now,
	}
}

// Next allocates the next reference number for the given document kind
func (s *documentNumberServiceImpl) Next(ctx context.Context, kind string) (string, error) {
	prefix, ok := docPrefixes[kind]
	if !ok {
		return "", fmt.Errorf("%w: unknown document kind %q", entity.ErrValidation, kind)
	}

	n, err := s.seqRepo.Next(ctx, kind)
	if err != nil {
		return "", fmt.Errorf("allocate sequence for %s: %w", kind, err)
	}

	return fmt.Sprintf("%s-%s-%04d", prefix, s.now().Format("0601"), n), nil
}
