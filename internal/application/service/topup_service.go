package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/faraway-yachting/pettycash/internal/application/port"
	"github.com/faraway-yachting/pettycash/internal/domain/entity"
	"github.com/faraway-yachting/pettycash/internal/domain/workflow"
)

// CreateTopUpInput carries the fields for a new top-up request.
type CreateTopUpInput struct {
	WalletID       int64
	CompanyID      int64
	BankAccountRef string
	Amount         decimal.Decimal
	Date           time.Time
}

// TopUpService drives the top-up lifecycle: pending -> approved ->
// completed, with a skip-approval fast path from pending straight to
// completed. Cancellation hard-deletes the request and is permitted only
// while pending. Completion records the transfer; crediting the wallet is
// an explicit separate call on WalletService owned by the surrounding
// application.
type TopUpService interface {
	Create(ctx context.Context, input CreateTopUpInput) (*entity.TopUpRequest, error)
	Get(ctx context.Context, id int64) (*entity.TopUpRequest, error)
	List(ctx context.Context, limit, offset int) ([]*entity.TopUpRequest, error)
	Approve(ctx context.Context, id int64, approvedBy string) (*entity.TopUpRequest, error)
	Complete(ctx context.Context, id int64, completedBy, reference string) (*entity.TopUpRequest, error)
	Cancel(ctx context.Context, id int64) error
}

type topUpServiceImpl struct {
	topUpRepo  port.TopUpRepository
	walletRepo port.WalletRepository
	docNumbers DocumentNumberService
	txManager  port.TransactionManager
	identity   port.IdentityProvider
	logger     Logger
}

// NewTopUpService creates a new TopUpService
func NewTopUpService(
	topUpRepo port.TopUpRepository,
	walletRepo port.WalletRepository,
	docNumbers DocumentNumberService,
	txManager port.TransactionManager,
	identity port.IdentityProvider,
	logger Logger,
) TopUpService {
	return &topUpServiceImpl{
		topUpRepo:  topUpRepo,
		walletRepo: walletRepo,
		docNumbers: docNumbers,
		txManager:  txManager,
		identity:   identity,
		logger:     logger,
	}
}

// Create records a pending top-up request.
func (s *topUpServiceImpl) Create(ctx context.Context, input CreateTopUpInput) (*entity.TopUpRequest, error) {
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: top-up amount must be positive", entity.ErrValidation)
	}
	if input.BankAccountRef == "" {
		return nil, fmt.Errorf("%w: source bank account is required", entity.ErrValidation)
	}

	wallet, err := s.walletRepo.GetByID(ctx, input.WalletID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, fmt.Errorf("%w: wallet %d", entity.ErrNotFound, input.WalletID)
	}

	topUp := &entity.TopUpRequest{
		WalletID:       input.WalletID,
		CompanyID:      input.CompanyID,
		BankAccountRef: input.BankAccountRef,
		Amount:         input.Amount,
		Date:           input.Date,
		Status:         entity.TopUpStatusPending,
		RequestedBy:    s.identity.CurrentActor(ctx),
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		docNumber, err := s.docNumbers.Next(txCtx, entity.DocKindTopUp)
		if err != nil {
			return err
		}
		topUp.DocNumber = docNumber

		return s.topUpRepo.Create(txCtx, topUp)
	})
	if err != nil {
		s.logger.Error("Failed to create top-up", "error", err, "wallet_id", input.WalletID)
		return nil, err
	}

	s.logger.Info("Top-up created", "id", topUp.ID, "doc_number", topUp.DocNumber)
	return topUp, nil
}

// Get retrieves a top-up request by ID
func (s *topUpServiceImpl) Get(ctx context.Context, id int64) (*entity.TopUpRequest, error) {
	topUp, err := s.topUpRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if topUp == nil {
		return nil, fmt.Errorf("%w: top-up %d", entity.ErrNotFound, id)
	}
	return topUp, nil
}

// List returns top-up requests with pagination
func (s *topUpServiceImpl) List(ctx context.Context, limit, offset int) ([]*entity.TopUpRequest, error) {
	return s.topUpRepo.List(ctx, limit, offset)
}

// Approve moves a pending request to approved.
func (s *topUpServiceImpl) Approve(ctx context.Context, id int64, approvedBy string) (*entity.TopUpRequest, error) {
	if approvedBy == "" {
		return nil, fmt.Errorf("%w: approver is required", entity.ErrValidation)
	}

	topUp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	machine, err := s.machine(topUp)
	if err != nil {
		return nil, err
	}
	if err := machine.Fire(ctx, workflow.TriggerApprove); err != nil {
		return nil, fmt.Errorf("%w: cannot approve top-up %d from status %s", entity.ErrInvalidStateTransition, id, topUp.Status)
	}

	now := time.Now()
	topUp.ApprovedBy = approvedBy
	topUp.ApprovedAt = &now
	topUp.Status = string(machine.State())
	topUp.UpdatedAt = now

	if err := s.topUpRepo.Update(ctx, topUp); err != nil {
		s.logger.Error("Failed to approve top-up", "error", err, "id", id)
		return nil, err
	}

	s.logger.Info("Top-up approved", "id", id, "approved_by", approvedBy)
	return topUp, nil
}

// Complete marks the transfer done. Valid from pending or approved; the
// fast path from pending backfills the approval fields with the completer.
func (s *topUpServiceImpl) Complete(ctx context.Context, id int64, completedBy, reference string) (*entity.TopUpRequest, error) {
	if completedBy == "" {
		return nil, fmt.Errorf("%w: completer is required", entity.ErrValidation)
	}

	topUp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	machine, err := s.machine(topUp)
	if err != nil {
		return nil, err
	}
	if err := machine.Fire(ctx, workflow.TriggerComplete); err != nil {
		return nil, fmt.Errorf("%w: cannot complete top-up %d from status %s", entity.ErrInvalidStateTransition, id, topUp.Status)
	}

	now := time.Now()
	if topUp.ApprovedBy == "" {
		topUp.ApprovedBy = completedBy
		topUp.ApprovedAt = &now
	}
	topUp.CompletedBy = completedBy
	topUp.CompletedAt = &now
	topUp.CompletionRef = reference
	topUp.Status = string(machine.State())
	topUp.UpdatedAt = now

	if err := s.topUpRepo.Update(ctx, topUp); err != nil {
		s.logger.Error("Failed to complete top-up", "error", err, "id", id)
		return nil, err
	}

	s.logger.Info("Top-up completed", "id", id, "completed_by", completedBy)
	return topUp, nil
}

// Cancel hard-deletes a pending request. No audit trail is retained.
func (s *topUpServiceImpl) Cancel(ctx context.Context, id int64) error {
	topUp, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if topUp.Status != entity.TopUpStatusPending {
		return fmt.Errorf("%w: cannot cancel top-up %d from status %s", entity.ErrInvalidStateTransition, id, topUp.Status)
	}

	if err := s.topUpRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Top-up cancelled", "id", id)
	return nil
}

func (s *topUpServiceImpl) machine(t *entity.TopUpRequest) (workflow.StateMachine, error) {
	machine, err := workflow.NewTopUpMachine(workflow.State(t.Status))
	if err != nil {
		return nil, fmt.Errorf("%w: top-up %d has status %s", entity.ErrInvalidStateTransition, t.ID, t.Status)
	}
	return machine, nil
}
