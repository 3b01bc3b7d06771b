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

// ApproveReimbursementInput carries what accounting records when signing
// off a reimbursement. AdjustmentAmount may be negative (a shortfall
// correction); the resulting final amount must not be.
type ApproveReimbursementInput struct {
	ApprovedBy       string
	BankAccountRef   string
	AdjustmentAmount *decimal.Decimal
	AdjustmentReason string
}

// ReimbursementService drives the reimbursement lifecycle:
// pending -> approved -> paid, with rejection from pending or approved.
// Records are created only by claim submission and never deleted.
type ReimbursementService interface {
	Get(ctx context.Context, id int64) (*entity.Reimbursement, error)
	GetByExpense(ctx context.Context, expenseID int64) (*entity.Reimbursement, error)
	ListByStatus(ctx context.Context, status string) ([]*entity.Reimbursement, error)
	Approve(ctx context.Context, id int64, input ApproveReimbursementInput) (*entity.Reimbursement, error)
	ProcessPayment(ctx context.Context, id int64, paymentDate time.Time, paymentRef string) (*entity.Reimbursement, error)
	Reject(ctx context.Context, id int64, rejectedBy, reason string) (*entity.Reimbursement, error)
	UpdateAmount(ctx context.Context, id int64, newAmount decimal.Decimal) (*entity.Reimbursement, error)
}

type reimbursementServiceImpl struct {
	reimbRepo port.ReimbursementRepository
	logger    Logger
}

// NewReimbursementService creates a new ReimbursementService
func NewReimbursementService(reimbRepo port.ReimbursementRepository, logger Logger) ReimbursementService {
	return &reimbursementServiceImpl{
		reimbRepo: reimbRepo,
		logger:    logger,
	}
}

// Get retrieves a reimbursement by ID
func (s *reimbursementServiceImpl) Get(ctx context.Context, id int64) (*entity.Reimbursement, error) {
	r, err := s.reimbRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: reimbursement %d", entity.ErrNotFound, id)
	}
	return r, nil
}

// GetByExpense retrieves the reimbursement paired with a claim
func (s *reimbursementServiceImpl) GetByExpense(ctx context.Context, expenseID int64) (*entity.Reimbursement, error) {
	r, err := s.reimbRepo.GetByExpenseID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: no reimbursement for claim %d", entity.ErrNotFound, expenseID)
	}
	return r, nil
}

// ListByStatus returns reimbursements in the given status
func (s *reimbursementServiceImpl) ListByStatus(ctx context.Context, status string) ([]*entity.Reimbursement, error) {
	return s.reimbRepo.ListByStatus(ctx, status)
}

// Approve signs off a pending reimbursement, applying the optional
// adjustment once. Re-approving an approved record fails rather than
// re-applying the adjustment.
func (s *reimbursementServiceImpl) Approve(ctx context.Context, id int64, input ApproveReimbursementInput) (*entity.Reimbursement, error) {
	if input.ApprovedBy == "" {
		return nil, fmt.Errorf("%w: approver is required", entity.ErrValidation)
	}

	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	machine, err := s.machine(r)
	if err != nil {
		return nil, err
	}
	if err := machine.Fire(ctx, workflow.TriggerApprove); err != nil {
		return nil, fmt.Errorf("%w: cannot approve reimbursement %d from status %s", entity.ErrInvalidStateTransition, id, r.Status)
	}

	r.AdjustmentAmount = input.AdjustmentAmount
	r.AdjustmentReason = input.AdjustmentReason
	r.RecomputeFinalAmount()
	if r.FinalAmount.IsNegative() {
		return nil, fmt.Errorf("%w: adjustment would make final amount negative", entity.ErrValidation)
	}

	now := time.Now()
	r.ApprovedBy = input.ApprovedBy
	r.ApprovedAt = &now
	r.BankAccountRef = input.BankAccountRef
	r.Status = string(machine.State())
	r.UpdatedAt = now

	if err := s.reimbRepo.Update(ctx, r); err != nil {
		s.logger.Error("Failed to approve reimbursement", "error", err, "id", id)
		return nil, err
	}

	s.logger.Info("Reimbursement approved", "id", id, "final_amount", r.FinalAmount.String(), "approved_by", input.ApprovedBy)
	return r, nil
}

// ProcessPayment records the payout of an approved reimbursement.
func (s *reimbursementServiceImpl) ProcessPayment(ctx context.Context, id int64, paymentDate time.Time, paymentRef string) (*entity.Reimbursement, error) {
	if paymentDate.IsZero() {
		return nil, fmt.Errorf("%w: payment date is required", entity.ErrValidation)
	}

	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	machine, err := s.machine(r)
	if err != nil {
		return nil, err
	}
	if err := machine.Fire(ctx, workflow.TriggerPay); err != nil {
		return nil, fmt.Errorf("%w: cannot pay reimbursement %d from status %s", entity.ErrInvalidStateTransition, id, r.Status)
	}

	r.PaymentDate = &paymentDate
	r.PaymentRef = paymentRef
	r.Status = string(machine.State())
	r.UpdatedAt = time.Now()

	if err := s.reimbRepo.Update(ctx, r); err != nil {
		s.logger.Error("Failed to process payment", "error", err, "id", id)
		return nil, err
	}

	s.logger.Info("Reimbursement paid", "id", id, "payment_date", paymentDate.Format("2006-01-02"))
	return r, nil
}

// Reject terminates a pending or approved reimbursement. A reason is
// required.
func (s *reimbursementServiceImpl) Reject(ctx context.Context, id int64, rejectedBy, reason string) (*entity.Reimbursement, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", entity.ErrValidation)
	}

	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	machine, err := s.machine(r)
	if err != nil {
		return nil, err
	}
	if err := machine.Fire(ctx, workflow.TriggerReject); err != nil {
		return nil, fmt.Errorf("%w: cannot reject reimbursement %d from status %s", entity.ErrInvalidStateTransition, id, r.Status)
	}

	r.RejectedBy = rejectedBy
	r.RejectReason = reason
	r.Status = string(machine.State())
	r.UpdatedAt = time.Now()

	if err := s.reimbRepo.Update(ctx, r); err != nil {
		s.logger.Error("Failed to reject reimbursement", "error", err, "id", id)
		return nil, err
	}

	s.logger.Info("Reimbursement rejected", "id", id, "reason", reason)
	return r, nil
}

// UpdateAmount replaces the base amount and recomputes the final amount
// with any existing adjustment. Not permitted once paid or rejected.
func (s *reimbursementServiceImpl) UpdateAmount(ctx context.Context, id int64, newAmount decimal.Decimal) (*entity.Reimbursement, error) {
	if !newAmount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", entity.ErrValidation)
	}

	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if r.Status == entity.ReimbursementStatusPaid || r.Status == entity.ReimbursementStatusRejected {
		return nil, fmt.Errorf("%w: reimbursement %d amount is locked in status %s", entity.ErrInvalidStateTransition, id, r.Status)
	}

	r.Amount = newAmount
	r.RecomputeFinalAmount()
	if r.FinalAmount.IsNegative() {
		return nil, fmt.Errorf("%w: adjustment would make final amount negative", entity.ErrValidation)
	}
	r.UpdatedAt = time.Now()

	if err := s.reimbRepo.Update(ctx, r); err != nil {
		s.logger.Error("Failed to update reimbursement amount", "error", err, "id", id)
		return nil, err
	}

	s.logger.Info("Reimbursement amount updated", "id", id, "amount", newAmount.String(), "final_amount", r.FinalAmount.String())
	return r, nil
}

func (s *reimbursementServiceImpl) machine(r *entity.Reimbursement) (workflow.StateMachine, error) {
	machine, err := workflow.NewReimbursementMachine(workflow.State(r.Status))
	if err != nil {
		return nil, fmt.Errorf("%w: reimbursement %d has status %s", entity.ErrInvalidStateTransition, r.ID, r.Status)
	}
	return machine, nil
}
