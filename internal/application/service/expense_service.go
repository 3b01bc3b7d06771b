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

// CreateExpenseInput carries the fields for a new claim. SubmitNow is the
// simplified holder-facing path: the claim is created directly in submitted
// state, which spawns its reimbursement in the same transaction.
type CreateExpenseInput struct {
	WalletID    int64
	CompanyID   int64
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	LineItems   []entity.ExpenseLineItem
	Attachments []string
	SubmitNow   bool
}

// UpdateExpenseInput is a partial patch; nil fields are left untouched.
// EditMode must be set to touch submitted or approved claims.
type UpdateExpenseInput struct {
	Date        *time.Time
	Description *string
	Amount      *decimal.Decimal
	LineItems   *[]entity.ExpenseLineItem
	EditMode    bool
}

// ExpenseService drives the expense-claim lifecycle:
// draft -> submitted -> approved -> paid, with rejection possible from any
// non-terminal state. Submission atomically creates the paired
// reimbursement; no observer ever sees one without the other.
type ExpenseService interface {
	Create(ctx context.Context, input CreateExpenseInput) (*entity.ExpenseClaim, error)
	Get(ctx context.Context, id int64) (*entity.ExpenseClaim, error)
	ListByWallet(ctx context.Context, walletID int64) ([]*entity.ExpenseClaim, error)
	Update(ctx context.Context, id int64, input UpdateExpenseInput) (*entity.ExpenseClaim, error)
	AddAttachment(ctx context.Context, id int64, ref string) error
	Submit(ctx context.Context, id int64) (*entity.ExpenseClaim, *entity.Reimbursement, error)
	Review(ctx context.Context, id int64) (*entity.ExpenseClaim, error)
	Pay(ctx context.Context, id int64) (*entity.ExpenseClaim, error)
	Reject(ctx context.Context, id int64) (*entity.ExpenseClaim, error)
	Delete(ctx context.Context, id int64) error
}

type expenseServiceImpl struct {
	expenseRepo port.ExpenseClaimRepository
	reimbRepo   port.ReimbursementRepository
	attachRepo  port.AttachmentRepository
	walletRepo  port.WalletRepository
	docNumbers  DocumentNumberService
	txManager   port.TransactionManager
	locks       *WalletLock
	identity    port.IdentityProvider
	logger      Logger
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(
	expenseRepo port.ExpenseClaimRepository,
	reimbRepo port.ReimbursementRepository,
	attachRepo port.AttachmentRepository,
	walletRepo port.WalletRepository,
	docNumbers DocumentNumberService,
	txManager port.TransactionManager,
	locks *WalletLock,
	identity port.IdentityProvider,
	logger Logger,
) ExpenseService {
	return &expenseServiceImpl{
		expenseRepo: expenseRepo,
		reimbRepo:   reimbRepo,
		attachRepo:  attachRepo,
		walletRepo:  walletRepo,
		docNumbers:  docNumbers,
		txManager:   txManager,
		locks:       locks,
		identity:    identity,
		logger:      logger,
	}
}

// Create records a new claim in draft state, or directly submitted when
// SubmitNow is set. The direct-submit path enforces the attachment rule and
// creates the reimbursement exactly as Submit does.
func (s *expenseServiceImpl) Create(ctx context.Context, input CreateExpenseInput) (*entity.ExpenseClaim, error) {
	if len(input.LineItems) == 0 && !input.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: claim amount must be positive", entity.ErrValidation)
	}
	if input.SubmitNow && len(input.Attachments) == 0 {
		return nil, fmt.Errorf("%w: at least one attachment is required to submit", entity.ErrValidation)
	}

	wallet, err := s.walletRepo.GetByID(ctx, input.WalletID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, fmt.Errorf("%w: wallet %d", entity.ErrNotFound, input.WalletID)
	}

	claim := &entity.ExpenseClaim{
		WalletID:    input.WalletID,
		CompanyID:   input.CompanyID,
		Date:        input.Date,
		Description: input.Description,
		Amount:      input.Amount,
		LineItems:   input.LineItems,
		Status:      entity.ExpenseStatusDraft,
		CreatedBy:   s.identity.CurrentActor(ctx),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	claim.ComputeTotals()
	if input.SubmitNow {
		claim.Status = entity.ExpenseStatusSubmitted
	}

	unlock := s.locks.Lock(input.WalletID)
	defer unlock()

	var reimbursement *entity.Reimbursement
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		docNumber, err := s.docNumbers.Next(txCtx, entity.DocKindExpense)
		if err != nil {
			return err
		}
		claim.DocNumber = docNumber

		if err := s.expenseRepo.Create(txCtx, claim); err != nil {
			return fmt.Errorf("create claim: %w", err)
		}

		for _, ref := range input.Attachments {
			att := &entity.Attachment{ExpenseID: claim.ID, Ref: ref, CreatedAt: time.Now()}
			if err := s.attachRepo.Add(txCtx, att); err != nil {
				return fmt.Errorf("add attachment: %w", err)
			}
		}

		if input.SubmitNow {
			reimbursement, err = s.spawnReimbursement(txCtx, claim)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to create claim", "error", err, "wallet_id", input.WalletID)
		return nil, err
	}

	s.logger.Info("Claim created", "id", claim.ID, "doc_number", claim.DocNumber, "status", claim.Status)
	if reimbursement != nil {
		s.logger.Info("Reimbursement created", "id", reimbursement.ID, "expense_id", claim.ID)
	}
	return claim, nil
}

// Get retrieves a claim by ID
func (s *expenseServiceImpl) Get(ctx context.Context, id int64) (*entity.ExpenseClaim, error) {
	claim, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, fmt.Errorf("%w: claim %d", entity.ErrNotFound, id)
	}
	return claim, nil
}

// ListByWallet returns all claims against a wallet
func (s *expenseServiceImpl) ListByWallet(ctx context.Context, walletID int64) ([]*entity.ExpenseClaim, error) {
	return s.expenseRepo.GetByWalletID(ctx, walletID)
}

// Update applies a partial patch, recomputing totals when monetary fields
// change. Edit permission follows claim state: drafts are free, submitted
// and approved claims need EditMode, paid claims refuse monetary changes,
// rejected claims are immutable.
func (s *expenseServiceImpl) Update(ctx context.Context, id int64, input UpdateExpenseInput) (*entity.ExpenseClaim, error) {
	claim, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !claim.IsEditable(input.EditMode) {
		return nil, fmt.Errorf("%w: claim %d is not editable in status %s", entity.ErrInvalidStateTransition, id, claim.Status)
	}

	monetaryChange := input.Amount != nil || input.LineItems != nil
	if monetaryChange && claim.AmountLocked() {
		return nil, fmt.Errorf("%w: claim %d amount is locked once paid", entity.ErrInvalidStateTransition, id)
	}

	if input.Date != nil {
		claim.Date = *input.Date
	}
	if input.Description != nil {
		claim.Description = *input.Description
	}
	if input.Amount != nil {
		if len(claim.LineItems) == 0 && input.LineItems == nil && !input.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: claim amount must be positive", entity.ErrValidation)
		}
		claim.Amount = *input.Amount
	}
	if input.LineItems != nil {
		claim.LineItems = *input.LineItems
	}
	if monetaryChange {
		claim.ComputeTotals()
	}
	claim.UpdatedAt = time.Now()

	if err := s.expenseRepo.Update(ctx, claim); err != nil {
		s.logger.Error("Failed to update claim", "error", err, "id", id)
		return nil, err
	}

	s.logger.Info("Claim updated", "id", id)
	return claim, nil
}

// AddAttachment appends an opaque attachment reference to a claim.
func (s *expenseServiceImpl) AddAttachment(ctx context.Context, id int64, ref string) error {
	if ref == "" {
		return fmt.Errorf("%w: attachment ref is required", entity.ErrValidation)
	}

	claim, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if claim.Status == entity.ExpenseStatusRejected {
		return fmt.Errorf("%w: claim %d is rejected", entity.ErrInvalidStateTransition, id)
	}

	att := &entity.Attachment{ExpenseID: id, Ref: ref, CreatedAt: time.Now()}
	return s.attachRepo.Add(ctx, att)
}

// Submit transitions a draft claim to submitted and creates its paired
// reimbursement. Both effects commit in one transaction or not at all.
// At least one attachment must be present; that is a hard rule.
func (s *expenseServiceImpl) Submit(ctx context.Context, id int64) (*entity.ExpenseClaim, *entity.Reimbursement, error) {
	claim, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	machine, err := workflow.NewExpenseClaimMachine(workflow.State(claim.Status))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: claim %d has status %s", entity.ErrInvalidStateTransition, id, claim.Status)
	}
	if err := machine.Fire(ctx, workflow.TriggerSubmit); err != nil {
		return nil, nil, fmt.Errorf("%w: cannot submit claim %d from status %s", entity.ErrInvalidStateTransition, id, claim.Status)
	}

	count, err := s.attachRepo.CountByExpenseID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if count == 0 {
		return nil, nil, fmt.Errorf("%w: at least one attachment is required to submit", entity.ErrValidation)
	}

	unlock := s.locks.Lock(claim.WalletID)
	defer unlock()

	var reimbursement *entity.Reimbursement
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.reimbRepo.GetByExpenseID(txCtx, id)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: claim %d already has reimbursement %d", entity.ErrIntegrityViolation, id, existing.ID)
		}

		if err := s.expenseRepo.UpdateStatus(txCtx, id, string(machine.State())); err != nil {
			return fmt.Errorf("update claim status: %w", err)
		}

		reimbursement, err = s.spawnReimbursement(txCtx, claim)
		return err
	})
	if err != nil {
		s.logger.Error("Failed to submit claim", "error", err, "id", id)
		return nil, nil, err
	}

	claim.Status = string(machine.State())
	s.logger.Info("Claim submitted", "id", id, "reimbursement_id", reimbursement.ID)
	return claim, reimbursement, nil
}

// spawnReimbursement creates the pending reimbursement paired with a claim.
// Must run inside the same transaction as the status change.
func (s *expenseServiceImpl) spawnReimbursement(ctx context.Context, claim *entity.ExpenseClaim) (*entity.Reimbursement, error) {
	docNumber, err := s.docNumbers.Next(ctx, entity.DocKindReimbursement)
	if err != nil {
		return nil, err
	}

	r := &entity.Reimbursement{
		DocNumber:        docNumber,
		ExpenseID:        claim.ID,
		ExpenseDocNumber: claim.DocNumber,
		WalletID:         claim.WalletID,
		CompanyID:        claim.CompanyID,
		Amount:           claim.Amount,
		FinalAmount:      claim.Amount,
		Status:           entity.ReimbursementStatusPending,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	if err := s.reimbRepo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create reimbursement: %w", err)
	}
	return r, nil
}

// Review moves a submitted claim to approved.
func (s *expenseServiceImpl) Review(ctx context.Context, id int64) (*entity.ExpenseClaim, error) {
	return s.transition(ctx, id, workflow.TriggerReview)
}

// Pay moves an approved claim to paid, locking its amount.
func (s *expenseServiceImpl) Pay(ctx context.Context, id int64) (*entity.ExpenseClaim, error) {
	return s.transition(ctx, id, workflow.TriggerPay)
}

// Reject terminates a draft, submitted or approved claim.
func (s *expenseServiceImpl) Reject(ctx context.Context, id int64) (*entity.ExpenseClaim, error) {
	return s.transition(ctx, id, workflow.TriggerReject)
}

func (s *expenseServiceImpl) transition(ctx context.Context, id int64, trigger workflow.Trigger) (*entity.ExpenseClaim, error) {
	claim, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	machine, err := workflow.NewExpenseClaimMachine(workflow.State(claim.Status))
	if err != nil {
		return nil, fmt.Errorf("%w: claim %d has status %s", entity.ErrInvalidStateTransition, id, claim.Status)
	}
	if err := machine.Fire(ctx, trigger); err != nil {
		return nil, fmt.Errorf("%w: cannot %s claim %d from status %s", entity.ErrInvalidStateTransition, trigger, id, claim.Status)
	}

	claim.Status = string(machine.State())
	if err := s.expenseRepo.UpdateStatus(ctx, id, claim.Status); err != nil {
		return nil, err
	}

	s.logger.Info("Claim transitioned", "id", id, "trigger", trigger.String(), "status", claim.Status)
	return claim, nil
}

// Delete removes a claim; only drafts may be deleted.
func (s *expenseServiceImpl) Delete(ctx context.Context, id int64) error {
	claim, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if claim.Status != entity.ExpenseStatusDraft {
		return fmt.Errorf("%w: claim %d has status %s, only drafts may be deleted", entity.ErrIntegrityViolation, id, claim.Status)
	}

	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Claim deleted", "id", id)
	return nil
}
