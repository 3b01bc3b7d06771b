package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/faraway-yachting/pettycash/internal/application/port"
	"github.com/faraway-yachting/pettycash/internal/domain/entity"
)

// CreateWalletInput carries the fields needed to open a wallet.
type CreateWalletInput struct {
	HolderID            string
	HolderName          string
	CompanyID           int64
	Currency            string
	BeginningBalance    decimal.Decimal
	BalanceLimit        *decimal.Decimal
	LowBalanceThreshold *decimal.Decimal
}

// WalletService owns wallet records and the balance mutation primitives.
// Balance invariants: never negative, and credits never push the balance
// above the configured limit. Mutations on the same wallet are serialized.
type WalletService interface {
	Create(ctx context.Context, input CreateWalletInput) (*entity.Wallet, error)
	Get(ctx context.Context, id int64) (*entity.Wallet, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Wallet, error)
	Deduct(ctx context.Context, walletID int64, amount decimal.Decimal) (*entity.Wallet, error)
	Credit(ctx context.Context, walletID int64, amount decimal.Decimal) (*entity.Wallet, error)
	ToggleStatus(ctx context.Context, id int64) (*entity.Wallet, error)
	Delete(ctx context.Context, id int64) error
	LowBalance(ctx context.Context) ([]*entity.Wallet, error)
}

type walletServiceImpl struct {
	walletRepo port.WalletRepository
	docNumbers DocumentNumberService
	txManager  port.TransactionManager
	locks      *WalletLock
	logger     Logger
}

// NewWalletService creates a new WalletService
func NewWalletService(
	walletRepo port.WalletRepository,
	docNumbers DocumentNumberService,
	txManager port.TransactionManager,
	locks *WalletLock,
	logger Logger,
) WalletService {
	return &walletServiceImpl{
		walletRepo: walletRepo,
		docNumbers: docNumbers,
		txManager:  txManager,
		locks:      locks,
		logger:     logger,
	}
}

// Create opens a wallet with the beginning balance and active status.
func (s *walletServiceImpl) Create(ctx context.Context, input CreateWalletInput) (*entity.Wallet, error) {
	if input.HolderID == "" {
		return nil, fmt.Errorf("%w: holder is required", entity.ErrValidation)
	}
	if input.BeginningBalance.IsNegative() {
		return nil, fmt.Errorf("%w: beginning balance must not be negative", entity.ErrValidation)
	}
	if input.BalanceLimit != nil && input.BalanceLimit.IsNegative() {
		return nil, fmt.Errorf("%w: balance limit must not be negative", entity.ErrValidation)
	}

	wallet := &entity.Wallet{
		HolderID:            input.HolderID,
		HolderName:          input.HolderName,
		CompanyID:           input.CompanyID,
		Currency:            input.Currency,
		Balance:             input.BeginningBalance,
		BalanceLimit:        input.BalanceLimit,
		LowBalanceThreshold: input.LowBalanceThreshold,
		Status:              entity.WalletStatusActive,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		docNumber, err := s.docNumbers.Next(txCtx, entity.DocKindWallet)
		if err != nil {
			return err
		}
		wallet.DocNumber = docNumber

		return s.walletRepo.Create(txCtx, wallet)
	})
	if err != nil {
		s.logger.Error("Failed to create wallet", "error", err, "holder_id", input.HolderID)
		return nil, err
	}

	s.logger.Info("Wallet created", "id", wallet.ID, "doc_number", wallet.DocNumber)
	return wallet, nil
}

// Get retrieves a wallet by ID
func (s *walletServiceImpl) Get(ctx context.Context, id int64) (*entity.Wallet, error) {
	wallet, err := s.walletRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, fmt.Errorf("%w: wallet %d", entity.ErrNotFound, id)
	}
	return wallet, nil
}

// List returns wallets with pagination
func (s *walletServiceImpl) List(ctx context.Context, limit, offset int) ([]*entity.Wallet, error) {
	return s.walletRepo.List(ctx, limit, offset)
}

// Deduct subtracts amount from the wallet balance. The operation is
// all-or-nothing: if the result would be negative nothing is applied and
// ErrInsufficientFunds is returned.
func (s *walletServiceImpl) Deduct(ctx context.Context, walletID int64, amount decimal.Decimal) (*entity.Wallet, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: deduction amount must be positive", entity.ErrValidation)
	}

	unlock := s.locks.Lock(walletID)
	defer unlock()

	var wallet *entity.Wallet
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		wallet, err = s.walletRepo.GetByID(txCtx, walletID)
		if err != nil {
			return err
		}
		if wallet == nil {
			return fmt.Errorf("%w: wallet %d", entity.ErrNotFound, walletID)
		}

		newBalance := wallet.Balance.Sub(amount)
		if newBalance.IsNegative() {
			return fmt.Errorf("%w: wallet %d balance %s, deduction %s",
				entity.ErrInsufficientFunds, walletID, wallet.Balance, amount)
		}

		if err := s.walletRepo.UpdateBalance(txCtx, walletID, newBalance); err != nil {
			return err
		}
		wallet.Balance = newBalance
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Wallet deducted", "id", walletID, "amount", amount.String(), "balance", wallet.Balance.String())
	return wallet, nil
}

// Credit adds amount to the wallet balance, failing with ErrLimitExceeded
// when a balance limit is set and would be exceeded.
func (s *walletServiceImpl) Credit(ctx context.Context, walletID int64, amount decimal.Decimal) (*entity.Wallet, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: credit amount must be positive", entity.ErrValidation)
	}

	unlock := s.locks.Lock(walletID)
	defer unlock()

	var wallet *entity.Wallet
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		wallet, err = s.walletRepo.GetByID(txCtx, walletID)
		if err != nil {
			return err
		}
		if wallet == nil {
			return fmt.Errorf("%w: wallet %d", entity.ErrNotFound, walletID)
		}

		newBalance := wallet.Balance.Add(amount)
		if wallet.BalanceLimit != nil && newBalance.GreaterThan(*wallet.BalanceLimit) {
			return fmt.Errorf("%w: wallet %d limit %s, credit would reach %s",
				entity.ErrLimitExceeded, walletID, wallet.BalanceLimit, newBalance)
		}

		if err := s.walletRepo.UpdateBalance(txCtx, walletID, newBalance); err != nil {
			return err
		}
		wallet.Balance = newBalance
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Wallet credited", "id", walletID, "amount", amount.String(), "balance", wallet.Balance.String())
	return wallet, nil
}

// ToggleStatus flips a wallet between active and closed, independent of
// its balance.
func (s *walletServiceImpl) ToggleStatus(ctx context.Context, id int64) (*entity.Wallet, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	wallet, err := s.walletRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, fmt.Errorf("%w: wallet %d", entity.ErrNotFound, id)
	}

	if wallet.Status == entity.WalletStatusActive {
		wallet.Status = entity.WalletStatusClosed
	} else {
		wallet.Status = entity.WalletStatusActive
	}

	if err := s.walletRepo.UpdateStatus(ctx, id, wallet.Status); err != nil {
		return nil, err
	}

	s.logger.Info("Wallet status toggled", "id", id, "status", wallet.Status)
	return wallet, nil
}

// Delete removes a wallet; only permitted at zero balance.
func (s *walletServiceImpl) Delete(ctx context.Context, id int64) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	wallet, err := s.walletRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if wallet == nil {
		return fmt.Errorf("%w: wallet %d", entity.ErrNotFound, id)
	}

	if !wallet.Balance.IsZero() {
		return fmt.Errorf("%w: wallet %d has balance %s", entity.ErrIntegrityViolation, id, wallet.Balance)
	}

	if err := s.walletRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Wallet deleted", "id", id)
	return nil
}

// LowBalance returns active wallets at or below their threshold.
func (s *walletServiceImpl) LowBalance(ctx context.Context) ([]*entity.Wallet, error) {
	return s.walletRepo.GetLowBalance(ctx)
}
