package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/faraway-yachting/pettycash/internal/application/port"
	"github.com/faraway-yachting/pettycash/internal/domain/entity"
)

// LedgerService projects submitted claims, completed top-ups and paid
// reimbursements into one chronological transaction log. The projection is
// pure: recomputed on every call, nothing persisted.
type LedgerService interface {
	// AllTransactions merges the three sources sorted by date descending.
	// Entries with identical dates keep the concatenation order
	// expenses -> top-ups -> reimbursements (stable sort).
	AllTransactions(ctx context.Context) ([]entity.LedgerTransaction, error)

	// MonthlyTotal sums signed amounts over the half-open interval
	// [periodStart, nextPeriodStart).
	MonthlyTotal(ctx context.Context, year int, month time.Month) (decimal.Decimal, error)

	// TransactionsInRange filters over the inclusive interval
	// [dateFrom, dateTo].
	TransactionsInRange(ctx context.Context, dateFrom, dateTo time.Time) ([]entity.LedgerTransaction, error)
}

type ledgerServiceImpl struct {
	expenseRepo port.ExpenseClaimRepository
	topUpRepo   port.TopUpRepository
	reimbRepo   port.ReimbursementRepository
	logger      Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	expenseRepo port.ExpenseClaimRepository,
	topUpRepo port.TopUpRepository,
	reimbRepo port.ReimbursementRepository,
	logger Logger,
) LedgerService {
	return &ledgerServiceImpl{
		expenseRepo: expenseRepo,
		topUpRepo:   topUpRepo,
		reimbRepo:   reimbRepo,
		logger:      logger,
	}
}

// AllTransactions merges the three sources into one log, newest first.
func (s *ledgerServiceImpl) AllTransactions(ctx context.Context) ([]entity.LedgerTransaction, error) {
	claims, err := s.expenseRepo.ListSubmitted(ctx)
	if err != nil {
		return nil, err
	}
	topUps, err := s.topUpRepo.ListByStatus(ctx, entity.TopUpStatusCompleted)
	if err != nil {
		return nil, err
	}
	reimbs, err := s.reimbRepo.ListByStatus(ctx, entity.ReimbursementStatusPaid)
	if err != nil {
		return nil, err
	}

	transactions := make([]entity.LedgerTransaction, 0, len(claims)+len(topUps)+len(reimbs))

	for _, c := range claims {
		transactions = append(transactions, entity.LedgerTransaction{
			Type:      entity.LedgerEntryExpense,
			Date:      c.Date,
			Amount:    c.NetAmount.Neg(),
			WalletID:  c.WalletID,
			CompanyID: c.CompanyID,
			DocNumber: c.DocNumber,
		})
	}
	for _, t := range topUps {
		transactions = append(transactions, entity.LedgerTransaction{
			Type:      entity.LedgerEntryTopUp,
			Date:      t.Date,
			Amount:    t.Amount,
			WalletID:  t.WalletID,
			CompanyID: t.CompanyID,
			DocNumber: t.DocNumber,
		})
	}
	for _, r := range reimbs {
		date := r.UpdatedAt
		if r.PaymentDate != nil {
			date = *r.PaymentDate
		}
		transactions = append(transactions, entity.LedgerTransaction{
			Type:      entity.LedgerEntryReimbursementPaid,
			Date:      date,
			Amount:    r.FinalAmount,
			WalletID:  r.WalletID,
			CompanyID: r.CompanyID,
			DocNumber: r.DocNumber,
		})
	}

	// Stable: equal dates keep the expenses -> top-ups -> reimbursements order
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date)
	})

	return transactions, nil
}

// MonthlyTotal sums amounts over [monthStart, nextMonthStart).
func (s *ledgerServiceImpl) MonthlyTotal(ctx context.Context, year int, month time.Month) (decimal.Decimal, error) {
	transactions, err := s.AllTransactions(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	periodStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	nextPeriodStart := periodStart.AddDate(0, 1, 0)

	total := decimal.Zero
	for _, tx := range transactions {
		if !tx.Date.Before(periodStart) && tx.Date.Before(nextPeriodStart) {
			total = total.Add(tx.Amount)
		}
	}
	return total, nil
}

// TransactionsInRange filters over [dateFrom, dateTo], both inclusive.
func (s *ledgerServiceImpl) TransactionsInRange(ctx context.Context, dateFrom, dateTo time.Time) ([]entity.LedgerTransaction, error) {
	transactions, err := s.AllTransactions(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]entity.LedgerTransaction, 0, len(transactions))
	for _, tx := range transactions {
		if !tx.Date.Before(dateFrom) && !tx.Date.After(dateTo) {
			filtered = append(filtered, tx)
		}
	}
	return filtered, nil
}
