package service

import (
	"context"
	"testing"
	"time"

	"github.com/faraway-yachting/pettycash/internal/domain/entity"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type ledgerFixture struct {
	svc         LedgerService
	expenseRepo *mockExpenseRepo
	topUpRepo   *mockTopUpRepo
	reimbRepo   *mockReimbRepo
}

func newLedgerFixture() *ledgerFixture {
	f := &ledgerFixture{
		expenseRepo: newMockExpenseRepo(),
		topUpRepo:   newMockTopUpRepo(),
		reimbRepo:   newMockReimbRepo(),
	}
	f.svc = NewLedgerService(f.expenseRepo, f.topUpRepo, f.reimbRepo, &mockLogger{})
	return f
}

func (f *ledgerFixture) addClaim(status string, d time.Time, net string) {
	claim := &entity.ExpenseClaim{
		WalletID:  1,
		Date:      d,
		Amount:    dec(net),
		NetAmount: dec(net),
		Status:    status,
		DocNumber: "EXP-X",
	}
	f.expenseRepo.put(claim)
}

func (f *ledgerFixture) addTopUp(status string, d time.Time, amount string) {
	f.topUpRepo.put(&entity.TopUpRequest{
		WalletID:  1,
		Date:      d,
		Amount:    dec(amount),
		Status:    status,
		DocNumber: "TOP-X",
	})
}

func (f *ledgerFixture) addReimbursement(status string, paid *time.Time, final string) {
	f.reimbRepo.put(&entity.Reimbursement{
		WalletID:    1,
		FinalAmount: dec(final),
		Status:      status,
		PaymentDate: paid,
		DocNumber:   "RBM-X",
	})
}

func TestLedgerService_AllTransactions_Scenario(t *testing.T) {
	// One paid reimbursement (2025-01-10, 300), one completed top-up
	// (2025-01-05, 1000), one submitted claim (2025-01-08, net 150)
	f := newLedgerFixture()
	paid := date(2025, 1, 10)
	f.addReimbursement(entity.ReimbursementStatusPaid, &paid, "300")
	f.addTopUp(entity.TopUpStatusCompleted, date(2025, 1, 5), "1000")
	f.addClaim(entity.ExpenseStatusSubmitted, date(2025, 1, 8), "150")

	transactions, err := f.svc.AllTransactions(context.Background())
	if err != nil {
		t.Fatalf("AllTransactions() error = %v", err)
	}

	if len(transactions) != 3 {
		t.Fatalf("len = %d, want 3", len(transactions))
	}

	wantOrder := []entity.LedgerEntryType{
		entity.LedgerEntryReimbursementPaid,
		entity.LedgerEntryExpense,
		entity.LedgerEntryTopUp,
	}
	for i, want := range wantOrder {
		if transactions[i].Type != want {
			t.Errorf("transactions[%d].Type = %s, want %s", i, transactions[i].Type, want)
		}
	}

	if !transactions[0].Amount.Equal(dec("300")) {
		t.Errorf("reimbursement amount = %s, want +300", transactions[0].Amount)
	}
	if !transactions[1].Amount.Equal(dec("-150")) {
		t.Errorf("expense amount = %s, want -150", transactions[1].Amount)
	}
	if !transactions[2].Amount.Equal(dec("1000")) {
		t.Errorf("top-up amount = %s, want +1000", transactions[2].Amount)
	}
}

func TestLedgerService_AllTransactions_ExcludesNonEvents(t *testing.T) {
	f := newLedgerFixture()
	f.addClaim(entity.ExpenseStatusDraft, date(2025, 1, 1), "50")
	f.addClaim(entity.ExpenseStatusRejected, date(2025, 1, 2), "60")
	f.addClaim(entity.ExpenseStatusSubmitted, date(2025, 1, 3), "70")
	f.addClaim(entity.ExpenseStatusApproved, date(2025, 1, 4), "80")
	f.addClaim(entity.ExpenseStatusPaid, date(2025, 1, 5), "90")
	f.addTopUp(entity.TopUpStatusPending, date(2025, 1, 6), "100")
	f.addTopUp(entity.TopUpStatusCompleted, date(2025, 1, 7), "200")
	f.addReimbursement(entity.ReimbursementStatusPending, nil, "10")

	transactions, err := f.svc.AllTransactions(context.Background())
	if err != nil {
		t.Fatalf("AllTransactions() error = %v", err)
	}

	// 3 submitted-or-later claims + 1 completed top-up
	if len(transactions) != 4 {
		t.Errorf("len = %d, want 4", len(transactions))
	}
	for i := 1; i < len(transactions); i++ {
		if transactions[i].Date.After(transactions[i-1].Date) {
			t.Errorf("transactions not sorted by date descending at index %d", i)
		}
	}
}

func TestLedgerService_AllTransactions_StableTieOrder(t *testing.T) {
	f := newLedgerFixture()
	sameDay := date(2025, 2, 14)
	f.addReimbursement(entity.ReimbursementStatusPaid, &sameDay, "300")
	f.addTopUp(entity.TopUpStatusCompleted, sameDay, "1000")
	f.addClaim(entity.ExpenseStatusSubmitted, sameDay, "150")

	transactions, err := f.svc.AllTransactions(context.Background())
	if err != nil {
		t.Fatalf("AllTransactions() error = %v", err)
	}

	// Equal dates keep concatenation order: expenses, top-ups, reimbursements
	wantOrder := []entity.LedgerEntryType{
		entity.LedgerEntryExpense,
		entity.LedgerEntryTopUp,
		entity.LedgerEntryReimbursementPaid,
	}
	for i, want := range wantOrder {
		if transactions[i].Type != want {
			t.Errorf("transactions[%d].Type = %s, want %s", i, transactions[i].Type, want)
		}
	}
}

func TestLedgerService_MonthlyTotal_HalfOpenInterval(t *testing.T) {
	f := newLedgerFixture()
	f.addTopUp(entity.TopUpStatusCompleted, date(2025, 1, 1), "1000")  // in
	f.addClaim(entity.ExpenseStatusSubmitted, date(2025, 1, 31), "50") // in
	f.addTopUp(entity.TopUpStatusCompleted, date(2025, 2, 1), "999")   // next period start: out
	f.addClaim(entity.ExpenseStatusSubmitted, date(2024, 12, 31), "7") // out

	total, err := f.svc.MonthlyTotal(context.Background(), 2025, time.January)
	if err != nil {
		t.Fatalf("MonthlyTotal() error = %v", err)
	}
	if !total.Equal(dec("950")) {
		t.Errorf("MonthlyTotal = %s, want 950 (1000 - 50)", total)
	}
}

func TestLedgerService_TransactionsInRange_InclusiveBounds(t *testing.T) {
	f := newLedgerFixture()
	f.addTopUp(entity.TopUpStatusCompleted, date(2025, 1, 5), "100")
	f.addTopUp(entity.TopUpStatusCompleted, date(2025, 1, 10), "200")
	f.addTopUp(entity.TopUpStatusCompleted, date(2025, 1, 15), "300")
	f.addTopUp(entity.TopUpStatusCompleted, date(2025, 1, 20), "400")

	// Both endpoints included: [Jan 10, Jan 15]
	got, err := f.svc.TransactionsInRange(context.Background(), date(2025, 1, 10), date(2025, 1, 15))
	if err != nil {
		t.Fatalf("TransactionsInRange() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if !got[0].Amount.Equal(dec("300")) || !got[1].Amount.Equal(dec("200")) {
		t.Errorf("amounts = %s, %s; want 300, 200", got[0].Amount, got[1].Amount)
	}
}
