package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/faraway-yachting/pettycash/internal/domain/entity"
	"github.com/faraway-yachting/pettycash/internal/infrastructure/persistence/sqlite"
	"github.com/faraway-yachting/pettycash/migrations"
	"github.com/faraway-yachting/pettycash/pkg/database"
)

// openTestDB creates a migrated database in a per-test temp directory.
func openTestDB(t *testing.T) *sqlite.DB {
	t.Helper()

	cfg := database.Config{
		Path:         filepath.Join(t.TempDir(), "pettycash_test.db"),
		MaxOpenConns: 1,
	}
	logger := zap.NewNop()

	db, err := database.New(cfg, logger)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.NewMigrator(db, logger).Run(migrations.FS); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return sqlite.NewDB(db.DB, logger)
}

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func seedWallet(t *testing.T, db *sqlite.DB) *entity.Wallet {
	t.Helper()

	repo := NewWalletRepository(db, zap.NewNop())
	limit := decimal.NewFromInt(5000)
	wallet := &entity.Wallet{
		DocNumber:    "WLT-2501-0001",
		HolderID:     "captain-01",
		HolderName:   "Captain",
		CompanyID:    1,
		Currency:     "THB",
		Balance:      decimal.NewFromInt(1000),
		BalanceLimit: &limit,
		Status:       entity.WalletStatusActive,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), wallet); err != nil {
		t.Fatalf("failed to seed wallet: %v", err)
	}
	return wallet
}

func TestWalletRepository_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewWalletRepository(db, zap.NewNop())
	ctx := context.Background()

	wallet := seedWallet(t, db)
	if wallet.ID == 0 {
		t.Fatal("Create did not set ID")
	}

	got, err := repo.GetByID(ctx, wallet.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetByID() = nil, want wallet")
	}
	if !got.Balance.Equal(mustDec(t, "1000")) {
		t.Errorf("Balance = %s, want 1000", got.Balance)
	}
	if got.BalanceLimit == nil || !got.BalanceLimit.Equal(mustDec(t, "5000")) {
		t.Errorf("BalanceLimit = %v, want 5000", got.BalanceLimit)
	}
	if got.LowBalanceThreshold != nil {
		t.Errorf("LowBalanceThreshold = %v, want nil", got.LowBalanceThreshold)
	}

	// Exact decimal round trip through the TEXT column
	if err := repo.UpdateBalance(ctx, wallet.ID, mustDec(t, "123.45")); err != nil {
		t.Fatalf("UpdateBalance() error = %v", err)
	}
	got, _ = repo.GetByID(ctx, wallet.ID)
	if !got.Balance.Equal(mustDec(t, "123.45")) {
		t.Errorf("Balance after update = %s, want 123.45", got.Balance)
	}

	missing, err := repo.GetByID(ctx, 9999)
	if err != nil {
		t.Fatalf("GetByID(missing) error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetByID(missing) = %+v, want nil", missing)
	}
}

func TestWalletRepository_GetLowBalance(t *testing.T) {
	db := openTestDB(t)
	repo := NewWalletRepository(db, zap.NewNop())
	ctx := context.Background()

	threshold := decimal.NewFromInt(500)
	low := &entity.Wallet{
		DocNumber: "WLT-2501-0001", HolderID: "a", CompanyID: 1, Currency: "THB",
		Balance: decimal.NewFromInt(400), LowBalanceThreshold: &threshold,
		Status: entity.WalletStatusActive, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	healthy := &entity.Wallet{
		DocNumber: "WLT-2501-0002", HolderID: "b", CompanyID: 1, Currency: "THB",
		Balance: decimal.NewFromInt(900), LowBalanceThreshold: &threshold,
		Status: entity.WalletStatusActive, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	noThreshold := &entity.Wallet{
		DocNumber: "WLT-2501-0003", HolderID: "c", CompanyID: 1, Currency: "THB",
		Balance: decimal.Zero,
		Status:  entity.WalletStatusActive, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	for _, w := range []*entity.Wallet{low, healthy, noThreshold} {
		if err := repo.Create(ctx, w); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	got, err := repo.GetLowBalance(ctx)
	if err != nil {
		t.Fatalf("GetLowBalance() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != low.ID {
		t.Errorf("GetLowBalance() returned %d wallets, want only the low one", len(got))
	}
}

func TestExpenseClaimRepository_LineItemsPersistTogether(t *testing.T) {
	db := openTestDB(t)
	repo := NewExpenseClaimRepository(db, zap.NewNop())
	ctx := context.Background()
	wallet := seedWallet(t, db)

	claim := &entity.ExpenseClaim{
		DocNumber:   "EXP-2501-0001",
		WalletID:    wallet.ID,
		CompanyID:   1,
		Date:        time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC),
		Description: "fuel and provisions",
		Status:      entity.ExpenseStatusDraft,
		CreatedBy:   "captain-01",
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
		LineItems: []entity.ExpenseLineItem{
			{Description: "fuel", PreVATAmount: mustDec(t, "100"), VATAmount: mustDec(t, "7"), WHTAmount: mustDec(t, "3")},
			{Description: "ice", PreVATAmount: mustDec(t, "200"), VATAmount: mustDec(t, "14"), WHTAmount: decimal.Zero},
		},
	}
	claim.ComputeTotals()

	if err := repo.Create(ctx, claim); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID(ctx, claim.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if len(got.LineItems) != 2 {
		t.Fatalf("line items = %d, want 2", len(got.LineItems))
	}
	if !got.NetAmount.Equal(mustDec(t, "318")) {
		t.Errorf("NetAmount = %s, want 318", got.NetAmount)
	}

	// Update replaces the item set
	got.LineItems = got.LineItems[:1]
	got.ComputeTotals()
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, _ = repo.GetByID(ctx, claim.ID)
	if len(got.LineItems) != 1 {
		t.Errorf("line items after update = %d, want 1", len(got.LineItems))
	}
	if !got.NetAmount.Equal(mustDec(t, "104")) {
		t.Errorf("NetAmount after update = %s, want 104", got.NetAmount)
	}
}

func TestExpenseClaimRepository_ListSubmitted(t *testing.T) {
	db := openTestDB(t)
	repo := NewExpenseClaimRepository(db, zap.NewNop())
	ctx := context.Background()
	wallet := seedWallet(t, db)

	statuses := []string{
		entity.ExpenseStatusDraft,
		entity.ExpenseStatusSubmitted,
		entity.ExpenseStatusApproved,
		entity.ExpenseStatusPaid,
		entity.ExpenseStatusRejected,
	}
	for i, status := range statuses {
		claim := &entity.ExpenseClaim{
			DocNumber: "EXP-2501-000" + string(rune('1'+i)),
			WalletID:  wallet.ID, CompanyID: 1,
			Date:   time.Date(2025, 1, 1+i, 0, 0, 0, 0, time.UTC),
			Amount: decimal.NewFromInt(10), Status: status,
			CreatedAt: time.Now(), UpdatedAt: time.Now(),
		}
		claim.ComputeTotals()
		if err := repo.Create(ctx, claim); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	got, err := repo.ListSubmitted(ctx)
	if err != nil {
		t.Fatalf("ListSubmitted() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListSubmitted() = %d claims, want 3 (draft and rejected excluded)", len(got))
	}
	for _, c := range got {
		if c.Status == entity.ExpenseStatusDraft || c.Status == entity.ExpenseStatusRejected {
			t.Errorf("ListSubmitted() included status %s", c.Status)
		}
	}
}

func TestReimbursementRepository_UniquePerClaim(t *testing.T) {
	db := openTestDB(t)
	expenseRepo := NewExpenseClaimRepository(db, zap.NewNop())
	reimbRepo := NewReimbursementRepository(db, zap.NewNop())
	ctx := context.Background()
	wallet := seedWallet(t, db)

	claim := &entity.ExpenseClaim{
		DocNumber: "EXP-2501-0001", WalletID: wallet.ID, CompanyID: 1,
		Date: time.Now(), Amount: decimal.NewFromInt(150),
		Status: entity.ExpenseStatusSubmitted, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	claim.ComputeTotals()
	if err := expenseRepo.Create(ctx, claim); err != nil {
		t.Fatalf("Create(claim) error = %v", err)
	}

	reimb := &entity.Reimbursement{
		DocNumber: "RBM-2501-0001", ExpenseID: claim.ID, ExpenseDocNumber: claim.DocNumber,
		WalletID: wallet.ID, CompanyID: 1,
		Amount: claim.Amount, FinalAmount: claim.Amount,
		Status: entity.ReimbursementStatusPending, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	if err := reimbRepo.Create(ctx, reimb); err != nil {
		t.Fatalf("Create(reimbursement) error = %v", err)
	}

	// Second reimbursement for the same claim violates the UNIQUE constraint
	dup := &entity.Reimbursement{
		DocNumber: "RBM-2501-0002", ExpenseID: claim.ID, ExpenseDocNumber: claim.DocNumber,
		WalletID: wallet.ID, CompanyID: 1,
		Amount: claim.Amount, FinalAmount: claim.Amount,
		Status: entity.ReimbursementStatusPending, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	if err := reimbRepo.Create(ctx, dup); err == nil {
		t.Error("Create(duplicate reimbursement) succeeded, want unique constraint error")
	}

	got, err := reimbRepo.GetByExpenseID(ctx, claim.ID)
	if err != nil {
		t.Fatalf("GetByExpenseID() error = %v", err)
	}
	if got == nil || got.ID != reimb.ID {
		t.Error("GetByExpenseID() did not return the original reimbursement")
	}
}

func TestTransactionManager_SubmitCommitsOrRollsBackTogether(t *testing.T) {
	db := openTestDB(t)
	expenseRepo := NewExpenseClaimRepository(db, zap.NewNop())
	reimbRepo := NewReimbursementRepository(db, zap.NewNop())
	ctx := context.Background()
	wallet := seedWallet(t, db)

	claim := &entity.ExpenseClaim{
		DocNumber: "EXP-2501-0001", WalletID: wallet.ID, CompanyID: 1,
		Date: time.Now(), Amount: decimal.NewFromInt(150),
		Status: entity.ExpenseStatusDraft, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	claim.ComputeTotals()
	if err := expenseRepo.Create(ctx, claim); err != nil {
		t.Fatalf("Create(claim) error = %v", err)
	}

	submit := func(txCtx context.Context, docNumber string) error {
		if err := expenseRepo.UpdateStatus(txCtx, claim.ID, entity.ExpenseStatusSubmitted); err != nil {
			return err
		}
		return reimbRepo.Create(txCtx, &entity.Reimbursement{
			DocNumber: docNumber, ExpenseID: claim.ID, ExpenseDocNumber: claim.DocNumber,
			WalletID: wallet.ID, CompanyID: 1,
			Amount: claim.Amount, FinalAmount: claim.Amount,
			Status: entity.ReimbursementStatusPending, CreatedAt: time.Now(), UpdatedAt: time.Now(),
		})
	}

	// Rollback: the function fails after both writes
	errBoom := errors.New("boom")
	err := db.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := submit(txCtx, "RBM-2501-0001"); err != nil {
			return err
		}
		return errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("WithTransaction() error = %v, want boom", err)
	}

	got, _ := expenseRepo.GetByID(ctx, claim.ID)
	if got.Status != entity.ExpenseStatusDraft {
		t.Errorf("status after rollback = %s, want DRAFT", got.Status)
	}
	reimb, _ := reimbRepo.GetByExpenseID(ctx, claim.ID)
	if reimb != nil {
		t.Error("reimbursement survived rollback")
	}

	// Commit: both writes land
	if err := db.WithTransaction(ctx, func(txCtx context.Context) error {
		return submit(txCtx, "RBM-2501-0001")
	}); err != nil {
		t.Fatalf("WithTransaction() error = %v", err)
	}

	got, _ = expenseRepo.GetByID(ctx, claim.ID)
	if got.Status != entity.ExpenseStatusSubmitted {
		t.Errorf("status after commit = %s, want SUBMITTED", got.Status)
	}
	reimb, _ = reimbRepo.GetByExpenseID(ctx, claim.ID)
	if reimb == nil {
		t.Fatal("reimbursement missing after commit")
	}
	if !reimb.Amount.Equal(claim.Amount) {
		t.Errorf("reimbursement amount = %s, want %s", reimb.Amount, claim.Amount)
	}
}

func TestSequenceRepository_Next(t *testing.T) {
	db := openTestDB(t)
	repo := NewSequenceRepository(db, zap.NewNop())
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := repo.Next(ctx, entity.DocKindExpense)
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if got != want {
			t.Errorf("Next() = %d, want %d", got, want)
		}
	}

	// Kinds count independently
	got, err := repo.Next(ctx, entity.DocKindTopUp)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if got != 1 {
		t.Errorf("Next(other kind) = %d, want 1", got)
	}
}

func TestTopUpRepository_RoundTripAndDelete(t *testing.T) {
	db := openTestDB(t)
	repo := NewTopUpRepository(db, zap.NewNop())
	ctx := context.Background()
	wallet := seedWallet(t, db)

	topUp := &entity.TopUpRequest{
		DocNumber: "TOP-2501-0001", WalletID: wallet.ID, CompanyID: 1,
		BankAccountRef: "SCB-001", Amount: decimal.NewFromInt(1000),
		Date: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		Status: entity.TopUpStatusPending, RequestedBy: "captain-01",
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	if err := repo.Create(ctx, topUp); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	topUp.Status = entity.TopUpStatusCompleted
	topUp.ApprovedBy = "manager-01"
	topUp.ApprovedAt = &now
	topUp.CompletedBy = "manager-01"
	topUp.CompletedAt = &now
	topUp.CompletionRef = "TRN-42"
	if err := repo.Update(ctx, topUp); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByID(ctx, topUp.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != entity.TopUpStatusCompleted || got.CompletionRef != "TRN-42" {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if got.ApprovedAt == nil || got.CompletedAt == nil {
		t.Error("timestamps not persisted")
	}

	completed, err := repo.ListByStatus(ctx, entity.TopUpStatusCompleted)
	if err != nil {
		t.Fatalf("ListByStatus() error = %v", err)
	}
	if len(completed) != 1 {
		t.Errorf("ListByStatus(COMPLETED) = %d, want 1", len(completed))
	}

	if err := repo.Delete(ctx, topUp.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	gone, _ := repo.GetByID(ctx, topUp.ID)
	if gone != nil {
		t.Error("top-up still present after delete")
	}
}

func TestAttachmentRepository_Count(t *testing.T) {
	db := openTestDB(t)
	expenseRepo := NewExpenseClaimRepository(db, zap.NewNop())
	attRepo := NewAttachmentRepository(db, zap.NewNop())
	ctx := context.Background()
	wallet := seedWallet(t, db)

	claim := &entity.ExpenseClaim{
		DocNumber: "EXP-2501-0001", WalletID: wallet.ID, CompanyID: 1,
		Date: time.Now(), Amount: decimal.NewFromInt(50),
		Status: entity.ExpenseStatusDraft, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	claim.ComputeTotals()
	if err := expenseRepo.Create(ctx, claim); err != nil {
		t.Fatalf("Create(claim) error = %v", err)
	}

	count, err := attRepo.CountByExpenseID(ctx, claim.ID)
	if err != nil {
		t.Fatalf("CountByExpenseID() error = %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}

	for _, ref := range []string{"receipts/a.jpg", "receipts/b.jpg"} {
		if err := attRepo.Add(ctx, &entity.Attachment{ExpenseID: claim.ID, Ref: ref}); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	count, _ = attRepo.CountByExpenseID(ctx, claim.ID)
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	atts, err := attRepo.GetByExpenseID(ctx, claim.ID)
	if err != nil {
		t.Fatalf("GetByExpenseID() error = %v", err)
	}
	if len(atts) != 2 || atts[0].Ref != "receipts/a.jpg" {
		t.Errorf("attachments not returned in insert order: %+v", atts)
	}
}
