package service

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/faraway-yachting/pettycash/internal/domain/entity"
)

// Mock repositories in the hand-rolled function-field style: each method
// delegates to its func field when set, otherwise falls back to a neutral
// default.

type mockWalletRepo struct {
	createFunc        func(ctx context.Context, wallet *entity.Wallet) error
	getByIDFunc       func(ctx context.Context, id int64) (*entity.Wallet, error)
	listFunc          func(ctx context.Context, limit, offset int) ([]*entity.Wallet, error)
	updateFunc        func(ctx context.Context, wallet *entity.Wallet) error
	updateBalanceFunc func(ctx context.Context, id int64, balance decimal.Decimal) error
	updateStatusFunc  func(ctx context.Context, id int64, status string) error
	deleteFunc        func(ctx context.Context, id int64) error
	getLowBalanceFunc func(ctx context.Context) ([]*entity.Wallet, error)
}

func (m *mockWalletRepo) Create(ctx context.Context, wallet *entity.Wallet) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, wallet)
	}
	wallet.ID = 1
	return nil
}

func (m *mockWalletRepo) GetByID(ctx context.Context, id int64) (*entity.Wallet, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.Wallet{ID: id, Status: entity.WalletStatusActive}, nil
}

func (m *mockWalletRepo) List(ctx context.Context, limit, offset int) ([]*entity.Wallet, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, offset)
	}
	return []*entity.Wallet{}, nil
}

func (m *mockWalletRepo) Update(ctx context.Context, wallet *entity.Wallet) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, wallet)
	}
	return nil
}

func (m *mockWalletRepo) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	if m.updateBalanceFunc != nil {
		return m.updateBalanceFunc(ctx, id, balance)
	}
	return nil
}

func (m *mockWalletRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockWalletRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockWalletRepo) GetLowBalance(ctx context.Context) ([]*entity.Wallet, error) {
	if m.getLowBalanceFunc != nil {
		return m.getLowBalanceFunc(ctx)
	}
	return []*entity.Wallet{}, nil
}

type mockExpenseRepo struct {
	mu      sync.Mutex
	claims  map[int64]*entity.ExpenseClaim
	nextID  int64
	listErr error
}

func newMockExpenseRepo() *mockExpenseRepo {
	return &mockExpenseRepo{claims: make(map[int64]*entity.ExpenseClaim)}
}

func (m *mockExpenseRepo) put(claim *entity.ExpenseClaim) *entity.ExpenseClaim {
	m.mu.Lock()
	defer m.mu.Unlock()
	if claim.ID == 0 {
		m.nextID++
		claim.ID = m.nextID
	} else if claim.ID > m.nextID {
		m.nextID = claim.ID
	}
	copied := *claim
	m.claims[claim.ID] = &copied
	return claim
}

func (m *mockExpenseRepo) Create(ctx context.Context, claim *entity.ExpenseClaim) error {
	m.put(claim)
	return nil
}

func (m *mockExpenseRepo) GetByID(ctx context.Context, id int64) (*entity.ExpenseClaim, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	claim, ok := m.claims[id]
	if !ok {
		return nil, nil
	}
	copied := *claim
	return &copied, nil
}

func (m *mockExpenseRepo) GetByWalletID(ctx context.Context, walletID int64) ([]*entity.ExpenseClaim, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.ExpenseClaim
	for _, c := range m.claims {
		if c.WalletID == walletID {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockExpenseRepo) Update(ctx context.Context, claim *entity.ExpenseClaim) error {
	m.put(claim)
	return nil
}

func (m *mockExpenseRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if claim, ok := m.claims[id]; ok {
		claim.Status = status
	}
	return nil
}

func (m *mockExpenseRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.claims, id)
	return nil
}

func (m *mockExpenseRepo) ListSubmitted(ctx context.Context) ([]*entity.ExpenseClaim, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.ExpenseClaim
	for _, c := range m.claims {
		if c.Status != entity.ExpenseStatusDraft && c.Status != entity.ExpenseStatusRejected {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

type mockReimbRepo struct {
	mu         sync.Mutex
	records    map[int64]*entity.Reimbursement
	nextID     int64
	updateFunc func(ctx context.Context, r *entity.Reimbursement) error
}

func newMockReimbRepo() *mockReimbRepo {
	return &mockReimbRepo{records: make(map[int64]*entity.Reimbursement)}
}

func (m *mockReimbRepo) put(r *entity.Reimbursement) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == 0 {
		m.nextID++
		r.ID = m.nextID
	} else if r.ID > m.nextID {
		m.nextID = r.ID
	}
	copied := *r
	m.records[r.ID] = &copied
}

func (m *mockReimbRepo) Create(ctx context.Context, r *entity.Reimbursement) error {
	m.put(r)
	return nil
}

func (m *mockReimbRepo) GetByID(ctx context.Context, id int64) (*entity.Reimbursement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (m *mockReimbRepo) GetByExpenseID(ctx context.Context, expenseID int64) (*entity.Reimbursement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ExpenseID == expenseID {
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockReimbRepo) ListByStatus(ctx context.Context, status string) ([]*entity.Reimbursement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Reimbursement
	for _, r := range m.records {
		if r.Status == status {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockReimbRepo) Update(ctx context.Context, r *entity.Reimbursement) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, r)
	}
	m.put(r)
	return nil
}

func (m *mockReimbRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

type mockTopUpRepo struct {
	mu      sync.Mutex
	records map[int64]*entity.TopUpRequest
	nextID  int64
}

func newMockTopUpRepo() *mockTopUpRepo {
	return &mockTopUpRepo{records: make(map[int64]*entity.TopUpRequest)}
}

func (m *mockTopUpRepo) put(t *entity.TopUpRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == 0 {
		m.nextID++
		t.ID = m.nextID
	} else if t.ID > m.nextID {
		m.nextID = t.ID
	}
	copied := *t
	m.records[t.ID] = &copied
}

func (m *mockTopUpRepo) Create(ctx context.Context, t *entity.TopUpRequest) error {
	m.put(t)
	return nil
}

func (m *mockTopUpRepo) GetByID(ctx context.Context, id int64) (*entity.TopUpRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (m *mockTopUpRepo) List(ctx context.Context, limit, offset int) ([]*entity.TopUpRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.TopUpRequest
	for _, t := range m.records {
		copied := *t
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockTopUpRepo) ListByStatus(ctx context.Context, status string) ([]*entity.TopUpRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.TopUpRequest
	for _, t := range m.records {
		if t.Status == status {
			copied := *t
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockTopUpRepo) Update(ctx context.Context, t *entity.TopUpRequest) error {
	m.put(t)
	return nil
}

func (m *mockTopUpRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

type mockAttachmentRepo struct {
	mu   sync.Mutex
	byID map[int64][]*entity.Attachment
}

func newMockAttachmentRepo() *mockAttachmentRepo {
	return &mockAttachmentRepo{byID: make(map[int64][]*entity.Attachment)}
}

func (m *mockAttachmentRepo) Add(ctx context.Context, att *entity.Attachment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[att.ExpenseID] = append(m.byID[att.ExpenseID], att)
	return nil
}

func (m *mockAttachmentRepo) GetByExpenseID(ctx context.Context, expenseID int64) ([]*entity.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[expenseID], nil
}

func (m *mockAttachmentRepo) CountByExpenseID(ctx context.Context, expenseID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID[expenseID]), nil
}

type mockSequenceRepo struct {
	mu       sync.Mutex
	counters map[string]int64
}

func newMockSequenceRepo() *mockSequenceRepo {
	return &mockSequenceRepo{counters: make(map[string]int64)}
}

func (m *mockSequenceRepo) Next(ctx context.Context, kind string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[kind]++
	return m.counters[kind], nil
}

type mockTxManager struct {
	withTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.withTransactionFunc != nil {
		return m.withTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockIdentity struct {
	actor string
}

func (m *mockIdentity) CurrentActor(ctx context.Context) string {
	if m.actor != "" {
		return m.actor
	}
	return "user-001"
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}
