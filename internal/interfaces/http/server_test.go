package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faraway-yachting/pettycash/internal/application/service"
	"github.com/faraway-yachting/pettycash/internal/domain/entity"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

type stubWalletService struct {
	getFn    func(ctx context.Context, id int64) (*entity.Wallet, error)
	deductFn func(ctx context.Context, walletID int64, amount decimal.Decimal) (*entity.Wallet, error)
	creditFn func(ctx context.Context, walletID int64, amount decimal.Decimal) (*entity.Wallet, error)
}

func (s *stubWalletService) Create(ctx context.Context, input service.CreateWalletInput) (*entity.Wallet, error) {
	return nil, nil
}
func (s *stubWalletService) Get(ctx context.Context, id int64) (*entity.Wallet, error) {
	return s.getFn(ctx, id)
}
func (s *stubWalletService) List(ctx context.Context, limit, offset int) ([]*entity.Wallet, error) {
	return nil, nil
}
func (s *stubWalletService) Deduct(ctx context.Context, walletID int64, amount decimal.Decimal) (*entity.Wallet, error) {
	return s.deductFn(ctx, walletID, amount)
}
func (s *stubWalletService) Credit(ctx context.Context, walletID int64, amount decimal.Decimal) (*entity.Wallet, error) {
	return s.creditFn(ctx, walletID, amount)
}
func (s *stubWalletService) ToggleStatus(ctx context.Context, id int64) (*entity.Wallet, error) {
	return nil, nil
}
func (s *stubWalletService) Delete(ctx context.Context, id int64) error { return nil }
func (s *stubWalletService) LowBalance(ctx context.Context) ([]*entity.Wallet, error) {
	return nil, nil
}

type stubReimbService struct {
	approveFn func(ctx context.Context, id int64, input service.ApproveReimbursementInput) (*entity.Reimbursement, error)
}

func (s *stubReimbService) Get(ctx context.Context, id int64) (*entity.Reimbursement, error) {
	return nil, nil
}
func (s *stubReimbService) GetByExpense(ctx context.Context, expenseID int64) (*entity.Reimbursement, error) {
	return nil, nil
}
func (s *stubReimbService) ListByStatus(ctx context.Context, status string) ([]*entity.Reimbursement, error) {
	return nil, nil
}
func (s *stubReimbService) Approve(ctx context.Context, id int64, input service.ApproveReimbursementInput) (*entity.Reimbursement, error) {
	return s.approveFn(ctx, id, input)
}
func (s *stubReimbService) ProcessPayment(ctx context.Context, id int64, paymentDate time.Time, paymentRef string) (*entity.Reimbursement, error) {
	return nil, nil
}
func (s *stubReimbService) Reject(ctx context.Context, id int64, rejectedBy, reason string) (*entity.Reimbursement, error) {
	return nil, nil
}
func (s *stubReimbService) UpdateAmount(ctx context.Context, id int64, newAmount decimal.Decimal) (*entity.Reimbursement, error) {
	return nil, nil
}

func newTestServer(wallets service.WalletService, reimbs service.ReimbursementService) *Server {
	return NewServer(DefaultServerConfig(), wallets, nil, reimbs, nil, nil, nopLogger{})
}

func doJSON(t *testing.T, srv *Server, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestServer_ErrorMapping(t *testing.T) {
	wallets := &stubWalletService{
		getFn: func(ctx context.Context, id int64) (*entity.Wallet, error) {
			return nil, fmt.Errorf("wallet %d: %w", id, entity.ErrNotFound)
		},
		deductFn: func(ctx context.Context, walletID int64, amount decimal.Decimal) (*entity.Wallet, error) {
			return nil, fmt.Errorf("deduct %s: %w", amount, entity.ErrInsufficientFunds)
		},
		creditFn: func(ctx context.Context, walletID int64, amount decimal.Decimal) (*entity.Wallet, error) {
			return nil, fmt.Errorf("wallet inactive: %w", entity.ErrInvalidStateTransition)
		},
	}
	srv := newTestServer(wallets, nil)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"not found maps to 404", "GET", "/api/wallets/9", "", http.StatusNotFound},
		{"insufficient funds maps to 422", "POST", "/api/wallets/1/deduct", `{"amount":"50"}`, http.StatusUnprocessableEntity},
		{"illegal transition maps to 409", "POST", "/api/wallets/1/credit", `{"amount":"50"}`, http.StatusConflict},
		{"bad path id maps to 400", "GET", "/api/wallets/zero", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, srv, tt.method, tt.path, tt.body, nil)
			assert.Equal(t, tt.wantStatus, w.Code)

			var resp Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestServer_InternalErrorsReturn500(t *testing.T) {
	wallets := &stubWalletService{
		getFn: func(ctx context.Context, id int64) (*entity.Wallet, error) {
			return nil, fmt.Errorf("disk on fire")
		},
	}
	srv := newTestServer(wallets, nil)

	w := doJSON(t, srv, "GET", "/api/wallets/1", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestServer_ApprovalActorComesFromHeader(t *testing.T) {
	var gotApprover string
	reimbs := &stubReimbService{
		approveFn: func(ctx context.Context, id int64, input service.ApproveReimbursementInput) (*entity.Reimbursement, error) {
			gotApprover = input.ApprovedBy
			return &entity.Reimbursement{ID: id, Status: entity.ReimbursementStatusApproved}, nil
		},
	}
	srv := newTestServer(&stubWalletService{}, reimbs)

	w := doJSON(t, srv, "POST", "/api/reimbursements/3/approve",
		`{"bank_account_ref":"KBANK-001","approved_by":"spoofed"}`,
		map[string]string{"X-Actor-ID": "finance.lead"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "finance.lead", gotApprover, "approver must come from the identity header, never the payload")
}

func TestServer_HealthCheck(t *testing.T) {
	srv := newTestServer(&stubWalletService{}, nil)

	w := doJSON(t, srv, "GET", "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}
