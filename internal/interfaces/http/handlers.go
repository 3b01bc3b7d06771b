package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/faraway-yachting/pettycash/internal/application/service"
	"github.com/faraway-yachting/pettycash/internal/domain/entity"
	"github.com/faraway-yachting/pettycash/pkg/utils"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	walletService   service.WalletService
	expenseService  service.ExpenseService
	reimbService    service.ReimbursementService
	topUpService    service.TopUpService
	ledgerService   service.LedgerService
	defaultCurrency string
	logger          Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	walletService service.WalletService,
	expenseService service.ExpenseService,
	reimbService service.ReimbursementService,
	topUpService service.TopUpService,
	ledgerService service.LedgerService,
	defaultCurrency string,
	logger Logger,
) *Handlers {
	return &Handlers{
		walletService:   walletService,
		expenseService:  expenseService,
		reimbService:    reimbService,
		topUpService:    topUpService,
		ledgerService:   ledgerService,
		defaultCurrency: defaultCurrency,
		logger:          logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// respondError maps domain errors onto HTTP status codes:
// validation 400, missing records 404, illegal workflow moves 409,
// business-rule violations 422, everything else 500.
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, entity.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, entity.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, entity.ErrInvalidStateTransition):
		status = http.StatusConflict
	case errors.Is(err, entity.ErrInsufficientFunds),
		errors.Is(err, entity.ErrLimitExceeded),
		errors.Is(err, entity.ErrIntegrityViolation):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", "path", c.FullPath(), "error", err)
	}

	c.JSON(status, Response{Success: false, Error: err.Error()})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid id"})
		return 0, false
	}
	return id, true
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":    "healthy",
			"service":   "pettycash",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// ---- Wallets ----

// CreateWalletRequest is the payload for POST /api/wallets
type CreateWalletRequest struct {
	HolderID            string           `json:"holder_id" binding:"required"`
	HolderName          string           `json:"holder_name"`
	CompanyID           int64            `json:"company_id" binding:"required"`
	Currency            string           `json:"currency"`
	BeginningBalance    decimal.Decimal  `json:"beginning_balance"`
	BalanceLimit        *decimal.Decimal `json:"balance_limit"`
	LowBalanceThreshold *decimal.Decimal `json:"low_balance_threshold"`
}

// CreateWallet handles POST /api/wallets
func (h *Handlers) CreateWallet(c *gin.Context) {
	var req CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	if req.Currency == "" {
		req.Currency = h.defaultCurrency
	}
	if err := utils.ValidateCurrency(req.Currency); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	wallet, err := h.walletService.Create(c.Request.Context(), service.CreateWalletInput{
		HolderID:            req.HolderID,
		HolderName:          utils.SanitizeString(req.HolderName),
		CompanyID:           req.CompanyID,
		Currency:            req.Currency,
		BeginningBalance:    req.BeginningBalance,
		BalanceLimit:        req.BalanceLimit,
		LowBalanceThreshold: req.LowBalanceThreshold,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: wallet})
}

// ListWallets handles GET /api/wallets
func (h *Handlers) ListWallets(c *gin.Context) {
	limit, offset := pagination(c)

	wallets, err := h.walletService.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: wallets})
}

// GetWallet handles GET /api/wallets/:id
func (h *Handlers) GetWallet(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	wallet, err := h.walletService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: wallet})
}

// AmountRequest carries a single monetary amount
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// DeductWallet handles POST /api/wallets/:id/deduct
func (h *Handlers) DeductWallet(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	wallet, err := h.walletService.Deduct(c.Request.Context(), id, req.Amount)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: wallet})
}

// CreditWallet handles POST /api/wallets/:id/credit
func (h *Handlers) CreditWallet(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	wallet, err := h.walletService.Credit(c.Request.Context(), id, req.Amount)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: wallet})
}

// ToggleWalletStatus handles POST /api/wallets/:id/toggle-status
func (h *Handlers) ToggleWalletStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	wallet, err := h.walletService.ToggleStatus(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: wallet})
}

// DeleteWallet handles DELETE /api/wallets/:id
func (h *Handlers) DeleteWallet(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.walletService.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// LowBalanceWallets handles GET /api/wallets/low-balance
func (h *Handlers) LowBalanceWallets(c *gin.Context) {
	wallets, err := h.walletService.LowBalance(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: wallets})
}

// ListWalletExpenses handles GET /api/wallets/:id/expenses
func (h *Handlers) ListWalletExpenses(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	claims, err := h.expenseService.ListByWallet(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: claims})
}

// ---- Expense claims ----

// LineItemRequest is one itemized row of an expense claim
type LineItemRequest struct {
	Description  string          `json:"description"`
	PreVATAmount decimal.Decimal `json:"pre_vat_amount"`
	VATAmount    decimal.Decimal `json:"vat_amount"`
	WHTAmount    decimal.Decimal `json:"wht_amount"`
}

// CreateExpenseRequest is the payload for POST /api/expenses
type CreateExpenseRequest struct {
	WalletID    int64             `json:"wallet_id" binding:"required"`
	CompanyID   int64             `json:"company_id" binding:"required"`
	Date        string            `json:"date" binding:"required"`
	Description string            `json:"description"`
	Amount      decimal.Decimal   `json:"amount"`
	LineItems   []LineItemRequest `json:"line_items"`
	Attachments []string          `json:"attachments"`
	SubmitNow   bool              `json:"submit_now"`
}

// CreateExpense handles POST /api/expenses
func (h *Handlers) CreateExpense(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	claim, err := h.expenseService.Create(c.Request.Context(), service.CreateExpenseInput{
		WalletID:    req.WalletID,
		CompanyID:   req.CompanyID,
		Date:        date,
		Description: utils.SanitizeString(req.Description),
		Amount:      req.Amount,
		LineItems:   toLineItems(req.LineItems),
		Attachments: req.Attachments,
		SubmitNow:   req.SubmitNow,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: claim})
}

// GetExpense handles GET /api/expenses/:id
func (h *Handlers) GetExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	claim, err := h.expenseService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: claim})
}

// UpdateExpenseRequest is a partial patch for PUT /api/expenses/:id.
// Absent fields are left untouched; edit_mode is required to touch claims
// that already left draft.
type UpdateExpenseRequest struct {
	Date        *string            `json:"date"`
	Description *string            `json:"description"`
	Amount      *decimal.Decimal   `json:"amount"`
	LineItems   *[]LineItemRequest `json:"line_items"`
	EditMode    bool               `json:"edit_mode"`
}

// UpdateExpense handles PUT /api/expenses/:id
func (h *Handlers) UpdateExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	input := service.UpdateExpenseInput{
		Amount:   req.Amount,
		EditMode: req.EditMode,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
			return
		}
		input.Date = &date
	}
	if req.Description != nil {
		clean := utils.SanitizeString(*req.Description)
		input.Description = &clean
	}
	if req.LineItems != nil {
		items := toLineItems(*req.LineItems)
		input.LineItems = &items
	}

	claim, err := h.expenseService.Update(c.Request.Context(), id, input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: claim})
}

// AttachmentRequest is the payload for POST /api/expenses/:id/attachments
type AttachmentRequest struct {
	Ref string `json:"ref" binding:"required"`
}

// AddExpenseAttachment handles POST /api/expenses/:id/attachments
func (h *Handlers) AddExpenseAttachment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req AttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	if err := h.expenseService.AddAttachment(c.Request.Context(), id, req.Ref); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true})
}

// SubmitExpenseResponse pairs the submitted claim with the reimbursement
// the submission spawned
type SubmitExpenseResponse struct {
	Claim         *entity.ExpenseClaim  `json:"claim"`
	Reimbursement *entity.Reimbursement `json:"reimbursement"`
}

// SubmitExpense handles POST /api/expenses/:id/submit
func (h *Handlers) SubmitExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	claim, reimb, err := h.expenseService.Submit(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    SubmitExpenseResponse{Claim: claim, Reimbursement: reimb},
	})
}

// ReviewExpense handles POST /api/expenses/:id/review
func (h *Handlers) ReviewExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	claim, err := h.expenseService.Review(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: claim})
}

// PayExpense handles POST /api/expenses/:id/pay
func (h *Handlers) PayExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	claim, err := h.expenseService.Pay(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: claim})
}

// RejectExpense handles POST /api/expenses/:id/reject
func (h *Handlers) RejectExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	claim, err := h.expenseService.Reject(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: claim})
}

// DeleteExpense handles DELETE /api/expenses/:id
func (h *Handlers) DeleteExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.expenseService.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// GetExpenseReimbursement handles GET /api/expenses/:id/reimbursement
func (h *Handlers) GetExpenseReimbursement(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	reimb, err := h.reimbService.GetByExpense(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: reimb})
}

// ---- Reimbursements ----

// ListReimbursements handles GET /api/reimbursements?status=PENDING
func (h *Handlers) ListReimbursements(c *gin.Context) {
	status := c.DefaultQuery("status", entity.ReimbursementStatusPending)

	reimbs, err := h.reimbService.ListByStatus(c.Request.Context(), status)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: reimbs})
}

// GetReimbursement handles GET /api/reimbursements/:id
func (h *Handlers) GetReimbursement(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	reimb, err := h.reimbService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: reimb})
}

// ApproveReimbursementRequest is the payload for
// POST /api/reimbursements/:id/approve
type ApproveReimbursementRequest struct {
	BankAccountRef   string           `json:"bank_account_ref"`
	AdjustmentAmount *decimal.Decimal `json:"adjustment_amount"`
	AdjustmentReason string           `json:"adjustment_reason"`
}

// ApproveReimbursement handles POST /api/reimbursements/:id/approve.
// The approver comes from the request identity, not the payload.
func (h *Handlers) ApproveReimbursement(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req ApproveReimbursementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	reimb, err := h.reimbService.Approve(c.Request.Context(), id, service.ApproveReimbursementInput{
		ApprovedBy:       ActorFromContext(c.Request.Context()),
		BankAccountRef:   req.BankAccountRef,
		AdjustmentAmount: req.AdjustmentAmount,
		AdjustmentReason: utils.SanitizeString(req.AdjustmentReason),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: reimb})
}

// PayReimbursementRequest is the payload for POST /api/reimbursements/:id/pay
type PayReimbursementRequest struct {
	PaymentDate string `json:"payment_date" binding:"required"`
	PaymentRef  string `json:"payment_ref"`
}

// PayReimbursement handles POST /api/reimbursements/:id/pay
func (h *Handlers) PayReimbursement(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req PayReimbursementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	date, err := parseDate(req.PaymentDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	reimb, err := h.reimbService.ProcessPayment(c.Request.Context(), id, date, req.PaymentRef)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: reimb})
}

// RejectReimbursementRequest is the payload for
// POST /api/reimbursements/:id/reject
type RejectReimbursementRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RejectReimbursement handles POST /api/reimbursements/:id/reject
func (h *Handlers) RejectReimbursement(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req RejectReimbursementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	actor := ActorFromContext(c.Request.Context())
	reimb, err := h.reimbService.Reject(c.Request.Context(), id, actor, utils.SanitizeString(req.Reason))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: reimb})
}

// UpdateReimbursementAmount handles PUT /api/reimbursements/:id/amount
func (h *Handlers) UpdateReimbursementAmount(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	reimb, err := h.reimbService.UpdateAmount(c.Request.Context(), id, req.Amount)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: reimb})
}

// ---- Top-ups ----

// CreateTopUpRequest is the payload for POST /api/topups
type CreateTopUpRequest struct {
	WalletID       int64           `json:"wallet_id" binding:"required"`
	CompanyID      int64           `json:"company_id" binding:"required"`
	BankAccountRef string          `json:"bank_account_ref" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Date           string          `json:"date" binding:"required"`
}

// CreateTopUp handles POST /api/topups
func (h *Handlers) CreateTopUp(c *gin.Context) {
	var req CreateTopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	topUp, err := h.topUpService.Create(c.Request.Context(), service.CreateTopUpInput{
		WalletID:       req.WalletID,
		CompanyID:      req.CompanyID,
		BankAccountRef: req.BankAccountRef,
		Amount:         req.Amount,
		Date:           date,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: topUp})
}

// ListTopUps handles GET /api/topups
func (h *Handlers) ListTopUps(c *gin.Context) {
	limit, offset := pagination(c)

	topUps, err := h.topUpService.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: topUps})
}

// GetTopUp handles GET /api/topups/:id
func (h *Handlers) GetTopUp(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	topUp, err := h.topUpService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: topUp})
}

// ApproveTopUp handles POST /api/topups/:id/approve
func (h *Handlers) ApproveTopUp(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	actor := ActorFromContext(c.Request.Context())
	topUp, err := h.topUpService.Approve(c.Request.Context(), id, actor)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: topUp})
}

// CompleteTopUpRequest is the payload for POST /api/topups/:id/complete
type CompleteTopUpRequest struct {
	Reference string `json:"reference"`
}

// CompleteTopUp handles POST /api/topups/:id/complete. Completion records
// the transfer; funding the wallet is a separate credit call.
func (h *Handlers) CompleteTopUp(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req CompleteTopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	actor := ActorFromContext(c.Request.Context())
	topUp, err := h.topUpService.Complete(c.Request.Context(), id, actor, req.Reference)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: topUp})
}

// CancelTopUp handles DELETE /api/topups/:id
func (h *Handlers) CancelTopUp(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.topUpService.Cancel(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// ---- Ledger ----

// ListTransactions handles GET /api/ledger/transactions with optional
// inclusive ?from=YYYY-MM-DD&to=YYYY-MM-DD bounds
func (h *Handlers) ListTransactions(c *gin.Context) {
	fromStr := c.Query("from")
	toStr := c.Query("to")

	ctx := c.Request.Context()

	if fromStr == "" && toStr == "" {
		transactions, err := h.ledgerService.AllTransactions(ctx)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, Response{Success: true, Data: transactions})
		return
	}

	from, err := parseDate(fromStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	to, err := parseDate(toStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	transactions, err := h.ledgerService.TransactionsInRange(ctx, from, to)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: transactions})
}

// MonthlySummaryResponse is the payload of GET /api/ledger/summary
type MonthlySummaryResponse struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Total string `json:"total"`
}

// MonthlySummary handles GET /api/ledger/summary?year=2025&month=1
func (h *Handlers) MonthlySummary(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 1970 {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid year"})
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid month"})
		return
	}

	total, err := h.ledgerService.MonthlyTotal(c.Request.Context(), year, time.Month(month))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: MonthlySummaryResponse{
			Year:  year,
			Month: month,
			Total: total.String(),
		},
	})
}

// ---- helpers ----

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func toLineItems(reqs []LineItemRequest) []entity.ExpenseLineItem {
	items := make([]entity.ExpenseLineItem, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, entity.ExpenseLineItem{
			Description:  r.Description,
			PreVATAmount: r.PreVATAmount,
			VATAmount:    r.VATAmount,
			WHTAmount:    r.WHTAmount,
		})
	}
	return items
}
