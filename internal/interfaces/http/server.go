// Package http provides the HTTP server adapter for the application layer.
// This is a thin adapter layer that translates HTTP requests to application
// service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/faraway-yachting/pettycash/internal/application/service"
	"github.com/faraway-yachting/pettycash/pkg/utils"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ActorHeader     string
	DefaultCurrency string
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:            "0.0.0.0",
		Port:            8080,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ActorHeader:     "X-Actor-ID",
		DefaultCurrency: "THB",
	}
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	handlers   *Handlers
	logger     Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(
	config ServerConfig,
	walletService service.WalletService,
	expenseService service.ExpenseService,
	reimbService service.ReimbursementService,
	topUpService service.TopUpService,
	ledgerService service.LedgerService,
	logger Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config: config,
		router: gin.New(),
		handlers: NewHandlers(
			walletService,
			expenseService,
			reimbService,
			topUpService,
			ledgerService,
			config.DefaultCurrency,
			logger,
		),
		logger: logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(s.actorMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// actorMiddleware copies the acting user from the configured header into
// the request context, where the identity provider picks it up.
func (s *Server) actorMiddleware() gin.HandlerFunc {
	header := s.config.ActorHeader
	if header == "" {
		header = "X-Actor-ID"
	}
	return func(c *gin.Context) {
		if actor := c.GetHeader(header); utils.ValidateActorID(actor) == nil {
			c.Request = c.Request.WithContext(WithActor(c.Request.Context(), actor))
		}
		c.Next()
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	h := s.handlers

	// Health check
	s.router.GET("/health", h.HealthCheck)

	api := s.router.Group("/api")
	{
		wallets := api.Group("/wallets")
		{
			wallets.POST("", h.CreateWallet)
			wallets.GET("", h.ListWallets)
			wallets.GET("/low-balance", h.LowBalanceWallets)
			wallets.GET("/:id", h.GetWallet)
			wallets.DELETE("/:id", h.DeleteWallet)
			wallets.POST("/:id/deduct", h.DeductWallet)
			wallets.POST("/:id/credit", h.CreditWallet)
			wallets.POST("/:id/toggle-status", h.ToggleWalletStatus)
			wallets.GET("/:id/expenses", h.ListWalletExpenses)
		}

		expenses := api.Group("/expenses")
		{
			expenses.POST("", h.CreateExpense)
			expenses.GET("/:id", h.GetExpense)
			expenses.PUT("/:id", h.UpdateExpense)
			expenses.DELETE("/:id", h.DeleteExpense)
			expenses.POST("/:id/attachments", h.AddExpenseAttachment)
			expenses.POST("/:id/submit", h.SubmitExpense)
			expenses.POST("/:id/review", h.ReviewExpense)
			expenses.POST("/:id/pay", h.PayExpense)
			expenses.POST("/:id/reject", h.RejectExpense)
			expenses.GET("/:id/reimbursement", h.GetExpenseReimbursement)
		}

		reimbursements := api.Group("/reimbursements")
		{
			reimbursements.GET("", h.ListReimbursements)
			reimbursements.GET("/:id", h.GetReimbursement)
			reimbursements.POST("/:id/approve", h.ApproveReimbursement)
			reimbursements.POST("/:id/pay", h.PayReimbursement)
			reimbursements.POST("/:id/reject", h.RejectReimbursement)
			reimbursements.PUT("/:id/amount", h.UpdateReimbursementAmount)
		}

		topUps := api.Group("/topups")
		{
			topUps.POST("", h.CreateTopUp)
			topUps.GET("", h.ListTopUps)
			topUps.GET("/:id", h.GetTopUp)
			topUps.POST("/:id/approve", h.ApproveTopUp)
			topUps.POST("/:id/complete", h.CompleteTopUp)
			topUps.DELETE("/:id", h.CancelTopUp)
		}

		ledger := api.Group("/ledger")
		{
			ledger.GET("/transactions", h.ListTransactions)
			ledger.GET("/summary", h.MonthlySummary)
		}
	}
}

// Start starts the HTTP server and blocks until the context is cancelled
// or the listener fails
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
