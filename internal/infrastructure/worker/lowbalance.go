package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/faraway-yachting/pettycash/internal/application/port"
	"github.com/faraway-yachting/pettycash/internal/domain/event"
	"go.uber.org/zap"
)

// LowBalanceConfig holds configuration for the low-balance scanner
type LowBalanceConfig struct {
	ScanInterval time.Duration
}

// DefaultLowBalanceConfig returns default configuration
func DefaultLowBalanceConfig() LowBalanceConfig {
	return LowBalanceConfig{
		ScanInterval: 15 * time.Minute,
	}
}

// EventSink receives domain events emitted by workers.
type EventSink func(e *event.Event)

// LowBalanceScanner periodically scans for active wallets at or below
// their low-balance threshold and emits a wallet.low_balance event for
// each. It only observes; it never mutates wallet state.
type LowBalanceScanner struct {
	config     LowBalanceConfig
	walletRepo port.WalletRepository
	sink       EventSink
	logger     *zap.Logger

	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	isRunning bool
	wg        sync.WaitGroup
	lastScan  time.Time
	lastError error
}

// NewLowBalanceScanner creates a new low-balance scanner. A nil sink
// falls back to structured log output only.
func NewLowBalanceScanner(config LowBalanceConfig, walletRepo port.WalletRepository, sink EventSink, logger *zap.Logger) *LowBalanceScanner {
	if config.ScanInterval <= 0 {
		config.ScanInterval = DefaultLowBalanceConfig().ScanInterval
	}
	return &LowBalanceScanner{
		config:     config,
		walletRepo: walletRepo,
		sink:       sink,
		logger:     logger,
	}
}

// Name returns the worker name
func (s *LowBalanceScanner) Name() string {
	return "low_balance_scanner"
}

// Start begins the periodic scan loop
func (s *LowBalanceScanner) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("low-balance scanner already running")
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.isRunning = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run()
	return nil
}

// Stop stops the scan loop and waits for the current pass to finish
func (s *LowBalanceScanner) Stop() error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	return nil
}

func (s *LowBalanceScanner) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.ScanInterval)
	defer ticker.Stop()

	// Scan once at startup so a restart does not delay alerts by a
	// full interval.
	s.scan()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.scan()
		}
	}
}

func (s *LowBalanceScanner) scan() {
	wallets, err := s.walletRepo.GetLowBalance(s.ctx)

	s.mu.Lock()
	s.lastScan = time.Now()
	s.lastError = err
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("Low-balance scan failed", zap.Error(err))
		return
	}

	for _, w := range wallets {
		threshold := ""
		if w.LowBalanceThreshold != nil {
			threshold = w.LowBalanceThreshold.String()
		}
		e := event.NewEvent(event.TypeWalletLowBalance, w.ID, w.DocNumber, map[string]interface{}{
			"holder_name": w.HolderName,
			"currency":    w.Currency,
			"balance":     w.Balance.String(),
			"threshold":   threshold,
		})
		s.logger.Warn("Wallet balance at or below threshold",
			zap.String("event_id", e.ID),
			zap.Int64("wallet_id", w.ID),
			zap.String("doc_number", w.DocNumber),
			zap.String("balance", w.Balance.String()),
			zap.String("threshold", threshold))
		if s.sink != nil {
			s.sink(e)
		}
	}
}

// LastScan reports when the most recent pass completed and its error, if any
func (s *LowBalanceScanner) LastScan() (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastScan, s.lastError
}
