package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/faraway-yachting/pettycash/internal/application/service"
	"github.com/faraway-yachting/pettycash/internal/config"
	"github.com/faraway-yachting/pettycash/internal/infrastructure/persistence/repository"
	"github.com/faraway-yachting/pettycash/internal/infrastructure/persistence/sqlite"
	"github.com/faraway-yachting/pettycash/internal/infrastructure/worker"
	httpserver "github.com/faraway-yachting/pettycash/internal/interfaces/http"
	"github.com/faraway-yachting/pettycash/migrations"
	"github.com/faraway-yachting/pettycash/pkg/database"
	"github.com/faraway-yachting/pettycash/pkg/utils"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting petty cash service",
		zap.Int("port", cfg.Server.Port),
		zap.String("db", cfg.Database.Path))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := database.NewMigrator(db, logger).Run(migrations.FS); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Persistence
	sqliteDB := sqlite.NewDB(db.DB, logger)
	walletRepo := repository.NewWalletRepository(sqliteDB, logger)
	expenseRepo := repository.NewExpenseClaimRepository(sqliteDB, logger)
	reimbRepo := repository.NewReimbursementRepository(sqliteDB, logger)
	topUpRepo := repository.NewTopUpRepository(sqliteDB, logger)
	attachRepo := repository.NewAttachmentRepository(sqliteDB, logger)
	seqRepo := repository.NewSequenceRepository(sqliteDB, logger)

	// Application services
	svcLogger := service.NewZapLogger(logger)
	identity := httpserver.NewHeaderIdentity()
	locks := service.NewWalletLock()
	docNumbers := service.NewDocumentNumberService(seqRepo)

	walletService := service.NewWalletService(walletRepo, docNumbers, sqliteDB, locks, svcLogger)
	expenseService := service.NewExpenseService(
		expenseRepo, reimbRepo, attachRepo, walletRepo,
		docNumbers, sqliteDB, locks, identity, svcLogger,
	)
	reimbService := service.NewReimbursementService(reimbRepo, svcLogger)
	topUpService := service.NewTopUpService(
		topUpRepo, walletRepo, docNumbers, sqliteDB, identity, svcLogger,
	)
	ledgerService := service.NewLedgerService(expenseRepo, topUpRepo, reimbRepo, svcLogger)

	// Background workers
	workers := worker.NewManager(logger)
	workers.Register(worker.NewLowBalanceScanner(
		worker.LowBalanceConfig{ScanInterval: cfg.PettyCash.LowBalanceScanInterval},
		walletRepo, nil, logger,
	))

	// HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Host:            cfg.Server.Host,
			Port:            cfg.Server.Port,
			ReadTimeout:     cfg.Server.ReadTimeout,
			WriteTimeout:    cfg.Server.WriteTimeout,
			ActorHeader:     cfg.PettyCash.ActorHeader,
			DefaultCurrency: cfg.PettyCash.DefaultCurrency,
		},
		walletService,
		expenseService,
		reimbService,
		topUpService,
		ledgerService,
		svcLogger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := workers.StartAll(ctx); err != nil {
		logger.Fatal("Failed to start background workers", zap.Error(err))
	}
	defer workers.StopAll()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
