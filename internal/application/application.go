package application

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"students-erp/internal/config"
	"students-erp/internal/domain/service/billing"
	"students-erp/internal/domain/service/currency"
	"students-erp/internal/domain/service/deal"
	"students-erp/internal/domain/service/report"
	"students-erp/internal/domain/service/staff"
	"students-erp/internal/infrastructure/notifier"
	"students-erp/internal/infrastructure/persistence"
	"students-erp/internal/server"
	"students-erp/internal/worker"
	"students-erp/pkg/application/connectors"
	"students-erp/pkg/application/modules"
	"students-erp/pkg/contextx"
	"students-erp/pkg/logx"
	"students-erp/pkg/middlewarex"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const logFieldMaxLen = 2048

func Run(ctx context.Context) error { //nolint:funlen
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("db.Ping: %w", err)
	}

	currencyRepo := persistence.NewCurrencyRepository(db)
	catalogRepo := persistence.NewCatalogRepository(db)
	managerRepo := persistence.NewManagerRepository(db)
	walletRepo := persistence.NewWalletRepository(db)
	dealRepo := persistence.NewDealRepository(db)
	paymentRepo := persistence.NewPaymentRepository(db)
	settlementRepo := persistence.NewSettlementRepository(db, cfg.Billing.WalletLockTimeout)
	transactionRepo := persistence.NewTransactionRepository(db)
	expenseRepo := persistence.NewExpenseRepository(db)
	periodRepo := persistence.NewPeriodRepository(db)
	statsRepo := persistence.NewStatsRepository(db)

	var alertBot *notifier.TelegramBot
	if cfg.Bot.Enabled {
		alertBot, err = notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
		if err != nil {
			return fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}
	}

	var billingNotifier billing.Notifier
	if alertBot != nil {
		billingNotifier = alertBot
	}

	currencyService := currency.NewService(currencyRepo, cfg.Billing.SettlementCurrency)
	dealService := deal.NewService(dealRepo, catalogRepo, currencyService)
	billingService := billing.NewService(
		paymentRepo, settlementRepo, dealRepo, managerRepo,
		walletRepo, transactionRepo, currencyService, billingNotifier,
	)
	reportService := report.NewService(periodRepo, statsRepo, expenseRepo, currencyService)
	staffService := staff.NewService(managerRepo, walletRepo)

	g, ctx := errgroup.WithContext(ctx)

	var enqueueRecalc server.RecalcEnqueuer

	if cfg.Redis.AsynqEnabled {
		// Проверяем доступность Redis до запуска очереди, иначе asynq
		// узнает о проблеме только на первой задаче.
		rds := &connectors.Redis{
			Username:       cfg.Redis.Username,
			Password:       cfg.Redis.Password,
			Address:        cfg.Redis.Address,
			DatabaseNumber: cfg.Redis.DatabaseNumber,
		}
		rds.Client(ctx)
		defer rds.Close(ctx)

		asynqClient := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Redis.Address,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DatabaseNumber,
		})
		defer func() { _ = asynqClient.Close() }()

		enqueueRecalc = func(ctx context.Context, periodID int64) error {
			task, err := worker.NewPeriodRecalculateTask(periodID)
			if err != nil {
				return fmt.Errorf("worker.NewPeriodRecalculateTask: %w", err)
			}

			if _, err := asynqClient.EnqueueContext(ctx, task); err != nil {
				return fmt.Errorf("asynqClient.Enqueue: %w", err)
			}

			return nil
		}

		recalculator := worker.NewPeriodRecalculator(reportService)

		modules.AsynqServer{
			RedisUsername: cfg.Redis.Username,
			RedisPassword: cfg.Redis.Password,
			RedisAddress:  cfg.Redis.Address,
			RedisDB:       cfg.Redis.DatabaseNumber,
		}.Run(ctx, g,
			modules.AsynqQueues{"default": 10},
			modules.AsynqHandler{Pattern: worker.TypePeriodRecalculate, Handle: recalculator.Handle},
		)
	}

	srv := server.NewServer(
		server.NewCurrencyServer(currencyService),
		server.NewDealServer(dealService),
		server.NewPaymentServer(billingService),
		server.NewExpenseServer(reportService),
		server.NewReportServer(reportService, enqueueRecalc),
		server.NewStaffServer(staffService, billingService),
	)

	masker := logx.NewSensitiveDataMasker()

	router := chi.NewRouter()
	router.Use(
		middlewarex.Recovery,
		middlewarex.TraceID,
		middlewarex.UserID,
		middlewarex.Logger,
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
	)
	srv.RegisterRoutes(router)

	httpServer := &http.Server{ //nolint:exhaustruct
		Addr:              cfg.HTTP.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	modules.HTTPServer{ShutdownTimeout: cfg.App.ShutdownTimeout}.Run(ctx, g, httpServer)
	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.App.ProbeAddress,
	}.Run(ctx, g)
	modules.MetricServer{ListenAddress: cfg.App.MetricsAddress}.Run(ctx, g)

	if alertBot != nil {
		if err := alertBot.SendText(ctx, "ERP запущен и готов к работе"); err != nil {
			logger(ctx).Error("bot test message failed", logx.Error(err))
		}
	}

	return g.Wait()
}
