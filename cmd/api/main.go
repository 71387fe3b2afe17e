package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/autoclose-service/internal/api/http"
	"github.com/spec-kit/autoclose-service/internal/api/http/handlers"
	"github.com/spec-kit/autoclose-service/internal/config"
	"github.com/spec-kit/autoclose-service/internal/events"
	"github.com/spec-kit/autoclose-service/internal/observability"
	"github.com/spec-kit/autoclose-service/internal/persistence"
	"github.com/spec-kit/autoclose-service/internal/repository"
	"github.com/spec-kit/autoclose-service/internal/service"
	"github.com/spec-kit/autoclose-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	statusRepo := repository.NewStatusRepository(pool)
	ruleRepo := repository.NewRuleRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	engine := service.NewAutoCloseService(cfg.Engine, service.AutoCloseDependencies{
		RuleRepo:         ruleRepo,
		StatusRepo:       statusRepo,
		TicketRepo:       ticketRepo,
		MessageRepo:      messageRepo,
		NotificationRepo: notificationRepo,
		Dispatcher:       dispatcher,
		Metrics:          metrics,
		Logger:           logger,
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notificationService.RegisterHandlers()

	if cfg.Engine.SweepEnabled {
		lock := persistence.NewRunLock(redis, cfg.Engine.RunLockTTL())
		scheduler := worker.NewScheduler(engine, lock, cfg.Engine.SweepInterval(), logger)
		go scheduler.Run(ctx)
	}

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	rulesHandler := handlers.NewRulesHandler(ruleRepo)
	autoCloseHandler := handlers.NewAutoCloseHandler(engine, metrics)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    healthHandler,
		Rules:     rulesHandler,
		AutoClose: autoCloseHandler,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
