package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/leak-ticket-service/internal/api/http"
	"github.com/spec-kit/leak-ticket-service/internal/api/http/handlers"
	"github.com/spec-kit/leak-ticket-service/internal/auth"
	"github.com/spec-kit/leak-ticket-service/internal/config"
	"github.com/spec-kit/leak-ticket-service/internal/events"
	"github.com/spec-kit/leak-ticket-service/internal/observability"
	"github.com/spec-kit/leak-ticket-service/internal/persistence"
	"github.com/spec-kit/leak-ticket-service/internal/repository"
	"github.com/spec-kit/leak-ticket-service/internal/service"
	"github.com/spec-kit/leak-ticket-service/internal/storage"
	"github.com/spec-kit/leak-ticket-service/internal/worker"
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
	accountRepo := repository.NewAccountRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)

	photoStore, err := storage.NewPhotoStore(cfg.Photos, logger)
	if err != nil {
		logger.Fatal("failed to init photo store", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, accountRepo)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		Photos:     photoStore,
		Dispatcher: dispatcher,
	})

	emailSender := service.NewEmailSender(cfg.Notification, logger)
	notificationService := service.NewNotificationService(dispatcher, accountRepo, emailSender, logger)
	worker.StartNotificationWorker(notificationService)

	overdueWorker := worker.NewOverdueWorker(ticketService, dispatcher, redis, cfg.Overdue, logger)
	go overdueWorker.Run(ctx)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), accountRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    25 * 1024 * 1024, // photo payloads arrive as data URLs
		ReadTimeout:  cfg.App.RequestTimeout(),
		WriteTimeout: cfg.App.RequestTimeout(),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	app.Static(cfg.Photos.PublicPath, photoStore.Dir())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	accountsHandler := handlers.NewAccountsHandler(authService)
	ticketsHandler := handlers.NewTicketsHandler(ticketService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Accounts:       accountsHandler,
		Tickets:        ticketsHandler,
		AuthMiddleware: authMiddleware,
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
