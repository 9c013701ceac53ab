package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-service/internal/api/http"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/notify"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/worker"
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

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	txManager := persistence.NewTxManager(pool)

	organizationRepo := repository.NewOrganizationRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	projectRepo := repository.NewProjectRepository(pool)
	taxonomyRepo := repository.NewTaxonomyRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	eventRepo := repository.NewTicketEventRepository(pool)
	sequenceRepo := repository.NewSequenceRepository(pool)
	outboxRepo := repository.NewOutboxRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(userRepo, clientRepo, tokens, cfg.Auth, logger)
	authMiddleware := auth.NewAuthMiddleware(tokens, userRepo)

	alerts := notify.NewRedisPublisher(redis.Client, cfg.Notification.ImmediateChannel)
	notifier := notify.NewLogNotifier(logger, cfg.Notification.EmailFrom)

	ticketService := service.NewTicketService(service.TicketDependencies{
		Tx:           txManager,
		TicketRepo:   ticketRepo,
		EventRepo:    eventRepo,
		SequenceRepo: sequenceRepo,
		OutboxRepo:   outboxRepo,
		ClientRepo:   clientRepo,
		ProjectRepo:  projectRepo,
		TaxonomyRepo: taxonomyRepo,
		Alerts:       alerts,
		Logger:       logger,
	})
	commentService := service.NewCommentService(service.CommentDependencies{
		Tx:             txManager,
		TicketRepo:     ticketRepo,
		CommentRepo:    commentRepo,
		AttachmentRepo: attachmentRepo,
		EventRepo:      eventRepo,
		ProjectRepo:    projectRepo,
		OutboxRepo:     outboxRepo,
		Logger:         logger,
	})
	outboxService := service.NewOutboxService(txManager, outboxRepo, notifier, notify.RetryForever{}, logger)
	organizationService := service.NewOrganizationService(organizationRepo)
	clientService := service.NewClientService(clientRepo)
	projectService := service.NewProjectService(projectRepo, clientRepo, userRepo)
	taxonomyService := service.NewTaxonomyService(taxonomyRepo)

	outboxWorker := worker.NewOutboxWorker(outboxService, cfg.Outbox.PollInterval(), cfg.Outbox.BatchSize, logger)
	outboxWorker.Start(ctx)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Comments:       handlers.NewCommentsHandler(commentService),
		Taxonomy:       handlers.NewTaxonomyHandler(taxonomyService),
		Admin:          handlers.NewAdminHandler(organizationService, clientService, projectService),
		Outbox:         handlers.NewOutboxHandler(outboxService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	outboxWorker.Stop()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
