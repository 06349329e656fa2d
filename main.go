package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hearthledger/budget-backend/config"
	"github.com/hearthledger/budget-backend/db"
	"github.com/hearthledger/budget-backend/handlers"
	"github.com/hearthledger/budget-backend/internal/events"
	"github.com/hearthledger/budget-backend/internal/store/postgres"
	"github.com/hearthledger/budget-backend/logger"
	"github.com/hearthledger/budget-backend/models/overspend"
	"github.com/hearthledger/budget-backend/models/overspend/service"
	"github.com/hearthledger/budget-backend/router"
	"github.com/hearthledger/budget-backend/services"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// @title           Hearth Ledger Overspend API
// @version         1.0
// @description     Credit-card overspend detection and accountability plans for shared households.
// @BasePath        /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	logger.InitLogger()
	log := logger.GetLogger()
	defer func() { _ = logger.Close() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.RunMigrations(cfg.Database.URL()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	poolConfig, err := config.PostgresPoolConfig(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to build database config: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	redisClient := redis.NewClient(config.RedisOptions(&cfg.Redis))
	if err := config.TestRedisConnection(ctx, redisClient); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer func() { _ = redisClient.Close() }()

	overspendCfg, err := overspendConfig(cfg.Overspend)
	if err != nil {
		log.Fatalf("Invalid overspend config: %v", err)
	}

	// Stores
	households := postgres.NewHouseholdStore(pool)
	statements := postgres.NewStatementStore(pool)
	projects := postgres.NewOverspendStore(pool)
	notifications := postgres.NewNotificationStore(pool)

	// Services
	publisher := events.NewRedisPublisher(redisClient, events.Config{
		PublishTimeout: time.Duration(cfg.EventService.PublishTimeoutSeconds) * time.Second,
	})
	workerPool := services.NewWorkerPool(cfg.WorkerPool)
	workerPool.Start()

	var emailer services.NotificationEmailer
	if cfg.Notification.EmailEnabled {
		emailer = services.NewEmailService(&cfg.Email)
	}
	dispatcher := services.NewNotificationDispatcher(notifications, households, emailer, workerPool, cfg.Notification)

	processor := service.NewStatementProcessor(households, projects, dispatcher, publisher, overspendCfg)
	projectService := service.NewProjectService(households, projects, publisher)
	statementService := service.NewStatementService(statements, processor, publisher)
	healthService := services.NewHealthService(pool, redisClient, cfg.Server.Version)

	r := router.SetupRouter(router.Dependencies{
		Config:              cfg,
		Households:          households,
		HealthHandler:       handlers.NewHealthHandler(healthService),
		OverspendHandler:    handlers.NewOverspendHandler(projectService),
		StatementHandler:    handlers.NewStatementHandler(statementService),
		NotificationHandler: handlers.NewNotificationHandler(notifications),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("Starting server", "port", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.WorkerPool.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown failed", "error", err)
	}
	if err := workerPool.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Worker pool did not drain before timeout", "error", err, "queueDepth", workerPool.QueueDepth())
	}
	if err := publisher.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Event publisher shutdown failed", "error", err)
	}
	log.Info("Server stopped")
}

// overspendConfig converts the validated string amounts into the detector's
// decimal config.
func overspendConfig(c config.OverspendConfig) (overspend.Config, error) {
	threshold, autoCreate, percent, err := c.Amounts()
	if err != nil {
		return overspend.Config{}, fmt.Errorf("failed to parse overspend amounts: %w", err)
	}
	return overspend.Config{
		Threshold:             threshold,
		AutoCreateThreshold:   autoCreate,
		ResponsibilityPercent: percent,
		WeekCount:             c.WeekCount,
	}, nil
}
