package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smartsplit/smartsplit-backend/config"
	"github.com/smartsplit/smartsplit-backend/db"
	"github.com/smartsplit/smartsplit-backend/handlers"
	"github.com/smartsplit/smartsplit-backend/internal/events"
	"github.com/smartsplit/smartsplit-backend/internal/store/postgres"
	"github.com/smartsplit/smartsplit-backend/logger"
	"github.com/smartsplit/smartsplit-backend/middleware"
	"github.com/smartsplit/smartsplit-backend/router"
	"github.com/smartsplit/smartsplit-backend/services"
)

const version = "1.0.0"

func main() {
	// Initialize logger
	logger.InitLogger()
	log := logger.GetLogger()
	defer logger.Close()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Apply schema migrations before opening the pool
	if err := db.RunMigrations(cfg.Database.URL()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Database connection pool
	pool, err := db.NewPool(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Redis client with TLS in production
	redisOptions := &redis.Options{
		Addr:         cfg.Redis.Address,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}
	if cfg.Redis.UseTLS {
		redisOptions.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}
	redisClient := redis.NewClient(redisOptions)
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Warnw("Failed to close Redis client", "error", err)
		}
	}()

	// Stores
	groupStore := postgres.NewGroupStore(pool)
	expenseStore := postgres.NewExpenseStore(pool)
	consumptionStore := postgres.NewConsumptionStore(pool)

	// Event publisher
	publisher := events.NewRedisPublisher(redisClient, cfg.EventService.EventBufferSize)

	// Services
	groupService := services.NewGroupService(groupStore, publisher)
	expenseService := services.NewExpenseService(expenseStore, groupStore, publisher)
	consumptionService := services.NewConsumptionService(consumptionStore, groupStore, publisher)
	settlementService := services.NewSettlementService(consumptionStore, groupStore, publisher)
	balanceService := services.NewBalanceService(groupStore, expenseStore)
	healthService := services.NewHealthService(pool, redisClient, version)

	// Auth
	jwtValidator, err := middleware.NewJWTValidator(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize JWT validator: %v", err)
	}

	// Router
	r := router.SetupRouter(router.Dependencies{
		Config:             cfg,
		JWTValidator:       jwtValidator,
		GroupHandler:       handlers.NewGroupHandler(groupService),
		ExpenseHandler:     handlers.NewExpenseHandler(expenseService),
		ConsumptionHandler: handlers.NewConsumptionHandler(consumptionService, settlementService),
		BalanceHandler:     handlers.NewBalanceHandler(balanceService),
		EventHandler:       handlers.NewEventHandler(groupService, publisher),
		HealthHandler:      handlers.NewHealthHandler(healthService),
		Logger:             log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
	}

	log.Info("Server exited")
}
