package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"bakery-api/internal/auth"
	"bakery-api/internal/config"
	"bakery-api/internal/database"
	"bakery-api/internal/logger"
	"bakery-api/internal/repository"
	"bakery-api/internal/server"
	"bakery-api/migrations"

	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The server has 30 seconds to finish the requests it is handling.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")
	done <- true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootstrap, _ := zap.NewProduction()
		bootstrap.Fatal("Invalid configuration", zap.Error(err))
	}

	log, err := logger.New(cfg.Server.Env, cfg.Log.Level)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	log.Info("Starting bakery API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	ctx := context.Background()

	dbService, err := database.New(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	db := dbService.DB()

	if err := database.RunMigrations(db, migrations.FS, log); err != nil {
		dbService.Close()
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database ready", zap.Any("health", dbService.Health(ctx)))

	tokens, err := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Expiry)
	if err != nil {
		dbService.Close()
		log.Fatal("Failed to configure token issuer", zap.Error(err))
	}

	// Nil when REDIS_ADDR is unset or unreachable; rate limiting is then off.
	redisClient := database.NewRedis(ctx, cfg.Redis, log)

	srv := server.NewServer(cfg, log, server.Dependencies{
		Repositories: server.Repositories{
			Users:     repository.NewUserRepository(db, cfg.Database.QueryTimeout),
			Products:  repository.NewProductRepository(db, cfg.Database.QueryTimeout),
			Inventory: repository.NewInventoryRepository(db, cfg.Database.QueryTimeout),
			Events:    repository.NewEventRepository(db, cfg.Database.QueryTimeout),
		},
		Hasher:   auth.NewPasswordHasher(cfg.JWT.BcryptCost),
		Tokens:   tokens,
		Database: dbService,
		Redis:    redisClient,
	})

	done := make(chan bool, 1)
	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}
