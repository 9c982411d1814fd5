package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"argentbank/internal/auth"
	"argentbank/internal/config"
	"argentbank/internal/database"
	"argentbank/internal/logger"
	"argentbank/internal/server"
	"argentbank/internal/services"
)

// @title           Argent Bank API
// @version         1.0
// @description     Account holders sign up, log in, manage their profile and annotate the transactions of their ledger.

// @host      localhost:3001
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.UsesDevSecret() {
		log.Warn("JWT_SECRET is not set; signing tokens with the development fallback key")
	}

	// Create database manager
	dbManager, err := database.NewManager(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.Migrate(cfg.MigrationsDir); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpirationDur)
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	router := server.NewRouter(cfg, server.Deps{
		Users:        services.NewUserService(db, hasher, tokens),
		Transactions: services.NewTransactionService(db),
		Audit:        services.NewAuditService(db),
		Tokens:       tokens,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infof("Starting Argent Bank backend server on port %s", cfg.Port)
	if !cfg.IsProduction() {
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
	}
	return server.Run(ctx, ":"+cfg.Port, router, cfg.ShutdownTimeout)
}
