package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rdavila/packstore/internal/config"
	"github.com/rdavila/packstore/internal/database"
	"github.com/rdavila/packstore/internal/handlers"
	"github.com/rdavila/packstore/internal/middleware"
	"github.com/rdavila/packstore/internal/repositories"
	"github.com/rdavila/packstore/internal/services"
	"github.com/rdavila/packstore/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize logger
	logger.Init()
	defer logger.Sync()

	logger.Info("Starting pack store server...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProductionSecurity(); err != nil {
			logger.Fatal("Production security validation failed", err)
		}
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}

	// Run GORM auto-migration
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed demo catalog
	if cfg.SeedCatalog {
		if err := database.SeedCatalog(db); err != nil {
			logger.Warn("Failed to seed catalog", "error", err)
		}
	}

	// Wire repositories and services
	userRepo := repositories.NewUserRepository(db)
	packRepo := repositories.NewPackRepository(db)
	ownershipRepo := repositories.NewOwnershipRepository(db)
	ledgerRepo := repositories.NewTransactionRepository(db)

	selector := services.NewRewardSelector()
	packSvc := services.NewPackService(db, packRepo, userRepo, ownershipRepo, ledgerRepo, selector, cfg.LegendRewardsEnabled)
	inventorySvc := services.NewInventoryService(userRepo, ownershipRepo, ledgerRepo)
	userSvc := services.NewUserService(userRepo, cfg.DefaultCoins)

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerUser, cfg.RateLimitPerIP, time.Minute)
	manager := handlers.NewHandlerManager(cfg, packSvc, inventorySvc, userSvc, limiter)

	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      manager.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server listening", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped")
}
