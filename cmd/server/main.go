package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/eberechi/shopsync-backend/config"
	"github.com/eberechi/shopsync-backend/internal/app/controller"
	"github.com/eberechi/shopsync-backend/internal/app/repository"
	"github.com/eberechi/shopsync-backend/internal/app/service"
	"github.com/eberechi/shopsync-backend/internal/db"
	"github.com/eberechi/shopsync-backend/internal/middleware"
	"github.com/eberechi/shopsync-backend/internal/router"
	"github.com/eberechi/shopsync-backend/internal/scheduler"
	"github.com/eberechi/shopsync-backend/internal/storage"
	"github.com/eberechi/shopsync-backend/internal/sync"
	"github.com/eberechi/shopsync-backend/internal/ws"
	"github.com/eberechi/shopsync-backend/pkg/logger"
	"github.com/eberechi/shopsync-backend/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting ShopSync Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"mode":        cfg.Server.Mode,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis is optional; the central server uses it to answer duplicate
	// receipt pushes cheaply.
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, continuing without receipt cache", map[string]interface{}{
				"error": err.Error(),
			})
			cfg.Redis.Enabled = false
		} else {
			defer redis.Close()
		}
	}

	// Repositories
	businessRepo := repository.NewBusinessRepository(db.GetDB())
	userRepo := repository.NewUserRepository(db.GetDB())
	inventoryRepo := repository.NewInventoryRepository(db.GetDB())
	salesRepo := repository.NewSalesRepository(db.GetDB())

	// Services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	inventoryService := service.NewInventoryService(inventoryRepo)
	salesService := service.NewSalesService(db.GetDB(), salesRepo, inventoryRepo)

	var s3Store *storage.S3Storage
	if cfg.S3.Enabled {
		s3Store = storage.NewS3Storage(
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.BaseURL,
		)
	}

	// Sync engine (local mode only)
	conflicts := sync.NewConflictTracker()
	hub := ws.NewHub()
	go hub.Run()

	var orchestrator *sync.Orchestrator
	var syncScheduler *scheduler.SyncScheduler
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Server.Mode != "central" {
		client := sync.NewClient(cfg.Remote.BaseURL, cfg.Remote.APIKey, cfg.Remote.DataTimeout)
		probe := sync.NewProbe(cfg.Remote.BaseURL, cfg.Remote.ProbeTimeout)
		orchestrator = sync.NewOrchestrator(
			probe,
			sync.NewRegistrar(client, businessRepo),
			sync.NewPullReconciler(client, businessRepo, userRepo, inventoryRepo, conflicts),
			sync.NewPushReconciler(client, salesRepo, conflicts),
			businessRepo,
			salesRepo,
			sync.NewMarker(cfg.Sync.MarkerPath),
			hub,
		)
		orchestrator.Start(ctx)
		defer orchestrator.Stop()

		if cfg.Sync.AutoSync {
			syncScheduler = scheduler.NewSyncScheduler(orchestrator, cfg.Sync.CronSpec)
			if err := syncScheduler.Start(); err != nil {
				logger.Warn("Automatic sync disabled", map[string]interface{}{
					"error": err.Error(),
				})
			} else {
				defer syncScheduler.Stop()
			}
		}
	}

	// Controllers
	authController := controller.NewAuthController(authService, businessRepo)
	inventoryController := controller.NewInventoryController(inventoryService)
	salesController := controller.NewSalesController(salesService)
	syncController := controller.NewSyncController(orchestrator, conflicts)
	syncAPIController := controller.NewSyncAPIController(
		businessRepo, userRepo, inventoryRepo, salesRepo, cfg.Redis.Enabled,
	)
	exportController := controller.NewExportController(
		businessRepo, inventoryRepo, salesRepo, s3Store,
	)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	r := router.NewRouter(
		authController,
		inventoryController,
		salesController,
		syncController,
		syncAPIController,
		exportController,
		authMiddleware,
		hub,
		cfg,
	)
	engine := r.Setup()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"mode":    cfg.Server.Mode,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
