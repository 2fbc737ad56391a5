package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory_api/internal/api"
	"inventory_api/internal/app/service"
	"inventory_api/internal/common/security"
	"inventory_api/internal/domain/repository"
	"inventory_api/internal/platform/cache"
	"inventory_api/internal/platform/config"
	"inventory_api/internal/platform/database"
	"inventory_api/internal/platform/logging"
)

func main() {
	// 1. Load Configuration
	if err := config.Load(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	logger := logging.Setup(os.Stdout, config.AppConfig.LogLevel)
	ctx := context.Background()

	// 2. Initialize JWT
	security.InitJWT(config.AppConfig.JWTKey, config.AppConfig.JWTExp)

	// 3. Initialize Storage
	var (
		userRepo repository.UserRepository
		itemRepo repository.ItemRepository
	)
	switch config.AppConfig.StorageBackend {
	case config.StorageBackendMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		userRepo = repository.NewMemoryUserRepository()
		itemRepo = repository.NewMemoryItemRepository()
	default:
		if err := database.Connect(ctx); err != nil {
			logger.Error("database init failed", "error", err)
			os.Exit(1)
		}
		defer database.Close()
		if config.AppConfig.DBAutoMigrate {
			if err := database.Migrate(ctx, database.DB); err != nil {
				logger.Error("database migration failed", "error", err)
				os.Exit(1)
			}
		}
		userRepo = repository.NewPgUserRepository(database.DB)
		itemRepo = repository.NewPgItemRepository(database.DB)
	}

	// 4. Initialize Redis
	if err := cache.ConnectRedis(ctx); err != nil {
		logger.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	defer cache.CloseRedis()
	categoryCache := repository.NewNoopCategoryCache()
	if cache.RDB != nil {
		categoryCache = repository.NewRedisCategoryCache(cache.RDB, config.AppConfig.CategoryCacheTTL)
	}

	// 5. Initialize Services
	authService := service.NewAuthService(userRepo, config.AppConfig.EmitTokenOnRegister)
	itemService := service.NewItemService(itemRepo, categoryCache)
	categoryService := service.NewCategoryService(itemRepo, categoryCache)

	// 6. Initialize Router & HTTP Server
	router := api.NewRouter(logger, authService, itemService, categoryService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	// 7. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", "port", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("could not listen", "port", config.AppConfig.APIPort, "error", err)
			os.Exit(1)
		}
	}()

	<-stop // Wait for interrupt signal

	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
		return
	}

	logger.Info("server stopped gracefully")
}
