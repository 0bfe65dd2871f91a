package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/streamtube/streamtube/internal/auth"
	"github.com/streamtube/streamtube/internal/cache"
	"github.com/streamtube/streamtube/internal/config"
	"github.com/streamtube/streamtube/internal/database"
	"github.com/streamtube/streamtube/internal/logging"
	"github.com/streamtube/streamtube/internal/metrics"
	"github.com/streamtube/streamtube/internal/queue"
	"github.com/streamtube/streamtube/internal/storage"
	"github.com/streamtube/streamtube/internal/tracing"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logging
	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Initialize tracing
	if cfg.Tracing.Enabled {
		_, closer, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
		if err != nil {
			logger.Fatalf("Failed to initialize tracer: %v", err)
		}
		defer closer.Close()
	}

	// Initialize database
	db, err := database.New(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := database.NewRepository(db)

	// Initialize cache
	redisCache, err := cache.NewCache(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisCache.Close()

	// Initialize media storage
	stor, err := storage.New(cfg.Storage)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize cleanup queue
	q, err := queue.New(cfg.Queue)
	if err != nil {
		logger.Fatalf("Failed to connect to queue: %v", err)
	}
	defer q.Close()

	// Token service
	tokens := auth.NewTokenService(cfg.Auth)

	// Create API instance
	api := &API{
		users:        repo,
		channels:     repo,
		media:        stor,
		cleanup:      q,
		cache:        redisCache,
		db:           repo,
		tokens:       tokens,
		log:          logger,
		cookieSecure: cfg.Auth.CookieSecure,
		accessTTL:    cfg.Auth.AccessTokenTTL,
		refreshTTL:   cfg.Auth.RefreshTokenTTL,
		profileTTL:   cfg.Redis.ProfileTTL,
	}

	// Setup router
	router := setupRouter(api, tokens, logger, cfg.Tracing.Enabled)

	// Start metrics server
	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics.Port)
		go func() {
			logger.Infof("Starting metrics server on port %d", cfg.Metrics.Port)
			if err := metricsServer.Start(); err != nil {
				logger.ErrorWithErr("metrics server failed", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			_ = metricsServer.Shutdown(ctx)
		}()
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Starting API server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
