package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/streamtube/streamtube/internal/config"
	"github.com/streamtube/streamtube/internal/logging"
	"github.com/streamtube/streamtube/internal/metrics"
	"github.com/streamtube/streamtube/internal/queue"
	"github.com/streamtube/streamtube/internal/storage"
	"github.com/streamtube/streamtube/pkg/models"
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

	// Initialize storage
	stor, err := storage.New(cfg.Storage)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize queue
	q, err := queue.New(cfg.Queue)
	if err != nil {
		logger.Fatalf("Failed to connect to queue: %v", err)
	}
	defer q.Close()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutting down worker gracefully...")
		cancel()
	}()

	// Report queue depth periodically
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if depth, err := q.Depth(); err == nil {
					metrics.CleanupQueueDepth.Set(float64(depth))
				}
			}
		}
	}()

	// Cleanup handler
	cleanupHandler := func(task *models.CleanupTask) error {
		logger.WithField("object", task.ObjectName).Info("Removing replaced asset")

		if err := stor.Remove(ctx, task.ObjectName); err != nil {
			metrics.AssetCleanupsTotal.WithLabelValues(metrics.OutcomeError).Inc()
			logger.WithField("object", task.ObjectName).ErrorWithErr("Failed to remove asset", err)
			return err
		}

		metrics.AssetCleanupsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
		return nil
	}

	// Start consuming cleanup tasks
	logger.Info("Cleanup worker started, waiting for tasks...")
	if err := q.ConsumeCleanup(ctx, cleanupHandler); err != nil {
		logger.Fatalf("Failed to consume cleanup tasks: %v", err)
	}

	// Wait for shutdown
	<-ctx.Done()
	logger.Info("Worker stopped")
}
