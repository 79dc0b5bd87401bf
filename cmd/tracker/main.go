package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JSON-FX/monopoly-tracker-sub001/internal/cli"
	"github.com/JSON-FX/monopoly-tracker-sub001/internal/config"
	"github.com/JSON-FX/monopoly-tracker-sub001/internal/logging"
	"github.com/JSON-FX/monopoly-tracker-sub001/internal/metrics"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/repositories/archive"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/services/tracker"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/storage"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/storage/file"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/storage/memory"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/storage/sqlite"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel))

	// Stop on interrupt; the runner returns and shutdown proceeds normally
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := openStore(ctx, cfg, logger)
	defer store.Close()

	repo := openArchive(ctx, cfg, logger)
	defer repo.Close()

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	t := tracker.New(ctx, tracker.Options{
		Store:   store,
		Archive: repo,
		Metrics: collector,
		Logger:  logger,
	})

	logger.Info("Tracker ready (storage=%s). Type help for commands", cfg.StorageType)
	if err := cli.NewRunner(t, os.Stdout, logger).Run(ctx, os.Stdin); err != nil {
		logger.Error("Input error: %v", err)
	}

	// Cleanup and exit
	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := t.Close(shutdownCtx); err != nil {
		logger.Warn("Failed to drain pending writes: %v", err)
	}

	if cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsFile, registry); err != nil {
			logger.Warn("Failed to write metrics to %s: %v", cfg.MetricsFile, err)
		} else {
			logger.Debug("Wrote metrics to %s", cfg.MetricsFile)
		}
	}
}

// openStore picks the snapshot backend, falling back to memory when the
// configured one cannot be opened
func openStore(ctx context.Context, cfg *config.Config, logger *logging.Logger) storage.Store {
	switch cfg.StorageType {
	case config.StorageSQLite:
		logger.Info("Initializing SQLite snapshot store at %s", cfg.SQLitePath)
		store, err := sqlite.New(ctx, &storage.Options{Path: cfg.SQLitePath, Key: storage.DefaultKey}, logger)
		if err == nil {
			return store
		}
		logger.Error("Failed to initialize SQLite store: %v", err)
	case config.StorageFile:
		logger.Info("Using snapshot file %s", cfg.SnapshotFile)
		store, err := file.New(&storage.Options{Path: cfg.SnapshotFile})
		if err == nil {
			return store
		}
		logger.Error("Failed to initialize file store: %v", err)
	}

	logger.Warn("Using in-memory snapshot store (data will be lost on restart)")
	return memory.New()
}

// openArchive picks where archived sessions are recorded: Elasticsearch when
// configured, the SQLite database when that is the storage backend, memory
// otherwise
func openArchive(ctx context.Context, cfg *config.Config, logger *logging.Logger) archive.Repository {
	if cfg.ArchiveEnabled() {
		repo, err := archive.NewElasticsearchRepository(&archive.ElasticsearchConfig{
			URL:      cfg.ElasticsearchURL,
			Username: cfg.ElasticsearchUsername,
			Password: cfg.ElasticsearchPassword,
			Index:    cfg.ElasticsearchIndex,
		}, logger)
		if err == nil {
			logger.Info("Archiving sessions to Elasticsearch index %s", cfg.ElasticsearchIndex)
			return repo
		}
		logger.Error("Failed to initialize Elasticsearch archive: %v", err)
	}

	if cfg.StorageType == config.StorageSQLite {
		repo, err := archive.NewSQLiteRepository(ctx, cfg.SQLitePath, logger)
		if err == nil {
			return repo
		}
		logger.Error("Failed to initialize SQLite archive: %v", err)
	}

	return archive.NewMemoryRepository()
}
