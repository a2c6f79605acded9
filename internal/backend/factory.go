// Package backend selects and builds the configured storage backend.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"kassan/internal/config"
	"kassan/internal/storage"
	"kassan/internal/storage/memory"
)

// Open builds the storage.Store named by cfg.DataBackend. The caller owns the
// returned store and must Close it.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.DataBackend {
	case "memory":
		logger.Info("initialized memory backend")
		return memory.New(), nil

	case "sqlite":
		store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("initialized sqlite backend", "db_path", cfg.SQLiteDBPath)
		return store, nil

	case "postgres":
		store, err := storage.NewPostgresStore(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("initialize postgres backend: %w", err)
		}
		logger.Info("initialized postgres backend")
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported data backend: %s", cfg.DataBackend)
	}
}
