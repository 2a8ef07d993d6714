package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hamed0406/statusforge/internal/config"
	"github.com/hamed0406/statusforge/internal/repo"
	"github.com/hamed0406/statusforge/internal/repo/memory"
	"github.com/hamed0406/statusforge/internal/repo/postgres"
	"github.com/hamed0406/statusforge/internal/repo/sqlite"
)

// openStore returns the adapter selected by DATABASE_DRIVER. Postgres is
// migrated to the latest schema before use.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (repo.Store, error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
			return nil, err
		}
		logger.Info("postgres_migrated")
		s, err := postgres.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverSQLite:
		s, err := sqlite.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverMemory:
		logger.Warn("using_memory_store")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}
}
