package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/simaogato/portfolio-backend/internal/adapter/repository/memory"
	"github.com/simaogato/portfolio-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/portfolio-backend/internal/adapter/repository/sqlite"
	"github.com/simaogato/portfolio-backend/internal/adapter/repository/sqlstore"
	"github.com/simaogato/portfolio-backend/internal/domain"
	"github.com/simaogato/portfolio-backend/pkg/config"
	"github.com/simaogato/portfolio-backend/pkg/logger"
)

// storage is an opened, migrated asset store
type storage struct {
	repo  domain.AssetRepository
	close func() error
}

// openStorage opens the store selected by DB_DRIVER and applies the schema
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		log.Warn("Using in-memory storage, data is lost on restart")
		return &storage{repo: memory.NewAssetRepository(), close: func() error { return nil }}, nil

	case config.DriverSQLite:
		db, err := sqlite.NewDB(cfg.Database.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := sqlstore.Migrate(ctx, db.DB, sqlite.Dialect{}); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.WithField("path", db.Path()).Info("Connected to SQLite")
		return &storage{repo: sqlite.NewAssetRepository(db), close: db.Close}, nil

	case config.DriverPostgres:
		db, err := connectPostgres(ctx, &cfg.Database, log)
		if err != nil {
			return nil, err
		}
		if err := sqlstore.Migrate(ctx, db.DB, postgres.Dialect{}); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.WithFields(map[string]interface{}{
			"host": cfg.Database.Host,
			"name": cfg.Database.Name,
		}).Info("Connected to PostgreSQL")
		return &storage{repo: postgres.NewAssetRepository(db), close: db.Close}, nil
	}

	return nil, fmt.Errorf("unsupported storage driver %q", cfg.Database.Driver)
}

// connectPostgres retries until the database accepts connections
func connectPostgres(ctx context.Context, cfg *config.DatabaseConfig, log *logger.Logger) (*postgres.DB, error) {
	attempts := cfg.ConnectRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := postgres.NewDB(cfg.PostgresDSN())
		if err == nil {
			return db, nil
		}
		lastErr = err

		log.WithError(err).WithFields(map[string]interface{}{
			"attempt":  attempt,
			"attempts": attempts,
		}).Warn("Database not ready")

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.ConnectRetryDelay):
		}
	}

	return nil, fmt.Errorf("connect to database after %d attempts: %w", attempts, lastErr)
}
