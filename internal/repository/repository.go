// Package repository selects the storage backend named by configuration.
package repository

import (
	"context"
	"fmt"

	"github.com/msomdec/eventhub/internal/config"
	"github.com/msomdec/eventhub/internal/domain"
	"github.com/msomdec/eventhub/internal/repository/postgres"
	"github.com/msomdec/eventhub/internal/repository/sqlite"
)

// Open connects to the configured database. The caller owns the returned
// store and must Close it.
func Open(ctx context.Context, cfg config.DatabaseConfig) (domain.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.URL, cfg.MaxConnections)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
