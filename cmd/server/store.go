package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"countries/internal/country/service"
	"countries/internal/country/store"
	"countries/internal/platform/config"
	"countries/internal/platform/postgres"
	"countries/internal/platform/sqlite"
)

// openStore builds the configured country store. The returned close func
// releases the database handle, if any.
func openStore(ctx context.Context, cfg config.StoreConfig, log *slog.Logger) (service.Store, func() error, error) {
	var (
		db  *sql.DB
		err error
		st  *store.SQLStore
	)
	switch cfg.Driver {
	case "memory":
		log.Info("using in-memory country store")
		return store.NewInMemory(), func() error { return nil }, nil
	case "sqlite":
		db, err = sqlite.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		st = store.NewSQLite(db)
	case "postgres":
		db, err = postgres.Open(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		st = store.NewPostgres(db)
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}

	if err := st.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate %s store: %w", cfg.Driver, err)
	}
	log.Info("country store ready", "driver", cfg.Driver)
	return st, db.Close, nil
}
