package main

import (
	"context"
	"fmt"
	"log"

	"memelaunch-sim/internal/config"
	"memelaunch-sim/internal/storage"
	chstore "memelaunch-sim/internal/storage/clickhouse"
	"memelaunch-sim/internal/storage/memory"
	"memelaunch-sim/internal/storage/migrations"
	pgstore "memelaunch-sim/internal/storage/postgres"
	sqlitestore "memelaunch-sim/internal/storage/sqlite"
)

// backend is an opened storage backend plus the optional analytics mirror.
type backend struct {
	stores  storage.Set
	mirror  storage.TradeMirror
	cleanup func()
}

// openBackend connects the configured backend. With migrate set, schema
// migrations are applied first.
func openBackend(ctx context.Context, cfg config.StorageConfig, migrate bool, logger *log.Logger) (*backend, error) {
	b := &backend{cleanup: func() {}}

	switch cfg.Backend {
	case config.BackendMemory:
		b.stores = memory.NewSet()

	case config.BackendPostgres:
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if migrate {
			if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("postgres migrations: %w", err)
			}
		}
		b.stores = pgstore.NewSet(pool)
		b.cleanup = pool.Close

	case config.BackendSqlite:
		db, err := sqlitestore.Open(ctx, cfg.SqlitePath)
		if err != nil {
			return nil, err
		}
		if migrate {
			if err := migrations.RunSqliteMigrations(ctx, db); err != nil {
				db.Close()
				return nil, fmt.Errorf("sqlite migrations: %w", err)
			}
		}
		b.stores = sqlitestore.NewSet(db)
		b.cleanup = func() { db.Close() }

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	if cfg.ClickhouseDSN != "" {
		var conn *chstore.Conn
		var err error
		if migrate {
			conn, err = migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		} else {
			conn, err = chstore.NewConn(ctx, cfg.ClickhouseDSN)
		}
		if err != nil {
			b.cleanup()
			return nil, fmt.Errorf("connect to clickhouse: %w", err)
		}
		b.mirror = chstore.NewMirror(conn)
		closeStores := b.cleanup
		b.cleanup = func() {
			conn.Close()
			closeStores()
		}
		logger.Printf("Mirroring trades to ClickHouse")
	}

	logger.Printf("Using %s storage", cfg.Backend)
	return b, nil
}
