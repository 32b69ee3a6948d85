package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, connStr string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Migrate creates the archive schema. Idempotent; runs at startup.
func (db *DB) Migrate(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS search_logs (
            id BIGSERIAL PRIMARY KEY,
            query TEXT NOT NULL,
            engine TEXT NOT NULL,
            mode TEXT NOT NULL,
            result_count INT NOT NULL DEFAULT 0,
            execution_time DOUBLE PRECISION NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
        CREATE INDEX IF NOT EXISTS idx_search_logs_created_at ON search_logs(created_at DESC);

        CREATE TABLE IF NOT EXISTS page_snapshots (
            url TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            content TEXT NOT NULL,
            meta_tags JSONB,
            links JSONB,
            images JSONB,
            text_blocks JSONB,
            fetched_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
    `)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (db *DB) Close() {
	db.Pool.Close()
}
