// Package repository implements the domain repositories on PostgreSQL
// via pgx. Monetary NUMERIC columns scan into shopspring decimals.
package repository

import (
	"context"
	"fmt"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storefront-labs/shop-admin-api/db"
)

// NewPool opens a pgx connection pool and verifies connectivity with a ping.
// Every new connection registers the shopspring decimal codecs so NUMERIC
// columns scan into decimal.Decimal.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return pool, nil
}

// RunMigrations applies the embedded DDL batch. The statements are
// idempotent, so running at every startup is safe.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	ddl, err := db.Schema()
	if err != nil {
		return fmt.Errorf("reading embedded schema: %w", err)
	}
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
