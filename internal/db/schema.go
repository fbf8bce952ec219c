package db

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		sku           TEXT PRIMARY KEY,
		name          TEXT NOT NULL DEFAULT '',
		pack_size     INTEGER NOT NULL DEFAULT 1 CHECK (pack_size > 0),
		stock         INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		initial_stock INTEGER CHECK (initial_stock >= 0),
		position      INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id       TEXT PRIMARY KEY,
		type     TEXT NOT NULL CHECK (type IN ('import', 'sale')),
		sku      TEXT NOT NULL,
		name     TEXT NOT NULL DEFAULT '',
		qty      INTEGER NOT NULL CHECK (qty > 0),
		date_iso TIMESTAMPTZ NOT NULL,
		seq      INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS transactions_sku_date_idx ON transactions (sku, date_iso)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            SERIAL PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'user',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Migrate creates the ledger and user tables when missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d: %w", i+1, err)
		}
	}
	return nil
}
