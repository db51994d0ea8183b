package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema holds the table and index definitions, applied in order.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id UUID PRIMARY KEY,
		login TEXT NOT NULL UNIQUE,
		password_hash BYTEA NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id BIGSERIAL PRIMARY KEY,
		client_id UUID NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
		balance NUMERIC(20,2) NOT NULL DEFAULT 0 CHECK (balance >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id BIGSERIAL PRIMARY KEY,
		account_id BIGINT NOT NULL REFERENCES accounts(id),
		amount NUMERIC(20,2) NOT NULL CHECK (amount > 0),
		type TEXT NOT NULL CHECK (type IN ('deposit', 'withdraw')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_accounts_client_id ON accounts (client_id)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_account_id ON transactions (account_id)`,
}

// Migrate creates the tables and indexes if they do not exist.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
