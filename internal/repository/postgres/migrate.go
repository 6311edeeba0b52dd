package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"ugeco-backoffice/internal/logger"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS packages (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		validity_months INTEGER NOT NULL CHECK (validity_months > 0),
		offers_count INTEGER NOT NULL CHECK (offers_count >= 0),
		type TEXT NOT NULL CHECK (type IN ('creator', 'brand')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		sur_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		countries TEXT[] NOT NULL DEFAULT '{}',
		brands INTEGER[] NOT NULL DEFAULT '{}',
		package_id INTEGER NULL REFERENCES packages(id),
		purchased_at TIMESTAMPTZ NULL,
		ico TEXT NOT NULL DEFAULT '',
		reset_token_digest TEXT NULL,
		reset_token_expires TIMESTAMPTZ NULL,
		init_token_digest TEXT NULL,
		init_token_expires TIMESTAMPTZ NULL,
		is_archived BOOLEAN NOT NULL DEFAULT FALSE,
		archived_at TIMESTAMPTZ NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_users_reset_token ON users(reset_token_digest);`,
	`CREATE INDEX IF NOT EXISTS idx_users_init_token ON users(init_token_digest);`,
	`CREATE TABLE IF NOT EXISTS brands (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		ico TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		zip TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL,
		categories TEXT[] NOT NULL DEFAULT '{}',
		package_id INTEGER NULL REFERENCES packages(id),
		purchased_at TIMESTAMPTZ NULL,
		offers_count INTEGER NOT NULL DEFAULT 0 CHECK (offers_count >= 0),
		offer_ids INTEGER[] NOT NULL DEFAULT '{}',
		main_contact INTEGER NULL REFERENCES users(id),
		logo TEXT NOT NULL DEFAULT '',
		website TEXT NOT NULL DEFAULT '',
		facebook TEXT NOT NULL DEFAULT '',
		instagram TEXT NOT NULL DEFAULT '',
		tiktok TEXT NOT NULL DEFAULT '',
		pinterest TEXT NOT NULL DEFAULT '',
		youtube TEXT NOT NULL DEFAULT '',
		is_archived BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_brands_country ON brands(country);`,
	`CREATE TABLE IF NOT EXISTS offers (
		id SERIAL PRIMARY KEY,
		brand_id INTEGER NOT NULL REFERENCES brands(id),
		name TEXT NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('concept', 'active')),
		is_archived BOOLEAN NOT NULL DEFAULT FALSE,
		paid_cooperation BOOLEAN NOT NULL DEFAULT FALSE,
		active_from TIMESTAMPTZ NULL,
		active_to TIMESTAMPTZ NULL,
		categories TEXT[] NOT NULL DEFAULT '{}',
		languages TEXT[] NOT NULL DEFAULT '{}',
		targets TEXT[] NOT NULL DEFAULT '{}',
		image TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		contact TEXT NOT NULL DEFAULT '',
		website TEXT NOT NULL DEFAULT '',
		facebook TEXT NOT NULL DEFAULT '',
		instagram TEXT NOT NULL DEFAULT '',
		tiktok TEXT NOT NULL DEFAULT '',
		pinterest TEXT NOT NULL DEFAULT '',
		youtube TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_offers_brand_id ON offers(brand_id);`,
	`CREATE TABLE IF NOT EXISTS creator_profiles (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL UNIQUE REFERENCES users(id),
		name TEXT NOT NULL,
		languages TEXT[] NOT NULL DEFAULT '{}',
		categories TEXT[] NOT NULL DEFAULT '{}',
		creating_as TEXT[] NOT NULL DEFAULT '{}',
		image TEXT NOT NULL DEFAULT '',
		about TEXT NOT NULL DEFAULT '',
		portfolio TEXT NOT NULL DEFAULT '',
		instagram TEXT NOT NULL DEFAULT '',
		pinterest TEXT NOT NULL DEFAULT '',
		facebook TEXT NOT NULL DEFAULT '',
		tiktok TEXT NOT NULL DEFAULT '',
		youtube TEXT NOT NULL DEFAULT '',
		published BOOLEAN NOT NULL DEFAULT FALSE
	);`,
}

// Migrate creates the schema when it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	logger.EnterMethod("postgres.Migrate", "statements", len(schemaStatements))
	for i, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			logger.ExitMethodWithError("postgres.Migrate", err, "statement", i)
			return fmt.Errorf("failed to apply schema statement %d: %w", i, err)
		}
	}
	logger.ExitMethod("postgres.Migrate")
	return nil
}
