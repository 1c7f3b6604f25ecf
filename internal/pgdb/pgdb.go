// Package pgdb provides Postgres connection setup and schema migrations.
package pgdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// IsURL reports whether a DATABASE_URL points at Postgres.
func IsURL(url string) bool {
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
}

// Connect opens a connection pool, verifies it with a ping, and runs migrations.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parsing connection URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return pool, nil
}

// migrations mirrors the SQLite schema in internal/db. Images and features are
// native text arrays here rather than JSON text.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS developers (
		id            BIGSERIAL PRIMARY KEY,
		name          TEXT    NOT NULL,
		logo          TEXT    NOT NULL DEFAULT '',
		description   TEXT    NOT NULL DEFAULT '',
		project_count INTEGER NOT NULL DEFAULT 0,
		established   INTEGER NOT NULL DEFAULT 0,
		email         TEXT    NOT NULL DEFAULT '',
		phone         TEXT    NOT NULL DEFAULT '',
		website       TEXT    NOT NULL DEFAULT '',
		featured      BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS locations (
		id             BIGSERIAL PRIMARY KEY,
		name           TEXT    NOT NULL,
		city           TEXT    NOT NULL DEFAULT '',
		description    TEXT    NOT NULL DEFAULT '',
		image          TEXT    NOT NULL DEFAULT '',
		property_count INTEGER NOT NULL DEFAULT 0,
		featured       BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS listings (
		id            BIGSERIAL PRIMARY KEY,
		title         TEXT             NOT NULL,
		description   TEXT             NOT NULL DEFAULT '',
		property_type TEXT             NOT NULL,
		status        TEXT             NOT NULL DEFAULT '',
		price         DOUBLE PRECISION NOT NULL DEFAULT 0,
		beds          INTEGER          NOT NULL DEFAULT 0,
		baths         INTEGER          NOT NULL DEFAULT 0,
		area          DOUBLE PRECISION NOT NULL DEFAULT 0,
		location_id   BIGINT,
		developer_id  BIGINT,
		images        TEXT[]           NOT NULL DEFAULT '{}',
		features      TEXT[]           NOT NULL DEFAULT '{}',
		latitude      DOUBLE PRECISION,
		longitude     DOUBLE PRECISION,
		featured      BOOLEAN          NOT NULL DEFAULT FALSE,
		premium       BOOLEAN          NOT NULL DEFAULT FALSE,
		exclusive     BOOLEAN          NOT NULL DEFAULT FALSE,
		new_launch    BOOLEAN          NOT NULL DEFAULT FALSE,
		review_status TEXT             NOT NULL DEFAULT 'pending',
		contact_name  TEXT             NOT NULL DEFAULT '',
		contact_email TEXT             NOT NULL DEFAULT '',
		contact_phone TEXT             NOT NULL DEFAULT '',
		listing_type  TEXT             NOT NULL DEFAULT 'sale',
		created_at    TIMESTAMPTZ      NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ      NOT NULL DEFAULT NOW(),
		address       TEXT             NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_review_status ON listings (review_status)`,
	`CREATE TABLE IF NOT EXISTS contact_messages (
		id          BIGSERIAL PRIMARY KEY,
		name        TEXT        NOT NULL,
		email       TEXT        NOT NULL,
		phone       TEXT        NOT NULL DEFAULT '',
		subject     TEXT        NOT NULL DEFAULT '',
		message     TEXT        NOT NULL,
		property_id BIGINT,
		status      TEXT        NOT NULL DEFAULT 'new',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contact_messages_status ON contact_messages (status)`,
	`CREATE TABLE IF NOT EXISTS users (
		id         BIGSERIAL PRIMARY KEY,
		username   TEXT        NOT NULL UNIQUE,
		role       TEXT        NOT NULL DEFAULT 'admin',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate runs all migrations in order. Every statement is idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, m := range migrations {
		if _, err := pool.Exec(ctx, m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
