// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/article-voting/cliparse"
)

// Open connects to the SQL database selected by cfg.StoreType and pings it
func Open(cfg cliparse.Config) (*sql.DB, error) {
	var driver string
	switch cfg.StoreType {
	case cliparse.StoreSQLite:
		driver = "sqlite"
	case cliparse.StorePostgres:
		driver = "postgres"
	default:
		return nil, fmt.Errorf("store type %q is not a SQL database", cfg.StoreType)
	}

	conn, err := sql.Open(driver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	// SQLite allows a single writer; one connection avoids SQLITE_BUSY
	// and keeps :memory: databases shared.
	if driver == "sqlite" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The statements are valid for both SQLite and PostgreSQL
const schema = `
-- Per-article tally; version guards concurrent writers
CREATE TABLE IF NOT EXISTS article_tally (
    article_id BIGINT PRIMARY KEY,
    yes_count INTEGER NOT NULL DEFAULT 0 CHECK (yes_count >= 0),
    no_count INTEGER NOT NULL DEFAULT 0 CHECK (no_count >= 0),
    version BIGINT NOT NULL DEFAULT 0
);

-- One row per (article, voter)
CREATE TABLE IF NOT EXISTS article_vote (
    article_id BIGINT NOT NULL REFERENCES article_tally(article_id) ON DELETE CASCADE,
    voter TEXT NOT NULL,
    choice TEXT NOT NULL CHECK (choice IN ('yes', 'no')),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (article_id, voter)
);
`
