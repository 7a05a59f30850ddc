// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the SQL vote database and creates its schema.

# Connecting

Open picks the driver from the configured store type:

	conn, err := db.Open(cfg) // "sqlite" (modernc.org/sqlite) or "postgres" (lib/pq)

SQLite connections are limited to one open connection.

# Schema Creation

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS. The same statements run
on SQLite and PostgreSQL.

# Tables

  - article_tally: yes/no counts and the optimistic-concurrency version
  - article_vote: one row per (article_id, voter), choice is 'yes' or 'no'

	article_tally 1──* article_vote
*/
package db
