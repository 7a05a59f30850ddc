// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store provides persistent votes.Store implementations.

# SQL

SQLStore works on the schema from package db, on SQLite or PostgreSQL:

	conn, _ := db.Open(cfg)
	s := store.NewSQLStore(conn)

Put updates article_tally with "WHERE version = $n" and treats zero
affected rows as votes.ErrVersionConflict. Vote rows are insert-only.

# Redis

RedisStore keeps a votes hash and a tally hash per article:

	s, err := store.NewRedisStore(ctx, "redis://localhost:6379/0")

Put runs inside WATCH on the tally hash; an aborted transaction is
reported as votes.ErrVersionConflict.
*/
package store
