// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the article voting API server.

The service backs a "was this article helpful?" widget: one yes/no vote per
client address per article, and the aggregate yes/no percentages.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=votes.db TOKEN_SECRET=... IP_HASH_SALT=... go run .

Or with flags:

	go run . -p 3318 -s postgres -d "postgres://..." -token-secret ... -ip-salt ...

A .env file in the working directory is read when present.

# Configuration

Required settings:

  - TOKEN_SECRET (-token-secret): Secret for verification tokens
  - IP_HASH_SALT (-ip-salt): Secret for voter identity hashing
  - DATABASE_URL (-d) for the sqlite and postgres stores
  - REDIS_URL (-r) for the redis store

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - STORE_TYPE (-s): sqlite, postgres, redis or memory (default: sqlite)
  - TOKEN_LIFETIME (-token-lifetime): default 24h
  - TRUST_PROXY (-trust-proxy): read client address from proxy headers

# Architecture

  - votes: Records, percentages, the Store interface and the Service
  - store: SQL (SQLite/PostgreSQL) and Redis stores
  - handlers: HTTP handlers for voting, results and tokens
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, client IP
  - metrics: Prometheus collectors
  - models: Request/response types
  - auth: Verification tokens and IP hashing
  - db: Connection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
