// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p               Server port (default: 3318)
	-s               Vote store: sqlite, postgres, redis, memory (default: sqlite)
	-d               Database URL (sqlite and postgres stores)
	-r               Redis URL (redis store)
	-token-secret    Verification token secret
	-ip-salt         Voter IP hash salt
	-token-lifetime  Verification token lifetime (default: 24h)
	-trust-proxy     Use X-Forwarded-For / X-Real-IP for voter identity
	-env             Dotenv file to load if present (default: .env)

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	STORE_TYPE     → -s
	DATABASE_URL   → -d
	REDIS_URL      → -r
	TOKEN_SECRET   → -token-secret
	IP_HASH_SALT   → -ip-salt
	TOKEN_LIFETIME → -token-lifetime
	TRUST_PROXY    → -trust-proxy

CLI flags take precedence over environment variables, and environment
variables take precedence over the dotenv file.

# Validation

ParseFlags returns an error if:

  - the store type is unknown
  - the store's URL is missing
  - TOKEN_SECRET or IP_HASH_SALT is missing
  - the token lifetime is shorter than 2s
*/
package cliparse
