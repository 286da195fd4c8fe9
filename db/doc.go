// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and manages the schema.

# Drivers

Both drivers are registered by this package:

  - sqlite: modernc.org/sqlite (default, used by the tests)
  - postgres: github.com/lib/pq

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

SQLite pools are limited to one open connection.

# Tables

users: one row per voter

  - user_id: HMAC of the normalized email address (primary key)
  - token_hash: SHA-256 of the issued token, never the token itself
  - voted: flips false to true once

teams: vote tallies

  - name: team name (primary key)
  - votes: non-negative counter

# Usage

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

CreateSchema uses IF NOT EXISTS and is safe to call on every start.
*/
package db
