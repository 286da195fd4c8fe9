// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the team election API server.

Pupils request a one-time voting link by mail, then cast exactly one vote for
a team. Votes are applied one at a time by a single worker and persisted
together with the voter's used flag, so a token can never be counted twice.

# Starting the Server

The server reads a .env file if present, then environment variables, then
CLI flags (flags win):

	DATABASE_URL=election.db USER_ID_SALT=... ADMIN_KEY=... go run .

Or with flags:

	go run . -p 8080 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - USER_ID_SALT (--user-salt): Secret for hashing addresses into user ids
  - ADMIN_KEY (--admin-key): Key for team administration

Optional settings:

  - PORT (-p): Server port (default: 8080)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - EMAIL_DOMAIN, VOTING_PAGE_URL
  - TOKEN_CACHE_TTL (30m), VOTE_CACHE_TTL (15m)
  - SMTP_ADDR, SMTP_USER, SMTP_PASSWORD, MAIL_FROM; mails are only logged
    when SMTP_ADDR is empty

# Architecture

  - election: token issuance, validation and vote recording
  - queue: single worker that serializes vote recording
  - cache: expire-after-access read-through caches
  - teams: in-memory team registry with persisted tallies
  - store: SQL persistence
  - handlers, router, middleware, models: HTTP layer
  - auth: tokens, hashing, address validation
  - mail: verification mail delivery
  - db: connection and schema
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
