// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags and Environment Variables

	-p                PORT             Server port (default: 8080)
	-d                DATABASE_URL     Database URL (required)
	-t                DATABASE_TYPE    sqlite (default) or postgres
	--user-salt       USER_ID_SALT     HMAC key for user ids (required)
	--admin-key       ADMIN_KEY        Team administration key (required)
	--email-domain    EMAIL_DOMAIN     Accepted email domain
	--voting-page     VOTING_PAGE_URL  Link format for verification mails
	--token-cache-ttl TOKEN_CACHE_TTL  Default 30m
	--vote-cache-ttl  VOTE_CACHE_TTL   Default 15m
	--smtp-addr       SMTP_ADDR        Mail server host:port
	--smtp-user       SMTP_USER        Mail server user
	                  SMTP_PASSWORD    Mail server password (env only)
	--mail-from       MAIL_FROM        Sender address (default: SMTP_USER)

CLI flags take precedence over environment variables. main loads a .env
file into the environment before parsing.
*/
package cliparse
