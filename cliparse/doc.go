// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite path or PostgreSQL connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - SessionSecret: HMAC key for session tokens, at least 32 bytes (required)
  - SessionTTL: session lifetime (default: 24h)
  - SecureCookies: mark the session cookie Secure
  - OpenPromotion: let /promoted run without an admin session
  - LogLevel, LogJSON: logger level and format

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type
	-session-secret   Session signing secret
	-session-ttl      Session lifetime (Go duration)
	-secure-cookies   true/false
	-open-promotion   true/false
	-log-level        debug, info, warn, error
	-log-json         true/false

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	SESSION_SECRET  → -session-secret
	SESSION_TTL     → -session-ttl
	SECURE_COOKIES  → -secure-cookies
	OPEN_PROMOTION  → -open-promotion
	LOG_LEVEL       → -log-level
	LOG_JSON        → -log-json

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing
  - DATABASE_TYPE is not sqlite or postgres
  - SESSION_SECRET is missing or shorter than 32 bytes
  - a duration, boolean or log level does not parse
*/
package cliparse
