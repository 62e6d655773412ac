// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations
var migrations embed.FS

// CreateSchema applies the embedded migrations for the dialect.
// Safe to call multiple times - goose skips applied versions.
func CreateSchema(ctx context.Context, conn *sql.DB, dialect Dialect) error {
	fsys, err := fs.Sub(migrations, "migrations/"+string(dialect))
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	provider, err := goose.NewProvider(dialect.goose(), conn, fsys)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	for _, res := range results {
		slog.Info("migration applied",
			"version", res.Source.Version,
			"duration_ms", res.Duration.Milliseconds(),
		)
	}

	return nil
}
