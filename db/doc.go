// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and keeps its schema current.

Two dialects are supported: SQLite (modernc.org/sqlite, the default) and
PostgreSQL (lib/pq).

	conn, err := db.Open(ctx, db.SQLite, "qa.db")
	err = db.CreateSchema(ctx, conn, db.SQLite)

# Migrations

Migrations live in migrations/<dialect> and are embedded in the binary.
CreateSchema applies any that are pending with goose, so it is safe to run
on every start.

# Placeholders

Queries are written with '?' placeholders. Bind wraps a connection so that
they are rewritten to $1, $2, ... for PostgreSQL:

	q := db.Bind(conn, dialect)

Tables:

  - users: id, name (unique), password (bcrypt), expert, admin
  - questions: id, question_text, answer_text (NULL until answered),
    asked_by_id, expert_id
*/
package db
