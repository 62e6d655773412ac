// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Expert Q&A server.

Expert Q&A lets registered users put questions to designated experts.
Experts answer the questions addressed to them, and answered questions are
listed publicly. Admins list users and toggle the expert flag.

# Starting the Server

The server needs a database URL and a session secret, from flags, the
environment or a .env file:

	DATABASE_URL=qa.db SESSION_SECRET=... go run .

Or with flags:

	go run . serve -p 3318 -d qa.db -session-secret "..."

PostgreSQL is selected with -t postgres (or DATABASE_TYPE=postgres).

# Commands

	expert-qa [serve] [flags]        Run the HTTP server
	expert-qa grant-admin NAME [flags] Set the admin flag on a user

There is no way to create the first admin over HTTP; grant-admin is it.

# Architecture

  - handlers: HTTP request handlers (accounts, questions, users)
  - router: Route definitions using Go 1.22+ routing
  - middleware: logging, request IDs, metrics, per-request connections, form helpers
  - session: cookie-backed session gate
  - store: typed queries over users and questions
  - models: domain types and view-models
  - auth: password hashing and session tokens
  - db: drivers, dialects and migrations
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
