// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for Expert Q&A.

# Handler Types

Each handler is a struct built from the config:

  - AccountHandler: register, login, logout
  - QuestionHandler: home listing, question detail, ask, answer, expert queue
  - UserHandler: user listing and expert promotion

	accountHandler := handlers.NewAccountHandler(cfg)

Store-backed methods take the request-scoped connection as a third argument
and are wired through middleware.WithConn:

	func (h *QuestionHandler) Home(w http.ResponseWriter, r *http.Request, q db.DBTX)

# Access Rules

Authorization failures redirect, they never return an error status:

	/register, /login    logged-in users → /
	/question/{id}       anonymous → /login
	/ask                 anonymous or expert → /
	/answer/{id}         anonymous → /, wrong expert → /login
	/unanswered          non-expert → /
	/users, /promoted    non-admin → /

# Question Lifecycle

A question is created unanswered and answered exactly once by the expert it
is addressed to. An absent or already answered question reads as
"Question has been answered." on GET /answer/{id}; a POST to it redirects
home without touching the row.

# Errors

Validation problems are Warning strings in a 200 view. Store failures are
logged and answered with a 500 JSON body whose message is "Database error".
*/
package handlers
