// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/expert-qa/db"
	"github.com/danielhkuo/expert-qa/middleware"
	"github.com/danielhkuo/expert-qa/models"
	"github.com/danielhkuo/expert-qa/session"
)

// currentUser resolves the session. ok is false when a response has
// already been written.
func currentUser(w http.ResponseWriter, r *http.Request, q db.DBTX, gate *session.Gate) (user *models.User, ok bool) {
	user, err := gate.Resolve(r.Context(), q, r)
	if err != nil {
		slog.Error("failed to resolve session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return nil, false
	}
	return user, true
}

func databaseError(w http.ResponseWriter, msg string, err error, args ...any) {
	slog.Error(msg, append([]any{"error", err}, args...)...)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
}
