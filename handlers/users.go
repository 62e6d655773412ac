// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/expert-qa/cliparse"
	"github.com/danielhkuo/expert-qa/db"
	"github.com/danielhkuo/expert-qa/middleware"
	"github.com/danielhkuo/expert-qa/models"
	"github.com/danielhkuo/expert-qa/session"
	"github.com/danielhkuo/expert-qa/store"
)

type UserHandler struct {
	gate *session.Gate
	cfg  cliparse.Config
}

func NewUserHandler(cfg cliparse.Config) *UserHandler {
	return &UserHandler{gate: session.NewGate(cfg), cfg: cfg}
}

// Users handles GET /users
func (h *UserHandler) Users(w http.ResponseWriter, r *http.Request, q db.DBTX) {
	user, ok := currentUser(w, r, q, h.gate)
	if !ok {
		return
	}
	if !user.IsAdmin() {
		middleware.Redirect(w, r, "/")
		return
	}

	users, err := store.NewUserStore(q).List(r.Context())
	if err != nil {
		databaseError(w, "failed to list users", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.UsersView{User: user, Users: users})
}

// Promote handles GET /promoted/{id}
// Flips the expert flag; a second call restores it. Requires an admin
// unless the server runs with open promotion.
func (h *UserHandler) Promote(w http.ResponseWriter, r *http.Request, q db.DBTX) {
	var actor int64
	if !h.cfg.OpenPromotion {
		user, ok := currentUser(w, r, q, h.gate)
		if !ok {
			return
		}
		if !user.IsAdmin() {
			middleware.Redirect(w, r, "/")
			return
		}
		actor = user.ID
	}

	id, valid := middleware.PathID(r, "id")
	if !valid {
		middleware.Redirect(w, r, "/users")
		return
	}

	err := store.NewUserStore(q).ToggleExpert(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		slog.Debug("toggle for unknown user", "user_id", id)
		middleware.Redirect(w, r, "/users")
		return
	}
	if err != nil {
		databaseError(w, "failed to toggle expert flag", err, "user_id", id)
		return
	}

	slog.Info("expert flag toggled", "user_id", id, "by", actor)
	middleware.Redirect(w, r, "/users")
}
