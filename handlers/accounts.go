// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/expert-qa/auth"
	"github.com/danielhkuo/expert-qa/cliparse"
	"github.com/danielhkuo/expert-qa/db"
	"github.com/danielhkuo/expert-qa/middleware"
	"github.com/danielhkuo/expert-qa/models"
	"github.com/danielhkuo/expert-qa/session"
	"github.com/danielhkuo/expert-qa/store"
)

type AccountHandler struct {
	gate           *session.Gate
	fingerprintKey string
}

func NewAccountHandler(cfg cliparse.Config) *AccountHandler {
	return &AccountHandler{
		gate:           session.NewGate(cfg),
		fingerprintKey: auth.FingerprintKey(cfg.SessionSecret),
	}
}

// ShowRegister handles GET /register
func (h *AccountHandler) ShowRegister(w http.ResponseWriter, r *http.Request, q db.DBTX) {
	user, ok := currentUser(w, r, q, h.gate)
	if !ok {
		return
	}
	if user != nil {
		middleware.Redirect(w, r, "/")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RegisterView{})
}

// Register handles POST /register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request, q db.DBTX) {
	user, ok := currentUser(w, r, q, h.gate)
	if !ok {
		return
	}
	if user != nil {
		middleware.Redirect(w, r, "/")
		return
	}

	form := models.RegisterForm{
		Name:     middleware.FormRaw(r, "name"),
		Password: middleware.FormRaw(r, "password"),
	}
	if err := middleware.ValidateForm(&form); err != nil {
		warning := models.WarnMissingFields
		if middleware.InvalidField(err) == "Name" && middleware.InvalidTag(err) == "max" {
			warning = models.WarnNameTooLong
		}
		middleware.JSONResponse(w, http.StatusOK, models.RegisterView{Warning: warning})
		return
	}
	if len(form.Password) > auth.MaxPasswordBytes {
		middleware.JSONResponse(w, http.StatusOK, models.RegisterView{Warning: models.WarnPasswordTooLong})
		return
	}

	users := store.NewUserStore(q)

	exists, err := users.Exists(r.Context(), form.Name)
	if err != nil {
		databaseError(w, "failed to look up user", err)
		return
	}
	if exists {
		middleware.JSONResponse(w, http.StatusOK, models.RegisterView{Warning: models.WarnNameTaken})
		return
	}

	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	// The pre-check above can lose a race; the unique index settles it.
	created, err := users.Create(r.Context(), form.Name, hash)
	if errors.Is(err, store.ErrDuplicateName) {
		middleware.JSONResponse(w, http.StatusOK, models.RegisterView{Warning: models.WarnNameTaken})
		return
	}
	if err != nil {
		databaseError(w, "failed to create user", err)
		return
	}

	slog.Info("user registered", "user_id", created.ID)
	middleware.JSONResponse(w, http.StatusOK, models.RegisterView{Warning: models.WarnRegistered})
}

// ShowLogin handles GET /login
func (h *AccountHandler) ShowLogin(w http.ResponseWriter, r *http.Request, q db.DBTX) {
	user, ok := currentUser(w, r, q, h.gate)
	if !ok {
		return
	}
	if user != nil {
		middleware.Redirect(w, r, "/")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.LoginView{})
}

// Login handles POST /login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request, q db.DBTX) {
	user, ok := currentUser(w, r, q, h.gate)
	if !ok {
		return
	}
	if user != nil {
		middleware.Redirect(w, r, "/")
		return
	}

	form := models.LoginForm{
		Name:     middleware.FormRaw(r, "name"),
		Password: middleware.FormRaw(r, "password"),
	}
	if err := middleware.ValidateForm(&form); err != nil {
		middleware.JSONResponse(w, http.StatusOK, models.LoginView{Warning: models.WarnMissingFields})
		return
	}

	client := auth.Fingerprint(middleware.GetClientIP(r), h.fingerprintKey)

	found, err := store.NewUserStore(q).GetByName(r.Context(), form.Name)
	if errors.Is(err, store.ErrNotFound) {
		slog.Info("login failed", "reason", "unknown user", "client", client)
		middleware.JSONResponse(w, http.StatusOK, models.LoginView{Warning: models.WarnUserNotFound})
		return
	}
	if err != nil {
		databaseError(w, "failed to look up user", err)
		return
	}

	err = auth.CheckPassword(found.PasswordHash, form.Password)
	if errors.Is(err, auth.ErrWrongPassword) {
		slog.Info("login failed", "reason", "wrong password", "user_id", found.ID, "client", client)
		middleware.JSONResponse(w, http.StatusOK, models.LoginView{Warning: models.WarnWrongPassword})
		return
	}
	if err != nil {
		slog.Error("failed to verify password", "error", err, "user_id", found.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	if err := h.gate.Start(w, found.Name); err != nil {
		slog.Error("failed to start session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	slog.Info("user logged in", "user_id", found.ID)
	middleware.Redirect(w, r, "/")
}

// Logout handles GET /logout
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.gate.End(w)
	middleware.Redirect(w, r, "/login")
}
