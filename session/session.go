// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/expert-qa/auth"
	"github.com/danielhkuo/expert-qa/cliparse"
	"github.com/danielhkuo/expert-qa/db"
	"github.com/danielhkuo/expert-qa/models"
	"github.com/danielhkuo/expert-qa/store"
)

// CookieName is the cookie carrying the signed session token
const CookieName = "qa_session"

// Gate resolves the session cookie on a request to the logged-in user.
type Gate struct {
	secret string
	ttl    time.Duration
	secure bool
}

func NewGate(cfg cliparse.Config) *Gate {
	return &Gate{secret: cfg.SessionSecret, ttl: cfg.SessionTTL, secure: cfg.SecureCookies}
}

// Resolve returns the current user, or nil for an anonymous request.
// A missing, invalid or expired cookie and a user that no longer exists
// are all anonymous; only a store failure is returned as an error.
func (g *Gate) Resolve(ctx context.Context, q db.DBTX, r *http.Request) (*models.User, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, nil
	}

	name, err := auth.ParseSession(cookie.Value, g.secret)
	if err != nil {
		slog.Debug("ignoring session cookie", "error", err)
		return nil, nil
	}

	user, err := store.NewUserStore(q).GetByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Start binds the session to the user name
func (g *Gate) Start(w http.ResponseWriter, name string) error {
	token, err := auth.IssueSession(name, g.secret, g.ttl)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(g.ttl.Seconds()),
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// End clears the session cookie
func (g *Gate) End(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
