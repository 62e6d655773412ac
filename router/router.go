// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/expert-qa/cliparse"
	"github.com/danielhkuo/expert-qa/db"
	"github.com/danielhkuo/expert-qa/handlers"
	"github.com/danielhkuo/expert-qa/middleware"
)

func NewRouter(pool *sql.DB, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()
	dialect := db.Dialect(cfg.DatabaseType)
	metrics := middleware.NewMetrics(pool)

	// route wires a store-backed handler: metrics, logging, then a
	// request-scoped connection
	route := func(pattern string, h middleware.ConnHandlerFunc) {
		mux.HandleFunc(pattern, metrics.Instrument(pattern,
			middleware.WithLogging(middleware.WithConn(pool, dialect, h))))
	}

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(cfg)
	questionHandler := handlers.NewQuestionHandler(cfg)
	userHandler := handlers.NewUserHandler(cfg)

	// Health check
	mux.HandleFunc("GET /health", metrics.Instrument("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}))
	mux.Handle("GET /metrics", metrics.Handler())

	// Accounts
	route("GET /register", accountHandler.ShowRegister)
	route("POST /register", accountHandler.Register)
	route("GET /login", accountHandler.ShowLogin)
	route("POST /login", accountHandler.Login)
	mux.HandleFunc("GET /logout", metrics.Instrument("GET /logout", middleware.WithLogging(accountHandler.Logout)))

	// Questions
	route("GET /{$}", questionHandler.Home)
	route("GET /question/{id}", questionHandler.Question)
	route("GET /unanswered", questionHandler.Unanswered)
	route("GET /answer/{id}", questionHandler.ShowAnswer)
	route("POST /answer/{id}", questionHandler.Answer)
	route("GET /ask", questionHandler.ShowAsk)
	route("POST /ask", questionHandler.Ask)

	// Users and roles (admin)
	route("GET /users", userHandler.Users)
	route("GET /promoted/{id}", userHandler.Promote)

	return middleware.WithRequestID(mux)
}
