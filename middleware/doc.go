// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and response helpers.

# Connections

WithConn checks a connection out of the pool for each request and passes it
to the handler as a db.DBTX. The connection is returned when the handler
exits, on every path.

	mux.HandleFunc("GET /users", middleware.WithConn(pool, dialect, h.Users))

# Logging and Request IDs

WithRequestID tags each request (X-Request-ID) and WithLogging logs start
and completion with the ID, status and duration through slog.

# Metrics

Metrics instruments routes with Prometheus counters, a latency histogram and
an in-flight gauge, and exposes them with Handler.

# Responses

	middleware.JSONResponse(w, http.StatusOK, view)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	middleware.Redirect(w, r, "/login")

# Forms

FormString, FormRaw, FormInt64 and PathID read request values;
ValidateForm runs validator tags; InvalidField and InvalidTag describe the
first failure.
*/
package middleware
