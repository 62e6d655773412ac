// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for Expert Q&A.

NewRouter returns the handler for the whole site:

	handler := router.NewRouter(pool, cfg)

Every store-backed route is wrapped, outermost first, in metrics, request
logging and a per-request database connection. The whole mux sits behind
WithRequestID.

# Endpoints

	GET  /health          - Liveness
	GET  /metrics         - Prometheus metrics
	GET  /                - Answered questions
	GET  /register        - Registration view
	POST /register        - Create account
	GET  /login           - Login view
	POST /login           - Start session
	GET  /logout          - End session
	GET  /question/{id}   - One question
	GET  /unanswered      - Expert's own queue
	GET  /answer/{id}     - Answer view
	POST /answer/{id}     - Submit answer
	GET  /ask             - Ask view with current experts
	POST /ask             - Submit question
	GET  /users           - All users (admin)
	GET  /promoted/{id}   - Toggle expert flag (admin unless open promotion)
*/
package router
