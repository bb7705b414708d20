/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the wallet frontend

ROUTE GROUPS:
  /api/wallet/*         Balance panel, deposits, withdrawals, outcomes
  /api/wallet/transactions/*  History projection and settlement
  /api/scenarios/*      Opening snapshots

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions tunes the middleware stack.
type RouterOptions struct {
	AllowedOrigins []string
	// AccessLog disables chi's request logger when false.
	AccessLog bool
}

// DefaultRouterOptions allows the local frontend dev servers.
func DefaultRouterOptions() RouterOptions {
	return RouterOptions{
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		AccessLog:      true,
	}
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if opts.AccessLog {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/wallet", func(r chi.Router) {
			r.Get("/", h.GetWallet)
			r.Get("/metrics", h.GetMetrics)
			r.Post("/deposit", h.Deposit)
			r.Post("/withdraw", h.Withdraw)
			r.Post("/outcomes", h.RecordOutcome)

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", h.ListTransactions)
				r.Get("/{id}", h.GetTransaction)
				r.Post("/{id}/status", h.SetTransactionStatus)
			})
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	return r
}
