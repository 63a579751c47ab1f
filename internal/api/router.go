// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/cartographus/internal/auth"
	"github.com/tomtom215/cartographus/internal/middleware"
)

// Router wires every spec §6 route onto a Chi mux with the production
// middleware stack (ADR-0016): request IDs, panic recovery, CORS, rate
// limiting, and security headers.
type Router struct {
	handler *Handler
	authMW  *auth.Middleware
	chiMW   *ChiMiddleware
	perf    *middleware.PerformanceMonitor
}

// NewRouter builds a Router. authMW enforces the JWT bearer check on the
// GM-only routes; chiMW supplies CORS/rate-limit middleware built from
// internal/config.SecurityConfig.
func NewRouter(handler *Handler, authMW *auth.Middleware, chiMW *ChiMiddleware) *Router {
	return &Router{
		handler: handler,
		authMW:  authMW,
		chiMW:   chiMW,
		perf:    middleware.NewPerformanceMonitor(1000),
	}
}

// requireGM adapts auth.Middleware.RequireRole to a chi middleware.
func (router *Router) requireGM(next http.Handler) http.Handler {
	return router.authMW.RequireRole("gm", next.ServeHTTP)
}

// asChiMiddleware adapts the internal/middleware package's
// http.HandlerFunc-to-http.HandlerFunc signature to chi's
// http.Handler-to-http.Handler convention.
func asChiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi builds the complete handler tree.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMW.CORS())
	r.Use(router.chiMW.RateLimit())
	r.Use(APISecurityHeaders())
	r.Use(asChiMiddleware(middleware.PrometheusMetrics))
	r.Use(router.perf.Middleware)
	r.Use(asChiMiddleware(middleware.Compression))

	r.Get("/health", router.handler.Health)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/ws", router.handler.Socket)

	r.Route("/api", func(r chi.Router) {
		// Unauthenticated: player scanners and public status displays have
		// no credential (spec §4.5 — there is exactly one credential, the
		// admin/GM password).
		r.Post("/admin/auth", router.handler.AdminAuth)
		r.Post("/scan", router.handler.Scan)
		r.Post("/offline/drain", router.handler.OfflineDrain)
		r.Get("/tokens", router.handler.Tokens)
		r.Get("/state", router.handler.State)
		r.Get("/state/status", router.handler.StateStatus)

		// GM-only: everything that mutates session/video state.
		r.Group(func(r chi.Router) {
			r.Use(router.requireGM)
			r.Post("/transaction/submit", router.handler.TransactionSubmit)
			r.Post("/session", router.handler.SessionCreate)
			r.Put("/session", router.handler.SessionUpdate)
			r.Post("/video/control", router.handler.VideoControl)
		})
	})

	return r
}
