// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router assembles the middleware stack and the endpoint tree.
type Router struct {
	handler    *Handler
	middleware *Middleware
}

// NewRouter creates a router over the given handlers and middleware
// factory.
func NewRouter(handler *Handler, mw *Middleware) *Router {
	if mw == nil {
		mw = NewMiddleware(nil)
	}
	return &Router{handler: handler, middleware: mw}
}

// Setup builds the chi handler tree.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware. CORS is global so OPTIONS preflight is handled
	// before routing.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.middleware.CORS())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.middleware.RateLimit())
		r.Use(SecurityHeaders())
		r.Use(PrometheusMetrics)

		r.Get("/health", router.handler.Health)

		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", router.handler.ListVehicles)
			r.Post("/", router.handler.UpsertVehicles)
		})

		r.Post("/recommendations", router.handler.Recommendations)
		r.Post("/answers", router.handler.SaveAnswers)
		r.Post("/chat", router.handler.Chat)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
