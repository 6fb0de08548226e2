// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/honsemoe/backend/internal/middleware"
)

// Router wires handlers, middleware and the Turnstile gate into the HTTP
// route tree.
type Router struct {
	handler   *Handler
	mw        *ChiMiddleware
	turnstile *middleware.Turnstile
}

// NewRouter creates the router.
func NewRouter(handler *Handler, mw *ChiMiddleware, turnstile *middleware.Turnstile) *Router {
	return &Router{handler: handler, mw: mw, turnstile: turnstile}
}

// Setup builds the route tree.
//
// The circles API is public with open CORS. Task submission sits behind the
// Turnstile gate; search, stats and sharing do not, matching what the
// frontend can send tokens for.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	// Prometheus scrape endpoint, for internal consumption only.
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(rt.mw.CORS())
		r.Use(rt.mw.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/api/health", rt.handler.Health)

		r.Route("/api/stats", func(r chi.Router) {
			r.Post("/daily-visit", rt.handler.TrackDailyVisit)
			r.Get("/", rt.handler.GetStats)
			r.Get("/daily", rt.handler.GetDailyStats)
			r.Get("/today", rt.handler.GetTodayStats)
			r.Post("/friendlist/{id}", rt.handler.ReportFriendlistFull)
		})

		r.Route("/api/v3", func(r chi.Router) {
			r.Get("/search", rt.handler.UnifiedSearch)
			r.Get("/count", rt.handler.SearchSummary)
		})

		// The legacy path and the v3 path serve the same task handlers.
		r.Route("/api/tasks", rt.taskRoutes)
		r.Route("/api/v3/tasks", rt.taskRoutes)

		r.Get("/s/{share_type}/{account_id}", rt.handler.SharePage)
	})

	r.Route("/api/circles", func(r chi.Router) {
		r.Use(rt.mw.PublicCORS())
		r.Use(rt.mw.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/", rt.handler.GetCircle)
		r.Get("/list", rt.handler.ListCircles)
	})

	return r
}

// taskRoutes registers the task endpoints. Writes are Turnstile-gated and
// rate limited more tightly than reads.
func (rt *Router) taskRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(rt.mw.RateLimitStrict())
		r.Use(rt.turnstile.Middleware())

		r.Post("/submit", rt.handler.SubmitTrainer)
		r.Post("/task", rt.handler.CreateTask)
		r.Post("/report-unavailable/{trainer_id}", rt.handler.ReportTrainerUnavailable)
		r.Post("/track-copy/{trainer_id}", rt.handler.TrackTrainerCopy)
	})

	r.Get("/trainer/{trainer_id}/status", rt.handler.GetTrainerStatus)
}
