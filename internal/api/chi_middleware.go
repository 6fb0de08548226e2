// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package api

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/honsemoe/backend/internal/config"
)

// ChiMiddleware builds the CORS and rate-limit middleware from the security
// configuration.
type ChiMiddleware struct {
	cfg  config.SecurityConfig
	cors func(http.Handler) http.Handler
}

// NewChiMiddleware creates the middleware factory.
func NewChiMiddleware(cfg config.SecurityConfig) *ChiMiddleware {
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Content-Type", "Authorization", "Accept",
			"User-Agent", "Referer", "Origin", "CF-Turnstile-Token",
		},
		AllowCredentials: true,
		MaxAge:           86400,
	})

	return &ChiMiddleware{cfg: cfg, cors: corsHandler}
}

// CORS returns the CORS middleware; it must sit on the global chain so
// OPTIONS preflights work on every route.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// PublicCORS allows any origin. The circles API is consumed by third-party
// tools, so it stays open.
func (m *ChiMiddleware) PublicCORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Accept"},
		MaxAge:         86400,
	})
}

// RateLimit limits requests per client IP using the configured window.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	if m.cfg.RateLimitDisabled {
		return passthrough
	}
	return httprate.Limit(
		m.cfg.RateLimitReqs,
		m.cfg.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
	)
}

// RateLimitStrict limits write endpoints to a fifth of the standard budget.
func (m *ChiMiddleware) RateLimitStrict() func(http.Handler) http.Handler {
	if m.cfg.RateLimitDisabled {
		return passthrough
	}
	reqs := m.cfg.RateLimitReqs / 5
	if reqs < 1 {
		reqs = 1
	}
	return httprate.Limit(
		reqs,
		m.cfg.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
	)
}

func passthrough(next http.Handler) http.Handler {
	return next
}

// APISecurityHeaders sets baseline security headers on API responses.
func APISecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			next.ServeHTTP(w, r)
		})
	}
}
