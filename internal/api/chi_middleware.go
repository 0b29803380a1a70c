// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package api

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/fairmatch/internal/config"
	"github.com/tomtom215/fairmatch/internal/metrics"
)

// corsMaxAge is the preflight cache lifetime in seconds.
const corsMaxAge = 300

// ChiMiddleware builds CORS and rate limiting middleware from the security
// configuration.
type ChiMiddleware struct {
	cfg  *config.SecurityConfig
	cors func(http.Handler) http.Handler
}

// NewChiMiddleware creates the middleware factory.
func NewChiMiddleware(cfg *config.SecurityConfig) *ChiMiddleware {
	return &ChiMiddleware{
		cfg: cfg,
		cors: cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID", "Location"},
			// Credentials cannot be combined with a wildcard origin.
			AllowCredentials: !containsWildcard(cfg.CORSOrigins),
			MaxAge:           corsMaxAge,
		}),
	}
}

// CORS returns the go-chi/cors handler.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit limits every route per client IP.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	return m.limit("global", m.cfg.RateLimitReqs)
}

// BatchRateLimit is the stricter limit of batch endpoints.
func (m *ChiMiddleware) BatchRateLimit() func(http.Handler) http.Handler {
	return m.limit("batch", m.cfg.BatchRateLimitReqs)
}

func (m *ChiMiddleware) limit(scope string, requests int) func(http.Handler) http.Handler {
	if m.cfg.RateLimitDisabled || requests <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return httprate.Limit(
		requests,
		m.cfg.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(rateLimited(scope)),
	)
}

// rateLimited writes the 429 envelope and counts the rejection.
func rateLimited(scope string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics.APIRateLimitHits.WithLabelValues(scope).Inc()
		respondError(w, r, http.StatusTooManyRequests, ErrCodeTooManyRequests, "Rate limit exceeded, retry later", nil)
	}
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
