// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/fairmatch/internal/auth"
	"github.com/tomtom215/fairmatch/internal/middleware"
)

// compressionLevel is the gzip level of chi's Compress middleware.
const compressionLevel = 5

// Router assembles the HTTP routes.
type Router struct {
	handler *Handler
	auth    *auth.Middleware
	chiMW   *ChiMiddleware
}

// NewRouter creates a router for handler. authMW gates user and admin
// routes.
func NewRouter(handler *Handler, authMW *auth.Middleware) *Router {
	return &Router{
		handler: handler,
		auth:    authMW,
		chiMW:   NewChiMiddleware(&handler.cfg.Security),
	}
}

// SetupChi returns the root http.Handler.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(router.handler.logger))
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(compressionLevel, "application/json"))
	r.Use(router.chiMW.CORS())

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/health", func(r chi.Router) {
			r.Get("/live", router.handler.HealthLive)
			r.Get("/ready", router.handler.HealthReady)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.chiMW.RateLimit())
			r.Use(router.auth.Authenticate)

			router.registerRecommendRoutes(r)

			r.With(router.auth.RequireAdmin).Get("/jobs/{jobID}", router.handler.JobStatus)
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	return r
}

func (router *Router) registerRecommendRoutes(r chi.Router) {
	h := router.handler

	r.Route("/recommendations", func(r chi.Router) {
		r.Get("/me", h.MyRecommendations)
		r.Get("/me/detailed", h.MyRecommendationsDetailed)

		r.Get("/user/{userID}", h.UserRecommendations)
		r.Get("/user/{userID}/detailed", h.UserRecommendationsDetailed)
		r.Get("/user/{userID}/similar", h.SimilarUsers)
		r.Get("/users/{userID}/features", h.UserFeatures)

		// Admin batch triggers
		r.Group(func(r chi.Router) {
			r.Use(router.auth.RequireAdmin)
			r.Get("/stats", h.EngineStats)
			r.Post("/user/{userID}/generate", h.GenerateForUser)

			r.Group(func(r chi.Router) {
				r.Use(router.chiMW.BatchRateLimit())
				r.Post("/generate", h.GenerateAll)
				r.Post("/features/extract", h.ExtractAllFeatures)
				r.Post("/similarities/compute", h.ComputeSimilarities)
			})
		})

		r.Get("/{recommendationID}", h.RecommendationDetail)
		r.Get("/{recommendationID}/reasons", h.RecommendationReasons)
		r.Put("/{recommendationID}/status", h.UpdateRecommendationStatus)
	})
}
