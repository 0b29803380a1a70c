// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

/*
Package api exposes the recommendation engine over HTTP.

# Routes

Recommendations, under /api/v1/recommendations:

	GET  /me                              caller's recommendations (JWT mode)
	GET  /me/detailed                     same, with reasons
	GET  /user/{userID}                   a user's recommendations (self or admin)
	GET  /user/{userID}/detailed          same, with reasons
	GET  /user/{userID}/similar           most similar users
	POST /user/{userID}/generate          regenerate one user (admin)
	GET  /users/{userID}/features         feature vector, extracted on demand
	GET  /{recommendationID}              one recommendation with reasons
	GET  /{recommendationID}/reasons      reasons, empty for unknown ids
	PUT  /{recommendationID}/status       set VIEWED, ACCEPTED or REJECTED
	POST /generate                        regenerate everyone (admin), sync or async
	POST /features/extract                re-extract every vector (admin)
	POST /similarities/compute            recompute similarities (admin)
	GET  /stats                           engine counters (admin)

Jobs, health and metrics:

	GET  /api/v1/jobs/{jobID}             background job state (admin)
	GET  /api/v1/health/live              liveness
	GET  /api/v1/health/ready             readiness, pings DuckDB
	GET  /metrics                         Prometheus

# Responses

Every JSON response uses models.APIResponse. Engine errors map to codes in
respondEngineError:

	recommend.ErrUserNotFound           404 USER_NOT_FOUND
	recommend.ErrRecommendationNotFound 404 RECOMMENDATION_NOT_FOUND
	recommend.ErrInvalidStatus          400 INVALID_STATUS
	open circuit breaker                503 SERVICE_UNAVAILABLE
	anything else                       500 INTERNAL_ERROR

# Middleware

RequestID, access log, Prometheus, panic recovery, CORS (go-chi/cors) and
per-IP rate limiting (go-chi/httprate) apply globally. Batch routes carry a
second, stricter limiter.
*/
package api
