// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

// Package middleware provides HTTP middleware shared by the API router.
//
//   - RequestID: accepts or generates X-Request-ID, echoes it in the response
//     and stores it for logging.Ctx
//   - PrometheusMetrics: request count, duration and in-flight gauge,
//     labelled with the chi route pattern to keep label cardinality bounded
//   - AccessLog: one structured log line per request
//
// All middleware use the func(http.Handler) http.Handler shape expected by
// chi.Router.Use.
package middleware
