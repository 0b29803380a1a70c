// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/fairmatch/internal/logging"
)

// AccessLog logs every request once it completes. Server errors log at
// error level, client errors at warn, the rest at debug.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func AccessLog(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rec, r)

			log := logging.Ctx(r.Context(), logger)
			var event *zerolog.Event
			switch {
			case rec.statusCode >= http.StatusInternalServerError:
				event = log.Error()
			case rec.statusCode >= http.StatusBadRequest:
				event = log.Warn()
			default:
				event = log.Debug()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", routePattern(r)).
				Int("status", rec.statusCode).
				Dur("duration", time.Since(start)).
				Msg("HTTP request")
		})
	}
}
