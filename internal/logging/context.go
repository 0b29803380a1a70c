// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	jobIDKey     contextKey = "job_id"
)

// GenerateRequestID creates a new unique request ID.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithRequestID returns a new context carrying the HTTP request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext retrieves the request ID, or "" if absent.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithJobID returns a new context carrying a background job ID.
func ContextWithJobID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, jobIDKey, id)
}

// JobIDFromContext retrieves the job ID, or "" if absent.
func JobIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(jobIDKey).(string); ok {
		return id
	}
	return ""
}

// Ctx returns logger with request_id and job_id from ctx attached when present.
//
//	log := logging.Ctx(ctx, h.logger)
//	log.Info().Msg("Status updated")
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Ctx(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	logCtx := logger.With()
	if id := RequestIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("request_id", id)
	}
	if id := JobIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("job_id", id)
	}
	return logCtx.Logger()
}
