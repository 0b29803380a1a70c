// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/fairmatch/internal/config"
	"github.com/tomtom215/fairmatch/internal/jobs"
	"github.com/tomtom215/fairmatch/internal/recommend"
)

// Pinger reports whether the database answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// JobQueue accepts background generation jobs.
type JobQueue interface {
	Enqueue(ctx context.Context, perUser int) (jobs.Job, error)
	Job(id string) (jobs.Job, bool)
}

// Handler serves the HTTP API.
type Handler struct {
	engine *recommend.Engine
	db     Pinger
	jobs   JobQueue
	cfg    *config.Config
	logger zerolog.Logger

	startTime time.Time
}

// NewHandler creates the API handler. jobs may be nil, in which case async
// generation requests are refused.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHandler(engine *recommend.Engine, db Pinger, jobQueue JobQueue, cfg *config.Config, logger zerolog.Logger) *Handler {
	return &Handler{
		engine:    engine,
		db:        db,
		jobs:      jobQueue,
		cfg:       cfg,
		logger:    logger.With().Str("component", "api").Logger(),
		startTime: time.Now(),
	}
}

// requestContext bounds an ordinary read or write.
func (h *Handler) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, h.cfg.API.RequestTimeout)
}

// batchContext bounds a synchronous batch run.
func (h *Handler) batchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, h.cfg.API.BatchTimeout)
}
