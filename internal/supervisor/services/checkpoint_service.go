// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// defaultCheckpointInterval applies when none is configured.
const defaultCheckpointInterval = 5 * time.Minute

// Checkpointer flushes the database write-ahead log.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// CheckpointService checkpoints DuckDB periodically so the WAL stays small
// between batch regenerations.
type CheckpointService struct {
	db       Checkpointer
	interval time.Duration
	logger   zerolog.Logger
}

// NewCheckpointService creates the service. A non-positive interval uses 5m.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewCheckpointService(db Checkpointer, interval time.Duration, logger zerolog.Logger) *CheckpointService {
	if interval <= 0 {
		interval = defaultCheckpointInterval
	}
	return &CheckpointService{
		db:       db,
		interval: interval,
		logger:   logger.With().Str("service", "duckdb-checkpoint").Logger(),
	}
}

// Serve implements suture.Service.
func (c *CheckpointService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := c.db.Checkpoint(ctx); err != nil {
				c.logger.Warn().Err(err).Msg("Checkpoint failed")
			}
		}
	}
}

// String implements fmt.Stringer.
func (c *CheckpointService) String() string {
	return "duckdb-checkpoint"
}
