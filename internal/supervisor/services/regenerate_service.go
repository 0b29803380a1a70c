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

// defaultRegenerateInterval applies when none is configured.
const defaultRegenerateInterval = 6 * time.Hour

// Generator regenerates recommendations for every user.
type Generator interface {
	GenerateForAll(ctx context.Context, perUser int) (int, error)
}

// RegenerateConfig configures RegenerateService.
type RegenerateConfig struct {
	// Interval between runs. Default: 6h.
	Interval time.Duration

	// OnStartup runs once immediately.
	OnStartup bool

	// PerUser is the number of recommendations kept per user.
	PerUser int

	// Timeout bounds one run. Zero means no bound beyond ctx.
	Timeout time.Duration
}

// RegenerateService regenerates all recommendations on a fixed interval.
// A failed run is logged and retried on the next tick.
type RegenerateService struct {
	generator Generator
	config    RegenerateConfig
	logger    zerolog.Logger
}

// NewRegenerateService creates the scheduler.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRegenerateService(generator Generator, cfg RegenerateConfig, logger zerolog.Logger) *RegenerateService {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultRegenerateInterval
	}
	return &RegenerateService{
		generator: generator,
		config:    cfg,
		logger:    logger.With().Str("service", "recommend-scheduler").Logger(),
	}
}

// Serve implements suture.Service.
func (s *RegenerateService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("on_startup", s.config.OnStartup).
		Dur("interval", s.config.Interval).
		Int("per_user", s.config.PerUser).
		Msg("Recommendation scheduler starting")

	if s.config.OnStartup {
		s.run(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.run(ctx)
		}
	}
}

func (s *RegenerateService) run(ctx context.Context) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	n, err := s.generator.GenerateForAll(ctx, s.config.PerUser)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Scheduled regeneration failed")
		return
	}
	s.logger.Info().
		Int("created", n).
		Dur("duration", time.Since(start)).
		Msg("Scheduled regeneration complete")
}

// String implements fmt.Stringer.
func (s *RegenerateService) String() string {
	return "recommend-scheduler"
}
