// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/fairmatch/internal/config"
	"github.com/tomtom215/fairmatch/internal/metrics"
	"github.com/tomtom215/fairmatch/internal/recommend"
)

// BreakerName labels the breaker in logs and metrics.
const BreakerName = "profile-source"

// BreakerProvider wraps a ProfileProvider with circuit breaker protection.
//
// The breaker runs on real time (interval and timeout). Tests drive it
// through failure counts rather than clocks.
type BreakerProvider struct {
	next   recommend.ProfileProvider
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
	logger zerolog.Logger
}

var _ recommend.ProfileProvider = (*BreakerProvider)(nil)

// NewBreakerProvider creates a breaker-guarded provider.
// The circuit opens once at least BreakerMinRequests calls were made in the
// current window and the failure ratio reaches BreakerFailureRatio.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBreakerProvider(next recommend.ProfileProvider, cfg *config.ProfilesConfig, logger zerolog.Logger) *BreakerProvider {
	logger = logger.With().Str("component", "profiles").Str("breaker", BreakerName).Logger()

	metrics.CircuitBreakerState.WithLabelValues(BreakerName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(BreakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        BreakerName,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			trip := ratio >= cfg.BreakerFailureRatio
			if trip {
				logger.Warn().
					Uint32("failures", counts.TotalFailures).
					Uint32("requests", counts.Requests).
					Float64("failure_ratio", ratio).
					Msg("Opening profile source circuit")
			}
			return trip
		},

		IsSuccessful: isSuccessful,

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logger.Info().Str("from", fromStr).Str("to", toStr).Msg("Circuit breaker state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &BreakerProvider{next: next, cb: cb, name: BreakerName, logger: logger}
}

// isSuccessful treats a missing user and a caller cancellation as healthy
// responses of the profile source.
func isSuccessful(err error) bool {
	return err == nil ||
		errors.Is(err, recommend.ErrUserNotFound) ||
		errors.Is(err, context.Canceled)
}

// State returns the current breaker state as a string.
func (p *BreakerProvider) State() string {
	return stateToString(p.cb.State())
}

// User returns the user through the breaker.
func (p *BreakerProvider) User(ctx context.Context, userID int64) (*recommend.User, error) {
	return castResult[recommend.User](p.execute(func() (interface{}, error) {
		return p.next.User(ctx, userID)
	}))
}

// Profile returns the profile through the breaker.
func (p *BreakerProvider) Profile(ctx context.Context, userID int64) (*recommend.Profile, error) {
	return castResult[recommend.Profile](p.execute(func() (interface{}, error) {
		return p.next.Profile(ctx, userID)
	}))
}

// ListUsers returns every user through the breaker.
func (p *BreakerProvider) ListUsers(ctx context.Context) ([]recommend.User, error) {
	result, err := p.execute(func() (interface{}, error) {
		return p.next.ListUsers(ctx)
	})
	if err != nil {
		return nil, err
	}
	users, ok := result.([]recommend.User)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return users, nil
}

// execute runs fn under the breaker and records the outcome.
func (p *BreakerProvider) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := p.cb.Execute(fn)

	switch {
	case err == nil || isSuccessful(err):
		metrics.CircuitBreakerRequests.WithLabelValues(p.name, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(p.name).Set(0)
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(p.name, "rejected").Inc()
		p.logger.Debug().Err(err).Msg("Profile request rejected by circuit breaker")
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(p.name, "failure").Inc()
		counts := p.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(p.name).Set(float64(counts.ConsecutiveFailures))
	}

	if err != nil {
		return nil, err
	}
	return result, nil
}

// castResult type-checks the breaker result
func castResult[T any](result interface{}, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// stateToFloat converts a breaker state to its gauge value
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
