// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package recommend

import (
	"fmt"
	"math"
)

// FacetWeights assigns a weight to each facet.
type FacetWeights struct {
	Skills    float64 `json:"skills" koanf:"skills"`
	Sectors   float64 `json:"sectors" koanf:"sectors"`
	Expertise float64 `json:"expertise" koanf:"expertise"`
	Interests float64 `json:"interests" koanf:"interests"`
	Education float64 `json:"education" koanf:"education"`
}

// Get returns the weight for f.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w FacetWeights) Get(f Facet) float64 {
	return FacetScores(w).Get(f)
}

// Sum returns the total of all weights.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w FacetWeights) Sum() float64 {
	return FacetScores(w).Sum()
}

// weightSumTolerance bounds float drift when checking that weights sum to 1.
const weightSumTolerance = 1e-6

// Config contains all recommendation engine parameters.
type Config struct {
	// Weights combines the five facet cosines into one score. Must sum to 1.
	Weights FacetWeights `json:"weights"`

	// ReasonScores is the fixed score attached to a reason of each facet.
	// Independent of Weights; used to rank reasons for display.
	ReasonScores FacetWeights `json:"reason_scores"`

	// MinScore is the minimum similarity a candidate needs to be recommended.
	// Default: 0.1.
	MinScore float64 `json:"min_score"`

	// OverFetchFactor multiplies the requested count when reading candidates
	// so that threshold filtering still leaves enough of them.
	// Default: 2.
	OverFetchFactor int `json:"over_fetch_factor"`

	// DefaultLimit is used when a caller passes a non-positive limit.
	// Default: 10.
	DefaultLimit int `json:"default_limit"`

	// PerUserCount is the number of recommendations generated per user by
	// batch runs. Default: 5.
	PerUserCount int `json:"per_user_count"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Weights: FacetWeights{
			Skills:    0.30,
			Sectors:   0.20,
			Expertise: 0.20,
			Interests: 0.15,
			Education: 0.15,
		},
		ReasonScores: FacetWeights{
			Skills:    0.30,
			Sectors:   0.25,
			Expertise: 0.25,
			Interests: 0.20,
			Education: 0.15,
		},
		MinScore:        0.1,
		OverFetchFactor: 2,
		DefaultLimit:    10,
		PerUserCount:    5,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	for _, f := range Facets {
		if w := c.Weights.Get(f); w < 0 {
			return fmt.Errorf("%w: weights.%s must be non-negative, got %f", ErrInvalidConfig, f, w)
		}
		if s := c.ReasonScores.Get(f); s < 0 {
			return fmt.Errorf("%w: reason_scores.%s must be non-negative, got %f", ErrInvalidConfig, f, s)
		}
	}
	if sum := c.Weights.Sum(); math.Abs(sum-1) > weightSumTolerance {
		return fmt.Errorf("%w: weights must sum to 1, got %f", ErrInvalidConfig, sum)
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		return fmt.Errorf("%w: min_score must be in [0, 1], got %f", ErrInvalidConfig, c.MinScore)
	}
	if c.OverFetchFactor < 1 {
		return fmt.Errorf("%w: over_fetch_factor must be positive, got %d", ErrInvalidConfig, c.OverFetchFactor)
	}
	if c.DefaultLimit < 1 {
		return fmt.Errorf("%w: default_limit must be positive, got %d", ErrInvalidConfig, c.DefaultLimit)
	}
	if c.PerUserCount < 1 {
		return fmt.Errorf("%w: per_user_count must be positive, got %d", ErrInvalidConfig, c.PerUserCount)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All fields are value types.
	clone := *c
	return &clone
}
