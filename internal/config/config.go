// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package config

import (
	"time"
)

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Recommend RecommendConfig `koanf:"recommend"`
	Cache     CacheConfig     `koanf:"cache"`
	Profiles  ProfilesConfig  `koanf:"profiles"`
	Jobs      JobsConfig      `koanf:"jobs"`
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`                  // Number of DuckDB threads (0 = use NumCPU)
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"` // Whether to preserve insertion order (default true)
	SeedDemoData           bool   `koanf:"seed_demo_data"`           // Insert a small attendee population on first start
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // Environment mode: "development", "staging", "production" (default: "development")
}

// APIConfig holds API limits
type APIConfig struct {
	// RequestTimeout bounds the per-request context of ordinary reads.
	RequestTimeout time.Duration `koanf:"request_timeout"`
	// BatchTimeout bounds synchronous full-population operations.
	BatchTimeout time.Duration `koanf:"batch_timeout"`
}

// SecurityConfig holds authentication and rate limiting settings
type SecurityConfig struct {
	// AuthMode is "none" or "jwt".
	AuthMode          string        `koanf:"auth_mode"`
	JWTSecret         string        `koanf:"jwt_secret"`
	JWTIssuer         string        `koanf:"jwt_issuer"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	// BatchRateLimitReqs limits the admin batch endpoints per RateLimitWindow.
	BatchRateLimitReqs int      `koanf:"batch_rate_limit_reqs"`
	CORSOrigins        []string `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// FacetWeightsConfig assigns a value to each of the five profile facets.
type FacetWeightsConfig struct {
	Skills    float64 `koanf:"skills"`
	Sectors   float64 `koanf:"sectors"`
	Expertise float64 `koanf:"expertise"`
	Interests float64 `koanf:"interests"`
	Education float64 `koanf:"education"`
}

// Sum returns the total of all five values.
func (w FacetWeightsConfig) Sum() float64 {
	return w.Skills + w.Sectors + w.Expertise + w.Interests + w.Education
}

// RecommendConfig holds recommendation engine settings.
//
// Environment Variables:
//   - RECOMMEND_ENABLED: Enable the engine and its routes (default: true)
//   - RECOMMEND_DEFAULT_LIMIT: Default result count (default: 10)
//   - RECOMMEND_MAX_LIMIT: Maximum result count per request (default: 100)
//   - RECOMMEND_PER_USER_COUNT: Recommendations per user in batch runs (default: 5)
//   - RECOMMEND_MIN_SCORE: Minimum similarity to recommend (default: 0.1)
//   - RECOMMEND_OVER_FETCH_FACTOR: Candidate over-fetch multiplier (default: 2)
//   - RECOMMEND_SCHEDULE_INTERVAL: Batch regeneration interval, 0 disables (default: 6h)
//   - RECOMMEND_GENERATE_ON_STARTUP: Run a batch at startup (default: false)
//   - RECOMMEND_WEIGHT_SKILLS etc.: Facet similarity weights (must sum to 1)
//   - RECOMMEND_REASON_SCORE_SKILLS etc.: Facet reason scores
type RecommendConfig struct {
	Enabled           bool               `koanf:"enabled"`
	DefaultLimit      int                `koanf:"default_limit"`
	MaxLimit          int                `koanf:"max_limit"`
	PerUserCount      int                `koanf:"per_user_count"`
	MinScore          float64            `koanf:"min_score"`
	OverFetchFactor   int                `koanf:"over_fetch_factor"`
	Weights           FacetWeightsConfig `koanf:"weights"`
	ReasonScores      FacetWeightsConfig `koanf:"reason_scores"`
	ScheduleInterval  time.Duration      `koanf:"schedule_interval"`
	GenerateOnStartup bool               `koanf:"generate_on_startup"`
}

// CacheConfig holds the feature vector cache settings.
//
// Environment Variables:
//   - CACHE_ENABLED: Enable the BadgerDB feature vector cache (default: true)
//   - CACHE_PATH: Directory for an on-disk cache; empty keeps it in memory
//   - CACHE_TTL: Entry lifetime (default: 1h)
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	Path    string        `koanf:"path"`
	TTL     time.Duration `koanf:"ttl"`
}

// ProfilesConfig holds the circuit breaker settings for profile reads.
type ProfilesConfig struct {
	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"`
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
}

// JobsConfig holds the background generation job settings.
type JobsConfig struct {
	// Buffer is the in-process queue depth.
	Buffer int64 `koanf:"buffer"`
	// CloseTimeout bounds router shutdown.
	CloseTimeout time.Duration `koanf:"close_timeout"`
	// Timeout bounds a single job.
	Timeout time.Duration `koanf:"timeout"`
	// Retention is how long finished job records are kept.
	Retention time.Duration `koanf:"retention"`
}

// Load reads configuration from multiple sources with the following precedence:
//  1. Built-in defaults
//  2. Config file (config.yaml if exists, or path specified in CONFIG_PATH env var)
//  3. Environment variables
//
// See LoadWithKoanf() for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
