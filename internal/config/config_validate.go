// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package config

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	if err := c.validateProfiles(); err != nil {
		return err
	}

	if err := c.validateJobs(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.API.RequestTimeout <= 0 {
		return fmt.Errorf("API_REQUEST_TIMEOUT must be positive")
	}
	if c.API.BatchTimeout <= 0 {
		return fmt.Errorf("API_BATCH_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be non-negative, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if err := c.validateAuthMode(); err != nil {
		return err
	}

	if err := c.validateCORS(); err != nil {
		return err
	}

	return c.validateRateLimits()
}

// validAuthModes defines the allowed authentication modes
var validAuthModes = map[string]bool{
	"none": true,
	"jwt":  true,
}

func (c *Config) validateAuthMode() error {
	if !validAuthModes[c.Security.AuthMode] {
		return fmt.Errorf("AUTH_MODE must be one of: none, jwt")
	}

	if c.Security.AuthMode == "none" && c.IsProduction() {
		return fmt.Errorf("AUTH_MODE=none is not allowed when ENVIRONMENT=production. " +
			"Either set AUTH_MODE=jwt or use ENVIRONMENT=development for testing purposes")
	}

	if c.Security.AuthMode == "jwt" {
		return c.validateJWTSecret()
	}
	return nil
}

// placeholderPatterns are fragments that mark a copied example secret
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"PLACEHOLDER",
	"EXAMPLE",
}

func (c *Config) validateJWTSecret() error {
	secret := c.Security.JWTSecret
	if secret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_MODE is jwt")
	}
	if len(secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters for security")
	}
	upper := strings.ToUpper(secret)
	for _, p := range placeholderPatterns {
		if strings.Contains(upper, p) {
			return fmt.Errorf("JWT_SECRET contains a placeholder value - generate a secure secret with: openssl rand -base64 32")
		}
	}
	return nil
}

func (c *Config) validateCORS() error {
	// Wildcard CORS with authentication exposes credentials to any origin
	if c.Security.AuthMode != "none" && c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production with authentication enabled. " +
			"Set specific origins: CORS_ORIGINS=https://yourdomain.com " +
			"or use ENVIRONMENT=development for testing purposes")
	}
	return nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.BatchRateLimitReqs < minRateLimitRequests || c.Security.BatchRateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("BATCH_RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// weightSumTolerance bounds float drift when checking that weights sum to 1
const weightSumTolerance = 1e-6

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if !r.Enabled {
		return nil
	}
	if r.DefaultLimit < 1 {
		return fmt.Errorf("RECOMMEND_DEFAULT_LIMIT must be positive")
	}
	if r.MaxLimit < r.DefaultLimit {
		return fmt.Errorf("RECOMMEND_MAX_LIMIT (%d) must not be below RECOMMEND_DEFAULT_LIMIT (%d)", r.MaxLimit, r.DefaultLimit)
	}
	if r.PerUserCount < 1 || r.PerUserCount > r.MaxLimit {
		return fmt.Errorf("RECOMMEND_PER_USER_COUNT must be between 1 and %d", r.MaxLimit)
	}
	if r.MinScore < 0 || r.MinScore > 1 {
		return fmt.Errorf("RECOMMEND_MIN_SCORE must be between 0 and 1")
	}
	if r.OverFetchFactor < 1 {
		return fmt.Errorf("RECOMMEND_OVER_FETCH_FACTOR must be at least 1")
	}
	if r.ScheduleInterval < 0 {
		return fmt.Errorf("RECOMMEND_SCHEDULE_INTERVAL must not be negative")
	}
	if err := validateFacetValues("RECOMMEND_WEIGHT", r.Weights); err != nil {
		return err
	}
	if err := validateFacetValues("RECOMMEND_REASON_SCORE", r.ReasonScores); err != nil {
		return err
	}
	if sum := r.Weights.Sum(); math.Abs(sum-1) > weightSumTolerance {
		return fmt.Errorf("RECOMMEND_WEIGHT_* must sum to 1, got %.4f", sum)
	}
	return nil
}

func validateFacetValues(prefix string, w FacetWeightsConfig) error {
	values := []struct {
		name  string
		value float64
	}{
		{"SKILLS", w.Skills},
		{"SECTORS", w.Sectors},
		{"EXPERTISE", w.Expertise},
		{"INTERESTS", w.Interests},
		{"EDUCATION", w.Education},
	}
	for _, v := range values {
		if v.value < 0 {
			return fmt.Errorf("%s_%s must not be negative", prefix, v.name)
		}
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive when the cache is enabled")
	}
	return nil
}

func (c *Config) validateProfiles() error {
	p := c.Profiles
	if p.BreakerFailureRatio <= 0 || p.BreakerFailureRatio > 1 {
		return fmt.Errorf("PROFILES_BREAKER_FAILURE_RATIO must be in (0, 1]")
	}
	if p.BreakerTimeout <= 0 {
		return fmt.Errorf("PROFILES_BREAKER_TIMEOUT must be positive")
	}
	if p.BreakerMinRequests == 0 {
		return fmt.Errorf("PROFILES_BREAKER_MIN_REQUESTS must be positive")
	}
	return nil
}

func (c *Config) validateJobs() error {
	if c.Jobs.Buffer < 1 {
		return fmt.Errorf("JOBS_BUFFER must be positive")
	}
	if c.Jobs.Timeout <= 0 {
		return fmt.Errorf("JOBS_TIMEOUT must be positive")
	}
	if c.Jobs.CloseTimeout <= 0 {
		return fmt.Errorf("JOBS_CLOSE_TIMEOUT must be positive")
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}

	c.Logging.Format = strings.ToLower(c.Logging.Format)
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
