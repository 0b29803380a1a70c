// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/fairmatch/config.yaml",
	"/etc/fairmatch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:                   "/data/fairmatch.duckdb",
			MaxMemory:              "1GB",
			Threads:                0, // 0 = use runtime.NumCPU()
			PreserveInsertionOrder: true,
			SeedDemoData:           false,
		},
		Server: ServerConfig{
			Port:        8080,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		API: APIConfig{
			RequestTimeout: 10 * time.Second,
			BatchTimeout:   10 * time.Minute,
		},
		Security: SecurityConfig{
			AuthMode:           "none",
			JWTIssuer:          "fairmatch",
			RateLimitReqs:      100,
			RateLimitWindow:    time.Minute,
			RateLimitDisabled:  false,
			BatchRateLimitReqs: 5,
			CORSOrigins:        []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Recommend: RecommendConfig{
			Enabled:         true,
			DefaultLimit:    10,
			MaxLimit:        100,
			PerUserCount:    5,
			MinScore:        0.1,
			OverFetchFactor: 2,
			Weights: FacetWeightsConfig{
				Skills:    0.30,
				Sectors:   0.20,
				Expertise: 0.20,
				Interests: 0.15,
				Education: 0.15,
			},
			ReasonScores: FacetWeightsConfig{
				Skills:    0.30,
				Sectors:   0.25,
				Expertise: 0.25,
				Interests: 0.20,
				Education: 0.15,
			},
			ScheduleInterval:  6 * time.Hour,
			GenerateOnStartup: false,
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    "", // in-memory
			TTL:     time.Hour,
		},
		Profiles: ProfilesConfig{
			BreakerMaxRequests:  3,
			BreakerInterval:     time.Minute,
			BreakerTimeout:      30 * time.Second,
			BreakerMinRequests:  10,
			BreakerFailureRatio: 0.6,
		},
		Jobs: JobsConfig{
			Buffer:       16,
			CloseTimeout: 30 * time.Second,
			Timeout:      30 * time.Minute,
			Retention:    24 * time.Hour,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// DUCKDB_PATH -> database.path
	// RECOMMEND_MIN_SCORE -> recommend.min_score
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	// Unmarshal into Config struct
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	// Check environment variable first
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from defaults or YAML)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Database mappings
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"seed_demo_data":    "database.seed_demo_data",

	// Server mappings
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// API mappings
	"api_request_timeout": "api.request_timeout",
	"api_batch_timeout":   "api.batch_timeout",

	// Security mappings
	"auth_mode":                 "security.auth_mode",
	"jwt_secret":                "security.jwt_secret",
	"jwt_issuer":                "security.jwt_issuer",
	"rate_limit_requests":       "security.rate_limit_reqs",
	"rate_limit_window":         "security.rate_limit_window",
	"disable_rate_limit":        "security.rate_limit_disabled",
	"batch_rate_limit_requests": "security.batch_rate_limit_reqs",
	"cors_origins":              "security.cors_origins",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Recommendation engine mappings
	"recommend_enabled":             "recommend.enabled",
	"recommend_default_limit":       "recommend.default_limit",
	"recommend_max_limit":           "recommend.max_limit",
	"recommend_per_user_count":      "recommend.per_user_count",
	"recommend_min_score":           "recommend.min_score",
	"recommend_over_fetch_factor":   "recommend.over_fetch_factor",
	"recommend_schedule_interval":   "recommend.schedule_interval",
	"recommend_generate_on_startup": "recommend.generate_on_startup",
	// Facet similarity weights
	"recommend_weight_skills":    "recommend.weights.skills",
	"recommend_weight_sectors":   "recommend.weights.sectors",
	"recommend_weight_expertise": "recommend.weights.expertise",
	"recommend_weight_interests": "recommend.weights.interests",
	"recommend_weight_education": "recommend.weights.education",
	// Facet reason scores
	"recommend_reason_score_skills":    "recommend.reason_scores.skills",
	"recommend_reason_score_sectors":   "recommend.reason_scores.sectors",
	"recommend_reason_score_expertise": "recommend.reason_scores.expertise",
	"recommend_reason_score_interests": "recommend.reason_scores.interests",
	"recommend_reason_score_education": "recommend.reason_scores.education",

	// Cache mappings
	"cache_enabled": "cache.enabled",
	"cache_path":    "cache.path",
	"cache_ttl":     "cache.ttl",

	// Profile circuit breaker mappings
	"profiles_breaker_max_requests":  "profiles.breaker_max_requests",
	"profiles_breaker_interval":      "profiles.breaker_interval",
	"profiles_breaker_timeout":       "profiles.breaker_timeout",
	"profiles_breaker_min_requests":  "profiles.breaker_min_requests",
	"profiles_breaker_failure_ratio": "profiles.breaker_failure_ratio",

	// Job mappings
	"jobs_buffer":        "jobs.buffer",
	"jobs_close_timeout": "jobs.close_timeout",
	"jobs_timeout":       "jobs.timeout",
	"jobs_retention":     "jobs.retention",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - DUCKDB_PATH -> database.path
//   - HTTP_PORT -> server.port
//   - RECOMMEND_WEIGHT_SKILLS -> recommend.weights.skills
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}

// WatchConfigFile sets up a file watcher for hot-reload capability.
// The caller is responsible for synchronizing access to configuration
// during reloads.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)
	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
