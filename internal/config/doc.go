// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

/*
Package config provides centralized configuration management for Fairmatch.

Configuration is layered with koanf: built-in defaults first, then an
optional YAML file, then environment variables. Validate runs after the
layers are merged and rejects the whole configuration on the first error.

# Configuration Sources

  - Built-in defaults (defaultConfig)
  - YAML file: CONFIG_PATH, or config.yaml / /etc/fairmatch/config.yaml
  - Environment variables (highest priority, explicit mapping only)

# Configuration Structure

  - ServerConfig: HTTP listener (HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT, ENVIRONMENT)
  - APIConfig: per-request and batch timeouts
  - DatabaseConfig: DuckDB path and tuning (DUCKDB_PATH, DUCKDB_MAX_MEMORY, SEED_DEMO_DATA)
  - SecurityConfig: AUTH_MODE (none, jwt), JWT_SECRET, CORS_ORIGINS, rate limits
  - LoggingConfig: LOG_LEVEL, LOG_FORMAT, LOG_CALLER
  - RecommendConfig: engine weights, thresholds and the batch schedule
  - CacheConfig: BadgerDB feature vector cache
  - ProfilesConfig: circuit breaker around profile reads
  - JobsConfig: asynchronous batch generation

# Example YAML

	server:
	  port: 8080
	database:
	  path: /data/fairmatch.duckdb
	  seed_demo_data: true
	recommend:
	  min_score: 0.15
	  weights:
	    skills: 0.4
	    sectors: 0.2
	    expertise: 0.2
	    interests: 0.1
	    education: 0.1

# Validation

Facet weights must be non-negative and sum to 1. AUTH_MODE=none is
refused when ENVIRONMENT=production, and JWT secrets shorter than 32
characters or containing placeholder text are rejected.

# Thread Safety

Config is populated once at startup and treated as read-only afterwards.
*/
package config
