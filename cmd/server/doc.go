// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

// Package main is the fairmatch server: an attendee similarity and
// recommendation engine for trade fairs and conferences.
//
// # Startup
//
//  1. Configuration: defaults, optional config.yaml, environment (koanf v2)
//  2. Database: DuckDB with versioned migrations, optional demo attendees
//  3. Profiles: the database behind a gobreaker circuit breaker
//  4. Cache: Badger read-through cache in front of stored feature vectors
//  5. Engine: facet weights and thresholds from RECOMMEND_* settings
//  6. Jobs: watermill queue for asynchronous batch generation
//  7. HTTP: chi router, JWT or no auth, Prometheus /metrics
//  8. Supervisor: suture tree running checkpoints, jobs, scheduler, HTTP
//
// # Configuration
//
// Frequently used environment variables:
//
//	DUCKDB_PATH=/data/fairmatch.duckdb
//	HTTP_PORT=8080
//	AUTH_MODE=jwt JWT_SECRET=$(openssl rand -base64 32)
//	SEED_DEMO_DATA=true
//	RECOMMEND_SCHEDULE_INTERVAL=6h RECOMMEND_GENERATE_ON_STARTUP=true
//	CACHE_PATH=/data/cache  (empty keeps the cache in memory)
//
// # Signals
//
// SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
// in-flight requests, the job queue closes its router, and the database is
// checkpointed and closed.
package main
