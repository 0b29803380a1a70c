// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

/*
Package metrics provides Prometheus metrics collection and export for observability.

# Overview

The package provides metrics for:
  - HTTP request latency and throughput
  - DuckDB query performance
  - Feature extraction, similarity computation and recommendation generation
  - Feature vector cache hit/miss rates
  - Circuit breaker state transitions
  - Background generation jobs

All collectors are registered with the default registry through promauto.

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Engine Integration

The recommend package has no dependency on this package. RecommendObserver
implements recommend.Observer and is installed at startup:

	engine.SetObserver(metrics.RecommendObserver{})

# Example Queries

	# 95th percentile similarity recomputation time
	histogram_quantile(0.95, rate(recommend_similarity_duration_seconds_bucket[5m]))

	# Feature vector cache hit ratio
	rate(cache_hits_total{cache_type="feature_vector"}[5m]) /
	  (rate(cache_hits_total{cache_type="feature_vector"}[5m]) + rate(cache_misses_total{cache_type="feature_vector"}[5m]))
*/
package metrics
