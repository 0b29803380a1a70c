// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - DuckDB query performance
// - API endpoint latency and throughput
// - Feature extraction, similarity and recommendation generation
// - Feature vector cache efficiency
// - Circuit breaker state
// - Background generation jobs

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being processed",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of requests rejected by rate limiting",
		},
		[]string{"endpoint"},
	)

	// Recommendation Engine Metrics
	FeatureExtractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_feature_extractions_total",
			Help: "Total number of feature extractions",
		},
		[]string{"result"}, // "success", "failure"
	)

	FeatureExtractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_feature_extraction_duration_seconds",
			Help:    "Duration of a single user's feature extraction in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	SimilaritiesWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_similarities_written_total",
			Help: "Total number of directed similarity records written",
		},
		[]string{"scope"}, // "user", "all"
	)

	SimilarityDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_similarity_duration_seconds",
			Help:    "Duration of similarity recomputation in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"scope"},
	)

	RecommendationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_recommendations_created_total",
			Help: "Total number of recommendations created",
		},
	)

	ReasonsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_reasons_created_total",
			Help: "Total number of recommendation reasons created",
		},
	)

	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_generation_duration_seconds",
			Help:    "Duration of recommendation generation for one user in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	StatusChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_status_changes_total",
			Help: "Total number of recommendation status changes",
		},
		[]string{"status"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Job Metrics
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_jobs_total",
			Help: "Total number of background generation jobs by outcome",
		},
		[]string{"state"}, // "queued", "succeeded", "failed"
	)

	JobDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "generation_job_duration_seconds",
			Help:    "Duration of background generation jobs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 900},
		},
	)

	// Application Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements active request counter
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheLookup records a hit or miss for cacheType.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
		return
	}
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordJob records the outcome of a background generation job.
func RecordJob(state string, duration time.Duration) {
	JobsTotal.WithLabelValues(state).Inc()
	if duration > 0 {
		JobDuration.Observe(duration.Seconds())
	}
}
