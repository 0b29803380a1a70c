// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package metrics

import (
	"time"

	"github.com/tomtom215/fairmatch/internal/recommend"
)

// RecommendObserver exports recommendation engine measurements to Prometheus.
type RecommendObserver struct{}

var _ recommend.Observer = RecommendObserver{}

// ObserveExtraction implements recommend.Observer.
func (RecommendObserver) ObserveExtraction(err error, d time.Duration) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	FeatureExtractions.WithLabelValues(result).Inc()
	FeatureExtractionDuration.Observe(d.Seconds())
}

// ObserveSimilarities implements recommend.Observer.
func (RecommendObserver) ObserveSimilarities(scope string, written int, d time.Duration) {
	SimilaritiesWritten.WithLabelValues(scope).Add(float64(written))
	SimilarityDuration.WithLabelValues(scope).Observe(d.Seconds())
}

// ObserveGeneration implements recommend.Observer.
func (RecommendObserver) ObserveGeneration(created, reasons int, d time.Duration) {
	RecommendationsCreated.Add(float64(created))
	ReasonsCreated.Add(float64(reasons))
	GenerationDuration.Observe(d.Seconds())
}

// ObserveStatusChange implements recommend.Observer.
func (RecommendObserver) ObserveStatusChange(status recommend.Status) {
	StatusChanges.WithLabelValues(string(status)).Inc()
}
