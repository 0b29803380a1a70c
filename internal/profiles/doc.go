// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

// Package profiles guards the profile source of the recommendation engine
// with a circuit breaker.
//
// BreakerProvider wraps any recommend.ProfileProvider. When the failure
// ratio over the measurement window crosses the configured threshold the
// circuit opens and calls fail fast with gobreaker.ErrOpenState until the
// timeout elapses and a few probe requests succeed. Lookups that fail with
// recommend.ErrUserNotFound are answers, not outages, and never count
// against the circuit.
//
// Breaker state, transitions and outcomes are exported through the
// fairmatch_circuit_breaker_* Prometheus series under the name
// "profile-source".
package profiles
