// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound is returned when a user id does not resolve to a user.
	ErrUserNotFound = errors.New("user not found")

	// ErrRecommendationNotFound is returned for an unknown recommendation id.
	ErrRecommendationNotFound = errors.New("recommendation not found")

	// ErrInvalidStatus is returned when a status is not one of NEW, VIEWED,
	// ACCEPTED or REJECTED.
	ErrInvalidStatus = errors.New("invalid recommendation status")

	// ErrFeatureVectorNotFound is returned by a Store when no vector has been
	// extracted for the user yet.
	ErrFeatureVectorNotFound = errors.New("feature vector not found")

	// ErrInvalidConfig wraps configuration validation failures.
	ErrInvalidConfig = errors.New("invalid recommend config")
)

// RowWriteError reports a single row that a Store could not write during
// ReplaceRecommendations. Index is the position of the recommendation in the
// batch. Reason is the position of the failing reason within it, or -1 when
// the recommendation row itself failed.
type RowWriteError struct {
	Index  int
	Reason int
	Err    error
}

func (e *RowWriteError) Error() string {
	if e.Reason < 0 {
		return fmt.Sprintf("write recommendation %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("write reason %d of recommendation %d: %v", e.Reason, e.Index, e.Err)
}

func (e *RowWriteError) Unwrap() error {
	return e.Err
}
