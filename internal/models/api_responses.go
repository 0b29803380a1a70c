// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package models

import (
	"time"
)

// Response status values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse is the envelope of every API response.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": [{"id": 7, "recommended_user_id": 2, "score": 0.61, ...}],
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 4, "count": 1}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "USER_NOT_FOUND", "message": "User 42 not found"},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "request_id": "..."}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata describes the response for tracing and client paging.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Count       *int      `json:"count,omitempty"`
	Limit       int       `json:"limit,omitempty"`
}

// APIError is a machine-readable error code with a human-readable message.
//
// Codes used by the recommendation API:
//   - VALIDATION_ERROR: a query parameter failed validation
//   - INVALID_USER_ID, INVALID_RECOMMENDATION_ID: malformed path parameter
//   - INVALID_STATUS: unknown or refused recommendation status
//   - USER_NOT_FOUND, RECOMMENDATION_NOT_FOUND, JOB_NOT_FOUND
//   - UNAUTHORIZED, FORBIDDEN
//   - SERVICE_UNAVAILABLE: a dependency is down or its circuit is open
//   - INTERNAL_ERROR
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// IntPtr returns a pointer to n, for Metadata.Count.
func IntPtr(n int) *int {
	return &n
}
