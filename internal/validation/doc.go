// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

// Package validation validates API request DTOs with go-playground/validator v10.
//
// A single validator instance is shared by all handlers. Field names in
// messages come from the `query` struct tag so that clients see the
// parameter they sent ("limit must be at least 1"), not the Go field name.
//
// Validation failures convert to the VALIDATION_ERROR API error:
//
//	req := LimitRequest{Limit: 0, MaxLimit: 100}
//	if err := validation.ValidateStruct(&req); err != nil {
//	    apiErr := err.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// Besides the built-in tags, "recstatus" accepts the recommendation statuses
// a client may set: VIEWED, ACCEPTED and REJECTED.
package validation
