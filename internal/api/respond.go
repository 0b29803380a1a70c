// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/fairmatch/internal/logging"
	"github.com/tomtom215/fairmatch/internal/models"
	"github.com/tomtom215/fairmatch/internal/recommend"
	"github.com/tomtom215/fairmatch/internal/validation"
)

// Error codes
const (
	ErrCodeValidation             = validation.ErrCodeValidation
	ErrCodeInvalidUserID          = "INVALID_USER_ID"
	ErrCodeInvalidRecommendation  = "INVALID_RECOMMENDATION_ID"
	ErrCodeInvalidStatus          = "INVALID_STATUS"
	ErrCodeUserNotFound           = "USER_NOT_FOUND"
	ErrCodeRecommendationNotFound = "RECOMMENDATION_NOT_FOUND"
	ErrCodeJobNotFound            = "JOB_NOT_FOUND"
	ErrCodeUnauthorized           = "UNAUTHORIZED"
	ErrCodeForbidden              = "FORBIDDEN"
	ErrCodeTooManyRequests        = "TOO_MANY_REQUESTS"
	ErrCodeServiceUnavailable     = "SERVICE_UNAVAILABLE"
	ErrCodeInternal               = "INTERNAL_ERROR"
)

// sanitizeLogValue escapes control characters to prevent log injection.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// respondJSON writes response with status.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, response *models.APIResponse) {
	if response.Metadata.Timestamp.IsZero() {
		response.Metadata.Timestamp = time.Now()
	}
	response.Metadata.RequestID = logging.RequestIDFromContext(r.Context())

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondData writes a success envelope around data.
func respondData(w http.ResponseWriter, r *http.Request, status int, data interface{}, meta models.Metadata) {
	respondJSON(w, r, status, &models.APIResponse{
		Status:   models.StatusSuccess,
		Data:     data,
		Metadata: meta,
	})
}

// respondError writes an error envelope. err, when set, is logged but
// never sent to the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		log := logging.Ctx(r.Context(), logging.Logger())
		event := log.Warn()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.Str("code", code).Str("error", sanitizeLogValue(err.Error())).Msg("API error")
	}

	respondJSON(w, r, status, &models.APIResponse{
		Status: models.StatusError,
		Error:  &models.APIError{Code: code, Message: message},
	})
}

// respondValidationError writes a 400 VALIDATION_ERROR.
func respondValidationError(w http.ResponseWriter, r *http.Request, verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	respondJSON(w, r, http.StatusBadRequest, &models.APIResponse{
		Status: models.StatusError,
		Error:  &models.APIError{Code: apiErr.Code, Message: apiErr.Message, Details: apiErr.Details},
	})
}

// respondEngineError maps engine and dependency errors to API errors.
func respondEngineError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, recommend.ErrUserNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeUserNotFound, "User not found", nil)
	case errors.Is(err, recommend.ErrRecommendationNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeRecommendationNotFound, "Recommendation not found", nil)
	case errors.Is(err, recommend.ErrInvalidStatus):
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidStatus, "Invalid recommendation status", err)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Profile source unavailable, retry later", err)
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, fallback, err)
	}
}
