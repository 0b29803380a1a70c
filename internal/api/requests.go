// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/fairmatch/internal/auth"
	"github.com/tomtom215/fairmatch/internal/validation"
)

// LimitRequest is the ?limit= query of list endpoints.
type LimitRequest struct {
	Limit    int `query:"limit" validate:"gte=1,ltefield=MaxLimit"`
	MaxLimit int `query:"-"`
}

// StatusRequest is the ?status= query of the status update endpoint.
type StatusRequest struct {
	Status string `query:"status" validate:"required,recstatus"`
}

// GenerateAllRequest is the query of the batch generation endpoint.
type GenerateAllRequest struct {
	PerUser int  `query:"recommendationsPerUser" validate:"gte=1,lte=100"`
	Async   bool `query:"async"`
}

// GenerateUserRequest is the ?count= query of single-user generation.
type GenerateUserRequest struct {
	Count int `query:"count" validate:"gte=1,lte=100"`
}

// queryParseError reports a query value of the wrong type.
type queryParseError struct {
	name  string
	value string
	kind  string
}

func (e *queryParseError) Error() string {
	return fmt.Sprintf("%s must be %s, got %q", e.name, e.kind, e.value)
}

// queryInt reads an integer query parameter, returning def when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &queryParseError{name: name, value: raw, kind: "an integer"}
	}
	return n, nil
}

// queryBool reads a boolean query parameter, returning false when absent.
func queryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &queryParseError{name: name, value: raw, kind: "a boolean"}
	}
	return b, nil
}

// pathID parses a positive int64 URL parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// validateRequest validates req and writes a 400 on failure.
func validateRequest(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidationError(w, r, verr)
		return false
	}
	return true
}

// parseLimit binds and validates ?limit=.
func (h *Handler) parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	limit, err := queryInt(r, "limit", h.cfg.Recommend.DefaultLimit)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return 0, false
	}
	req := LimitRequest{Limit: limit, MaxLimit: h.cfg.Recommend.MaxLimit}
	if !validateRequest(w, r, &req) {
		return 0, false
	}
	return req.Limit, true
}

// authorizeUser reports whether the caller may read or act for userID.
// Without authentication every caller may.
func (h *Handler) authorizeUser(w http.ResponseWriter, r *http.Request, userID int64) bool {
	if h.cfg.Security.AuthMode != auth.ModeJWT {
		return true
	}
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return false
	}
	if claims.UserID != userID && !claims.IsAdmin() {
		respondError(w, r, http.StatusForbidden, ErrCodeForbidden, "Access to another user's data requires the admin role", nil)
		return false
	}
	return true
}

// callerID returns the authenticated user id or writes a 401.
func callerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return 0, false
	}
	return id, true
}
