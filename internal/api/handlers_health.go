// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/fairmatch/internal/models"
)

// readyPingTimeout bounds the database ping of the readiness probe.
const readyPingTimeout = 2 * time.Second

// HealthLive reports that the process is alive, regardless of dependencies.
//
// @Summary Liveness probe
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, models.Metadata{})
}

// HealthReady returns 200 only when the database answers.
//
// @Summary Readiness probe
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse "Service is ready"
// @Failure 503 {object} models.APIResponse "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyPingTimeout)
	defer cancel()

	dbConnected := h.db != nil && h.db.Ping(ctx) == nil

	statusCode := http.StatusOK
	status := "ready"
	if !dbConnected {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, r, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"database_connected": dbConnected,
			"ready_to_serve":     dbConnected,
			"uptime":             time.Since(h.startTime).Seconds(),
		},
	})
}
