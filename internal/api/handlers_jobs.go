// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/fairmatch/internal/models"
)

// JobStatus returns the state of a background generation job.
//
// @Summary Background job status
// @Tags Jobs
// @Produce json
// @Param jobID path string true "Job ID"
// @Success 200 {object} models.APIResponse{data=jobs.Job}
// @Failure 404 {object} models.APIResponse
// @Router /jobs/{jobID} [get]
func (h *Handler) JobStatus(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Background jobs are not available", nil)
		return
	}
	job, ok := h.jobs.Job(chi.URLParam(r, "jobID"))
	if !ok {
		respondError(w, r, http.StatusNotFound, ErrCodeJobNotFound, "Job not found", nil)
		return
	}
	respondData(w, r, http.StatusOK, job, models.Metadata{})
}
