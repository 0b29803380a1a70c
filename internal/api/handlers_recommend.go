// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/fairmatch/internal/auth"
	"github.com/tomtom215/fairmatch/internal/jobs"
	"github.com/tomtom215/fairmatch/internal/models"
	"github.com/tomtom215/fairmatch/internal/recommend"
)

// MyRecommendations returns the caller's recommendations.
//
// @Summary Current user's recommendations
// @Tags Recommendations
// @Produce json
// @Param limit query int false "Maximum results" default(10)
// @Success 200 {object} models.APIResponse{data=[]recommend.Recommendation}
// @Failure 401 {object} models.APIResponse
// @Router /recommendations/me [get]
func (h *Handler) MyRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	h.listRecommendations(w, r, userID)
}

// MyRecommendationsDetailed returns the caller's recommendations with reasons.
//
// @Summary Current user's recommendations with reasons
// @Tags Recommendations
// @Produce json
// @Param limit query int false "Maximum results" default(10)
// @Success 200 {object} models.APIResponse{data=[]recommend.RecommendationWithReasons}
// @Failure 401 {object} models.APIResponse
// @Router /recommendations/me/detailed [get]
func (h *Handler) MyRecommendationsDetailed(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	h.listDetailed(w, r, userID)
}

// UserRecommendations returns a user's recommendations.
//
// @Summary A user's recommendations
// @Tags Recommendations
// @Produce json
// @Param userID path int true "User ID"
// @Param limit query int false "Maximum results" default(10)
// @Success 200 {object} models.APIResponse{data=[]recommend.Recommendation}
// @Failure 400 {object} models.APIResponse
// @Failure 403 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /recommendations/user/{userID} [get]
func (h *Handler) UserRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userParam(w, r)
	if !ok {
		return
	}
	h.listRecommendations(w, r, userID)
}

// UserRecommendationsDetailed returns a user's recommendations with reasons.
//
// @Summary A user's recommendations with reasons
// @Tags Recommendations
// @Produce json
// @Param userID path int true "User ID"
// @Param limit query int false "Maximum results" default(10)
// @Success 200 {object} models.APIResponse{data=[]recommend.RecommendationWithReasons}
// @Router /recommendations/user/{userID}/detailed [get]
func (h *Handler) UserRecommendationsDetailed(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userParam(w, r)
	if !ok {
		return
	}
	h.listDetailed(w, r, userID)
}

// SimilarUsers returns the stored most-similar records of a user.
//
// @Summary Most similar users
// @Tags Recommendations
// @Produce json
// @Param userID path int true "User ID"
// @Param limit query int false "Maximum results" default(10)
// @Success 200 {object} models.APIResponse{data=[]recommend.SimilarityRecord}
// @Router /recommendations/user/{userID}/similar [get]
func (h *Handler) SimilarUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userParam(w, r)
	if !ok {
		return
	}
	limit, ok := h.parseLimit(w, r)
	if !ok {
		return
	}

	start := time.Now()
	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	records, err := h.engine.FindMostSimilar(ctx, userID, limit)
	if err != nil {
		respondEngineError(w, r, err, "Failed to load similar users")
		return
	}
	if records == nil {
		records = []recommend.SimilarityRecord{}
	}
	respondData(w, r, http.StatusOK, records, listMeta(start, len(records), limit))
}

// RecommendationDetail returns one recommendation with its reasons.
//
// @Summary Recommendation detail
// @Tags Recommendations
// @Produce json
// @Param recommendationID path int true "Recommendation ID"
// @Success 200 {object} models.APIResponse{data=recommend.RecommendationWithReasons}
// @Failure 404 {object} models.APIResponse
// @Router /recommendations/{recommendationID} [get]
func (h *Handler) RecommendationDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := recommendationParam(w, r)
	if !ok {
		return
	}

	start := time.Now()
	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	detail, err := h.engine.RecommendationDetail(ctx, id)
	if err != nil {
		respondEngineError(w, r, err, "Failed to load recommendation")
		return
	}
	if !h.authorizeUser(w, r, detail.Recommendation.UserID) {
		return
	}
	respondData(w, r, http.StatusOK, detail, models.Metadata{QueryTimeMS: time.Since(start).Milliseconds()})
}

// RecommendationReasons returns the reasons of a recommendation. Unknown ids
// yield an empty list. Known ones are subject to the same ownership check as
// the detail.
//
// @Summary Recommendation reasons
// @Tags Recommendations
// @Produce json
// @Param recommendationID path int true "Recommendation ID"
// @Success 200 {object} models.APIResponse{data=[]recommend.Reason}
// @Router /recommendations/{recommendationID}/reasons [get]
func (h *Handler) RecommendationReasons(w http.ResponseWriter, r *http.Request) {
	id, ok := recommendationParam(w, r)
	if !ok {
		return
	}

	start := time.Now()
	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	var reasons []recommend.Reason
	detail, err := h.engine.RecommendationDetail(ctx, id)
	switch {
	case errors.Is(err, recommend.ErrRecommendationNotFound):
	case err != nil:
		respondEngineError(w, r, err, "Failed to load reasons")
		return
	default:
		if !h.authorizeUser(w, r, detail.Recommendation.UserID) {
			return
		}
		reasons = detail.Reasons
	}
	if reasons == nil {
		reasons = []recommend.Reason{}
	}
	respondData(w, r, http.StatusOK, reasons, models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		Count:       models.IntPtr(len(reasons)),
	})
}

// UpdateRecommendationStatus sets the status of a recommendation. Clients
// may set VIEWED, ACCEPTED or REJECTED.
//
// @Summary Update recommendation status
// @Tags Recommendations
// @Produce json
// @Param recommendationID path int true "Recommendation ID"
// @Param status query string true "VIEWED, ACCEPTED or REJECTED"
// @Success 200 {object} models.APIResponse{data=recommend.Recommendation}
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /recommendations/{recommendationID}/status [put]
func (h *Handler) UpdateRecommendationStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := recommendationParam(w, r)
	if !ok {
		return
	}
	req := StatusRequest{Status: r.URL.Query().Get("status")}
	if !validateRequest(w, r, &req) {
		return
	}
	status, err := recommend.ParseStatus(req.Status)
	if err != nil {
		respondEngineError(w, r, err, "Invalid status")
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	if h.cfg.Security.AuthMode == auth.ModeJWT {
		detail, err := h.engine.RecommendationDetail(ctx, id)
		if err != nil {
			respondEngineError(w, r, err, "Failed to load recommendation")
			return
		}
		if !h.authorizeUser(w, r, detail.Recommendation.UserID) {
			return
		}
	}

	updated, err := h.engine.UpdateStatus(ctx, id, status)
	if err != nil {
		respondEngineError(w, r, err, "Failed to update recommendation status")
		return
	}
	respondData(w, r, http.StatusOK, updated, models.Metadata{})
}

// GenerateAll regenerates recommendations for every user, synchronously or
// as a background job.
//
// @Summary Generate recommendations for all users
// @Tags Recommendations
// @Produce json
// @Param recommendationsPerUser query int false "Recommendations per user" default(5)
// @Param async query bool false "Run as a background job"
// @Success 200 {object} models.APIResponse
// @Success 202 {object} models.APIResponse{data=jobs.Job}
// @Failure 503 {object} models.APIResponse
// @Router /recommendations/generate [post]
func (h *Handler) GenerateAll(w http.ResponseWriter, r *http.Request) {
	perUser, err := queryInt(r, "recommendationsPerUser", h.cfg.Recommend.PerUserCount)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}
	async, err := queryBool(r, "async")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}
	req := GenerateAllRequest{PerUser: perUser, Async: async}
	if !validateRequest(w, r, &req) {
		return
	}

	if req.Async {
		h.enqueueGeneration(w, r, req.PerUser)
		return
	}

	start := time.Now()
	ctx, cancel := h.batchContext(r.Context())
	defer cancel()

	n, err := h.engine.GenerateForAll(ctx, req.PerUser)
	if err != nil {
		respondEngineError(w, r, err, "Failed to generate recommendations")
		return
	}
	respondData(w, r, http.StatusOK, map[string]int{"generatedRecommendations": n},
		models.Metadata{QueryTimeMS: time.Since(start).Milliseconds()})
}

func (h *Handler) enqueueGeneration(w http.ResponseWriter, r *http.Request, perUser int) {
	if h.jobs == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Background jobs are not available", nil)
		return
	}
	job, err := h.jobs.Enqueue(r.Context(), perUser)
	if err != nil {
		if errors.Is(err, jobs.ErrQueueNotRunning) {
			respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Background jobs are not available", err)
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to enqueue generation job", err)
		return
	}
	w.Header().Set("Location", "/api/v1/jobs/"+job.ID)
	respondData(w, r, http.StatusAccepted, job, models.Metadata{})
}

// GenerateForUser regenerates one user's recommendations.
//
// @Summary Generate recommendations for a user
// @Tags Recommendations
// @Produce json
// @Param userID path int true "User ID"
// @Param count query int false "Number of recommendations" default(5)
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /recommendations/user/{userID}/generate [post]
func (h *Handler) GenerateForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userParam(w, r)
	if !ok {
		return
	}
	count, err := queryInt(r, "count", h.cfg.Recommend.PerUserCount)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}
	req := GenerateUserRequest{Count: count}
	if !validateRequest(w, r, &req) {
		return
	}

	start := time.Now()
	ctx, cancel := h.batchContext(r.Context())
	defer cancel()

	n, err := h.engine.GenerateForUser(ctx, userID, req.Count)
	if err != nil {
		respondEngineError(w, r, err, "Failed to generate recommendations")
		return
	}
	respondData(w, r, http.StatusOK, map[string]int{"generatedRecommendations": n},
		models.Metadata{QueryTimeMS: time.Since(start).Milliseconds()})
}

// ExtractAllFeatures re-extracts every feature vector.
//
// @Summary Extract all feature vectors
// @Tags Recommendations
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /recommendations/features/extract [post]
func (h *Handler) ExtractAllFeatures(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := h.batchContext(r.Context())
	defer cancel()

	n, err := h.engine.ExtractFeaturesForAll(ctx)
	if err != nil {
		respondEngineError(w, r, err, "Failed to extract feature vectors")
		return
	}
	respondData(w, r, http.StatusOK, map[string]int{"extractedFeatureVectors": n},
		models.Metadata{QueryTimeMS: time.Since(start).Milliseconds()})
}

// ComputeSimilarities recomputes similarities for one user (?userID=) or
// for everyone.
//
// @Summary Compute similarities
// @Tags Recommendations
// @Produce json
// @Param userID query int false "Restrict to one source user"
// @Success 200 {object} models.APIResponse
// @Router /recommendations/similarities/compute [post]
func (h *Handler) ComputeSimilarities(w http.ResponseWriter, r *http.Request) {
	var userID int64
	if raw := r.URL.Query().Get("userID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respondError(w, r, http.StatusBadRequest, ErrCodeInvalidUserID, "userID must be a positive integer", nil)
			return
		}
		userID = id
	}

	start := time.Now()
	ctx, cancel := h.batchContext(r.Context())
	defer cancel()

	var (
		n   int
		err error
	)
	if userID > 0 {
		n, err = h.engine.ComputeSimilaritiesForUser(ctx, userID)
	} else {
		n, err = h.engine.ComputeAllSimilarities(ctx)
	}
	if err != nil {
		respondEngineError(w, r, err, "Failed to compute similarities")
		return
	}
	respondData(w, r, http.StatusOK, map[string]int{"computedSimilarities": n},
		models.Metadata{QueryTimeMS: time.Since(start).Milliseconds()})
}

// UserFeatures returns a user's feature vector, extracting it if absent.
//
// @Summary User feature vector
// @Tags Recommendations
// @Produce json
// @Param userID path int true "User ID"
// @Success 200 {object} models.APIResponse{data=recommend.FeatureVector}
// @Failure 404 {object} models.APIResponse
// @Router /recommendations/users/{userID}/features [get]
func (h *Handler) UserFeatures(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userParam(w, r)
	if !ok {
		return
	}

	start := time.Now()
	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	vector, err := h.engine.FeatureVector(ctx, userID)
	if err != nil {
		respondEngineError(w, r, err, "Failed to load feature vector")
		return
	}
	respondData(w, r, http.StatusOK, vector, models.Metadata{QueryTimeMS: time.Since(start).Milliseconds()})
}

// EngineStats returns the engine's counters.
//
// @Summary Engine statistics
// @Tags Recommendations
// @Produce json
// @Success 200 {object} models.APIResponse{data=recommend.Stats}
// @Router /recommendations/stats [get]
func (h *Handler) EngineStats(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, h.engine.Stats(), models.Metadata{})
}

func (h *Handler) listRecommendations(w http.ResponseWriter, r *http.Request, userID int64) {
	limit, ok := h.parseLimit(w, r)
	if !ok {
		return
	}

	start := time.Now()
	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	recs, err := h.engine.Recommendations(ctx, userID, limit)
	if err != nil {
		respondEngineError(w, r, err, "Failed to load recommendations")
		return
	}
	if recs == nil {
		recs = []recommend.Recommendation{}
	}
	respondData(w, r, http.StatusOK, recs, listMeta(start, len(recs), limit))
}

func (h *Handler) listDetailed(w http.ResponseWriter, r *http.Request, userID int64) {
	limit, ok := h.parseLimit(w, r)
	if !ok {
		return
	}

	start := time.Now()
	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	recs, err := h.engine.RecommendationsWithReasons(ctx, userID, limit)
	if err != nil {
		respondEngineError(w, r, err, "Failed to load recommendations")
		return
	}
	if recs == nil {
		recs = []recommend.RecommendationWithReasons{}
	}
	respondData(w, r, http.StatusOK, recs, listMeta(start, len(recs), limit))
}

// userParam parses {userID} and checks the caller may access it.
func (h *Handler) userParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := pathID(r, "userID")
	if !ok {
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidUserID, "userID must be a positive integer", nil)
		return 0, false
	}
	if !h.authorizeUser(w, r, userID) {
		return 0, false
	}
	return userID, true
}

func recommendationParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := pathID(r, "recommendationID")
	if !ok {
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidRecommendation, "recommendationID must be a positive integer", nil)
		return 0, false
	}
	return id, true
}

func listMeta(start time.Time, count, limit int) models.Metadata {
	return models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		Count:       models.IntPtr(count),
		Limit:       limit,
	}
}
