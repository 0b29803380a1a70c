// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// GenerateForUser refreshes a user's features and outgoing similarities,
// then replaces their recommendations with up to count fresh ones. A
// non-positive count uses Config.PerUserCount. Returns the number created.
func (e *Engine) GenerateForUser(ctx context.Context, userID int64, count int) (int, error) {
	if _, err := e.ExtractFeatures(ctx, userID); err != nil {
		return 0, err
	}
	if _, err := e.ComputeSimilaritiesForUser(ctx, userID); err != nil {
		return 0, err
	}
	return e.generate(ctx, userID, count)
}

// GenerateForAll recomputes the full similarity matrix once, then replaces
// the recommendations of every user. A failing user is logged and skipped.
// Returns the total number created.
func (e *Engine) GenerateForAll(ctx context.Context, perUser int) (int, error) {
	start := time.Now()

	if _, err := e.ComputeAllSimilarities(ctx); err != nil {
		return 0, err
	}
	users, err := e.listUsers(ctx)
	if err != nil {
		return 0, err
	}

	total, failed := 0, 0
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return total, fmt.Errorf("generate recommendations: %w", err)
		}
		n, err := e.generate(ctx, u.ID, perUser)
		if err != nil {
			failed++
			e.logger.Warn().Err(err).Int64("user_id", u.ID).Msg("Recommendation generation failed, skipping user")
			continue
		}
		total += n
	}

	e.logger.Info().
		Int("users", len(users)).
		Int("failed", failed).
		Int("created", total).
		Dur("duration", time.Since(start)).
		Msg("Batch recommendation generation completed")
	return total, nil
}

// generate builds recommendations from the stored similarities of userID
// and swaps them in. Candidates below MinScore are dropped.
func (e *Engine) generate(ctx context.Context, userID int64, count int) (int, error) {
	start := time.Now()
	if count < 1 {
		count = e.config.PerUserCount
	}

	source, err := e.FeatureVector(ctx, userID)
	if err != nil {
		return 0, err
	}
	candidates, err := e.store.MostSimilar(ctx, userID, count*e.config.OverFetchFactor)
	if err != nil {
		return 0, fmt.Errorf("read candidates for %d: %w", userID, err)
	}

	now := e.now()
	batch := make([]RecommendationWithReasons, 0, count)
	for _, c := range candidates {
		if len(batch) >= count {
			break
		}
		if c.Score < e.config.MinScore || c.TargetUserID == userID {
			continue
		}
		target, err := e.FeatureVector(ctx, c.TargetUserID)
		if err != nil {
			e.logger.Warn().Err(err).
				Int64("user_id", userID).
				Int64("candidate_user_id", c.TargetUserID).
				Msg("Candidate skipped")
			continue
		}

		rr := BuildReasons(source, target, e.config.ReasonScores)
		batch = append(batch, RecommendationWithReasons{
			Recommendation: Recommendation{
				UserID:            userID,
				RecommendedUserID: c.TargetUserID,
				Score:             c.Score,
				Status:            StatusNew,
				CreatedAt:         now,
				UpdatedAt:         now,
			},
			Reasons: rr,
		})
	}

	saved, err := e.replaceRecommendations(ctx, userID, batch)
	if err != nil {
		return 0, err
	}

	reasons := 0
	for _, rw := range saved {
		reasons += len(rw.Reasons)
	}
	e.recommendationsCreated.Add(int64(len(saved)))
	e.obs().ObserveGeneration(len(saved), reasons, time.Since(start))
	e.logger.Debug().
		Int64("user_id", userID).
		Int("candidates", len(candidates)).
		Int("created", len(saved)).
		Msg("Recommendations generated")
	return len(saved), nil
}

// replaceRecommendations swaps batch in for userID. When the store rejects a
// single recommendation or reason row, that row is logged and dropped and the
// swap is retried without it.
func (e *Engine) replaceRecommendations(ctx context.Context, userID int64, batch []RecommendationWithReasons) ([]RecommendationWithReasons, error) {
	for {
		saved, err := e.store.ReplaceRecommendations(ctx, userID, batch)
		if err == nil {
			return saved, nil
		}

		var rowErr *RowWriteError
		if ctx.Err() != nil || !errors.As(err, &rowErr) || !validRow(batch, rowErr) {
			return nil, fmt.Errorf("replace recommendations for %d: %w", userID, err)
		}

		skipped := batch[rowErr.Index]
		e.logger.Warn().Err(rowErr.Err).
			Int64("user_id", userID).
			Int64("recommended_user_id", skipped.Recommendation.RecommendedUserID).
			Int("reason", rowErr.Reason).
			Msg("Recommendation row write failed, skipping row")
		batch = dropRow(batch, rowErr)
	}
}

func validRow(batch []RecommendationWithReasons, rowErr *RowWriteError) bool {
	if rowErr.Index < 0 || rowErr.Index >= len(batch) {
		return false
	}
	return rowErr.Reason < len(batch[rowErr.Index].Reasons)
}

// dropRow returns a copy of batch without the row named by rowErr.
func dropRow(batch []RecommendationWithReasons, rowErr *RowWriteError) []RecommendationWithReasons {
	out := make([]RecommendationWithReasons, 0, len(batch))
	for i, rw := range batch {
		if i != rowErr.Index {
			out = append(out, rw)
			continue
		}
		if rowErr.Reason < 0 {
			continue
		}
		reasons := make([]Reason, 0, len(rw.Reasons)-1)
		reasons = append(reasons, rw.Reasons[:rowErr.Reason]...)
		reasons = append(reasons, rw.Reasons[rowErr.Reason+1:]...)
		rw.Reasons = reasons
		out = append(out, rw)
	}
	return out
}

// Recommendations returns up to limit recommendations of a user by score
// descending. When fewer than limit exist they are regenerated first.
func (e *Engine) Recommendations(ctx context.Context, userID int64, limit int) ([]Recommendation, error) {
	if err := e.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = e.config.DefaultLimit
	}

	recs, err := e.store.Recommendations(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("get recommendations for %d: %w", userID, err)
	}
	if len(recs) >= limit {
		return recs, nil
	}

	e.selfHealingReads.Add(1)
	if _, err := e.GenerateForUser(ctx, userID, limit); err != nil {
		e.logger.Warn().Err(err).Int64("user_id", userID).Msg("On-demand generation failed, returning stored recommendations")
		return recs, nil
	}

	recs, err = e.store.Recommendations(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("get recommendations for %d: %w", userID, err)
	}
	return recs, nil
}

// RecommendationsWithReasons is Recommendations with each entry's reasons.
func (e *Engine) RecommendationsWithReasons(ctx context.Context, userID int64, limit int) ([]RecommendationWithReasons, error) {
	recs, err := e.Recommendations(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]RecommendationWithReasons, 0, len(recs))
	for _, r := range recs {
		reasons, err := e.Reasons(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, RecommendationWithReasons{Recommendation: r, Reasons: reasons})
	}
	return out, nil
}

// RecommendationDetail returns one recommendation with its reasons.
func (e *Engine) RecommendationDetail(ctx context.Context, id int64) (*RecommendationWithReasons, error) {
	rec, err := e.store.Recommendation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get recommendation %d: %w", id, err)
	}
	reasons, err := e.Reasons(ctx, id)
	if err != nil {
		return nil, err
	}
	return &RecommendationWithReasons{Recommendation: *rec, Reasons: reasons}, nil
}

// Reasons returns the reasons of a recommendation. An unknown id yields an
// empty list.
func (e *Engine) Reasons(ctx context.Context, recommendationID int64) ([]Reason, error) {
	reasons, err := e.store.Reasons(ctx, recommendationID)
	if err != nil {
		return nil, fmt.Errorf("get reasons for %d: %w", recommendationID, err)
	}
	if reasons == nil {
		reasons = []Reason{}
	}
	return reasons, nil
}

// UpdateStatus moves a recommendation to status. Any status may follow any
// other.
func (e *Engine) UpdateStatus(ctx context.Context, id int64, status Status) (*Recommendation, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	rec, err := e.store.UpdateRecommendationStatus(ctx, id, status, e.now())
	if err != nil {
		return nil, fmt.Errorf("update recommendation %d: %w", id, err)
	}
	e.obs().ObserveStatusChange(status)
	return rec, nil
}
