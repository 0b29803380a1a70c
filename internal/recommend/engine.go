// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Observer receives engine measurements. The metrics package provides the
// Prometheus implementation.
type Observer interface {
	ObserveExtraction(err error, d time.Duration)
	ObserveSimilarities(scope string, written int, d time.Duration)
	ObserveGeneration(created, reasons int, d time.Duration)
	ObserveStatusChange(status Status)
}

type noopObserver struct{}

func (noopObserver) ObserveExtraction(error, time.Duration)         {}
func (noopObserver) ObserveSimilarities(string, int, time.Duration) {}
func (noopObserver) ObserveGeneration(int, int, time.Duration)      {}
func (noopObserver) ObserveStatusChange(Status)                     {}

// observerHolder boxes an Observer so observers of different concrete
// types can be swapped atomically.
type observerHolder struct {
	o Observer
}

// Stats is a snapshot of the engine's lifetime counters.
type Stats struct {
	Extractions            int64 `json:"extractions"`
	ExtractionFailures     int64 `json:"extraction_failures"`
	SimilaritiesWritten    int64 `json:"similarities_written"`
	RecommendationsCreated int64 `json:"recommendations_created"`
	SelfHealingReads       int64 `json:"self_healing_reads"`
}

// Engine extracts features, computes similarities and generates
// recommendations. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	profiles ProfileProvider
	store    Store
	observer atomic.Pointer[observerHolder]

	now func() time.Time

	extractions            atomic.Int64
	extractionFailures     atomic.Int64
	similaritiesWritten    atomic.Int64
	recommendationsCreated atomic.Int64
	selfHealingReads       atomic.Int64
}

// NewEngine creates an engine reading profiles from profiles and persisting
// results in store. A nil cfg uses DefaultConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(profiles ProfileProvider, store Store, cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if profiles == nil {
		return nil, errors.New("profile provider is required")
	}
	if store == nil {
		return nil, errors.New("store is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		config:   cfg.Clone(),
		logger:   logger.With().Str("component", "recommend").Logger(),
		profiles: profiles,
		store:    store,
		now:      time.Now,
	}
	e.SetObserver(nil)
	return e, nil
}

// SetObserver installs an observer for engine measurements.
func (e *Engine) SetObserver(o Observer) {
	if o == nil {
		o = noopObserver{}
	}
	e.observer.Store(&observerHolder{o: o})
}

func (e *Engine) obs() Observer {
	return e.observer.Load().o
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Stats returns the engine's lifetime counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Extractions:            e.extractions.Load(),
		ExtractionFailures:     e.extractionFailures.Load(),
		SimilaritiesWritten:    e.similaritiesWritten.Load(),
		RecommendationsCreated: e.recommendationsCreated.Load(),
		SelfHealingReads:       e.selfHealingReads.Load(),
	}
}

// ExtractFeatures rebuilds and stores the feature vector of a user,
// replacing any previous vector.
func (e *Engine) ExtractFeatures(ctx context.Context, userID int64) (*FeatureVector, error) {
	start := time.Now()
	v, err := e.extractFeatures(ctx, userID)
	e.obs().ObserveExtraction(err, time.Since(start))
	if err != nil {
		e.extractionFailures.Add(1)
		return nil, err
	}
	e.extractions.Add(1)
	return v, nil
}

func (e *Engine) extractFeatures(ctx context.Context, userID int64) (*FeatureVector, error) {
	profile, err := e.profiles.Profile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile %d: %w", userID, err)
	}

	v := ExtractFeatures(profile, e.now())
	v.UserID = userID
	if err := e.store.SaveFeatureVector(ctx, v); err != nil {
		return nil, fmt.Errorf("save feature vector %d: %w", userID, err)
	}
	return v, nil
}

// ExtractFeaturesForAll re-extracts every known user. Failures are logged
// and skipped; the returned count covers successes only.
func (e *Engine) ExtractFeaturesForAll(ctx context.Context) (int, error) {
	_, vectors, err := e.extractAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(vectors), nil
}

// extractAll extracts every user and returns the users and the fresh
// vectors, both in user id order.
func (e *Engine) extractAll(ctx context.Context) ([]User, []*FeatureVector, error) {
	users, err := e.listUsers(ctx)
	if err != nil {
		return nil, nil, err
	}

	vectors := make([]*FeatureVector, 0, len(users))
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("extract features: %w", err)
		}
		v, err := e.ExtractFeatures(ctx, u.ID)
		if err != nil {
			e.logger.Warn().Err(err).Int64("user_id", u.ID).Msg("Feature extraction failed, skipping user")
			continue
		}
		vectors = append(vectors, v)
	}

	e.logger.Info().
		Int("users", len(users)).
		Int("extracted", len(vectors)).
		Msg("Feature extraction completed")
	return users, vectors, nil
}

// FeatureVector returns the stored vector of a user, extracting it first
// when none exists.
func (e *Engine) FeatureVector(ctx context.Context, userID int64) (*FeatureVector, error) {
	v, err := e.store.FeatureVector(ctx, userID)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, ErrFeatureVectorNotFound) {
		return nil, fmt.Errorf("get feature vector %d: %w", userID, err)
	}
	return e.ExtractFeatures(ctx, userID)
}

// ComputeSimilaritiesForUser replaces the outgoing similarities of a user
// with fresh scores against every other user. Users whose vectors cannot
// be read are skipped. Returns the number of records written.
func (e *Engine) ComputeSimilaritiesForUser(ctx context.Context, userID int64) (int, error) {
	start := time.Now()

	if err := e.requireUser(ctx, userID); err != nil {
		return 0, err
	}
	source, err := e.FeatureVector(ctx, userID)
	if err != nil {
		return 0, err
	}
	users, err := e.listUsers(ctx)
	if err != nil {
		return 0, err
	}

	now := e.now()
	records := make([]SimilarityRecord, 0, len(users))
	for _, u := range users {
		if u.ID == userID {
			continue
		}
		target, err := e.FeatureVector(ctx, u.ID)
		if err != nil {
			e.logger.Warn().Err(err).
				Int64("user_id", userID).
				Int64("target_user_id", u.ID).
				Msg("Similarity skipped")
			continue
		}
		records = append(records, Similarity(source, target, e.config.Weights, now))
	}

	if err := e.store.ReplaceSimilaritiesForSource(ctx, userID, records); err != nil {
		return 0, fmt.Errorf("replace similarities for %d: %w", userID, err)
	}

	e.similaritiesWritten.Add(int64(len(records)))
	e.obs().ObserveSimilarities("user", len(records), time.Since(start))
	return len(records), nil
}

// ComputeAllSimilarities re-extracts every user, then replaces the whole
// similarity table. Each unordered pair is scored once and stored in both
// directions. Returns the number of directed records written.
func (e *Engine) ComputeAllSimilarities(ctx context.Context) (int, error) {
	start := time.Now()

	users, vectors, err := e.extractAll(ctx)
	if err != nil {
		return 0, err
	}

	// Users whose extraction failed keep their last stored vector.
	vectors = e.withStoredVectors(ctx, users, vectors)

	now := e.now()
	records := make([]SimilarityRecord, 0, len(vectors)*(len(vectors)-1))
	for i := 0; i < len(vectors); i++ {
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("compute similarities: %w", err)
		}
		for j := i + 1; j < len(vectors); j++ {
			r := Similarity(vectors[i], vectors[j], e.config.Weights, now)
			records = append(records, r, r.Reverse())
		}
	}

	if err := e.store.ReplaceAllSimilarities(ctx, records); err != nil {
		return 0, fmt.Errorf("replace all similarities: %w", err)
	}

	e.similaritiesWritten.Add(int64(len(records)))
	e.obs().ObserveSimilarities("all", len(records), time.Since(start))
	e.logger.Info().
		Int("users", len(vectors)).
		Int("records", len(records)).
		Dur("duration", time.Since(start)).
		Msg("Similarity matrix recomputed")
	return len(records), nil
}

// withStoredVectors adds the stored vectors of users missing from fresh.
// The result is ordered by user id.
func (e *Engine) withStoredVectors(ctx context.Context, users []User, fresh []*FeatureVector) []*FeatureVector {
	have := make(map[int64]struct{}, len(fresh))
	for _, v := range fresh {
		have[v.UserID] = struct{}{}
	}

	out := append([]*FeatureVector(nil), fresh...)
	for _, u := range users {
		if _, ok := have[u.ID]; ok {
			continue
		}
		v, err := e.store.FeatureVector(ctx, u.ID)
		if err != nil {
			continue
		}
		out = append(out, v)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// FindMostSimilar returns up to limit outgoing similarities of a user by
// score descending.
func (e *Engine) FindMostSimilar(ctx context.Context, userID int64, limit int) ([]SimilarityRecord, error) {
	if err := e.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = e.config.DefaultLimit
	}
	records, err := e.store.MostSimilar(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("find most similar to %d: %w", userID, err)
	}
	return records, nil
}

func (e *Engine) requireUser(ctx context.Context, userID int64) error {
	if _, err := e.profiles.User(ctx, userID); err != nil {
		return fmt.Errorf("get user %d: %w", userID, err)
	}
	return nil
}

func (e *Engine) listUsers(ctx context.Context) ([]User, error) {
	users, err := e.profiles.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}
