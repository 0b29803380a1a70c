// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/fairmatch/internal/cache"
	"github.com/tomtom215/fairmatch/internal/config"
	"github.com/tomtom215/fairmatch/internal/database"
	"github.com/tomtom215/fairmatch/internal/jobs"
	"github.com/tomtom215/fairmatch/internal/logging"
	"github.com/tomtom215/fairmatch/internal/metrics"
	"github.com/tomtom215/fairmatch/internal/profiles"
	"github.com/tomtom215/fairmatch/internal/recommend"
	"github.com/tomtom215/fairmatch/internal/supervisor"
	"github.com/tomtom215/fairmatch/internal/supervisor/services"
)

// RecommendComponents holds the engine and what it runs on.
type RecommendComponents struct {
	Engine *recommend.Engine
	Cache  *cache.VectorStore
	Queue  *jobs.Queue
}

// Close releases the cache.
func (c *RecommendComponents) Close() {
	if c.Cache == nil {
		return
	}
	if err := c.Cache.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing feature vector cache")
	}
}

// initRecommend builds the engine on top of db: profiles through the circuit
// breaker, feature vectors through the Badger cache when enabled.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, db *database.DB, logger zerolog.Logger) (*RecommendComponents, error) {
	components := &RecommendComponents{}

	profileSource := profiles.NewBreakerProvider(db, &cfg.Profiles, logger)

	var store recommend.Store = db
	if cfg.Cache.Enabled {
		vc, err := cache.NewVectorStore(db, cache.Options{Path: cfg.Cache.Path, TTL: cfg.Cache.TTL}, logger)
		if err != nil {
			return nil, fmt.Errorf("open feature vector cache: %w", err)
		}
		components.Cache = vc
		store = vc
		logger.Info().
			Str("path", cfg.Cache.Path).
			Dur("ttl", cfg.Cache.TTL).
			Msg("Feature vector cache enabled")
	}

	engine, err := recommend.NewEngine(profileSource, store, buildEngineConfig(&cfg.Recommend), logger)
	if err != nil {
		components.Close()
		return nil, err
	}
	engine.SetObserver(metrics.RecommendObserver{})
	components.Engine = engine

	if cfg.Recommend.Enabled {
		queue, err := jobs.NewQueue(engine, &cfg.Jobs, logger)
		if err != nil {
			components.Close()
			return nil, fmt.Errorf("create job queue: %w", err)
		}
		components.Queue = queue
	}
	return components, nil
}

// addServices registers the job queue and the regeneration scheduler.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func (c *RecommendComponents) addServices(cfg *config.Config, tree *supervisor.SupervisorTree, logger zerolog.Logger) {
	if !cfg.Recommend.Enabled {
		logger.Info().Msg("Scheduled regeneration and background jobs disabled (RECOMMEND_ENABLED=false)")
		return
	}

	tree.AddJobsService(c.Queue)
	tree.AddJobsService(services.NewRegenerateService(c.Engine, services.RegenerateConfig{
		Interval:  cfg.Recommend.ScheduleInterval,
		OnStartup: cfg.Recommend.GenerateOnStartup,
		PerUser:   cfg.Recommend.PerUserCount,
		Timeout:   cfg.Jobs.Timeout,
	}, logger))
}

// buildEngineConfig maps RECOMMEND_* settings onto the engine configuration.
func buildEngineConfig(rc *config.RecommendConfig) *recommend.Config {
	engineCfg := recommend.DefaultConfig()
	engineCfg.Weights = recommend.FacetWeights(rc.Weights)
	engineCfg.ReasonScores = recommend.FacetWeights(rc.ReasonScores)
	engineCfg.MinScore = rc.MinScore
	engineCfg.OverFetchFactor = rc.OverFetchFactor
	engineCfg.DefaultLimit = rc.DefaultLimit
	engineCfg.PerUserCount = rc.PerUserCount
	return engineCfg
}
