// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/fairmatch/internal/api"
	"github.com/tomtom215/fairmatch/internal/auth"
	"github.com/tomtom215/fairmatch/internal/config"
	"github.com/tomtom215/fairmatch/internal/database"
	"github.com/tomtom215/fairmatch/internal/logging"
	"github.com/tomtom215/fairmatch/internal/metrics"
	"github.com/tomtom215/fairmatch/internal/supervisor"
	"github.com/tomtom215/fairmatch/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	httpShutdownTimeout = 10 * time.Second
	httpIdleTimeout     = 60 * time.Second
	checkpointInterval  = 5 * time.Minute
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("fairmatch exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	logging.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Str("auth_mode", cfg.Security.AuthMode).
		Bool("recommend_enabled", cfg.Recommend.Enabled).
		Msg("Starting fairmatch")

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	if cfg.Database.SeedDemoData {
		logging.Info().Msg("Demo data seeding enabled (SEED_DEMO_DATA=true)")
		if err := db.SeedDemoData(context.Background()); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}
	logDatabaseState(db)

	rec, err := initRecommend(cfg, db, logger)
	if err != nil {
		return fmt.Errorf("initialize recommendation engine: %w", err)
	}
	defer rec.Close()

	jwtManager, err := initAuth(cfg)
	if err != nil {
		return err
	}
	authMiddleware := auth.NewMiddleware(jwtManager, cfg.Security.AuthMode, logger)

	var jobQueue api.JobQueue
	if rec.Queue != nil {
		jobQueue = rec.Queue
	}
	handler := api.NewHandler(rec.Engine, db, jobQueue, cfg, logger)
	router := api.NewRouter(handler, authMiddleware)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout + cfg.API.BatchTimeout,
		IdleTimeout:  httpIdleTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logging.WithComponent("supervisor")), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  httpShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	tree.AddDataService(services.NewCheckpointService(db, checkpointInterval, logger))
	rec.addServices(cfg, tree, logger)
	tree.AddAPIService(services.NewHTTPServerService(server, httpShutdownTimeout, logger))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := tree.ServeBackground(ctx)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for services to stop")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("fairmatch stopped")
	return nil
}

// initAuth returns the JWT manager, or nil when authentication is disabled.
func initAuth(cfg *config.Config) (*auth.JWTManager, error) {
	if cfg.Security.AuthMode != auth.ModeJWT {
		logging.Warn().Msg("Authentication is DISABLED (AUTH_MODE=none): every endpoint, including batch generation, is public")
		return nil, nil //nolint:nilnil // no manager when auth is disabled
	}
	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return nil, fmt.Errorf("initialize JWT manager: %w", err)
	}
	logging.Info().Msg("JWT authentication enabled")
	return jwtManager, nil
}

// logDatabaseState reports the opened database and its table sizes.
func logDatabaseState(db *database.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	counts, err := db.GetRecordCounts(ctx)
	if err != nil {
		logging.Warn().Err(err).Str("db_path", db.GetDatabasePath()).Msg("Failed to count database records")
		return
	}
	logging.Info().
		Str("db_path", db.GetDatabasePath()).
		Int64("users", counts.Users).
		Int64("feature_vectors", counts.FeatureVectors).
		Int64("similarities", counts.Similarities).
		Int64("recommendations", counts.Recommendations).
		Msg("Database opened")
}
