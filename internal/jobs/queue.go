// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/fairmatch/internal/config"
	"github.com/tomtom215/fairmatch/internal/logging"
)

// Topic carries batch generation requests.
const Topic = "recommend.generate"

const (
	handlerName = "recommend-generate"

	jobIDMetadataKey = "job_id"

	retryMaxRetries      = 2
	retryInitialInterval = time.Second
	retryMaxInterval     = 30 * time.Second
	retryMultiplier      = 2.0
)

// ErrQueueNotRunning is returned by Enqueue before the router has started.
// The in-process pub/sub drops messages published without a subscriber.
var ErrQueueNotRunning = errors.New("job queue is not running")

// Generator regenerates recommendations for every user.
type Generator interface {
	GenerateForAll(ctx context.Context, perUser int) (int, error)
}

// generatePayload is the message body of a batch job.
type generatePayload struct {
	JobID   string `json:"job_id"`
	PerUser int    `json:"per_user"`
}

// pipeline is one pub/sub and router pair. A Watermill router cannot be
// run again once closed, so every Serve after the first builds a new one.
type pipeline struct {
	pubSub *gochannel.GoChannel
	router *message.Router
}

// Queue accepts batch generation jobs and runs them on a Watermill router.
type Queue struct {
	generator Generator
	tracker   *Tracker
	cfg       config.JobsConfig
	timeout   time.Duration
	logger    zerolog.Logger
	wmLogger  watermill.LoggerAdapter

	mu      sync.RWMutex
	current *pipeline
	served  bool
}

// NewQueue wires the pub/sub, router, middleware and handler.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewQueue(generator Generator, cfg *config.JobsConfig, logger zerolog.Logger) (*Queue, error) {
	if generator == nil {
		return nil, errors.New("jobs: generator is required")
	}

	logger = logger.With().Str("component", "jobs").Logger()
	q := &Queue{
		generator: generator,
		tracker:   NewTracker(cfg.Retention),
		cfg:       *cfg,
		timeout:   cfg.Timeout,
		logger:    logger,
		wmLogger:  logging.NewWatermillLogger(logger),
	}

	p, err := q.newPipeline()
	if err != nil {
		return nil, err
	}
	q.current = p
	return q, nil
}

func (q *Queue) newPipeline() (*pipeline, error) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: q.cfg.Buffer,
	}, q.wmLogger)

	router, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: q.cfg.CloseTimeout,
	}, q.wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	// Outer to inner: finalizer, Recoverer, Retry
	router.AddMiddleware(q.jobFinalizer)
	router.AddMiddleware(middleware.Recoverer)
	retry := middleware.Retry{
		MaxRetries:      retryMaxRetries,
		InitialInterval: retryInitialInterval,
		MaxInterval:     retryMaxInterval,
		Multiplier:      retryMultiplier,
		Logger:          q.wmLogger,
	}
	router.AddMiddleware(retry.Middleware)

	router.AddConsumerHandler(handlerName, Topic, pubSub, q.handle)

	return &pipeline{pubSub: pubSub, router: router}, nil
}

func (q *Queue) active() *pipeline {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.current
}

// acquire returns the pipeline for a Serve call, replacing a used one.
func (q *Queue) acquire() (*pipeline, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.served {
		p, err := q.newPipeline()
		if err != nil {
			return nil, err
		}
		q.current = p
	}
	q.served = true
	return q.current, nil
}

// Tracker exposes job state.
func (q *Queue) Tracker() *Tracker {
	return q.tracker
}

// Job returns a snapshot of the job with the given id.
func (q *Queue) Job(id string) (Job, bool) {
	return q.tracker.Get(id)
}

// Running returns a channel closed once the current router consumes
// messages.
func (q *Queue) Running() <-chan struct{} {
	return q.active().router.Running()
}

// Enqueue registers and publishes a batch job.
func (q *Queue) Enqueue(ctx context.Context, perUser int) (Job, error) {
	p := q.active()
	select {
	case <-p.router.Running():
	default:
		return Job{}, ErrQueueNotRunning
	}
	if p.router.IsClosed() {
		return Job{}, ErrQueueNotRunning
	}

	job := q.tracker.Create(KindGenerateAll, perUser)

	payload, err := json.Marshal(generatePayload{JobID: job.ID, PerUser: perUser})
	if err != nil {
		q.tracker.Fail(job.ID, err)
		return Job{}, fmt.Errorf("marshal job payload: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(jobIDMetadataKey, job.ID)
	if requestID := logging.RequestIDFromContext(ctx); requestID != "" {
		msg.Metadata.Set("request_id", requestID)
	}

	if err := p.pubSub.Publish(Topic, msg); err != nil {
		q.tracker.Fail(job.ID, err)
		return Job{}, fmt.Errorf("publish job: %w", err)
	}

	q.logger.Info().Str("job_id", job.ID).Int("per_user", perUser).Msg("Generation job queued")
	return job, nil
}

// handle runs one batch generation attempt.
func (q *Queue) handle(msg *message.Message) error {
	var p generatePayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		return fmt.Errorf("decode job payload: %w", err)
	}
	if !q.tracker.Start(p.JobID) {
		q.logger.Warn().Str("job_id", p.JobID).Msg("Skipping unknown or finished job")
		return nil
	}

	ctx := logging.ContextWithJobID(msg.Context(), p.JobID)
	if requestID := msg.Metadata.Get("request_id"); requestID != "" {
		ctx = logging.ContextWithRequestID(ctx, requestID)
	}
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	log := logging.Ctx(ctx, q.logger)
	log.Info().Int("per_user", p.PerUser).Msg("Generation job started")

	created, err := q.generator.GenerateForAll(ctx, p.PerUser)
	if err != nil {
		return fmt.Errorf("generate recommendations: %w", err)
	}

	q.tracker.Succeed(p.JobID, created)
	log.Info().Int("created", created).Msg("Generation job succeeded")
	return nil
}

// jobFinalizer marks a job failed once retries are exhausted and acks the
// message, so a failing batch is never redelivered.
func (q *Queue) jobFinalizer(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		produced, err := h(msg)
		if err == nil {
			return produced, nil
		}

		jobID := msg.Metadata.Get(jobIDMetadataKey)
		q.tracker.Fail(jobID, err)
		q.logger.Error().Err(err).Str("job_id", jobID).Msg("Generation job failed")
		return nil, nil
	}
}

// Serve runs the router until ctx is canceled. It implements
// suture.Service and may be called again after it returns.
func (q *Queue) Serve(ctx context.Context) error {
	p, err := q.acquire()
	if err != nil {
		return err
	}

	q.logger.Info().Str("topic", Topic).Msg("Job queue starting")
	err = p.router.Run(ctx)
	if closeErr := p.pubSub.Close(); closeErr != nil {
		q.logger.Warn().Err(closeErr).Msg("Failed to close job pub/sub")
	}
	if err != nil {
		return fmt.Errorf("job router: %w", err)
	}
	return ctx.Err()
}

// String names the service in supervisor logs.
func (q *Queue) String() string {
	return "job-queue"
}
