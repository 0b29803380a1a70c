// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package jobs

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/fairmatch/internal/metrics"
)

// State is the lifecycle state of a job.
type State string

const (
	StateQueued    State = "queued"
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// KindGenerateAll regenerates recommendations for every user.
const KindGenerateAll = "generate_all"

// Job is a snapshot of a background job.
type Job struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	State    State  `json:"state"`
	PerUser  int    `json:"recommendationsPerUser"`
	Attempts int    `json:"attempts"`

	// Generated is the number of recommendations created by a succeeded job.
	Generated int    `json:"generatedRecommendations"`
	Error     string `json:"error,omitempty"`

	CreatedAt  time.Time  `json:"createdAt"`
	StartedAt  *time.Time `json:"startedAt,omitempty"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// Tracker records job state in memory.
type Tracker struct {
	mu        sync.RWMutex
	jobs      map[string]*Job
	retention time.Duration
	now       func() time.Time
}

// NewTracker creates a tracker that forgets finished jobs after retention.
// A non-positive retention keeps jobs forever.
func NewTracker(retention time.Duration) *Tracker {
	return &Tracker{
		jobs:      make(map[string]*Job),
		retention: retention,
		now:       time.Now,
	}
}

// Create registers a new queued job.
func (t *Tracker) Create(kind string, perUser int) Job {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pruneLocked()

	job := &Job{
		ID:        uuid.NewString(),
		Kind:      kind,
		State:     StateQueued,
		PerUser:   perUser,
		CreatedAt: t.now(),
	}
	t.jobs[job.ID] = job
	return *job
}

// Get returns a copy of the job.
func (t *Tracker) Get(id string) (Job, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	job, ok := t.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// List returns every tracked job, newest first.
func (t *Tracker) List() []Job {
	t.mu.RLock()
	defer t.mu.RUnlock()

	list := make([]Job, 0, len(t.jobs))
	for _, job := range t.jobs {
		list = append(list, *job)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}

// Start moves a job to running and counts the attempt. It reports false for
// unknown or finished jobs.
func (t *Tracker) Start(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[id]
	if !ok || job.State.Terminal() {
		return false
	}
	now := t.now()
	if job.StartedAt == nil {
		job.StartedAt = &now
	}
	job.State = StateRunning
	job.Attempts++
	return true
}

// Succeed records a successful run.
func (t *Tracker) Succeed(id string, generated int) {
	t.finish(id, StateSucceeded, func(job *Job) { job.Generated = generated })
}

// Fail records a failed run.
func (t *Tracker) Fail(id string, err error) {
	t.finish(id, StateFailed, func(job *Job) { job.Error = err.Error() })
}

func (t *Tracker) finish(id string, state State, apply func(*Job)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[id]
	if !ok || job.State.Terminal() {
		return
	}
	now := t.now()
	job.State = state
	job.FinishedAt = &now
	apply(job)

	started := job.CreatedAt
	if job.StartedAt != nil {
		started = *job.StartedAt
	}
	metrics.RecordJob(string(state), now.Sub(started))
}

// pruneLocked drops finished jobs past retention. Callers hold t.mu.
func (t *Tracker) pruneLocked() {
	if t.retention <= 0 {
		return
	}
	cutoff := t.now().Add(-t.retention)
	for id, job := range t.jobs {
		if job.FinishedAt != nil && job.FinishedAt.Before(cutoff) {
			delete(t.jobs, id)
		}
	}
}
