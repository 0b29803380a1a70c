// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

// mockService fails failures times, then runs until canceled.
type mockService struct {
	name       string
	failures   int32
	startCount atomic.Int32
}

func newMockService(name string, failures int32) *mockService {
	return &mockService{name: name, failures: failures}
}

func (m *mockService) Serve(ctx context.Context) error {
	if n := m.startCount.Add(1); n <= m.failures {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockService) String() string {
	return m.name
}
