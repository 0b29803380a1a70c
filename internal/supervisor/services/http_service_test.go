// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package services

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// mockHTTPServer blocks in ListenAndServe until Shutdown.
type mockHTTPServer struct {
	listenErr     error
	shutdownErr   error
	shutdownCount atomic.Int32
	started       chan struct{}
	stopCh        chan struct{}
}

func newMockHTTPServer() *mockHTTPServer {
	return &mockHTTPServer{
		started: make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
	}
}

func (m *mockHTTPServer) ListenAndServe() error {
	select {
	case m.started <- struct{}{}:
	default:
	}
	if m.listenErr != nil {
		return m.listenErr
	}
	<-m.stopCh
	return http.ErrServerClosed
}

func (m *mockHTTPServer) Shutdown(context.Context) error {
	m.shutdownCount.Add(1)
	close(m.stopCh)
	return m.shutdownErr
}

var _ suture.Service = (*HTTPServerService)(nil)

func TestNewHTTPServerService_DefaultTimeout(t *testing.T) {
	t.Parallel()

	for _, timeout := range []time.Duration{0, -5 * time.Second} {
		svc := NewHTTPServerService(newMockHTTPServer(), timeout, zerolog.Nop())
		if svc.shutdownTimeout != defaultShutdownTimeout {
			t.Errorf("shutdownTimeout(%v) = %v, want %v", timeout, svc.shutdownTimeout, defaultShutdownTimeout)
		}
	}
	if got := NewHTTPServerService(newMockHTTPServer(), time.Second, zerolog.Nop()).String(); got != "http-server" {
		t.Errorf("String() = %q, want %q", got, "http-server")
	}
}

func TestHTTPServerService_Serve(t *testing.T) {
	t.Parallel()

	t.Run("graceful shutdown on cancel", func(t *testing.T) {
		t.Parallel()

		server := newMockHTTPServer()
		svc := NewHTTPServerService(server, time.Second, zerolog.Nop())

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		<-server.started
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Serve() error = %v, want context.Canceled", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve() did not return")
		}
		if got := server.shutdownCount.Load(); got != 1 {
			t.Errorf("Shutdown called %d times, want 1", got)
		}
	})

	t.Run("listen failure", func(t *testing.T) {
		t.Parallel()

		server := newMockHTTPServer()
		server.listenErr = errors.New("address already in use")
		svc := NewHTTPServerService(server, time.Second, zerolog.Nop())

		err := svc.Serve(context.Background())
		if err == nil || !errors.Is(err, server.listenErr) {
			t.Errorf("Serve() error = %v, want wrapped %v", err, server.listenErr)
		}
	})

	t.Run("shutdown failure", func(t *testing.T) {
		t.Parallel()

		server := newMockHTTPServer()
		server.shutdownErr = errors.New("connections still open")
		svc := NewHTTPServerService(server, time.Second, zerolog.Nop())

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()
		<-server.started
		cancel()

		if err := <-errCh; !errors.Is(err, server.shutdownErr) {
			t.Errorf("Serve() error = %v, want wrapped %v", err, server.shutdownErr)
		}
	})
}
