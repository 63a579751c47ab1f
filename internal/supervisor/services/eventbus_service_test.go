// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

type mockEmbeddedEventServer struct {
	shutdownCalled atomic.Bool
}

func (m *mockEmbeddedEventServer) Shutdown(_ context.Context) {
	m.shutdownCalled.Store(true)
}

func TestEventBusService(t *testing.T) {
	t.Run("implements suture.Service interface", func(t *testing.T) {
		var _ suture.Service = (*EventBusService)(nil)
	})

	t.Run("shuts down the embedded server on context cancellation", func(t *testing.T) {
		mock := &mockEmbeddedEventServer{}
		svc := NewEventBusService(mock, time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- svc.Serve(ctx) }()

		cancel()

		select {
		case err := <-done:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Serve() error = %v, want context.Canceled", err)
			}
		case <-time.After(time.Second):
			t.Fatal("Serve() did not return in time")
		}

		if !mock.shutdownCalled.Load() {
			t.Error("Shutdown was not called on the embedded server")
		}
	})

	t.Run("String returns service name", func(t *testing.T) {
		svc := NewEventBusService(&mockEmbeddedEventServer{}, 0)
		if svc.String() != "event-bus" {
			t.Errorf("String() = %q, want %q", svc.String(), "event-bus")
		}
	})
}
