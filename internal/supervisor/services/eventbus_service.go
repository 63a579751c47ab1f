// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package services

import (
	"context"
	"time"
)

// EmbeddedEventServer matches the lifecycle of *eventbus.EmbeddedServer
// without importing it, avoiding a circular dependency.
type EmbeddedEventServer interface {
	Shutdown(ctx context.Context)
}

// EventBusService wraps the already-started embedded event server as a
// supervised service. StartEmbedded has already brought the server up by
// the time this is constructed, so Serve only needs to wait for shutdown
// and then drain it.
//
// Example usage:
//
//	srv, _ := eventbus.StartEmbedded(storeDir)
//	svc := services.NewEventBusService(srv, 10*time.Second)
//	tree.AddMessagingService(svc)
type EventBusService struct {
	server          EmbeddedEventServer
	shutdownTimeout time.Duration
	name            string
}

// NewEventBusService creates a new embedded event server service wrapper.
func NewEventBusService(server EmbeddedEventServer, shutdownTimeout time.Duration) *EventBusService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &EventBusService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		name:            "event-bus",
	}
}

// Serve implements suture.Service.
func (s *EventBusService) Serve(ctx context.Context) error {
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.server.Shutdown(shutdownCtx)

	return ctx.Err()
}

// String implements fmt.Stringer for logging.
func (s *EventBusService) String() string {
	return s.name
}
