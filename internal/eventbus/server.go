// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package eventbus is the one-way domain-event channel from the session and
video engines to the websocket event fabric (spec §4.2, §9 "one-way
dependency"). Engines publish the subjects listed in events.go (named after
the domain event itself, e.g. "transaction:accepted"); internal/wsfabric
subscribes and translates each to a wire event. The engine must never hold
a reference to the fabric — publishing to a subject it doesn't know any
subscriber exists for is the point.

Backed by an embedded NATS JetStream server by default (EventsConfig),
so the orchestrator has no required external runtime dependency; an
external NATS URL can be substituted for multi-process deployments.
*/
package eventbus

import (
	"context"
	"fmt"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cartographus/internal/config"
)

// EmbeddedServer wraps a nats-server instance started in-process.
type EmbeddedServer struct {
	srv       *natsserver.Server
	clientURL string
}

// StartEmbedded boots an embedded NATS JetStream server using storeDir for
// its on-disk stream data. It blocks until the server is ready to accept
// connections or the 30s startup timeout elapses.
func StartEmbedded(storeDir string) (*EmbeddedServer, error) {
	opts := &natsserver.Options{
		ServerName: "about-last-night-events",
		Host:       "127.0.0.1",
		Port:       -1, // random free port; client URL reported back via ClientURL()
		JetStream:  true,
		StoreDir:   storeDir,
		NoLog:      true,
		MaxPayload: 1 << 20,
	}

	ns, err := natsserver.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("create embedded event server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(30 * time.Second) {
		ns.Shutdown()
		return nil, fmt.Errorf("embedded event server not ready within timeout")
	}

	return &EmbeddedServer{srv: ns, clientURL: ns.ClientURL()}, nil
}

// ClientURL returns the URL a nats.Connect call should dial.
func (e *EmbeddedServer) ClientURL() string {
	return e.clientURL
}

// Shutdown stops the embedded server, waiting up to the given context's
// deadline for in-flight work to drain.
func (e *EmbeddedServer) Shutdown(ctx context.Context) {
	e.srv.Shutdown()
	done := make(chan struct{})
	go func() {
		e.srv.WaitForShutdown()
		close(done)
	}()
	select {
	case <-ctx.Done():
	case <-done:
	}
}

// Bus bundles a NATS client connection and its logger.
type Bus struct {
	conn   *nats.Conn
	logger zerolog.Logger
}

// Connect dials the event bus described by cfg. If cfg.EmbeddedServer is
// true, embedded must be the already-started server from StartEmbedded;
// otherwise cfg.URL is dialed directly.
func Connect(cfg config.EventsConfig, embedded *EmbeddedServer, logger zerolog.Logger) (*Bus, error) {
	url := cfg.URL
	if cfg.EmbeddedServer {
		url = embedded.ClientURL()
	}

	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Name("about-last-night-orchestrator"),
	)
	if err != nil {
		return nil, fmt.Errorf("connect event bus: %w", err)
	}

	return &Bus{conn: nc, logger: logger}, nil
}

// Conn exposes the underlying connection for Publisher/Subscriber.
func (b *Bus) Conn() *nats.Conn {
	return b.conn
}

// Close drains and closes the connection.
func (b *Bus) Close() {
	_ = b.conn.Drain()
}
