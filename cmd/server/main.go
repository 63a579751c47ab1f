// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package main is the entry point for the About Last Night orchestrator.
//
// About Last Night runs a single live session of a physical/digital party
// game: player scanners submit token scans over HTTP, a GM console drives
// the session lifecycle and video queue over a websocket, and every
// connected device stays in sync through a real-time event fabric backed
// by an embedded NATS JetStream bus.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: load settings from environment variables and config
//     files (Koanf v2)
//  2. Storage: open the embedded BadgerDB store the session engine
//     persists to
//  3. Token catalog: load the static token/group/media-asset mapping
//  4. Event bus: boot an embedded NATS JetStream server (or dial an
//     external one) and wire a publisher/registry pair
//  5. Session engine: restore any in-flight session and start accepting
//     scans
//  6. Video queue: wire the external player RPC client and conflict
//     arbiter
//  7. Socket fabric: the websocket hub plus the bridge that relays domain
//     events onto it
//  8. Auth: admin password verification and JWT issuance for the one GM
//     credential this system has
//  9. HTTP server: the spec's small route table, behind a supervisor tree
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables
//   - Config file (config.yaml)
//   - Built-in defaults
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new HTTP/websocket connections
//   - Detaches the event bridge and closes the embedded event bus
//   - Flushes the storage layer
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/cartographus/internal/adminplane"
	"github.com/tomtom215/cartographus/internal/api"
	"github.com/tomtom215/cartographus/internal/auth"
	"github.com/tomtom215/cartographus/internal/catalog"
	"github.com/tomtom215/cartographus/internal/config"
	"github.com/tomtom215/cartographus/internal/eventbus"
	"github.com/tomtom215/cartographus/internal/logging"
	"github.com/tomtom215/cartographus/internal/session"
	"github.com/tomtom215/cartographus/internal/storage"
	"github.com/tomtom215/cartographus/internal/supervisor"
	"github.com/tomtom215/cartographus/internal/supervisor/services"
	"github.com/tomtom215/cartographus/internal/video"
	"github.com/tomtom215/cartographus/internal/videoplayer"
	"github.com/tomtom215/cartographus/internal/wsfabric"
)

//nolint:gocyclo // sequential startup wiring, same shape as the teacher's main
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting About Last Night orchestrator")

	store, err := storage.New(cfg.Storage, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing storage")
		}
	}()

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Catalog.Path).Msg("Failed to load token catalog")
	}
	logging.Info().Int("tokens", len(cat.All())).Msg("Token catalog loaded")

	var embeddedServer *eventbus.EmbeddedServer
	if cfg.Events.Enabled && cfg.Events.EmbeddedServer {
		embeddedServer, err = eventbus.StartEmbedded(cfg.Events.StoreDir)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to start embedded event bus")
		}
		logging.Info().Str("url", embeddedServer.ClientURL()).Msg("Embedded event bus started")
	}

	var publisher eventbus.Publisher = eventbus.NoopPublisher{}
	var registry *eventbus.Registry
	var bus *eventbus.Bus
	if cfg.Events.Enabled {
		bus, err = eventbus.Connect(cfg.Events, embeddedServer, logging.Logger())
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to connect to event bus")
		}
		publisher = eventbus.NewPublisher(bus)
		registry = eventbus.NewRegistry(bus, logging.Logger())
	} else {
		logging.Warn().Msg("Event bus disabled (EVENTS_ENABLED=false) - running without cross-device relay")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := session.NewEngine(store, cat, publisher, cfg.Session, logging.Logger())

	playerClient := videoplayer.New(cfg.Video)
	queue := video.NewQueue(playerClient, publisher, cfg.Video, logging.Logger())
	engine.SetVideoSource(queue, playerClient)

	hub := wsfabric.NewHub(logging.Logger())

	var bridge *wsfabric.Bridge
	if registry != nil {
		bridge = wsfabric.NewBridge(hub, registry)
		if err := bridge.Attach(); err != nil {
			logging.Fatal().Err(err).Msg("Failed to attach event bridge")
		}
		logging.Info().Msg("Event bridge attached - domain events now relay to connected sockets")
	}

	dispatcher := adminplane.NewDispatcher(engine, queue, cat)

	adminVerifier, err := auth.NewAdminVerifier(cfg.Security.AdminPassword)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize admin verifier")
	}
	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}

	authMiddleware := auth.NewMiddleware(
		jwtManager,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
		cfg.Security.CORSOrigins,
		cfg.Security.TrustedProxies,
	)

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	handler := api.NewHandler(engine, queue, cat, dispatcher, hub, adminVerifier, jwtManager, cfg, logging.Logger())
	chiMW := api.NewChiMiddlewareFromAuth(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)
	router := api.NewRouter(handler, authMiddleware, chiMW)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.RequestTimeout,
		WriteTimeout: cfg.Server.RequestTimeout,
		IdleTimeout:  60 * time.Second,
	}

	slogLogger := logging.NewSlogLogger()
	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Data layer: the session engine and video queue are both single-writer
	// actors that own their own serialization loop (Serve blocks until its
	// context is canceled), so each is its own suture.Service.
	tree.AddDataService(engine)
	tree.AddDataService(queue)

	// Messaging layer: the socket hub's broadcast loop, plus the embedded
	// event bus's lifecycle if one was started.
	tree.AddMessagingService(hub)
	if embeddedServer != nil {
		tree.AddMessagingService(services.NewEventBusService(embeddedServer, cfg.Server.ShutdownTimeout))
	}

	// API layer: the HTTP server (also serving the /ws upgrade route).
	tree.AddAPIService(services.NewHTTPServerService(httpServer, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", httpServer.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		// Domain listeners come off before the tree drains sockets.
		if bridge != nil {
			if err := bridge.Detach(); err != nil {
				logging.Error().Err(err).Msg("Error detaching event bridge")
			}
		}
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
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

	if bridge != nil {
		if err := bridge.Detach(); err != nil {
			logging.Error().Err(err).Msg("Error detaching event bridge")
		}
	}
	if bus != nil {
		bus.Close()
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
