// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cartographus/internal/adminplane"
	"github.com/tomtom215/cartographus/internal/auth"
	"github.com/tomtom215/cartographus/internal/catalog"
	"github.com/tomtom215/cartographus/internal/config"
	"github.com/tomtom215/cartographus/internal/offline"
	"github.com/tomtom215/cartographus/internal/session"
	"github.com/tomtom215/cartographus/internal/video"
	"github.com/tomtom215/cartographus/internal/wsfabric"
)

// Handler contains the dependencies every spec §6 HTTP route needs.
// Handler methods are split across files the way the teacher splits its
// handler surface by concern:
//   - handlers.go: Handler struct, constructor (this file)
//   - handlers_core.go: session/scan/transaction/video/token routes
//   - handlers_health.go: liveness routes
//   - handlers_ws.go: websocket upgrade and socket-event dispatch
type Handler struct {
	engine     *session.Engine
	queue      *video.Queue
	catalog    *catalog.Catalog
	dispatcher *adminplane.Dispatcher
	hub        *wsfabric.Hub
	drainer    *offline.Drainer

	adminVerifier *auth.AdminVerifier
	jwtManager    *auth.JWTManager

	cfg       *config.Config
	logger    zerolog.Logger
	startTime time.Time
}

// NewHandler creates an API handler wired to the session engine, video
// queue, token catalog, admin command dispatcher, and websocket hub that
// make up one running orchestrator instance.
func NewHandler(
	engine *session.Engine,
	queue *video.Queue,
	cat *catalog.Catalog,
	dispatcher *adminplane.Dispatcher,
	hub *wsfabric.Hub,
	adminVerifier *auth.AdminVerifier,
	jwtManager *auth.JWTManager,
	cfg *config.Config,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		engine:        engine,
		queue:         queue,
		catalog:       cat,
		dispatcher:    dispatcher,
		hub:           hub,
		drainer:       offline.NewDrainer(engine, queue, cat, logger),
		adminVerifier: adminVerifier,
		jwtManager:    jwtManager,
		cfg:           cfg,
		logger:        logger,
		startTime:     time.Now(),
	}
}
