// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package services provides suture.Service wrappers for components whose
natural lifecycle isn't already Serve(ctx) error.

internal/session.Engine, internal/video.Queue, and internal/wsfabric.Hub
all expose Serve(ctx) error directly and are added to the tree with no
wrapper at all. The two lifecycle shapes that don't match suture's
pattern out of the box live here:

HTTPServerService adapts *http.Server's ListenAndServe/Shutdown split
into Serve, draining in-flight connections with a configurable timeout
on shutdown.

EventBusService adapts the embedded NATS server's already-started,
explicit-Shutdown(ctx) lifecycle (internal/eventbus.StartEmbedded runs
synchronously before the service is even constructed) into Serve: it has
nothing to do until ctx is cancelled, then it drains the server.

# Usage Example

	tree, _ := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())

	httpSvc := services.NewHTTPServerService(httpServer, 10*time.Second)
	tree.AddAPIService(httpSvc)

	busSvc := services.NewEventBusService(embeddedServer, 10*time.Second)
	tree.AddMessagingService(busSvc)

	tree.AddMessagingService(hub)    // *wsfabric.Hub, Serve already matches
	tree.AddDataService(sessionEngine) // *session.Engine, likewise

# Error Handling

	nil       -> service stopped cleanly, will not restart
	error     -> service crashed, supervisor will restart per backoff policy
	ctx.Err() -> shutdown requested, normal termination
*/
package services
