// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package wsfabric is the real-time event fabric: a room-scoped websocket
hub plus the bridge that translates internal/eventbus domain events into
wire frames. It is the only package that knows both sides — internal/
session and internal/video publish domain events without any knowledge
of sockets, rooms, or wire shape; wsfabric is the single place that
performs the domain-to-wire translation.

The Hub and Client types are adapted from the teacher's
internal/websocket package (same reader/writer goroutine-pair-per-
connection split, same ping/pong keepalive), generalized from a single
global broadcast channel to per-room membership so GM, session, device,
and team scoping can coexist on one hub.

The fabric is also the owner of the initialization state machine
(UNINITIALIZED -> SERVICES_READY -> HANDLERS_READY -> LISTENING): domain
listeners must attach before client sockets are accepted, or early
connections race past the bridge and miss events.
*/
package wsfabric
