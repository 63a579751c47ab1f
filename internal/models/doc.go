// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package models defines the domain entities shared across the orchestrator:
the session and transaction log, derived team scores, the static token
catalog, the video queue, and device connections.

These types are the wire shapes too: JSON field names here are exactly what
clients (GM browsers, player scanners, admin UI) see over HTTP and the
websocket event fabric. Enums (session status, transaction status, video
item status, connection status) are string-typed rather than iota ints
because they cross the wire verbatim.

See Also

  - internal/session: owns and mutates Session/Transaction/TeamScore
  - internal/video: owns and mutates VideoQueueItem
  - internal/wsfabric: reads DeviceConnection, wraps these types for fan-out
  - internal/storage: persists Session/TeamScore as JSON
  - internal/offline: the reconnect-drain batch types and processor
*/
package models
