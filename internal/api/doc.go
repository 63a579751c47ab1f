// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package api implements the orchestrator's external interface: a small HTTP
surface plus one websocket upgrade route, rather than the broad REST API
this package name once implied.

Routes:

  - POST /api/admin/auth: exchange the shared admin password for a GM
    bearer token
  - POST /api/scan: fire-and-forget player-scanner submission, unauthenticated
  - POST /api/transaction/submit: bearer-protected GM scan submission,
    an HTTP fallback for the socket transaction:submit event
  - POST /api/session, PUT /api/session: create and drive the session
    lifecycle
  - GET /api/state, GET /api/state/status: full state snapshot and a
    lighter liveness/offline-mode probe
  - GET /api/tokens: the static token catalog
  - POST /api/video/control: GM control of the video queue & conflict arbiter
  - GET /health: bare process liveness
  - GET /ws: upgrade to the real-time socket fabric

Every error response shares one shape, {error, message, details?}, keyed
off the closed internal/apierr.Kind taxonomy; there is no shared success
envelope, since each route's success body is its own ad hoc shape.

See Also:

  - internal/auth: admin password verification and JWT issuance/validation
  - internal/session: the session/transaction engine these routes drive
  - internal/video: the video queue & conflict arbiter
  - internal/wsfabric: the socket room fabric the /ws route enrolls into
  - internal/adminplane: the gm:command action catalog dispatched from
    the socket's gm:command event (VideoControl and SessionUpdate call
    the video queue and session engine directly)
*/
package api
