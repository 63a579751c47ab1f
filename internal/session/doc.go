// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package session implements the session & transaction engine: the single
authoritative decision point for every GM scan, and the owner of session
lifecycle and derived team scores.

Engine is a single-writer actor: every mutating method sends a closure
onto an internal command channel and blocks for its result, so all session
state is touched by exactly one goroutine (Engine.Serve), matching spec
§5's "single-writer per session" concurrency model without an explicit
lock. Engine implements suture.Service so it can be supervised and
restarted by cmd/server's supervisor tree; a restart resumes from the last
persisted snapshot in internal/storage.

Engine never imports internal/wsfabric. It only publishes domain events
through an eventbus.Publisher — the one-way dependency spec §9 calls for.
*/
package session
