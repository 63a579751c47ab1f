// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package video implements the at-most-one-video-at-a-time queue and its
conflict arbiter. It owns no HTTP transport of its own: internal/api and
internal/wsfabric call its exported methods, and it publishes domain
events through internal/eventbus the same way internal/session does.

Like internal/session, the queue is a single-writer actor: every exported
method hands a closure to Serve's command loop and blocks for the result,
so playback state never needs a mutex. The play RPC runs outside the
loop (in its own goroutine) since it can block for the length of an HTTP
round trip; its result is delivered back through the same command
channel. Pause, resume, stop and status RPCs run on the loop goroutine
itself.
*/
package video
