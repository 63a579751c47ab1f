// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package adminplane implements the admin & GM command plane (spec §4.5):
a closed catalog of gm:command actions, each validated and dispatched to
internal/session.Engine or internal/video.Queue. It mirrors the teacher's
router-to-handler dispatch in internal/api, moved one layer down onto the
socket protocol — Dispatch is transport-agnostic so internal/wsfabric and
internal/api's HTTP fallback route can both call it.
*/
package adminplane
