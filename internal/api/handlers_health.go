// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status string        `json:"status"`
	Uptime time.Duration `json:"uptimeSeconds"`
}

// Health is a bare liveness probe: if the process answers, it's up.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, r, http.StatusOK, healthResponse{
		Status: "ok",
		Uptime: time.Since(h.startTime) / time.Second,
	})
}

type stateStatusResponse struct {
	Online         bool `json:"online"`
	SessionActive  bool `json:"sessionActive"`
	VideoDegraded  bool `json:"videoDegraded"`
	ConnectedCount int  `json:"connectedDevices"`
}

// StateStatus is the richer status check GM clients poll to decide whether
// to stay in offline mode (spec §4.4): whether a session is running and
// whether the video subsystem has fallen back to degraded mode.
func (h *Handler) StateStatus(w http.ResponseWriter, r *http.Request) {
	sess := h.engine.CurrentSession(r.Context())
	snap := h.queue.Snapshot(r.Context())

	resp := stateStatusResponse{
		Online:         true,
		SessionActive:  sess != nil,
		VideoDegraded:  snap.Degraded,
		ConnectedCount: h.hub.ClientCount(),
	}
	WriteJSON(w, r, http.StatusOK, resp)
}
