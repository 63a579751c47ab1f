// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"net/http"

	"github.com/tomtom215/cartographus/internal/offline"
	"github.com/tomtom215/cartographus/internal/wsfabric"
)

// --- POST /api/offline/drain ---

type offlineDrainRequest struct {
	DeviceID string          `json:"deviceId" validate:"required"`
	Entries  []offline.Entry `json:"entries" validate:"required,dive"`
}

// OfflineDrain processes a client's queued playerScanLog/gmTransaction
// entries on reconnect (spec §4.4) and replies with the resulting
// processed/failed tally. It is unauthenticated for the same reason /api/scan
// is: a player scanner's drained entries carry no credential, and
// ProcessScan's own checks are the authoritative gate for every entry,
// GM-originated or not.
//
// A non-empty batch always ends with a sync:full broadcast to the
// submitting device, carrying forward whatever was rebuilt from the drain
// (spec §4.4 "Post-drain sync"), with reconnection true since a drain only
// ever follows a reconnect.
func (h *Handler) OfflineDrain(w http.ResponseWriter, r *http.Request) {
	var req offlineDrainRequest
	if apiErr := decodeBody(r, &req); apiErr != nil {
		WriteError(w, r, apiErr)
		return
	}

	if len(req.Entries) == 0 {
		WriteJSON(w, r, http.StatusOK, offline.DrainSummary{})
		return
	}

	summary := h.drainer.Drain(r.Context(), req.Entries)

	payload := h.engine.SyncPayload(r.Context(), req.DeviceID, true)
	h.hub.Broadcast(wsfabric.RoomDevice(req.DeviceID), "sync:full", payload)

	WriteJSON(w, r, http.StatusOK, summary)
}
