// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package session

import (
	"context"

	"github.com/tomtom215/cartographus/internal/apierr"
	"github.com/tomtom215/cartographus/internal/models"
	"github.com/tomtom215/cartographus/internal/video"
	"github.com/tomtom215/cartographus/internal/videoplayer"
)

// AddDeviceToSession registers a device connection against the current
// session. A collision on a currently-connected device ID is rejected;
// reconnection of a previously-disconnected ID is allowed (spec §4.5). The
// returned bool reports whether this is such a reconnection, so callers
// can mark the sync:full that follows as a protocol-level recovery rather
// than a fresh identify (spec §4.4).
func (e *Engine) AddDeviceToSession(ctx context.Context, device *models.DeviceConnection) (bool, error) {
	var outErr error
	var reconnected bool

	e.do(func() {
		if e.session == nil {
			outErr = errNoSession
			return
		}
		if e.session.Devices == nil {
			e.session.Devices = make(map[string]*models.DeviceConnection)
		}

		if existing, ok := e.session.Devices[device.ID]; ok {
			if existing.ConnectionStatus == models.ConnConnected {
				outErr = apierr.New(apierr.KindDeviceIDCollision, "device ID already connected", device.ID)
				return
			}
			reconnected = true
		}

		e.session.Devices[device.ID] = device
		e.publish("device:connected", device)
	})

	return reconnected, outErr
}

// MarkDeviceDisconnected flips a device's status without removing its
// record, so its ID may be reused by a genuine reconnect.
func (e *Engine) MarkDeviceDisconnected(ctx context.Context, deviceID string) error {
	var outErr error

	e.do(func() {
		if e.session == nil {
			outErr = errNoSession
			return
		}
		dev, ok := e.session.Devices[deviceID]
		if !ok {
			return
		}
		dev.ConnectionStatus = models.ConnDisconnected
		e.publish("device:disconnected", map[string]string{"deviceId": deviceID})
	})

	return outErr
}

// DeviceScannedTokens returns the list of token IDs deviceID has scanned
// in the current session — the device-scoped view sync:full requires
// (spec §4.4: "GM_A must never receive GM_B's list").
func (e *Engine) DeviceScannedTokens(ctx context.Context, deviceID string) []string {
	var out []string
	e.do(func() {
		out = e.deviceScannedTokensLocked(deviceID)
	})
	return out
}

// deviceScannedTokensLocked is the locked implementation shared by
// DeviceScannedTokens and syncPayloadLocked. Must only be called from the
// single-writer goroutine.
func (e *Engine) deviceScannedTokensLocked(deviceID string) []string {
	if e.session == nil || deviceID == "" {
		return nil
	}
	set := e.session.Metadata.ScannedTokensByDevice[deviceID]
	var out []string
	for tok := range set {
		out = append(out, tok)
	}
	return out
}

// ResetDevice clears deviceID's scanned-token set so it may rescan tokens
// it already submitted, without touching any transaction already scored
// (spec §4.5 device:reset).
func (e *Engine) ResetDevice(ctx context.Context, deviceID string) error {
	var outErr error

	e.do(func() {
		if e.session == nil {
			outErr = errNoSession
			return
		}
		delete(e.session.Metadata.ScannedTokensByDevice, deviceID)
		if err := e.persistLocked(ctx); err != nil {
			outErr = apierr.Internal("failed to persist device reset")
			return
		}
		e.publish("device:reset", map[string]string{"deviceId": deviceID})
	})

	return outErr
}

// SetVideoSource wires the video queue and external player client so
// sync:full can report videoStatus and systemStatus.vlc (spec §4.4). Both
// are optional; call once during startup wiring, before Serve starts
// accepting traffic.
func (e *Engine) SetVideoSource(queue *video.Queue, player *videoplayer.Client) {
	e.videoQueue = queue
	e.player = player
}

// videoStatusPayload mirrors video.State for the sync:full wire shape.
type videoStatusPayload struct {
	Current  *models.VideoQueueItem  `json:"current"`
	Pending  []models.VideoQueueItem `json:"pending"`
	Degraded bool                    `json:"degraded"`
}

// systemStatusPayload reports orchestrator and external-player health
// (spec §4.4 "systemStatus{orchestrator, vlc}"). The orchestrator side is
// always "ok": if this code is running the engine is already serving
// commands, so there is no separate degraded state to report for it.
type systemStatusPayload struct {
	Orchestrator string `json:"orchestrator"`
	VLC          string `json:"vlc"`
}

func (e *Engine) systemStatusLocked() systemStatusPayload {
	vlc := "ok"
	if e.player == nil || !e.player.Configured() || e.player.Degraded() {
		vlc = "degraded"
	}
	return systemStatusPayload{Orchestrator: "ok", VLC: vlc}
}

func (e *Engine) videoStatusLocked(ctx context.Context) videoStatusPayload {
	if e.videoQueue == nil {
		return videoStatusPayload{Degraded: true}
	}
	snap := e.videoQueue.Snapshot(ctx)
	return videoStatusPayload{
		Current:  snap.Current,
		Pending:  snap.Pending,
		Degraded: snap.Degraded,
	}
}

// syncPayload is the sync:full wire payload shape (spec §4.4 "Must
// contain"). Environment fields are always present with safe defaults
// since bluetooth/audio/lighting controls are out of core scope (spec
// §4.5).
type syncPayload struct {
	Session             *models.Session            `json:"session"`
	Scores              []*models.TeamScore        `json:"scores"`
	RecentTransactions  []models.Transaction       `json:"recentTransactions"`
	VideoStatus         videoStatusPayload         `json:"videoStatus"`
	Devices             []*models.DeviceConnection `json:"devices"`
	SystemStatus        systemStatusPayload        `json:"systemStatus"`
	DeviceScannedTokens []string                   `json:"deviceScannedTokens"`
	Reconnection        bool                       `json:"reconnection"`
	Environment         map[string]string          `json:"environment"`
}

// syncPayloadLocked builds a syncPayload from the current in-memory state
// for deviceID. deviceID may be empty for a session-wide broadcast (e.g.
// an admin-triggered scores:reset), in which case deviceScannedTokens is
// reported empty rather than scoped to any one device. Must only be
// called from the single-writer goroutine.
func (e *Engine) syncPayloadLocked(ctx context.Context, deviceID string, reconnection bool) syncPayload {
	scores := make([]*models.TeamScore, 0, len(e.scores))
	for _, s := range e.scores {
		cp := *s
		scores = append(scores, &cp)
	}

	var recent []models.Transaction
	if e.session != nil {
		n := len(e.session.Transactions)
		start := 0
		if n > 50 {
			start = n - 50
		}
		recent = append(recent, e.session.Transactions[start:]...)
	}

	var devices []*models.DeviceConnection
	if e.session != nil {
		for _, d := range e.session.Devices {
			cp := *d
			devices = append(devices, &cp)
		}
	}

	return syncPayload{
		Session:             e.session,
		Scores:              scores,
		RecentTransactions:  recent,
		VideoStatus:         e.videoStatusLocked(ctx),
		Devices:             devices,
		SystemStatus:        e.systemStatusLocked(),
		DeviceScannedTokens: e.deviceScannedTokensLocked(deviceID),
		Reconnection:        reconnection,
		Environment: map[string]string{
			"bluetooth": "unavailable",
			"audio":     "unavailable",
			"lighting":  "unavailable",
		},
	}
}

// SyncPayload returns the sync:full payload for deviceID, requested either
// on GM identify or after an offline-queue drain. reconnection should
// reflect actual protocol-level recovery (spec §4.4): true when this sync
// follows a reconnect of a previously-known device, false for a brand-new
// identify or an admin-triggered resync.
func (e *Engine) SyncPayload(ctx context.Context, deviceID string, reconnection bool) interface{} {
	var out syncPayload
	e.do(func() {
		out = e.syncPayloadLocked(ctx, deviceID, reconnection)
	})
	return out
}
