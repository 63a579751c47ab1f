// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package models

import "time"

// DeviceType distinguishes authoritative GM stations from fire-and-forget
// player scanners.
type DeviceType string

const (
	DeviceGM     DeviceType = "gm"
	DevicePlayer DeviceType = "player"
)

// ConnectionStatus is the current reachability of a DeviceConnection.
type ConnectionStatus string

const (
	ConnConnected    ConnectionStatus = "connected"
	ConnDisconnected ConnectionStatus = "disconnected"
	ConnReconnecting ConnectionStatus = "reconnecting"
)

// SyncState tracks how far a device's client state has drifted from the
// server's authoritative view.
type SyncState struct {
	LastSyncTime   time.Time `json:"lastSyncTime"`
	PendingUpdates int       `json:"pendingUpdates"`
	SyncErrors     int       `json:"syncErrors"`
}

// DeviceConnection is an active or recently active socket attachment. The
// same ID may be reused only after the prior connection is Disconnected —
// a connected ID is a collision, not a reconnect.
type DeviceConnection struct {
	ID               string           `json:"id"`
	Type             DeviceType       `json:"type"`
	ConnectionStatus ConnectionStatus `json:"connectionStatus"`
	ConnectionTime   time.Time        `json:"connectionTime"`
	LastHeartbeat    time.Time        `json:"lastHeartbeat"`
	IPAddress        string           `json:"ipAddress,omitempty"`
	SyncState        SyncState        `json:"syncState"`
}

// IsGM reports whether this connection is an authoritative GM station.
func (d *DeviceConnection) IsGM() bool {
	return d != nil && d.Type == DeviceGM
}
