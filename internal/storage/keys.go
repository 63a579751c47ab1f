// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package storage

import "fmt"

// Persisted key names (spec §6).
const (
	KeySessionCurrent = "session:current"
	KeyGameStateCurrent = "gameState:current"
	KeyOfflineQueue   = "offlineQueue" // legacy key, kept for compatibility
)

// SessionKey returns the key a specific session's durable record is stored
// under: session:<id>.
func SessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}
