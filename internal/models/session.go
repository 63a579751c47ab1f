// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package models

import "time"

// SessionStatus is the lifecycle state of a Session.
type SessionStatus string

const (
	SessionActive SessionStatus = "active"
	SessionPaused SessionStatus = "paused"
	SessionEnded  SessionStatus = "ended"
)

// Session is one game instance: the unit of aggregation for transactions
// and derived scores. At most one Session in a store has Status != ended.
type Session struct {
	ID           string                  `json:"id"`
	Name         string                  `json:"name"`
	StartTime    time.Time               `json:"startTime"`
	EndTime      *time.Time              `json:"endTime,omitempty"`
	Status       SessionStatus           `json:"status"`
	Teams        []string                `json:"teams"`
	Transactions []Transaction           `json:"transactions"`
	Devices      map[string]*DeviceConnection `json:"devices"`
	Metadata     SessionMetadata         `json:"metadata"`
}

// SessionMetadata carries bookkeeping the transaction engine needs that
// isn't itself a scored entity.
type SessionMetadata struct {
	// ScannedTokensByDevice enforces per-device duplicate detection: the
	// same token scanned twice by GM_A is a duplicate, but GM_B scanning
	// it for a different team is accepted. Keyed by deviceId.
	ScannedTokensByDevice map[string]map[string]bool `json:"scannedTokensByDevice"`
}

// NewSessionMetadata returns zero-value metadata ready for use.
func NewSessionMetadata() SessionMetadata {
	return SessionMetadata{ScannedTokensByDevice: make(map[string]map[string]bool)}
}

// HasScanned reports whether deviceId has already scored tokenId.
func (m SessionMetadata) HasScanned(deviceID, tokenID string) bool {
	set, ok := m.ScannedTokensByDevice[deviceID]
	if !ok {
		return false
	}
	return set[tokenID]
}

// MarkScanned records that deviceId has now scored tokenId. A repeat call
// for the same pair is a no-op.
func (m SessionMetadata) MarkScanned(deviceID, tokenID string) {
	set, ok := m.ScannedTokensByDevice[deviceID]
	if !ok {
		set = make(map[string]bool)
		m.ScannedTokensByDevice[deviceID] = set
	}
	set[tokenID] = true
}

// IsActive reports whether the session currently accepts scans.
func (s *Session) IsActive() bool {
	return s != nil && s.Status == SessionActive
}
