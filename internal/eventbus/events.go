// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package eventbus

// Domain event subjects published by internal/session and internal/video.
// internal/wsfabric subscribes to these and performs the domain-to-wire
// translation in SPEC_FULL.md §4.2's mapping table; the engines never
// reference the fabric directly. Named after the domain event itself
// rather than namespaced under "domain." — these are also the literal
// strings internal/session and internal/video pass to publish().
const (
	SubjectSessionCreated       = "session:created"
	SubjectSessionUpdated       = "session:updated"
	SubjectTransactionAccepted  = "transaction:accepted"
	SubjectTransactionDuplicate = "transaction:duplicate"
	SubjectTransactionRejected  = "transaction:rejected"
	SubjectTransactionDeleted   = "transaction:deleted"
	SubjectScoreUpdated         = "score:updated"
	SubjectScoresReset          = "scores:reset"
	SubjectSyncFull             = "sync:full"
	SubjectGroupCompleted       = "group:completed"
	SubjectDeviceConnected      = "device:connected"
	SubjectDeviceDisconnected   = "device:disconnected"
	SubjectDeviceReset          = "device:reset"
	SubjectVideoStarted         = "video:started"
	SubjectVideoPaused          = "video:paused"
	SubjectVideoResumed         = "video:resumed"
	SubjectVideoCompleted       = "video:completed"
	SubjectVideoFailed          = "video:failed"
	SubjectVideoIdle            = "video:idle"
	SubjectServiceError         = "error"
)

// Envelope is the payload carried on every domain subject. SessionID scopes
// fan-out to the right session room; Kind lets a single subscriber handle
// every subject with one switch if it wants to.
type Envelope struct {
	Kind      string      `json:"kind"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data"`
}
