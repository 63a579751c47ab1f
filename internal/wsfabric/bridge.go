// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package wsfabric

import (
	"github.com/tomtom215/cartographus/internal/eventbus"
)

// Bridge subscribes to the domain subjects internal/session and
// internal/video emit and republishes each as a wire Frame on the room
// the mapping table (spec §4.2) names. transaction:deleted is not
// subscribed and is not relayed to sockets. It owns no lifecycle of its own
// beyond the eventbus.Registry it wraps: Attach must run after
// ServicesReady and before client sockets are accepted (HandlersReady),
// and Detach must run before sockets are drained on shutdown — the
// "domain listeners removed first" half of the cleanup symmetry rule.
type Bridge struct {
	hub *Hub
	reg *eventbus.Registry
}

// NewBridge returns a Bridge that will fan domain events from reg out
// through hub once Attach is called.
func NewBridge(hub *Hub, reg *eventbus.Registry) *Bridge {
	return &Bridge{hub: hub, reg: reg}
}

// Attach subscribes every domain-to-wire translation. Call exactly once,
// before accepting client sockets.
func (b *Bridge) Attach() error {
	subscriptions := []struct {
		subject string
		handle  eventbus.Handler
	}{
		{eventbus.SubjectSessionCreated, b.relaySessionUpdate},
		{eventbus.SubjectSessionUpdated, b.relaySessionUpdate},
		{eventbus.SubjectTransactionAccepted, b.relayTransaction("transaction:new")},
		{eventbus.SubjectTransactionDuplicate, b.relayTransaction("transaction:new")},
		{eventbus.SubjectTransactionRejected, b.relayTransaction("transaction:new")},
		{eventbus.SubjectScoreUpdated, b.relayGM("score:updated")},
		{eventbus.SubjectGroupCompleted, b.relayGM("group:completed")},
		{eventbus.SubjectScoresReset, b.relayScoresReset},
		{eventbus.SubjectSyncFull, b.relaySyncFull},
		{eventbus.SubjectDeviceConnected, b.relayGM("device:connected")},
		{eventbus.SubjectDeviceDisconnected, b.relayGM("device:disconnected")},
		{eventbus.SubjectDeviceReset, b.relayGM("device:reset")},
		{eventbus.SubjectVideoStarted, b.relayGM("video:status")},
		{eventbus.SubjectVideoPaused, b.relayGM("video:status")},
		{eventbus.SubjectVideoResumed, b.relayGM("video:status")},
		{eventbus.SubjectVideoCompleted, b.relayGM("video:status")},
		{eventbus.SubjectVideoFailed, b.relayGM("video:status")},
		{eventbus.SubjectVideoIdle, b.relayGM("video:status")},
		{eventbus.SubjectServiceError, b.relayError},
	}

	for _, s := range subscriptions {
		if err := b.reg.Subscribe(s.subject, s.handle); err != nil {
			return err
		}
	}
	return nil
}

// Detach unsubscribes every domain listener. Idempotent.
func (b *Bridge) Detach() error {
	return b.reg.Cleanup()
}

func (b *Bridge) relaySessionUpdate(_ string, env eventbus.Envelope) {
	b.hub.Broadcast(RoomGlobal, "session:update", env.Data)
}

// relayTransaction returns a handler that fans a transaction event out to
// its owning session room only — spec §4.2 scopes transaction:new to
// session:<id>, never global.
func (b *Bridge) relayTransaction(wireEvent string) eventbus.Handler {
	return func(_ string, env eventbus.Envelope) {
		if env.SessionID == "" {
			return
		}
		b.hub.Broadcast(RoomSession(env.SessionID), wireEvent, map[string]interface{}{"transaction": env.Data})
	}
}

// relayGM returns a handler that fans a domain event straight to the gm
// room under wireEvent, unwrapped.
func (b *Bridge) relayGM(wireEvent string) eventbus.Handler {
	return func(_ string, env eventbus.Envelope) {
		b.hub.Broadcast(RoomGM, wireEvent, env.Data)
	}
}

// relayScoresReset is always paired with sync:full and session-scoped to
// prevent cross-session bleed (spec §4.2).
func (b *Bridge) relayScoresReset(_ string, env eventbus.Envelope) {
	if env.SessionID == "" {
		return
	}
	b.hub.Broadcast(RoomSession(env.SessionID), "scores:reset", env.Data)
}

func (b *Bridge) relaySyncFull(_ string, env eventbus.Envelope) {
	if env.SessionID == "" {
		return
	}
	b.hub.Broadcast(RoomSession(env.SessionID), "sync:full", env.Data)
}

func (b *Bridge) relayError(_ string, env eventbus.Envelope) {
	b.hub.Broadcast(RoomGlobal, "error", env.Data)
}
