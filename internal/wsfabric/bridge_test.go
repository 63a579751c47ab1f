// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package wsfabric

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cartographus/internal/config"
	"github.com/tomtom215/cartographus/internal/eventbus"
)

func newTestBridge(t *testing.T) (*Hub, *eventbus.Bus, *Bridge) {
	t.Helper()

	srv, err := eventbus.StartEmbedded(t.TempDir())
	if err != nil {
		t.Fatalf("StartEmbedded() error = %v", err)
	}
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	bus, err := eventbus.Connect(config.EventsConfig{Enabled: true, EmbeddedServer: true}, srv, zerolog.Nop())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(bus.Close)

	h := newTestHub(t)
	reg := eventbus.NewRegistry(bus, zerolog.Nop())
	bridge := NewBridge(h, reg)
	if err := bridge.Attach(); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	t.Cleanup(func() { _ = bridge.Detach() })

	return h, bus, bridge
}

func TestBridgeRelaysTransactionToSessionRoom(t *testing.T) {
	h, bus, _ := newTestBridge(t)

	c := fakeClient("GM_A")
	h.Register <- c
	time.Sleep(10 * time.Millisecond)
	h.Join(c, RoomSession("sess1"))

	pub := eventbus.NewPublisher(bus)
	if err := pub.Publish(eventbus.SubjectTransactionAccepted, eventbus.Envelope{
		Kind:      eventbus.SubjectTransactionAccepted,
		SessionID: "sess1",
		Data:      map[string]string{"tokenId": "jaw001"},
	}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case frame := <-c.send:
		if frame.Event != "transaction:new" {
			t.Errorf("Event = %q, want transaction:new", frame.Event)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for relayed frame")
	}
}

func TestBridgeRelaysScoreUpdateToGMRoom(t *testing.T) {
	h, bus, _ := newTestBridge(t)

	c := fakeClient("GM_A")
	h.Register <- c
	time.Sleep(10 * time.Millisecond)
	h.Join(c, RoomGM)

	pub := eventbus.NewPublisher(bus)
	if err := pub.Publish(eventbus.SubjectScoreUpdated, eventbus.Envelope{
		Kind: eventbus.SubjectScoreUpdated,
		Data: map[string]int{"score": 500},
	}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case frame := <-c.send:
		if frame.Event != "score:updated" {
			t.Errorf("Event = %q, want score:updated", frame.Event)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for relayed frame")
	}
}
