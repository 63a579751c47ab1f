// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package wsfabric

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cartographus/internal/metrics"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = h.Serve(ctx) }()
	time.Sleep(10 * time.Millisecond)
	return h
}

// fakeClient builds a *Client with a send channel but no real socket,
// enough to exercise Hub room membership and delivery.
func fakeClient(id string) *Client {
	return &Client{
		id:       clientIDCounter.Add(1),
		DeviceID: id,
		send:     make(chan Frame, 8),
	}
}

func TestRoomScopedDelivery(t *testing.T) {
	h := newTestHub(t)

	a := fakeClient("GM_A")
	b := fakeClient("GM_B")
	h.Register <- a
	h.Register <- b
	time.Sleep(10 * time.Millisecond)

	h.Join(a, RoomTeam("001"))
	// b does not join team:001

	h.Broadcast(RoomTeam("001"), "score:updated", map[string]int{"score": 10})
	time.Sleep(20 * time.Millisecond)

	select {
	case <-a.send:
	default:
		t.Error("client in room did not receive broadcast")
	}
	select {
	case <-b.send:
		t.Error("client outside room received broadcast meant for it")
	default:
	}
}

func TestGlobalBroadcastReachesEveryClient(t *testing.T) {
	h := newTestHub(t)

	a := fakeClient("GM_A")
	b := fakeClient("GM_B")
	h.Register <- a
	h.Register <- b
	time.Sleep(10 * time.Millisecond)

	h.Broadcast(RoomGlobal, "session:update", nil)
	time.Sleep(20 * time.Millisecond)

	for _, c := range []*Client{a, b} {
		select {
		case <-c.send:
		default:
			t.Errorf("client %s did not receive global broadcast", c.DeviceID)
		}
	}
}

func TestJoinGMOrderAndMembership(t *testing.T) {
	h := newTestHub(t)
	c := fakeClient("GM_A")
	h.Register <- c
	time.Sleep(10 * time.Millisecond)

	JoinGM(h, c, "sess1", []string{"001", "002"})

	for _, room := range []string{RoomDevice("GM_A"), RoomGM, RoomTeam("001"), RoomTeam("002"), RoomSession("sess1")} {
		if h.RoomSize(room) != 1 {
			t.Errorf("RoomSize(%q) = %d, want 1", room, h.RoomSize(room))
		}
	}
}

func TestRemoveClientClearsRoomMembership(t *testing.T) {
	h := newTestHub(t)
	c := fakeClient("GM_A")
	h.Register <- c
	time.Sleep(10 * time.Millisecond)

	h.Join(c, RoomGM)
	h.Unregister <- c
	time.Sleep(20 * time.Millisecond)

	if h.RoomSize(RoomGM) != 0 {
		t.Errorf("RoomSize(gm) = %d after unregister, want 0", h.RoomSize(RoomGM))
	}
	if h.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d after unregister, want 0", h.ClientCount())
	}
}

func TestConnectionGaugeTracksRegisterAndUnregister(t *testing.T) {
	h := newTestHub(t)
	before := testutil.ToFloat64(metrics.WSConnections)

	c := fakeClient("GM_A")
	h.Register <- c
	time.Sleep(10 * time.Millisecond)
	if got := testutil.ToFloat64(metrics.WSConnections); got != before+1 {
		t.Errorf("WSConnections after register = %v, want %v", got, before+1)
	}

	h.Unregister <- c
	time.Sleep(10 * time.Millisecond)
	if got := testutil.ToFloat64(metrics.WSConnections); got != before {
		t.Errorf("WSConnections after unregister = %v, want %v", got, before)
	}
}

func TestBroadcastRecordsMessagesSent(t *testing.T) {
	h := newTestHub(t)
	c := fakeClient("GM_A")
	h.Register <- c
	time.Sleep(10 * time.Millisecond)

	before := testutil.ToFloat64(metrics.WSMessagesSent)
	h.Broadcast(RoomGlobal, "session:update", nil)
	time.Sleep(20 * time.Millisecond)

	if got := testutil.ToFloat64(metrics.WSMessagesSent); got != before+1 {
		t.Errorf("WSMessagesSent = %v, want %v", got, before+1)
	}
}
