// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package wsfabric

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cartographus/internal/metrics"
)

// Hub maintains every connected socket and its room memberships, and
// fans out Frames to the right rooms. Adapted from the teacher's
// internal/websocket.Hub: same register/unregister channel pair plus a
// mutex-protected membership map, generalized from one global broadcast
// channel to scoped rooms.
type Hub struct {
	logger zerolog.Logger

	mu      sync.RWMutex
	clients map[*Client]bool
	rooms   map[string]map[*Client]bool

	broadcast  chan roomFrame
	Register   chan *Client
	Unregister chan *Client
}

type roomFrame struct {
	room  string
	frame Frame
}

// NewHub constructs a Hub. Call Serve (directly, or via a suture tree) to
// start its broadcast loop before connections arrive.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		logger:     logger,
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		broadcast:  make(chan roomFrame, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Serve processes registration and broadcast traffic until ctx is
// cancelled. Satisfies suture.Service.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.closeAllClients()
			return nil
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case rf := <-h.broadcast:
			h.deliver(rf)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()
	metrics.WSConnections.Inc()
	h.logger.Info().Uint64("clientId", client.id).Msg("websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	for room, members := range h.rooms {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	close(client.send)
	metrics.WSConnections.Dec()
	h.logger.Info().Uint64("clientId", client.id).Msg("websocket client disconnected")
}

// Join adds client to room. Safe to call concurrently; used by the
// connection handler to implement the fixed GM join order (spec §4.2).
func (h *Hub) Join(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]bool)
		h.rooms[room] = members
	}
	members[client] = true
}

// Leave removes client from room.
func (h *Hub) Leave(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Broadcast queues a Frame for delivery to room (RoomGlobal sends to
// every connected socket). Never blocks the caller: a full queue drops
// the frame and logs a warning, matching the teacher's backpressure
// policy for slow consumers.
func (h *Hub) Broadcast(room, event string, data interface{}) {
	select {
	case h.broadcast <- roomFrame{room: room, frame: NewFrame(event, data)}:
	default:
		metrics.WSErrors.WithLabelValues("broadcast_queue_full").Inc()
		h.logger.Warn().Str("room", room).Str("event", event).Msg("broadcast queue full, dropping frame")
	}
}

func (h *Hub) deliver(rf roomFrame) {
	h.mu.Lock()
	var targets []*Client
	if rf.room == RoomGlobal {
		targets = make([]*Client, 0, len(h.clients))
		for c := range h.clients {
			targets = append(targets, c)
		}
	} else if members, ok := h.rooms[rf.room]; ok {
		targets = make([]*Client, 0, len(members))
		for c := range members {
			targets = append(targets, c)
		}
	}
	h.mu.Unlock()

	// DETERMINISM: sort by client ID so fan-out order is reproducible in
	// tests, matching the teacher's broadcastToClients.
	sort.Slice(targets, func(i, j int) bool { return targets[i].id < targets[j].id })

	var stuck []*Client
	for _, client := range targets {
		select {
		case client.send <- rf.frame:
			metrics.WSMessagesSent.Inc()
		default:
			stuck = append(stuck, client)
			metrics.WSErrors.WithLabelValues("send_queue_full").Inc()
		}
	}

	// removeClient takes h.mu itself, so it runs after the lock above
	// is released and outside this loop — deliver runs on the same
	// goroutine as Serve's select, so sending to h.Unregister here would
	// deadlock.
	for _, client := range stuck {
		h.logger.Warn().Uint64("clientId", client.id).Msg("client outbound queue full, disconnecting")
		h.removeClient(client)
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		metrics.WSConnections.Dec()
	}
	h.clients = make(map[*Client]bool)
	h.rooms = make(map[string]map[*Client]bool)
}

// ClientCount returns the number of currently connected sockets.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomSize returns the number of sockets currently in room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
