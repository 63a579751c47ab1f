// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package wsfabric

import (
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cartographus/internal/config"
	"github.com/tomtom215/cartographus/internal/metrics"
)

var clientIDCounter atomic.Uint64

// Client is one connected socket: a device (player/GM) paired with its
// own reader/writer goroutines. Adapted directly from the teacher's
// internal/websocket.Client.
type Client struct {
	id           uint64
	DeviceID     string
	DeviceType   string // "gm" or "player", mirrors models.DeviceType
	hub          *Hub
	conn         *websocket.Conn
	send         chan Frame
	logger       zerolog.Logger
	cfg          config.RealtimeConfig
	onInbound    func(Frame)
	onDisconnect func()
}

// NewClient wires conn into hub with the given realtime timing config.
// onInbound is called for every frame the client sends (offline-queue
// drains, acks), onDisconnect once the socket closes for any reason
// (session disconnect bookkeeping). Either may be nil.
func NewClient(hub *Hub, conn *websocket.Conn, deviceID, deviceType string, cfg config.RealtimeConfig, logger zerolog.Logger, onInbound func(Frame), onDisconnect func()) *Client {
	return &Client{
		id:           clientIDCounter.Add(1),
		DeviceID:     deviceID,
		DeviceType:   deviceType,
		hub:          hub,
		conn:         conn,
		send:         make(chan Frame, bufferSize(cfg)),
		logger:       logger,
		cfg:          cfg,
		onInbound:    onInbound,
		onDisconnect: onDisconnect,
	}
}

func bufferSize(cfg config.RealtimeConfig) int {
	if cfg.OutboundBufferSize > 0 {
		return cfg.OutboundBufferSize
	}
	return 256
}

// ID returns the client's unique identifier, used for deterministic
// fan-out ordering.
func (c *Client) ID() uint64 { return c.id }

// Start begins the client's reader and writer goroutines.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister <- c
		_ = c.conn.Close()
		if c.onDisconnect != nil {
			c.onDisconnect()
		}
	}()

	c.conn.SetReadLimit(c.cfg.MaxMessageBytes)
	pongWait := c.cfg.PongWait
	if pongWait <= 0 {
		pongWait = 60 * time.Second
	}
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var frame Frame
		if err := c.conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				metrics.WSErrors.WithLabelValues("read").Inc()
				c.logger.Error().Err(err).Msg("unexpected websocket close")
			}
			return
		}
		metrics.WSMessagesReceived.Inc()
		if c.onInbound != nil {
			c.onInbound(frame)
		}
	}
}

func (c *Client) writePump() {
	pingInterval := c.cfg.PingInterval
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	writeWait := c.cfg.WriteWait
	if writeWait <= 0 {
		writeWait = 10 * time.Second
	}

	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("set write deadline")
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(frame); err != nil {
				metrics.WSErrors.WithLabelValues("write").Inc()
				c.logger.Error().Err(err).Msg("write frame")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("set write deadline for ping")
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
