// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/cartographus/internal/apierr"
	"github.com/tomtom215/cartographus/internal/models"
	"github.com/tomtom215/cartographus/internal/wsfabric"
)

// upgrader accepts any origin: the socket layer is protected by the GM
// JWT check at handshake, not by same-origin policy, since player
// scanners and GM stations alike may be served from a different host
// than the orchestrator.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Socket upgrades an HTTP connection to a websocket and enrolls it in the
// real-time fabric (spec §4.2, §4.5). Handshake query params: deviceId,
// deviceType ("gm" or "player"), and, for GM connections, a bearer token.
// A GM socket without a valid token is rejected before the upgrade
// completes; a device ID already connected is rejected the same way.
func (h *Handler) Socket(w http.ResponseWriter, r *http.Request) {
	deviceID := r.URL.Query().Get("deviceId")
	deviceType := r.URL.Query().Get("deviceType")
	if deviceID == "" || (deviceType != string(models.DeviceGM) && deviceType != string(models.DevicePlayer)) {
		WriteError(w, r, apierr.New(apierr.KindValidation, "deviceId and deviceType are required"))
		return
	}

	if deviceType == string(models.DeviceGM) {
		token := r.URL.Query().Get("token")
		if token == "" {
			WriteError(w, r, apierr.New(apierr.KindAuthRequired, "gm sockets require a token"))
			return
		}
		if _, err := h.jwtManager.ValidateToken(token); err != nil {
			WriteError(w, r, apierr.New(apierr.KindAuthInvalid, "invalid token"))
			return
		}
	}

	device := &models.DeviceConnection{
		ID:               deviceID,
		Type:             models.DeviceType(deviceType),
		ConnectionStatus: models.ConnConnected,
		ConnectionTime:   time.Now().UTC(),
		LastHeartbeat:    time.Now().UTC(),
		IPAddress:        r.RemoteAddr,
	}
	reconnected, err := h.engine.AddDeviceToSession(r.Context(), device)
	if err != nil {
		if apiErr, ok := err.(*apierr.Error); ok && apiErr.Kind == apierr.KindDeviceIDCollision {
			WriteError(w, r, apiErr)
			return
		}
		// Any other failure (no session running yet) still allows the
		// socket; the device just isn't session-scoped until one starts.
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	var client *wsfabric.Client
	onInbound := func(frame wsfabric.Frame) {
		h.dispatchSocketFrame(client, deviceID, deviceType, reconnected, frame)
	}
	onDisconnect := func() {
		if err := h.engine.MarkDeviceDisconnected(context.Background(), deviceID); err != nil {
			h.logger.Error().Err(err).Str("deviceId", deviceID).Msg("mark device disconnected")
		}
	}

	client = wsfabric.NewClient(h.hub, conn, deviceID, deviceType, h.cfg.Realtime, h.logger, onInbound, onDisconnect)

	h.hub.Register <- client
	client.Start()

	sess := h.engine.CurrentSession(r.Context())
	sessionID := ""
	var teamIDs []string
	if sess != nil {
		sessionID = sess.ID
		teamIDs = sess.Teams
	}

	if deviceType == string(models.DeviceGM) {
		wsfabric.JoinGM(h.hub, client, sessionID, teamIDs)
	} else {
		wsfabric.JoinPlayer(h.hub, client, sessionID)
	}

	payload := h.engine.SyncPayload(r.Context(), deviceID, reconnected)
	h.hub.Broadcast(wsfabric.RoomDevice(deviceID), "sync:full", payload)
}

// dispatchSocketFrame routes one inbound wsfabric.Frame to the domain
// layer. Frame.Data arrives as interface{} from ReadJSON/json decoding, so
// it's re-marshaled to route it through the same typed decode path as the
// HTTP handlers use. reconnected carries forward whether this socket's
// identify was itself a protocol-level reconnect, for sync:request's
// sync:full reply (spec §4.4).
func (h *Handler) dispatchSocketFrame(client *wsfabric.Client, deviceID, deviceType string, reconnected bool, frame wsfabric.Frame) {
	raw, err := json.Marshal(frame.Data)
	if err != nil {
		h.logger.Error().Err(err).Str("event", frame.Event).Msg("re-marshal inbound socket frame")
		return
	}

	ctx := context.Background()

	switch frame.Event {
	case "heartbeat":
		h.handleHeartbeat(ctx, deviceID)

	case "sync:request":
		payload := h.engine.SyncPayload(ctx, deviceID, reconnected)
		h.hub.Broadcast(wsfabric.RoomDevice(deviceID), "sync:full", payload)

	case "state:request":
		sess := h.engine.CurrentSession(ctx)
		scores := h.engine.TeamScores(ctx)
		video := h.queue.Snapshot(ctx)
		h.hub.Broadcast(wsfabric.RoomDevice(deviceID), "state:update", stateSnapshot{
			Session: sess,
			Scores:  scores,
			Video:   video,
		})

	case "transaction:submit":
		h.handleSocketTransaction(ctx, deviceID, raw)

	case "gm:command":
		h.handleGMCommand(ctx, deviceType, raw)

	case "disconnect":
		h.hub.Unregister <- client

	default:
		h.logger.Warn().Str("event", frame.Event).Msg("unrecognized socket event")
	}
}

func (h *Handler) handleHeartbeat(ctx context.Context, deviceID string) {
	h.hub.Broadcast(wsfabric.RoomDevice(deviceID), "heartbeat:ack", map[string]interface{}{
		"deviceId":  deviceID,
		"timestamp": time.Now().UTC(),
	})
}

type socketTransactionPayload struct {
	TokenID  string `json:"tokenId"`
	TeamID   string `json:"teamId"`
	DeviceID string `json:"deviceId"`
	Mode     string `json:"mode"`
}

func (h *Handler) handleSocketTransaction(ctx context.Context, deviceID string, raw []byte) {
	var payload socketTransactionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.hub.Broadcast(wsfabric.RoomDevice(deviceID), "error", errorBody{
			Error:   apierr.KindValidation,
			Message: "malformed transaction:submit payload",
		})
		return
	}
	if payload.DeviceID == "" {
		payload.DeviceID = deviceID
	}

	mode := models.ModeBlackmarket
	if payload.Mode == string(models.ModeDetective) {
		mode = models.ModeDetective
	}

	if _, err := h.engine.ProcessScan(ctx, payload.TokenID, payload.TeamID, payload.DeviceID, mode); err != nil {
		if apiErr, ok := err.(*apierr.Error); ok {
			h.hub.Broadcast(wsfabric.RoomDevice(deviceID), "error", errorBody{Error: apiErr.Kind, Message: apiErr.Message})
			return
		}
		h.logger.Error().Err(err).Msg("socket transaction:submit failed")
	}
	// transaction:new and score:updated are relayed to the session/gm rooms
	// by wsfabric.Bridge from the domain events ProcessScan emits.
}

type socketGMCommand struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

func (h *Handler) handleGMCommand(ctx context.Context, deviceType string, raw []byte) {
	var cmd socketGMCommand
	if err := json.Unmarshal(raw, &cmd); err != nil {
		h.logger.Warn().Err(err).Msg("malformed gm:command frame")
		return
	}

	ack := h.dispatcher.Dispatch(ctx, deviceType, cmd.Action, cmd.Payload)
	h.hub.Broadcast(wsfabric.RoomGM, "gm:command:ack", ack)
}
