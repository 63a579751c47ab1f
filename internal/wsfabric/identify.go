// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package wsfabric

// JoinGM enrolls a GM socket in every room it's entitled to, in the fixed
// order spec §4.2 requires: device:<id> -> gm -> each team:<id> ->
// session:<id>. Joining out of order can leak messages a later join
// should have filtered (e.g. a gm join landing after session:<id> would
// momentarily receive unfiltered global traffic meant only for sockets
// not yet scoped).
func JoinGM(hub *Hub, client *Client, sessionID string, teamIDs []string) {
	hub.Join(client, RoomDevice(client.DeviceID))
	hub.Join(client, RoomGM)
	for _, teamID := range teamIDs {
		hub.Join(client, RoomTeam(teamID))
	}
	hub.Join(client, RoomSession(sessionID))
}

// JoinPlayer enrolls a non-GM (player) socket: it only ever needs its own
// device room and its session room, never gm or team rooms.
func JoinPlayer(hub *Hub, client *Client, sessionID string) {
	hub.Join(client, RoomDevice(client.DeviceID))
	hub.Join(client, RoomSession(sessionID))
}

// LeaveAll removes client from every room it may have joined. Used on
// disconnect; Hub.removeClient already does this as part of teardown, so
// LeaveAll exists for callers that need to re-scope a live connection
// (e.g. a GM switching sessions) without closing the socket.
func LeaveAll(hub *Hub, client *Client, sessionID string, teamIDs []string) {
	hub.Leave(client, RoomDevice(client.DeviceID))
	hub.Leave(client, RoomGM)
	for _, teamID := range teamIDs {
		hub.Leave(client, RoomTeam(teamID))
	}
	hub.Leave(client, RoomSession(sessionID))
}
