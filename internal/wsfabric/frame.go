// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package wsfabric

import "time"

// Frame is the wire envelope every outbound message uses, with no
// exception: clients rely on this shape.
type Frame struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewFrame builds a Frame stamped with the current time.
func NewFrame(event string, data interface{}) Frame {
	return Frame{Event: event, Data: data, Timestamp: time.Now().UTC()}
}

// Room name helpers — the scoping primitives spec §4.2 names.
const (
	RoomGM     = "gm"
	RoomGlobal = "" // broadcast to every connected socket
)

func RoomSession(id string) string { return "session:" + id }
func RoomDevice(id string) string  { return "device:" + id }
func RoomTeam(id string) string    { return "team:" + id }
