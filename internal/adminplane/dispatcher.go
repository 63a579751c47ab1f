// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package adminplane

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/cartographus/internal/apierr"
	"github.com/tomtom215/cartographus/internal/catalog"
	"github.com/tomtom215/cartographus/internal/session"
	"github.com/tomtom215/cartographus/internal/video"
)

// Ack is the gm:command:ack reply every action produces (spec §4.5).
type Ack struct {
	Action  string `json:"action"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// actionHandler executes one catalog action against decoded payload
// bytes, returning the Ack's success/message fields.
type actionHandler func(ctx context.Context, payload json.RawMessage) (bool, string, error)

// Dispatcher holds the closed set of gm:command actions and dispatches
// each to internal/session.Engine or internal/video.Queue after payload
// validation. An unrecognized action is always a client bug, not an
// ambiguous no-match — every row in spec §4.5's table has a handler,
// including the environment-control no-ops.
type Dispatcher struct {
	engine   *session.Engine
	queue    *video.Queue
	catalog  *catalog.Catalog
	validate *validator.Validate
	actions  map[string]actionHandler
}

// NewDispatcher wires a Dispatcher to the session engine and video queue
// it controls.
func NewDispatcher(engine *session.Engine, queue *video.Queue, cat *catalog.Catalog) *Dispatcher {
	d := &Dispatcher{
		engine:   engine,
		queue:    queue,
		catalog:  cat,
		validate: validator.New(),
	}
	d.actions = d.buildCatalog()
	return d
}

// Dispatch validates and executes action for a GM-typed device. The
// socket transport passes the connection's deviceType through unfiltered
// (spec §4.5: "All actions check socket.deviceType === 'gm'"), so Dispatch
// itself refuses any non-GM caller with an AUTH_REQUIRED ack.
func (d *Dispatcher) Dispatch(ctx context.Context, deviceType, action string, payload json.RawMessage) Ack {
	if deviceType != "gm" {
		return Ack{Action: action, Success: false, Message: string(apierr.KindAuthRequired)}
	}

	handler, ok := d.actions[action]
	if !ok {
		return Ack{Action: action, Success: false, Message: fmt.Sprintf("unknown action %q", action)}
	}

	success, message, err := handler(ctx, payload)
	if err != nil {
		return Ack{Action: action, Success: false, Message: err.Error()}
	}
	return Ack{Action: action, Success: success, Message: message}
}

func (d *Dispatcher) decode(payload json.RawMessage, v interface{}) error {
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, v); err != nil {
			return apierr.New(apierr.KindValidation, "malformed payload")
		}
	}
	if err := d.validate.Struct(v); err != nil {
		return apierr.New(apierr.KindValidation, err.Error())
	}
	return nil
}
