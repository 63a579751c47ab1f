// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package adminplane

import (
	"context"
	"encoding/json"

	"github.com/tomtom215/cartographus/internal/apierr"
)

// buildCatalog constructs the closed action table (spec §4.5). Every row
// in the spec's table gets an entry, including the environment-control
// no-ops, so an unrecognized action string is always a client bug.
func (d *Dispatcher) buildCatalog() map[string]actionHandler {
	return map[string]actionHandler{
		"session:create": d.sessionCreate,
		"session:pause":  d.sessionPause,
		"session:resume": d.sessionResume,
		"session:end":    d.sessionEnd,

		"transaction:delete": d.transactionDelete,

		"score:adjust": d.scoreAdjust,
		"scores:reset": d.scoresReset,

		"video:play":   d.videoPlay,
		"video:pause":  d.videoPause,
		"video:resume": d.videoResume,
		"video:stop":   d.videoStop,
		"video:skip":   d.videoSkip,

		"video:queue:add":     d.videoQueueAdd,
		"video:queue:reorder": d.videoQueueReorder,
		"video:queue:clear":   d.videoQueueClear,

		"device:reset": d.deviceReset,

		"env:bluetooth": d.envNoop,
		"env:audio":     d.envNoop,
		"env:lighting":  d.envNoop,
	}
}

func (d *Dispatcher) sessionCreate(ctx context.Context, payload json.RawMessage) (bool, string, error) {
	var p sessionCreatePayload
	if err := d.decode(payload, &p); err != nil {
		return false, "", err
	}
	if _, err := d.engine.CreateSession(ctx, p.Name, p.Teams); err != nil {
		return false, "", err
	}
	return true, "", nil
}

func (d *Dispatcher) sessionPause(ctx context.Context, _ json.RawMessage) (bool, string, error) {
	if _, err := d.engine.Pause(ctx); err != nil {
		return false, "", err
	}
	return true, "", nil
}

func (d *Dispatcher) sessionResume(ctx context.Context, _ json.RawMessage) (bool, string, error) {
	if _, err := d.engine.Resume(ctx); err != nil {
		return false, "", err
	}
	return true, "", nil
}

func (d *Dispatcher) sessionEnd(ctx context.Context, _ json.RawMessage) (bool, string, error) {
	if _, err := d.engine.EndSession(ctx); err != nil {
		return false, "", err
	}
	return true, "", nil
}

func (d *Dispatcher) transactionDelete(ctx context.Context, payload json.RawMessage) (bool, string, error) {
	var p transactionDeletePayload
	if err := d.decode(payload, &p); err != nil {
		return false, "", err
	}
	if err := d.engine.DeleteTransaction(ctx, p.TxID); err != nil {
		return false, "", err
	}
	return true, "", nil
}

func (d *Dispatcher) scoreAdjust(ctx context.Context, payload json.RawMessage) (bool, string, error) {
	var p scoreAdjustPayload
	if err := d.decode(payload, &p); err != nil {
		return false, "", err
	}
	if _, err := d.engine.AdjustTeamScore(ctx, p.TeamID, p.Delta, p.Reason); err != nil {
		return false, "", err
	}
	return true, "", nil
}

func (d *Dispatcher) scoresReset(ctx context.Context, payload json.RawMessage) (bool, string, error) {
	var p scoresResetPayload
	if err := d.decode(payload, &p); err != nil {
		return false, "", err
	}
	if err := d.engine.ResetTeamScores(ctx, p.Teams); err != nil {
		return false, "", err
	}
	return true, "", nil
}

func (d *Dispatcher) videoPlay(ctx context.Context, payload json.RawMessage) (bool, string, error) {
	var p videoControlPayload
	if err := d.decode(payload, &p); err != nil {
		return false, "", err
	}
	tok, ok := d.catalog.Lookup(p.TokenID)
	if !ok || !tok.HasVideo() {
		return false, "", apierr.New(apierr.KindValidation, "token has no video asset")
	}
	if _, err := d.queue.Enqueue(ctx, tok.ID, tok.MediaAssets.Video, "admin"); err != nil {
		return false, "", err
	}
	return true, "", nil
}

func (d *Dispatcher) videoPause(ctx context.Context, _ json.RawMessage) (bool, string, error) {
	if err := d.queue.Pause(ctx); err != nil {
		return false, "", err
	}
	return true, "", nil
}

func (d *Dispatcher) videoResume(ctx context.Context, _ json.RawMessage) (bool, string, error) {
	if err := d.queue.Resume(ctx); err != nil {
		return false, "", err
	}
	return true, "", nil
}

func (d *Dispatcher) videoStop(ctx context.Context, _ json.RawMessage) (bool, string, error) {
	if err := d.queue.Stop(ctx); err != nil {
		return false, "", err
	}
	return true, "", nil
}

func (d *Dispatcher) videoSkip(ctx context.Context, _ json.RawMessage) (bool, string, error) {
	if err := d.queue.SkipCurrent(ctx); err != nil {
		return false, "", err
	}
	return true, "", nil
}

func (d *Dispatcher) videoQueueAdd(ctx context.Context, payload json.RawMessage) (bool, string, error) {
	var p videoQueueAddPayload
	if err := d.decode(payload, &p); err != nil {
		return false, "", err
	}
	if _, err := d.queue.AddByFilename(ctx, p.Path, "admin"); err != nil {
		return false, "", err
	}
	return true, "", nil
}

func (d *Dispatcher) videoQueueReorder(ctx context.Context, payload json.RawMessage) (bool, string, error) {
	var p videoQueueReorderPayload
	if err := d.decode(payload, &p); err != nil {
		return false, "", err
	}
	if err := d.queue.Reorder(ctx, p.ItemIDs); err != nil {
		return false, "", err
	}
	return true, "", nil
}

func (d *Dispatcher) videoQueueClear(ctx context.Context, _ json.RawMessage) (bool, string, error) {
	if err := d.queue.Clear(ctx); err != nil {
		return false, "", err
	}
	return true, "", nil
}

func (d *Dispatcher) deviceReset(ctx context.Context, payload json.RawMessage) (bool, string, error) {
	var p deviceResetPayload
	if err := d.decode(payload, &p); err != nil {
		return false, "", err
	}
	if err := d.engine.ResetDevice(ctx, p.DeviceID); err != nil {
		return false, "", err
	}
	return true, "", nil
}

// envNoop answers every out-of-core-scope environment control (spec
// §4.5: "degrade cleanly") without touching session or video state.
func (d *Dispatcher) envNoop(_ context.Context, _ json.RawMessage) (bool, string, error) {
	return true, "not supported in this deployment", nil
}
