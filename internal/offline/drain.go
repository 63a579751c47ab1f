// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package offline provides the orchestrator-side counterpart to the
client-side offline/reconnect protocol (spec §4.4). The two bounded FIFOs
(playerScanQueue, gmTransactionQueue) live on the client; this package only
processes the batch a client submits on reconnect and reports the
{processed, failed} summary the protocol requires.

Duplicate detection across the online/offline boundary reuses the
session engine's existing scannedTokensByDevice bookkeeping — a drained
scan that the same device already scored online comes back duplicate, and
repeats within the same batch come back duplicate from the second one on,
with no extra logic here.
*/
package offline

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cartographus/internal/apierr"
	"github.com/tomtom215/cartographus/internal/catalog"
	"github.com/tomtom215/cartographus/internal/models"
	"github.com/tomtom215/cartographus/internal/session"
	"github.com/tomtom215/cartographus/internal/video"
)

// Kind distinguishes the two client-side FIFOs the offline protocol
// maintains. The orchestrator does not store these queues itself — it
// only processes entries submitted during drain — but the kind travels
// with each entry so a player's fire-and-forget scan is never scored as
// an authoritative GM transaction or vice versa.
type Kind string

const (
	KindPlayerScanLog Kind = "playerScanLog"
	KindGMTransaction Kind = "gmTransaction"
)

// Entry is one deferred unit of work submitted during a reconnect drain.
// ClientTimestamp is when the client originally queued it, not when the
// server received it; ProcessScan still stamps its own server-side
// transaction timestamp, so ClientTimestamp is informational only.
type Entry struct {
	Kind            Kind      `json:"kind" validate:"required,oneof=playerScanLog gmTransaction"`
	TokenID         string    `json:"tokenId" validate:"required"`
	TeamID          string    `json:"teamId"`
	DeviceID        string    `json:"deviceId" validate:"required"`
	Mode            string    `json:"mode"`
	ClientTimestamp time.Time `json:"clientTimestamp"`
}

// DrainSummary is the {processed, failed} result the server reports after
// processing a batch of Entry values submitted on reconnect (spec §4.4
// "queue:processed").
type DrainSummary struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// Drainer processes a reconnect-drain batch through the scoring engine,
// enqueuing a video for any accepted player scan whose token carries one.
type Drainer struct {
	engine  *session.Engine
	queue   *video.Queue
	catalog *catalog.Catalog
	logger  zerolog.Logger
}

// NewDrainer builds a Drainer over the running session engine, video
// queue, and token catalog.
func NewDrainer(engine *session.Engine, queue *video.Queue, cat *catalog.Catalog, logger zerolog.Logger) *Drainer {
	return &Drainer{engine: engine, queue: queue, catalog: cat, logger: logger}
}

// Drain submits every entry in order through Engine.ProcessScan and
// returns the processed/failed tally. A per-entry failure (no session,
// session paused, a validation error) counts toward Failed and does not
// stop the batch — only the client's own drain loop stops on structural
// failure (spec §4.4); the server always finishes the batch it was given
// so the summary reflects every entry submitted.
func (d *Drainer) Drain(ctx context.Context, entries []Entry) DrainSummary {
	var summary DrainSummary

	for _, e := range entries {
		mode := models.ModeBlackmarket
		if e.Mode == string(models.ModeDetective) {
			mode = models.ModeDetective
		}

		result, err := d.engine.ProcessScan(ctx, e.TokenID, e.TeamID, e.DeviceID, mode)
		if err != nil {
			summary.Failed++
			if apiErr, ok := err.(*apierr.Error); ok {
				d.logger.Warn().Str("tokenId", e.TokenID).Str("deviceId", e.DeviceID).
					Str("kind", string(apiErr.Kind)).Msg("offline drain entry rejected")
			}
			continue
		}
		summary.Processed++

		if e.Kind != KindPlayerScanLog || result.Transaction.Status != models.TransactionAccepted {
			continue
		}
		tok, known := d.catalog.Lookup(e.TokenID)
		if !known || !tok.HasVideo() {
			continue
		}
		if _, err := d.queue.Enqueue(ctx, tok.ID, tok.MediaAssets.Video, e.DeviceID); err != nil {
			d.logger.Warn().Err(err).Str("tokenId", e.TokenID).Msg("video enqueue during offline drain")
		}
	}

	return summary
}
