// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package video

import (
	"context"

	"github.com/tomtom215/cartographus/internal/models"
)

// popNextLocked starts the next pending item if nothing is currently
// active. Must only be called from the single-writer goroutine.
func (q *Queue) popNextLocked() {
	if q.current != nil || len(q.pending) == 0 {
		return
	}

	item := q.pending[0]
	q.pending = q.pending[1:]
	item.Status = models.VideoLoading
	cp := item
	q.current = &cp

	if q.player == nil || !q.player.Configured() {
		// No player wired: report degraded and surface the item as
		// playing so UIs stay consistent with the logical queue state,
		// per spec §4.3's degraded-mode rule.
		now := nowUTC()
		q.current.Status = models.VideoPlaying
		q.current.PlaybackStart = &now
		end := now.Add(q.cfg.DefaultPlaybackDuration)
		q.current.PlaybackEnd = &end
		q.publish("video:started", q.current)
		return
	}

	go q.startPlayback(item)
}

// startPlayback issues the external play RPC outside the single-writer
// lock (an HTTP round trip may block for as long as PlayerTimeout) and
// feeds the result back through the command channel.
func (q *Queue) startPlayback(item models.VideoQueueItem) {
	ctx, cancel := context.WithTimeout(context.Background(), q.cfg.PlayerTimeout)
	defer cancel()

	err := q.player.Play(ctx, item.VideoPath)

	q.do(func() {
		if q.current == nil || q.current.ID != item.ID {
			return // superseded by a skip/clear while the RPC was in flight
		}
		if err != nil {
			q.current.Status = models.VideoFailed
			q.current.Error = err.Error()
			q.publish("video:failed", q.current)
			q.current = nil
			q.popNextLocked()
			q.reportQueueMetricsLocked()
			return
		}

		now := nowUTC()
		q.current.Status = models.VideoPlaying
		q.current.PlaybackStart = &now
		end := now.Add(q.cfg.DefaultPlaybackDuration)
		q.current.PlaybackEnd = &end
		q.publish("video:started", q.current)
		q.reportQueueMetricsLocked()
	})
}

// completeCurrentLocked finalizes the current item with the given status
// and advances the queue. Must only be called from the single-writer
// goroutine.
func (q *Queue) completeCurrentLocked(ctx context.Context, status models.VideoStatus, reason string) {
	if q.current == nil {
		return
	}

	now := nowUTC()
	q.current.Status = status
	q.current.PlaybackEnd = &now
	if reason != "" {
		q.current.Error = reason
	}

	subject := "video:completed"
	if status == models.VideoFailed {
		subject = "video:failed"
	}
	q.publish(subject, q.current)

	q.current = nil
	q.popNextLocked()
	q.reportQueueMetricsLocked()

	if q.current == nil {
		q.publish("video:idle", nil)
	}
}

// pollLocked checks the external player's reported status while an item
// is playing, detecting completion and circuit-breaker degradation. It
// runs on the single-writer goroutine directly — PollStatus is itself
// breaker-guarded and bounded by PlayerTimeout, so it never blocks the
// loop for long.
func (q *Queue) pollLocked(ctx context.Context) {
	if q.current == nil || q.current.Status != models.VideoPlaying {
		return
	}
	if q.player == nil || !q.player.Configured() {
		return
	}
	if q.player.Degraded() {
		return
	}

	pollCtx, cancel := context.WithTimeout(ctx, q.cfg.PlayerTimeout)
	defer cancel()

	status, err := q.player.PollStatus(pollCtx)
	if err != nil {
		return // breaker will trip on repeated failure; next poll sees Degraded()
	}
	if !status.Playing {
		q.completeCurrentLocked(ctx, models.VideoCompleted, "")
	}
}
