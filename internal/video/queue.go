// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package video

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cartographus/internal/apierr"
	"github.com/tomtom215/cartographus/internal/config"
	"github.com/tomtom215/cartographus/internal/eventbus"
	"github.com/tomtom215/cartographus/internal/metrics"
	"github.com/tomtom215/cartographus/internal/models"
	"github.com/tomtom215/cartographus/internal/videoplayer"
)

// Queue is the video-queue & conflict-arbiter actor. Construct with
// NewQueue and run Serve in its own goroutine (suture does this when Queue
// is added to a supervisor tree) before calling any other method.
type Queue struct {
	cmds chan func()

	player    *videoplayer.Client
	publisher eventbus.Publisher
	logger    zerolog.Logger
	cfg       config.VideoConfig

	pending []models.VideoQueueItem
	current *models.VideoQueueItem
}

// NewQueue constructs a Queue. Call Serve before using it.
func NewQueue(player *videoplayer.Client, publisher eventbus.Publisher, cfg config.VideoConfig, logger zerolog.Logger) *Queue {
	return &Queue{
		cmds:      make(chan func()),
		player:    player,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

// Serve runs the queue's single-writer loop until ctx is cancelled, also
// polling the external player's status while an item is playing. It
// satisfies suture.Service.
func (q *Queue) Serve(ctx context.Context) error {
	interval := q.cfg.StatusPollInterval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-q.cmds:
			cmd()
		case <-ticker.C:
			q.pollLocked(ctx)
		}
	}
}

func (q *Queue) do(fn func()) {
	done := make(chan struct{})
	q.cmds <- func() {
		fn()
		close(done)
	}
	<-done
}

// publish sends a domain event envelope, logging but not failing the
// calling operation if the bus is unreachable.
func (q *Queue) publish(subject string, data interface{}) {
	env := eventbus.Envelope{Kind: subject, Data: data}
	if err := q.publisher.Publish(subject, env); err != nil {
		q.logger.Error().Err(err).Str("subject", subject).Msg("publish domain event")
	}
}

// Degraded reports whether the external player is currently unreachable.
func (q *Queue) Degraded() bool {
	return q.player == nil || !q.player.Configured() || q.player.Degraded()
}

// reportQueueMetricsLocked publishes the current queue depth and degraded
// state. Must only be called from the single-writer goroutine.
func (q *Queue) reportQueueMetricsLocked() {
	metrics.VideoQueueDepth.Set(float64(len(q.pending)))
	if q.Degraded() {
		metrics.VideoQueueDegraded.Set(1)
	} else {
		metrics.VideoQueueDegraded.Set(0)
	}
}

// State is a snapshot of the queue for status endpoints and sync:full.
type State struct {
	Current  *models.VideoQueueItem
	Pending  []models.VideoQueueItem
	Degraded bool
}

// Snapshot returns the queue's current state.
func (q *Queue) Snapshot(ctx context.Context) State {
	var out State
	q.do(func() {
		if q.current != nil {
			cp := *q.current
			out.Current = &cp
		}
		out.Pending = append([]models.VideoQueueItem(nil), q.pending...)
		out.Degraded = q.Degraded()
	})
	return out
}

// Enqueue adds a video-bearing token's playback to the queue. If another
// item is currently playing, per spec §4.3 the scan is rejected outright
// (not enqueued) with a waitTime hint rather than queued behind it.
func (q *Queue) Enqueue(ctx context.Context, tokenID, videoPath, requestedBy string) (*models.VideoQueueItem, error) {
	var item *models.VideoQueueItem
	var outErr error

	q.do(func() {
		if q.current != nil && q.current.Status == models.VideoPlaying {
			wait := waitSeconds(q.current.ExpectedEndTime())
			outErr = apierr.New(apierr.KindVideoBusy, "a video is already playing", wait)
			metrics.RecordVideoConflict()
			return
		}

		entry := models.VideoQueueItem{
			ID:          uuid.NewString(),
			TokenID:     tokenID,
			VideoPath:   videoPath,
			RequestedBy: requestedBy,
			Status:      models.VideoPending,
			RequestTime: nowUTC(),
		}
		q.pending = append(q.pending, entry)
		cp := entry
		item = &cp

		q.popNextLocked()
		q.reportQueueMetricsLocked()
	})

	return item, outErr
}

// AddByFilename is the admin-plane equivalent of Enqueue for a video with
// no originating token scan.
func (q *Queue) AddByFilename(ctx context.Context, path, requestedBy string) (*models.VideoQueueItem, error) {
	return q.Enqueue(ctx, "", path, requestedBy)
}

// SkipCurrent marks the playing item completed and advances the queue.
// Admin-only; has no effect if nothing is playing.
func (q *Queue) SkipCurrent(ctx context.Context) error {
	q.do(func() {
		if q.current == nil {
			return
		}
		if q.player != nil && q.player.Configured() {
			_ = q.player.Stop(ctx)
		}
		q.completeCurrentLocked(ctx, models.VideoCompleted, "")
	})
	return nil
}

// Reorder rewrites the pending queue to match itemIDs' order. IDs not
// found in the pending queue are ignored; pending items not named are
// appended after, preserving their relative order.
func (q *Queue) Reorder(ctx context.Context, itemIDs []string) error {
	q.do(func() {
		byID := make(map[string]models.VideoQueueItem, len(q.pending))
		for _, item := range q.pending {
			byID[item.ID] = item
		}

		reordered := make([]models.VideoQueueItem, 0, len(q.pending))
		seen := make(map[string]bool, len(itemIDs))
		for _, id := range itemIDs {
			if item, ok := byID[id]; ok && !seen[id] {
				reordered = append(reordered, item)
				seen[id] = true
			}
		}
		for _, item := range q.pending {
			if !seen[item.ID] {
				reordered = append(reordered, item)
			}
		}
		q.pending = reordered
	})
	return nil
}

// Clear empties the pending queue without touching the currently-playing
// item.
func (q *Queue) Clear(ctx context.Context) error {
	q.do(func() {
		q.pending = nil
		q.reportQueueMetricsLocked()
	})
	return nil
}

// Pause and Resume drive the playing/paused/resumed sub-states of the
// current item (spec §4.3). Both are no-ops if nothing is playing.
func (q *Queue) Pause(ctx context.Context) error {
	var outErr error
	q.do(func() {
		if q.current == nil || q.current.Status != models.VideoPlaying {
			return
		}
		if q.player != nil && q.player.Configured() {
			if err := q.player.Pause(ctx); err != nil {
				outErr = apierr.Internal("failed to pause player")
				return
			}
		}
		q.publish("video:paused", q.current)
	})
	return outErr
}

// Stop halts the currently-playing item outright and clears the pending
// queue, unlike SkipCurrent which advances to the next item.
func (q *Queue) Stop(ctx context.Context) error {
	q.do(func() {
		if q.player != nil && q.player.Configured() {
			_ = q.player.Stop(ctx)
		}
		if q.current != nil {
			now := nowUTC()
			q.current.Status = models.VideoCompleted
			q.current.PlaybackEnd = &now
			q.publish("video:completed", q.current)
			q.current = nil
		}
		q.pending = nil
		q.reportQueueMetricsLocked()
		q.publish("video:idle", nil)
	})
	return nil
}

func (q *Queue) Resume(ctx context.Context) error {
	var outErr error
	q.do(func() {
		if q.current == nil || q.current.Status != models.VideoPlaying {
			return
		}
		if q.player != nil && q.player.Configured() {
			if err := q.player.Resume(ctx); err != nil {
				outErr = apierr.Internal("failed to resume player")
				return
			}
		}
		q.publish("video:resumed", q.current)
	})
	return outErr
}

func waitSeconds(end time.Time) string {
	if end.IsZero() {
		return "waitTime=0s"
	}
	remaining := time.Until(end)
	if remaining < 0 {
		remaining = 0
	}
	return "waitTime=" + remaining.Truncate(time.Second).String()
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
