// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package video

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cartographus/internal/config"
	"github.com/tomtom215/cartographus/internal/eventbus"
	"github.com/tomtom215/cartographus/internal/metrics"
	"github.com/tomtom215/cartographus/internal/models"
)

// newTestQueue runs a Queue with no player configured, so every enqueue
// immediately transitions to "playing" via the degraded-mode path in
// popNextLocked.
func newTestQueue(t *testing.T) *Queue {
	t.Helper()
	q := NewQueue(nil, eventbus.NoopPublisher{}, config.VideoConfig{
		StatusPollInterval:      50 * time.Millisecond,
		DefaultPlaybackDuration: time.Minute,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = q.Serve(ctx) }()
	time.Sleep(10 * time.Millisecond)
	return q
}

func TestEnqueueStartsImmediatelyWhenIdle(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	item, err := q.Enqueue(ctx, "rat001", "clip1.mp4", "GM_A")
	if err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if item == nil {
		t.Fatal("Enqueue() returned nil item")
	}

	snap := q.Snapshot(ctx)
	if snap.Current == nil {
		t.Fatal("Snapshot().Current = nil, want playing item")
	}
	if snap.Current.Status != models.VideoPlaying {
		t.Errorf("Current.Status = %v, want playing", snap.Current.Status)
	}
}

func TestEnqueueRejectsWhilePlaying(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	if _, err := q.Enqueue(ctx, "rat001", "clip1.mp4", "GM_A"); err != nil {
		t.Fatalf("first Enqueue() error = %v", err)
	}

	_, err := q.Enqueue(ctx, "rat002", "clip2.mp4", "GM_B")
	if err == nil {
		t.Fatal("expected VideoBusy rejection while a video is playing")
	}
}

func TestSkipCurrentAdvancesQueue(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	if _, err := q.Enqueue(ctx, "rat001", "clip1.mp4", "GM_A"); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if err := q.SkipCurrent(ctx); err != nil {
		t.Fatalf("SkipCurrent() error = %v", err)
	}

	snap := q.Snapshot(ctx)
	if snap.Current != nil {
		t.Errorf("Current = %+v, want nil after skip with empty pending queue", snap.Current)
	}
}

func TestClearEmptiesPendingOnly(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	// First item starts immediately and occupies "current"; a second
	// enqueue while playing is rejected outright (spec §4.3 conflict
	// rule), so Clear here is exercised against an empty pending queue —
	// it must not touch the one item that is actually playing.
	if _, err := q.Enqueue(ctx, "rat001", "clip1.mp4", "GM_A"); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if err := q.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	snap := q.Snapshot(ctx)
	if snap.Current == nil {
		t.Error("Clear() must not remove the currently-playing item")
	}
	if len(snap.Pending) != 0 {
		t.Errorf("len(Pending) = %d, want 0", len(snap.Pending))
	}
}

func TestDegradedWithNoPlayerConfigured(t *testing.T) {
	q := newTestQueue(t)
	if !q.Degraded() {
		t.Error("Degraded() = false with no player wired, want true")
	}
}

func TestEnqueueConflictRecordsMetric(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	if _, err := q.Enqueue(ctx, "rat001", "clip1.mp4", "GM_A"); err != nil {
		t.Fatalf("first Enqueue() error = %v", err)
	}

	before := testutil.ToFloat64(metrics.VideoConflictsRejected)
	if _, err := q.Enqueue(ctx, "rat002", "clip2.mp4", "GM_B"); err == nil {
		t.Fatal("expected VideoBusy rejection while a video is playing")
	}
	after := testutil.ToFloat64(metrics.VideoConflictsRejected)
	if after != before+1 {
		t.Errorf("VideoConflictsRejected = %v, want %v", after, before+1)
	}
}

func TestQueueDepthGaugeReflectsPending(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	// Occupy "current" so a further item lands in pending rather than
	// starting immediately.
	if _, err := q.Enqueue(ctx, "rat001", "clip1.mp4", "GM_A"); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	q.do(func() {
		q.pending = append(q.pending, models.VideoQueueItem{ID: "pending1"})
		q.reportQueueMetricsLocked()
	})

	if got := testutil.ToFloat64(metrics.VideoQueueDepth); got != 1 {
		t.Errorf("VideoQueueDepth = %v, want 1", got)
	}

	if err := q.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if got := testutil.ToFloat64(metrics.VideoQueueDepth); got != 0 {
		t.Errorf("VideoQueueDepth after Clear() = %v, want 0", got)
	}
}
