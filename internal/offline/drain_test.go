// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package offline

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cartographus/internal/catalog"
	"github.com/tomtom215/cartographus/internal/config"
	"github.com/tomtom215/cartographus/internal/eventbus"
	"github.com/tomtom215/cartographus/internal/metrics"
	"github.com/tomtom215/cartographus/internal/models"
	"github.com/tomtom215/cartographus/internal/session"
	"github.com/tomtom215/cartographus/internal/storage"
	"github.com/tomtom215/cartographus/internal/video"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]models.Token{
		{ID: "jaw001", Value: 500},
		{ID: "rat001", Value: 1000, MediaAssets: models.MediaAssets{Video: "rat001.mp4"}},
	})
}

func newTestEngine(t *testing.T) *session.Engine {
	t.Helper()
	store, err := storage.New(config.StorageConfig{InMemory: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	e := session.NewEngine(store, testCatalog(), eventbus.NoopPublisher{}, config.SessionConfig{
		PersistTimeout: time.Second,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = e.Serve(ctx) }()
	time.Sleep(10 * time.Millisecond)
	return e
}

func newTestQueue(t *testing.T) *video.Queue {
	t.Helper()
	q := video.NewQueue(nil, eventbus.NoopPublisher{}, config.VideoConfig{
		StatusPollInterval:      50 * time.Millisecond,
		DefaultPlaybackDuration: time.Minute,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = q.Serve(ctx) }()
	time.Sleep(10 * time.Millisecond)
	return q
}

func TestDrainCountsProcessedAndFailed(t *testing.T) {
	e := newTestEngine(t)
	q := newTestQueue(t)
	ctx := context.Background()
	if _, err := e.CreateSession(ctx, "game1", []string{"001"}); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	d := NewDrainer(e, q, testCatalog(), zerolog.Nop())
	summary := d.Drain(ctx, []Entry{
		{Kind: KindPlayerScanLog, TokenID: "jaw001", TeamID: "001", DeviceID: "PLAYER_1"},
		{Kind: KindGMTransaction, TokenID: "jaw001", TeamID: "001", DeviceID: "GM_A"},
	})

	if summary.Processed != 2 {
		t.Errorf("Processed = %d, want 2 (PLAYER_1 and GM_A are different devices, so both scans are accepted)", summary.Processed)
	}
	if summary.Failed != 0 {
		t.Errorf("Failed = %d, want 0", summary.Failed)
	}
}

func TestDrainCountsStructuralFailures(t *testing.T) {
	e := newTestEngine(t)
	q := newTestQueue(t)
	ctx := context.Background()
	// No CreateSession call: every scan is a structural failure.

	d := NewDrainer(e, q, testCatalog(), zerolog.Nop())
	summary := d.Drain(ctx, []Entry{
		{Kind: KindPlayerScanLog, TokenID: "jaw001", TeamID: "001", DeviceID: "PLAYER_1"},
	})

	if summary.Failed != 1 {
		t.Errorf("Failed = %d, want 1", summary.Failed)
	}
	if summary.Processed != 0 {
		t.Errorf("Processed = %d, want 0", summary.Processed)
	}
}

func TestDrainEnqueuesVideoForAcceptedPlayerScan(t *testing.T) {
	e := newTestEngine(t)
	q := newTestQueue(t)
	ctx := context.Background()
	if _, err := e.CreateSession(ctx, "game1", []string{"001"}); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	before := testutil.ToFloat64(metrics.TransactionsProcessed.WithLabelValues("accepted"))

	d := NewDrainer(e, q, testCatalog(), zerolog.Nop())
	summary := d.Drain(ctx, []Entry{
		{Kind: KindPlayerScanLog, TokenID: "rat001", TeamID: "001", DeviceID: "PLAYER_1"},
	})

	if summary.Processed != 1 {
		t.Fatalf("Processed = %d, want 1", summary.Processed)
	}
	after := testutil.ToFloat64(metrics.TransactionsProcessed.WithLabelValues("accepted"))
	if after != before+1 {
		t.Errorf("TransactionsProcessed[accepted] = %v, want %v", after, before+1)
	}

	snap := q.Snapshot(ctx)
	if snap.Current == nil || snap.Current.TokenID != "rat001" {
		t.Errorf("video queue Current = %v, want rat001 enqueued from the drained player scan", snap.Current)
	}
}

func TestDrainSkipsVideoForGMTransaction(t *testing.T) {
	e := newTestEngine(t)
	q := newTestQueue(t)
	ctx := context.Background()
	if _, err := e.CreateSession(ctx, "game1", []string{"001"}); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	d := NewDrainer(e, q, testCatalog(), zerolog.Nop())
	d.Drain(ctx, []Entry{
		{Kind: KindGMTransaction, TokenID: "rat001", TeamID: "001", DeviceID: "GM_A"},
	})

	snap := q.Snapshot(ctx)
	if snap.Current != nil {
		t.Errorf("video queue Current = %v, want nil — a GM transaction entry must not auto-enqueue video", snap.Current)
	}
}
