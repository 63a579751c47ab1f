// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package session

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
	"github.com/tomtom215/cartographus/internal/storage"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]models.Token{
		{ID: "jaw001", Value: 500},
		{ID: "rat001", Value: 1000, GroupID: "Marcus Sucks", GroupMultiplier: 2},
		{ID: "rat002", Value: 2000, GroupID: "Marcus Sucks", GroupMultiplier: 2},
		{ID: "rat003", Value: 4000, GroupID: "Marcus Sucks", GroupMultiplier: 2},
	})
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	store, err := storage.New(config.StorageConfig{InMemory: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	e := NewEngine(store, testCatalog(), eventbus.NoopPublisher{}, config.SessionConfig{
		PersistTimeout: time.Second,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = e.Serve(ctx) }()

	// Let the goroutine reach its select before the test issues commands.
	time.Sleep(10 * time.Millisecond)
	return e
}

func TestBasicAcceptedScan(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	if _, err := e.CreateSession(ctx, "game1", []string{"001"}); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	result, err := e.ProcessScan(ctx, "jaw001", "001", "GM_A", models.ModeBlackmarket)
	if err != nil {
		t.Fatalf("ProcessScan() error = %v", err)
	}
	if result.Transaction.Status != models.TransactionAccepted {
		t.Errorf("Status = %v, want accepted", result.Transaction.Status)
	}
	if result.Transaction.Points != 500 {
		t.Errorf("Points = %d, want 500", result.Transaction.Points)
	}
	if result.TeamScore.CurrentScore() != 500 {
		t.Errorf("CurrentScore() = %d, want 500", result.TeamScore.CurrentScore())
	}
}

func TestPerDeviceDuplicate(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	if _, err := e.CreateSession(ctx, "game1", []string{"001"}); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	if _, err := e.ProcessScan(ctx, "jaw001", "001", "GM_A", models.ModeBlackmarket); err != nil {
		t.Fatalf("first ProcessScan() error = %v", err)
	}

	dup, err := e.ProcessScan(ctx, "jaw001", "001", "GM_A", models.ModeBlackmarket)
	if err != nil {
		t.Fatalf("ProcessScan() error = %v", err)
	}
	if dup.Transaction.Status != models.TransactionDuplicate {
		t.Errorf("Status = %v, want duplicate", dup.Transaction.Status)
	}
	if dup.Transaction.Points != 0 {
		t.Errorf("Points = %d, want 0", dup.Transaction.Points)
	}

	// A different device scoring the same token for the same team IS
	// accepted — this is the designed rule, not a bug.
	other, err := e.ProcessScan(ctx, "jaw001", "001", "GM_B", models.ModeBlackmarket)
	if err != nil {
		t.Fatalf("ProcessScan() error = %v", err)
	}
	if other.Transaction.Status != models.TransactionAccepted {
		t.Errorf("Status = %v, want accepted for a different device", other.Transaction.Status)
	}
}

func TestGroupCompletionBonus(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	if _, err := e.CreateSession(ctx, "game1", []string{"002"}); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	if _, err := e.ProcessScan(ctx, "rat001", "002", "GM_A", models.ModeBlackmarket); err != nil {
		t.Fatalf("ProcessScan() error = %v", err)
	}
	if _, err := e.ProcessScan(ctx, "rat002", "002", "GM_B", models.ModeBlackmarket); err != nil {
		t.Fatalf("ProcessScan() error = %v", err)
	}
	final, err := e.ProcessScan(ctx, "rat003", "002", "GM_A", models.ModeBlackmarket)
	if err != nil {
		t.Fatalf("ProcessScan() error = %v", err)
	}

	if final.GroupComplete != "Marcus Sucks" {
		t.Fatalf("GroupComplete = %q, want Marcus Sucks", final.GroupComplete)
	}
	if final.TeamScore.BaseScore != 7000 {
		t.Errorf("BaseScore = %d, want 7000", final.TeamScore.BaseScore)
	}
	if final.TeamScore.BonusPoints != 7000 {
		t.Errorf("BonusPoints = %d, want 7000", final.TeamScore.BonusPoints)
	}
	if final.TeamScore.CurrentScore() != 14000 {
		t.Errorf("CurrentScore() = %d, want 14000", final.TeamScore.CurrentScore())
	}
}

func TestDetectiveModeSuppressesScoringAndGroups(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	if _, err := e.CreateSession(ctx, "game1", []string{"003"}); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	result, err := e.ProcessScan(ctx, "jaw001", "003", "GM_A", models.ModeDetective)
	if err != nil {
		t.Fatalf("ProcessScan() error = %v", err)
	}
	if result.Transaction.Points != 0 {
		t.Errorf("Points = %d, want 0 for detective mode", result.Transaction.Points)
	}
	if result.TeamScore != nil {
		t.Errorf("TeamScore should be nil for detective mode, got %+v", result.TeamScore)
	}
}

func TestNoSessionRejectsProcessScan(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.ProcessScan(context.Background(), "jaw001", "001", "GM_A", models.ModeBlackmarket); err == nil {
		t.Fatal("expected error when no session is active")
	}
}

func TestPausedSessionRejectsProcessScan(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	if _, err := e.CreateSession(ctx, "game1", []string{"001"}); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if _, err := e.Pause(ctx); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	if _, err := e.ProcessScan(ctx, "jaw001", "001", "GM_A", models.ModeBlackmarket); err == nil {
		t.Fatal("expected error on paused session")
	}
}

func TestDeleteTransactionRecomputesScores(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	if _, err := e.CreateSession(ctx, "game1", []string{"001"}); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	result, err := e.ProcessScan(ctx, "jaw001", "001", "GM_A", models.ModeBlackmarket)
	if err != nil {
		t.Fatalf("ProcessScan() error = %v", err)
	}

	if err := e.DeleteTransaction(ctx, result.Transaction.ID); err != nil {
		t.Fatalf("DeleteTransaction() error = %v", err)
	}

	scores := e.TeamScores(ctx)
	if scores["001"].BaseScore != 0 {
		t.Errorf("BaseScore after delete = %d, want 0", scores["001"].BaseScore)
	}
}

func TestProcessScanRecordsTransactionMetric(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	if _, err := e.CreateSession(ctx, "game1", []string{"001"}); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	before := testutil.ToFloat64(metrics.TransactionsProcessed.WithLabelValues("accepted"))
	if _, err := e.ProcessScan(ctx, "jaw001", "001", "GM_A", models.ModeBlackmarket); err != nil {
		t.Fatalf("ProcessScan() error = %v", err)
	}
	after := testutil.ToFloat64(metrics.TransactionsProcessed.WithLabelValues("accepted"))
	if after != before+1 {
		t.Errorf("TransactionsProcessed[accepted] = %v, want %v", after, before+1)
	}
}

func TestSessionLifecycleRecordsActiveGauge(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	if _, err := e.CreateSession(ctx, "game1", []string{"001"}); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if got := testutil.ToFloat64(metrics.SessionActive); got != 1 {
		t.Errorf("SessionActive after CreateSession = %v, want 1", got)
	}

	if _, err := e.Pause(ctx); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	if got := testutil.ToFloat64(metrics.SessionActive); got != 0 {
		t.Errorf("SessionActive after Pause = %v, want 0", got)
	}

	if _, err := e.Resume(ctx); err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if got := testutil.ToFloat64(metrics.SessionActive); got != 1 {
		t.Errorf("SessionActive after Resume = %v, want 1", got)
	}

	if _, err := e.EndSession(ctx); err != nil {
		t.Fatalf("EndSession() error = %v", err)
	}
	if got := testutil.ToFloat64(metrics.SessionActive); got != 0 {
		t.Errorf("SessionActive after EndSession = %v, want 0", got)
	}
}

func TestSessionExistsPreventsSecondCreate(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	if _, err := e.CreateSession(ctx, "game1", []string{"001"}); err != nil {
		t.Fatalf("first CreateSession() error = %v", err)
	}
	if _, err := e.CreateSession(ctx, "game2", []string{"001"}); err == nil {
		t.Fatal("expected error creating a second session while one is active")
	}
}
