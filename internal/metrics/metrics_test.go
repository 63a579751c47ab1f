// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/state", "200"))

	RecordAPIRequest("GET", "/api/state", "200", 15*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/state", "200"))
	if after != before+1 {
		t.Errorf("expected counter to increment by 1, got %v -> %v", before, after)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	during := testutil.ToFloat64(APIActiveRequests)
	if during != before+1 {
		t.Errorf("expected gauge to increment, got %v -> %v", before, during)
	}

	TrackActiveRequest(false)
	after := testutil.ToFloat64(APIActiveRequests)
	if after != before {
		t.Errorf("expected gauge to return to baseline, got %v -> %v", before, after)
	}
}

func TestRecordRateLimitHit(t *testing.T) {
	before := testutil.ToFloat64(APIRateLimitHits.WithLabelValues("/api/scan"))
	RecordRateLimitHit("/api/scan")
	after := testutil.ToFloat64(APIRateLimitHits.WithLabelValues("/api/scan"))
	if after != before+1 {
		t.Errorf("expected counter to increment by 1, got %v -> %v", before, after)
	}
}

func TestRecordTransaction(t *testing.T) {
	before := testutil.ToFloat64(TransactionsProcessed.WithLabelValues("accepted"))
	RecordTransaction("accepted", 2*time.Millisecond)
	after := testutil.ToFloat64(TransactionsProcessed.WithLabelValues("accepted"))
	if after != before+1 {
		t.Errorf("expected counter to increment by 1, got %v -> %v", before, after)
	}
}

func TestRecordVideoConflict(t *testing.T) {
	before := testutil.ToFloat64(VideoConflictsRejected)
	RecordVideoConflict()
	after := testutil.ToFloat64(VideoConflictsRejected)
	if after != before+1 {
		t.Errorf("expected counter to increment by 1, got %v -> %v", before, after)
	}
}

func TestRecordEventPublished(t *testing.T) {
	before := testutil.ToFloat64(EventBusPublished.WithLabelValues("transaction.accepted"))
	RecordEventPublished("transaction.accepted")
	after := testutil.ToFloat64(EventBusPublished.WithLabelValues("transaction.accepted"))
	if after != before+1 {
		t.Errorf("expected counter to increment by 1, got %v -> %v", before, after)
	}

	beforeErr := testutil.ToFloat64(EventBusPublishErrors)
	RecordEventPublishError()
	afterErr := testutil.ToFloat64(EventBusPublishErrors)
	if afterErr != beforeErr+1 {
		t.Errorf("expected error counter to increment by 1, got %v -> %v", beforeErr, afterErr)
	}
}

func TestCircuitStateValue(t *testing.T) {
	cases := map[string]float64{
		"closed":    0,
		"half-open": 1,
		"open":      2,
		"unknown":   0,
	}
	for state, want := range cases {
		if got := circuitStateValue(state); got != want {
			t.Errorf("circuitStateValue(%q) = %v, want %v", state, got, want)
		}
	}
}

func TestRecordCircuitBreakerTransition(t *testing.T) {
	before := testutil.ToFloat64(CircuitBreakerTransitions.WithLabelValues("videoplayer", "closed", "open"))
	RecordCircuitBreakerTransition("videoplayer", "closed", "open")
	after := testutil.ToFloat64(CircuitBreakerTransitions.WithLabelValues("videoplayer", "closed", "open"))
	if after != before+1 {
		t.Errorf("expected counter to increment by 1, got %v -> %v", before, after)
	}

	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("videoplayer")); got != 2 {
		t.Errorf("expected gauge to reflect open state (2), got %v", got)
	}
}
