// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package videoplayer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/cartographus/internal/config"
)

func TestConfigured(t *testing.T) {
	c := New(config.VideoConfig{PlayerTimeout: time.Second, DegradedRetryInterval: time.Second})
	if c.Configured() {
		t.Error("Configured() = true with empty PlayerURL")
	}
}

func TestPlayAndPollStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/play":
			w.WriteHeader(http.StatusOK)
		case "/status":
			_ = json.NewEncoder(w).Encode(Status{Playing: true, VideoPath: "vid1.mp4"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(config.VideoConfig{
		PlayerURL:             srv.URL,
		PlayerTimeout:         time.Second,
		DegradedRetryInterval: time.Second,
	})

	if err := c.Play(context.Background(), "vid1.mp4"); err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	status, err := c.PollStatus(context.Background())
	if err != nil {
		t.Fatalf("PollStatus() error = %v", err)
	}
	if !status.Playing || status.VideoPath != "vid1.mp4" {
		t.Errorf("PollStatus() = %+v", status)
	}
}

func TestBreakerTripsOnRepeatedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(config.VideoConfig{
		PlayerURL:             srv.URL,
		PlayerTimeout:         time.Second,
		DegradedRetryInterval: time.Minute,
	})

	for i := 0; i < 3; i++ {
		_ = c.Stop(context.Background())
	}

	if !c.Degraded() {
		t.Error("Degraded() = false after 3 consecutive failures")
	}
}
