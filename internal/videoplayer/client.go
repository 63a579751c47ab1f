// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package videoplayer wraps the external video-player RPC client (a binary
play/pause/stop/status capability — an external collaborator per spec §1,
not respecified here) in a circuit breaker so a crashed or unreachable
player flips internal/video into degraded mode instead of hammering a dead
process with retries.
*/
package videoplayer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cartographus/internal/config"
	"github.com/tomtom215/cartographus/internal/metrics"
)

// Status is the external player's reported playback state.
type Status struct {
	Playing   bool   `json:"playing"`
	VideoPath string `json:"videoPath,omitempty"`
}

// Client issues play/pause/stop/status RPCs against the external player,
// tripping its circuit breaker after repeated failures.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// New builds a Client from VideoConfig. An empty PlayerURL is valid —
// callers should check Configured() before issuing calls, since the queue
// runs in permanent degraded mode without a player configured.
func New(cfg config.VideoConfig) *Client {
	settings := gobreaker.Settings{
		Name:        "video-player",
		MaxRequests: 1,
		Interval:    0,
		Timeout:     cfg.DegradedRetryInterval,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String())
		},
	}

	return &Client{
		baseURL: cfg.PlayerURL,
		http:    &http.Client{Timeout: cfg.PlayerTimeout},
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// Configured reports whether a player URL was set at all.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// Degraded reports whether the circuit breaker is currently open, meaning
// calls are being rejected locally rather than reaching the player.
func (c *Client) Degraded() bool {
	return c.breaker.State() == gobreaker.StateOpen
}

// Play issues a play command for videoPath.
func (c *Client) Play(ctx context.Context, videoPath string) error {
	_, err := c.call(ctx, "play", map[string]string{"videoPath": videoPath})
	return err
}

// Pause, Resume, Stop issue their respective commands with no payload.
func (c *Client) Pause(ctx context.Context) error  { _, err := c.call(ctx, "pause", nil); return err }
func (c *Client) Resume(ctx context.Context) error { _, err := c.call(ctx, "resume", nil); return err }
func (c *Client) Stop(ctx context.Context) error   { _, err := c.call(ctx, "stop", nil); return err }

// PollStatus fetches the player's current status.
func (c *Client) PollStatus(ctx context.Context) (Status, error) {
	data, err := c.call(ctx, "status", nil)
	if err != nil {
		return Status{}, err
	}
	var status Status
	if err := json.Unmarshal(data, &status); err != nil {
		return Status{}, fmt.Errorf("decode player status: %w", err)
	}
	return status, nil
}

func (c *Client) call(ctx context.Context, command string, payload interface{}) ([]byte, error) {
	result, err := c.breaker.Execute(func() ([]byte, error) {
		var body bytes.Buffer
		if payload != nil {
			if err := json.NewEncoder(&body).Encode(payload); err != nil {
				return nil, fmt.Errorf("encode player command: %w", err)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+command, &body)
		if err != nil {
			return nil, fmt.Errorf("build player request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("player request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("player returned status %d", resp.StatusCode)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read player response: %w", err)
		}
		return data, nil
	})

	return result, err
}
