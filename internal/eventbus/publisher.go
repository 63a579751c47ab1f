// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package eventbus

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/tomtom215/cartographus/internal/metrics"
)

// Publisher is the narrow interface internal/session and internal/video
// depend on; they know nothing about NATS, subscriptions, or the fabric.
type Publisher interface {
	Publish(subject string, env Envelope) error
}

// natsPublisher implements Publisher over a *Bus connection.
type natsPublisher struct {
	conn *nats.Conn
}

// NewPublisher returns a Publisher bound to bus.
func NewPublisher(bus *Bus) Publisher {
	return &natsPublisher{conn: bus.conn}
}

func (p *natsPublisher) Publish(subject string, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		metrics.RecordEventPublishError()
		return fmt.Errorf("marshal event envelope: %w", err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		metrics.RecordEventPublishError()
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	metrics.RecordEventPublished(subject)
	return nil
}

// NoopPublisher discards every event; used in tests that don't care about
// fan-out.
type NoopPublisher struct{}

func (NoopPublisher) Publish(string, Envelope) error { return nil }
