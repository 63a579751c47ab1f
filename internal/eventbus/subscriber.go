// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package eventbus

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Handler processes one decoded Envelope received on a subject.
type Handler func(subject string, env Envelope)

// Registry tracks every subscription made through it so Cleanup can
// unsubscribe all of them — the listener-registry invariant from spec §4.2
// applies on the bus side too: nothing may outlive a fabric teardown.
type Registry struct {
	conn   *nats.Conn
	logger zerolog.Logger

	mu   sync.Mutex
	subs []*nats.Subscription
}

// NewRegistry returns a Registry bound to bus.
func NewRegistry(bus *Bus, logger zerolog.Logger) *Registry {
	return &Registry{conn: bus.conn, logger: logger}
}

// Subscribe registers handler for subject and records the subscription.
func (r *Registry) Subscribe(subject string, handler Handler) error {
	sub, err := r.conn.Subscribe(subject, func(msg *nats.Msg) {
		var env Envelope
		if err := json.Unmarshal(msg.Data, &env); err != nil {
			r.logger.Error().Err(err).Str("subject", subject).Msg("decode domain event envelope")
			return
		}
		handler(subject, env)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}

	r.mu.Lock()
	r.subs = append(r.subs, sub)
	r.mu.Unlock()
	return nil
}

// Cleanup unsubscribes every subscription this registry created and clears
// its bookkeeping. Idempotent.
func (r *Registry) Cleanup() error {
	r.mu.Lock()
	subs := r.subs
	r.subs = nil
	r.mu.Unlock()

	var firstErr error
	for _, sub := range subs {
		if err := sub.Unsubscribe(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Len reports the number of live subscriptions, for tests asserting
// cleanup actually drained the registry.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}
