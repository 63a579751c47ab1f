// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cartographus/internal/apierr"
	"github.com/tomtom215/cartographus/internal/catalog"
	"github.com/tomtom215/cartographus/internal/config"
	"github.com/tomtom215/cartographus/internal/eventbus"
	"github.com/tomtom215/cartographus/internal/models"
	"github.com/tomtom215/cartographus/internal/storage"
	"github.com/tomtom215/cartographus/internal/video"
	"github.com/tomtom215/cartographus/internal/videoplayer"
)

// Engine owns the current session, its transaction log, and derived team
// scores. Construct with NewEngine and run Serve in its own goroutine
// (suture does this automatically when Engine is added to a supervisor
// tree) before calling any other method.
type Engine struct {
	cmds chan func()

	store     storage.Store
	catalog   *catalog.Catalog
	publisher eventbus.Publisher
	logger    zerolog.Logger
	cfg       config.SessionConfig

	session *models.Session
	scores  map[string]*models.TeamScore

	// videoQueue and player are optional; see SetVideoSource. Set once
	// during startup wiring, read-only afterward, so no actor
	// synchronization is needed to access them from syncPayloadLocked.
	videoQueue *video.Queue
	player     *videoplayer.Client
}

// NewEngine constructs an Engine. Call Serve before using it.
func NewEngine(store storage.Store, cat *catalog.Catalog, publisher eventbus.Publisher, cfg config.SessionConfig, logger zerolog.Logger) *Engine {
	return &Engine{
		cmds:      make(chan func()),
		store:     store,
		catalog:   cat,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		scores:    make(map[string]*models.TeamScore),
	}
}

// Serve runs the engine's single-writer loop until ctx is cancelled. It
// satisfies suture.Service.
func (e *Engine) Serve(ctx context.Context) error {
	e.restore(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-e.cmds:
			cmd()
		}
	}
}

// do runs fn on the engine's single-writer goroutine and blocks until it
// completes. Every exported mutating method is built on this.
func (e *Engine) do(fn func()) {
	done := make(chan struct{})
	e.cmds <- func() {
		fn()
		close(done)
	}
	<-done
}

// restore loads the current session (if any) from storage at startup, so a
// supervisor-triggered restart resumes rather than starting blank.
func (e *Engine) restore(ctx context.Context) {
	data, err := e.store.Load(ctx, storage.KeySessionCurrent)
	if err != nil {
		return // ErrNotFound is the common, unremarkable case
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		e.logger.Error().Err(err).Msg("failed to decode persisted session, starting without one")
		return
	}

	e.session = &sess
	e.scores = make(map[string]*models.TeamScore)
	e.recomputeScoresLocked()
	e.logger.Info().Str("sessionId", sess.ID).Msg("restored session from storage")
}

// persistLocked writes the current session to storage under a bounded
// timeout, matching spec §5's "must not block beyond a configurable
// budget" rule for the persistence write inside processScan.
func (e *Engine) persistLocked(ctx context.Context) error {
	if e.session == nil {
		return nil
	}

	data, err := json.Marshal(e.session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	saveCtx, cancel := context.WithTimeout(ctx, e.cfg.PersistTimeout)
	defer cancel()

	if err := e.store.Save(saveCtx, storage.KeySessionCurrent, data); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	if err := e.store.Save(saveCtx, storage.SessionKey(e.session.ID), data); err != nil {
		return fmt.Errorf("persist session snapshot: %w", err)
	}
	return nil
}

// publish sends a domain event envelope, logging but not failing the
// calling operation if the bus is unreachable — fan-out is best-effort
// from the engine's point of view.
func (e *Engine) publish(subject string, data interface{}) {
	env := eventbus.Envelope{Kind: subject, Data: data}
	if e.session != nil {
		env.SessionID = e.session.ID
	}
	if err := e.publisher.Publish(subject, env); err != nil {
		e.logger.Error().Err(err).Str("subject", subject).Msg("publish domain event")
	}
}

// CurrentSession returns a snapshot of the active session, or nil if none.
func (e *Engine) CurrentSession(ctx context.Context) *models.Session {
	var out *models.Session
	e.do(func() {
		if e.session != nil {
			cp := *e.session
			out = &cp
		}
	})
	return out
}

// TeamScores returns a snapshot of every team's derived score.
func (e *Engine) TeamScores(ctx context.Context) map[string]*models.TeamScore {
	out := make(map[string]*models.TeamScore)
	e.do(func() {
		for id, score := range e.scores {
			cp := *score
			out[id] = &cp
		}
	})
	return out
}

var errNoSession = apierr.New(apierr.KindNoSession, "no active session")
var errSessionPaused = apierr.New(apierr.KindSessionPaused, "session is paused")

func nowUTC() time.Time {
	return time.Now().UTC()
}
