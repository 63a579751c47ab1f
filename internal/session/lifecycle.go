// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/tomtom215/cartographus/internal/apierr"
	"github.com/tomtom215/cartographus/internal/metrics"
	"github.com/tomtom215/cartographus/internal/models"
)

// CreateSession starts a new session. Fails with KindSessionExists if
// another session is not yet ended.
func (e *Engine) CreateSession(ctx context.Context, name string, teams []string) (*models.Session, error) {
	var result *models.Session
	var outErr error

	e.do(func() {
		if e.session != nil && e.session.Status != models.SessionEnded {
			outErr = apierr.New(apierr.KindSessionExists, "a session is already active")
			return
		}

		sess := &models.Session{
			ID:        uuid.NewString(),
			Name:      name,
			StartTime: nowUTC(),
			Status:    models.SessionActive,
			Teams:     append([]string(nil), teams...),
			Metadata:  models.NewSessionMetadata(),
		}
		e.session = sess
		e.scores = make(map[string]*models.TeamScore)
		for _, team := range teams {
			e.scores[team] = models.NewTeamScore(team)
		}

		if err := e.persistLocked(ctx); err != nil {
			outErr = apierr.Internal("failed to persist new session")
			e.session = nil
			return
		}

		cp := *sess
		result = &cp
		metrics.SessionActive.Set(1)
		e.publish("session:created", &cp)
	})

	return result, outErr
}

// EndSession transitions the current session to ended.
func (e *Engine) EndSession(ctx context.Context) (*models.Session, error) {
	var result *models.Session
	var outErr error

	e.do(func() {
		if e.session == nil {
			outErr = errNoSession
			return
		}
		now := nowUTC()
		e.session.Status = models.SessionEnded
		e.session.EndTime = &now

		if err := e.persistLocked(ctx); err != nil {
			outErr = apierr.Internal("failed to persist ended session")
			return
		}

		cp := *e.session
		result = &cp
		metrics.SessionActive.Set(0)
		e.publish("session:updated", &cp)
	})

	return result, outErr
}

// Pause transitions the session to paused; scans submitted while paused
// fail with KindSessionPaused.
func (e *Engine) Pause(ctx context.Context) (*models.Session, error) {
	return e.setStatus(ctx, models.SessionPaused)
}

// Resume transitions a paused session back to active.
func (e *Engine) Resume(ctx context.Context) (*models.Session, error) {
	return e.setStatus(ctx, models.SessionActive)
}

func (e *Engine) setStatus(ctx context.Context, status models.SessionStatus) (*models.Session, error) {
	var result *models.Session
	var outErr error

	e.do(func() {
		if e.session == nil {
			outErr = errNoSession
			return
		}
		e.session.Status = status

		if err := e.persistLocked(ctx); err != nil {
			outErr = apierr.Internal("failed to persist session status change")
			return
		}

		if status == models.SessionActive {
			metrics.SessionActive.Set(1)
		} else {
			metrics.SessionActive.Set(0)
		}

		cp := *e.session
		result = &cp
		e.publish("session:updated", &cp)
	})

	return result, outErr
}
