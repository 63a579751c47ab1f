// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"io"
	"net/http"

	validator "github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/tomtom215/cartographus/internal/apierr"
	"github.com/tomtom215/cartographus/internal/models"
	"github.com/tomtom215/cartographus/internal/video"
)

var validate = validator.New()

// decodeBody reads and validates the JSON request body into v. A nil
// return means v is populated and passed validation.
func decodeBody(r *http.Request, v interface{}) *apierr.Error {
	defer func() { _, _ = io.Copy(io.Discard, r.Body) }()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apierr.New(apierr.KindValidation, "malformed JSON body")
	}
	if err := validate.Struct(v); err != nil {
		return apierr.New(apierr.KindValidation, "request failed validation", err.Error())
	}
	return nil
}

// --- POST /api/admin/auth ---

type adminAuthRequest struct {
	Password string `json:"password" validate:"required"`
}

type adminAuthResponse struct {
	Token string `json:"token"`
}

// AdminAuth exchanges the shared admin password for a bearer token
// (spec §4.5): the only credential in the system.
func (h *Handler) AdminAuth(w http.ResponseWriter, r *http.Request) {
	var req adminAuthRequest
	if apiErr := decodeBody(r, &req); apiErr != nil {
		WriteError(w, r, apiErr)
		return
	}

	if h.adminVerifier == nil || !h.adminVerifier.Verify(req.Password) {
		WriteError(w, r, apierr.New(apierr.KindAuthInvalid, "invalid password"))
		return
	}

	token, err := h.jwtManager.GenerateToken("gm", "gm")
	if err != nil {
		h.logger.Error().Err(err).Msg("generate admin token")
		WriteError(w, r, apierr.Internal("failed to issue token"))
		return
	}

	WriteJSON(w, r, http.StatusOK, adminAuthResponse{Token: token})
}

// --- POST /api/scan ---

type scanRequest struct {
	TokenID  string `json:"tokenId" validate:"required"`
	TeamID   string `json:"teamId"`
	DeviceID string `json:"deviceId" validate:"required"`
}

// Scan is the fire-and-forget player-scanner endpoint (spec §6). It is
// unauthenticated by design — player scanners carry no credential — and
// always scores in blackmarket mode.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if apiErr := decodeBody(r, &req); apiErr != nil {
		WriteError(w, r, apiErr)
		return
	}

	result, err := h.engine.ProcessScan(r.Context(), req.TokenID, req.TeamID, req.DeviceID, models.ModeBlackmarket)
	if err != nil {
		if apiErr, ok := err.(*apierr.Error); ok && apiErr.Kind == apierr.KindNoSession {
			// No session running: tell the scanner to fall back to its own
			// offline queue rather than surface a hard error.
			WriteJSON(w, r, http.StatusAccepted, map[string]bool{"queued": true, "offlineMode": true})
			return
		}
		h.writeScanError(w, r, err)
		return
	}

	if result.Transaction.Status != models.TransactionAccepted {
		WriteJSON(w, r, http.StatusOK, map[string]interface{}{"status": result.Transaction.Status})
		return
	}

	tok, known := h.catalog.Lookup(req.TokenID)
	if !known || !tok.HasVideo() {
		WriteJSON(w, r, http.StatusOK, map[string]interface{}{"status": result.Transaction.Status})
		return
	}

	if _, err := h.queue.Enqueue(r.Context(), tok.ID, tok.MediaAssets.Video, req.DeviceID); err != nil {
		if apiErr, ok := err.(*apierr.Error); ok && apiErr.Kind == apierr.KindVideoBusy {
			WriteJSON(w, r, http.StatusConflict, map[string]interface{}{
				"status":   "rejected",
				"waitTime": firstOrEmpty(apiErr.Details),
			})
			return
		}
		h.writeScanError(w, r, err)
		return
	}

	WriteJSON(w, r, http.StatusOK, map[string]interface{}{
		"status":      result.Transaction.Status,
		"mediaAssets": tok.MediaAssets,
	})
}

func firstOrEmpty(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

func (h *Handler) writeScanError(w http.ResponseWriter, r *http.Request, err error) {
	if apiErr, ok := err.(*apierr.Error); ok {
		WriteError(w, r, apiErr)
		return
	}
	h.logger.Error().Err(err).Msg("unexpected engine error")
	WriteError(w, r, apierr.Internal("request processing failed"))
}

// --- POST /api/transaction/submit ---

type transactionSubmitRequest struct {
	TokenID  string `json:"tokenId" validate:"required"`
	TeamID   string `json:"teamId" validate:"required"`
	DeviceID string `json:"deviceId" validate:"required"`
	Mode     string `json:"mode"`
}

// TransactionSubmit is the GM's bearer-protected HTTP fallback for
// transaction:submit, for when the socket channel is unavailable.
func (h *Handler) TransactionSubmit(w http.ResponseWriter, r *http.Request) {
	var req transactionSubmitRequest
	if apiErr := decodeBody(r, &req); apiErr != nil {
		WriteError(w, r, apiErr)
		return
	}

	mode := models.ModeBlackmarket
	if req.Mode == string(models.ModeDetective) {
		mode = models.ModeDetective
	}

	result, err := h.engine.ProcessScan(r.Context(), req.TokenID, req.TeamID, req.DeviceID, mode)
	if err != nil {
		h.writeScanError(w, r, err)
		return
	}

	WriteJSON(w, r, http.StatusOK, map[string]interface{}{
		"status":        result.Transaction.Status,
		"points":        result.Transaction.Points,
		"transactionId": result.Transaction.ID,
	})
}

// --- POST /api/session ---

type sessionCreateRequest struct {
	Name  string   `json:"name" validate:"required"`
	Teams []string `json:"teams" validate:"required,min=1"`
}

// SessionCreate starts a new session (spec §4.1).
func (h *Handler) SessionCreate(w http.ResponseWriter, r *http.Request) {
	var req sessionCreateRequest
	if apiErr := decodeBody(r, &req); apiErr != nil {
		WriteError(w, r, apiErr)
		return
	}

	sess, err := h.engine.CreateSession(r.Context(), req.Name, req.Teams)
	if err != nil {
		h.writeScanError(w, r, err)
		return
	}

	WriteJSON(w, r, http.StatusCreated, sess)
}

// --- PUT /api/session ---

type sessionUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=active paused ended"`
}

// SessionUpdate drives the session lifecycle (pause/resume/end). The
// session engine exposes only discrete lifecycle transitions, not a
// generic update, so this maps the requested target status onto one of
// them.
func (h *Handler) SessionUpdate(w http.ResponseWriter, r *http.Request) {
	var req sessionUpdateRequest
	if apiErr := decodeBody(r, &req); apiErr != nil {
		WriteError(w, r, apiErr)
		return
	}

	var sess *models.Session
	var err error
	switch models.SessionStatus(req.Status) {
	case models.SessionPaused:
		sess, err = h.engine.Pause(r.Context())
	case models.SessionActive:
		sess, err = h.engine.Resume(r.Context())
	case models.SessionEnded:
		sess, err = h.engine.EndSession(r.Context())
	}
	if err != nil {
		h.writeScanError(w, r, err)
		return
	}

	WriteJSON(w, r, http.StatusOK, sess)
}

// --- GET /api/state ---

type stateSnapshot struct {
	Session *models.Session              `json:"session"`
	Scores  map[string]*models.TeamScore `json:"scores"`
	Video   video.State                  `json:"video"`
}

// State returns the full state snapshot spec §6 names.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	snapshot := stateSnapshot{
		Session: h.engine.CurrentSession(r.Context()),
		Scores:  h.engine.TeamScores(r.Context()),
		Video:   h.queue.Snapshot(r.Context()),
	}
	WriteJSON(w, r, http.StatusOK, snapshot)
}

// --- GET /api/tokens ---

// Tokens returns the full static token catalog.
func (h *Handler) Tokens(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, r, http.StatusOK, h.catalog.All())
}

// --- POST /api/video/control ---

type videoControlRequest struct {
	Command string `json:"command" validate:"required,oneof=play pause resume stop skip"`
	TokenID string `json:"tokenId"`
}

type videoControlResponse struct {
	Success       bool   `json:"success"`
	CurrentStatus string `json:"currentStatus"`
	Degraded      bool   `json:"degraded,omitempty"`
}

// VideoControl is the GM's bearer-protected HTTP control surface for the
// video queue & conflict arbiter (spec §4.3).
func (h *Handler) VideoControl(w http.ResponseWriter, r *http.Request) {
	var req videoControlRequest
	if apiErr := decodeBody(r, &req); apiErr != nil {
		WriteError(w, r, apiErr)
		return
	}

	var err error
	switch req.Command {
	case "play":
		tok, known := h.catalog.Lookup(req.TokenID)
		if !known || !tok.HasVideo() {
			WriteError(w, r, apierr.New(apierr.KindValidation, "token has no video asset"))
			return
		}
		_, err = h.queue.Enqueue(r.Context(), tok.ID, tok.MediaAssets.Video, "admin")
	case "pause":
		err = h.queue.Pause(r.Context())
	case "resume":
		err = h.queue.Resume(r.Context())
	case "stop":
		err = h.queue.Stop(r.Context())
	case "skip":
		err = h.queue.SkipCurrent(r.Context())
	}

	if err != nil {
		h.writeScanError(w, r, err)
		return
	}

	snap := h.queue.Snapshot(r.Context())
	resp := videoControlResponse{Success: true, Degraded: snap.Degraded}
	if snap.Current != nil {
		resp.CurrentStatus = string(snap.Current.Status)
	} else {
		resp.CurrentStatus = "idle"
	}
	WriteJSON(w, r, http.StatusOK, resp)
}
