// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package api implements the HTTP surface spec §6 defines: a handful of
// routes with their own ad hoc success bodies, and one shared error shape.
package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cartographus/internal/apierr"
	"github.com/tomtom215/cartographus/internal/logging"
)

// ResponseWriter writes the wire bodies spec §6/§7 define. Unlike the
// teacher's analytics API, there is no single envelope shape for success
// responses — each route returns its own JSON shape (a token, a snapshot,
// an ack) — so ResponseWriter.JSON just encodes whatever the handler
// passes it. Only errors share a fixed shape.
type ResponseWriter struct {
	w http.ResponseWriter
	r *http.Request
}

// NewResponseWriter creates a ResponseWriter for one request.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{w: w, r: r}
}

// JSON writes data as the body at the given status code.
func (rw *ResponseWriter) JSON(status int, data interface{}) {
	rw.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.w.WriteHeader(status)
	if err := json.NewEncoder(rw.w).Encode(data); err != nil {
		logging.Error().Err(err).Str("path", rw.r.URL.Path).Msg("failed to encode JSON response")
	}
}

// errorBody is the wire shape every error response shares: spec §7,
// {error: <KIND>, message, details?}.
type errorBody struct {
	Error   apierr.Kind `json:"error"`
	Message string      `json:"message"`
	Details []string    `json:"details,omitempty"`
}

// Error writes apiErr using its Kind's mapped HTTP status.
func (rw *ResponseWriter) Error(apiErr *apierr.Error) {
	rw.JSON(apiErr.StatusCode(), errorBody{
		Error:   apiErr.Kind,
		Message: apiErr.Message,
		Details: apiErr.Details,
	})
}

// WriteJSON is a convenience wrapper for handlers that don't otherwise
// need a ResponseWriter.
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	NewResponseWriter(w, r).JSON(status, data)
}

// WriteError is a convenience wrapper for the shared error shape.
func WriteError(w http.ResponseWriter, r *http.Request, apiErr *apierr.Error) {
	NewResponseWriter(w, r).Error(apiErr)
}
