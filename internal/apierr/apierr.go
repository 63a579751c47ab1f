// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package apierr defines the closed set of error kinds the orchestrator
surfaces to clients and maps each to an HTTP status code. Domain
rejections that are normal game outcomes (a duplicate scan, a rejected
video conflict) are never errors — they are outcomes recorded on the
transaction or video-queue item itself. This package is only for the
handful of structural and authorization failures spec §7 names.
*/
package apierr

import "net/http"

// Kind is one of the closed set of error kinds the orchestrator reports.
type Kind string

const (
	KindAuthRequired      Kind = "AUTH_REQUIRED"
	KindAuthInvalid       Kind = "AUTH_INVALID"
	KindDeviceIDCollision Kind = "DEVICE_ID_COLLISION"
	KindValidation        Kind = "VALIDATION_ERROR"
	KindNoSession         Kind = "NO_SESSION"
	KindSessionPaused     Kind = "SESSION_PAUSED"
	KindSessionExists     Kind = "SESSION_EXISTS"
	KindDuplicate         Kind = "DUPLICATE"
	KindVideoBusy         Kind = "VIDEO_BUSY"
	KindQueueFull         Kind = "QUEUE_FULL"
	KindRateLimit         Kind = "RATE_LIMIT"
	KindInternal          Kind = "INTERNAL_ERROR"
)

var statusByKind = map[Kind]int{
	KindAuthRequired:      http.StatusUnauthorized,
	KindAuthInvalid:       http.StatusUnauthorized,
	KindDeviceIDCollision: http.StatusConflict,
	KindValidation:        http.StatusBadRequest,
	KindNoSession:         http.StatusConflict,
	KindSessionPaused:     http.StatusConflict,
	KindSessionExists:     http.StatusConflict,
	KindDuplicate:         http.StatusOK,
	KindVideoBusy:         http.StatusConflict,
	KindQueueFull:         http.StatusInsufficientStorage,
	KindRateLimit:         http.StatusTooManyRequests,
	KindInternal:          http.StatusInternalServerError,
}

// Error is a typed, client-facing error carrying the kind, a human message,
// and optional structured detail strings (e.g. offending field names).
type Error struct {
	Kind    Kind
	Message string
	Details []string
}

func (e *Error) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status the API layer should write for e.Kind.
func (e *Error) StatusCode() int {
	if code, ok := statusByKind[e.Kind]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// New constructs an Error of the given kind.
func New(kind Kind, message string, details ...string) *Error {
	return &Error{Kind: kind, Message: message, Details: details}
}

// Internal wraps a structural Go error as an INTERNAL_ERROR without leaking
// its text to the client; message is a safe, generic description.
func Internal(message string) *Error {
	return &Error{Kind: KindInternal, Message: message}
}
