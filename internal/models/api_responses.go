// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package models

import (
	"time"
)

// APIResponse is the standardized wrapper every /api HTTP endpoint returns.
//
// Status is "success" or "error". Error is populated only when Status is
// "error"; Data only when Status is "success".
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data,omitempty"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is the {code, message, details} shape used by internal/apierr.
type APIError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// AdminAuthRequest is the body of POST /api/admin/auth.
type AdminAuthRequest struct {
	Password string `json:"password" validate:"required"`
}

// AdminAuthResponse is the successful reply to POST /api/admin/auth.
type AdminAuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
