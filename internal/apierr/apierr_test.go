// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package apierr

import (
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindAuthRequired, http.StatusUnauthorized},
		{KindDuplicate, http.StatusOK},
		{KindQueueFull, http.StatusInsufficientStorage},
		{KindVideoBusy, http.StatusConflict},
		{KindInternal, http.StatusInternalServerError},
		{Kind("UNKNOWN"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := New(tt.kind, "message")
			if got := err.StatusCode(); got != tt.want {
				t.Errorf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := New(KindValidation, "teamId is required", "teamId")
	if err.Error() != "teamId is required" {
		t.Errorf("Error() = %q", err.Error())
	}
	if len(err.Details) != 1 || err.Details[0] != "teamId" {
		t.Errorf("Details = %v", err.Details)
	}
}

func TestInternal(t *testing.T) {
	err := Internal("storage write failed")
	if err.Kind != KindInternal {
		t.Errorf("Kind = %v, want KindInternal", err.Kind)
	}
	if err.StatusCode() != http.StatusInternalServerError {
		t.Errorf("StatusCode() = %d, want 500", err.StatusCode())
	}
}
