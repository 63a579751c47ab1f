// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package adminplane

// Payload shapes for the closed gm:command action catalog (spec §4.5).
// Each is validated with go-playground/validator before being handed to
// internal/session.Engine or internal/video.Queue.

type sessionCreatePayload struct {
	Name  string   `json:"name" validate:"required"`
	Teams []string `json:"teams" validate:"required,min=1"`
}

type transactionDeletePayload struct {
	TxID string `json:"txId" validate:"required"`
}

type scoreAdjustPayload struct {
	TeamID string `json:"teamId" validate:"required"`
	Delta  int    `json:"delta"`
	Reason string `json:"reason" validate:"required"`
}

type scoresResetPayload struct {
	Teams []string `json:"teams"`
}

type videoControlPayload struct {
	TokenID string `json:"tokenId"`
}

type videoQueueAddPayload struct {
	Path string `json:"path" validate:"required"`
}

type videoQueueReorderPayload struct {
	ItemIDs []string `json:"itemIds" validate:"required"`
}

type deviceResetPayload struct {
	DeviceID string `json:"deviceId" validate:"required"`
}
