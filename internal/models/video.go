// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package models

import "time"

// VideoStatus is the lifecycle state of a VideoQueueItem. At most one item
// across the whole queue may be Playing at any instant.
type VideoStatus string

const (
	VideoPending   VideoStatus = "pending"
	VideoLoading   VideoStatus = "loading"
	VideoPlaying   VideoStatus = "playing"
	VideoCompleted VideoStatus = "completed"
	VideoFailed    VideoStatus = "failed"
)

// VideoQueueItem is one pending or active video playback request.
type VideoQueueItem struct {
	ID            string      `json:"id"`
	TokenID       string      `json:"tokenId"`
	VideoPath     string      `json:"videoPath"`
	RequestedBy   string      `json:"requestedBy"`
	Status        VideoStatus `json:"status"`
	RequestTime   time.Time   `json:"requestTime"`
	PlaybackStart *time.Time  `json:"playbackStart,omitempty"`
	PlaybackEnd   *time.Time  `json:"playbackEnd,omitempty"`
	Error         string      `json:"error,omitempty"`
}

// ExpectedEndTime returns when a playing item is expected to finish, used
// to compute the waitTime hint on a rejected conflicting scan.
func (v *VideoQueueItem) ExpectedEndTime() time.Time {
	if v.PlaybackEnd != nil {
		return *v.PlaybackEnd
	}
	return time.Time{}
}
