// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package models

import "time"

// ScoreAdjustment is one admin-initiated delta applied on top of the
// transaction-derived score.
type ScoreAdjustment struct {
	Delta  int       `json:"delta"`
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}

// TeamScore is fully derivable by replaying a session's transaction log
// plus its adminAdjustments against the token catalog; it carries no
// identity outside the session it belongs to.
type TeamScore struct {
	TeamID           string            `json:"teamId"`
	BaseScore        int               `json:"baseScore"`
	BonusPoints      int               `json:"bonusPoints"`
	AdminAdjustments []ScoreAdjustment `json:"adminAdjustments"`
	TokensScanned    int               `json:"tokensScanned"`
	CompletedGroups  []string          `json:"completedGroups"`
	LastUpdate       time.Time         `json:"lastUpdate"`
}

// CurrentScore is baseScore + bonusPoints + the sum of admin adjustments.
func (t *TeamScore) CurrentScore() int {
	total := t.BaseScore + t.BonusPoints
	for _, adj := range t.AdminAdjustments {
		total += adj.Delta
	}
	return total
}

// HasCompletedGroup reports whether groupID is already in CompletedGroups.
func (t *TeamScore) HasCompletedGroup(groupID string) bool {
	for _, g := range t.CompletedGroups {
		if g == groupID {
			return true
		}
	}
	return false
}

// NewTeamScore returns a zeroed score for teamID.
func NewTeamScore(teamID string) *TeamScore {
	return &TeamScore{
		TeamID:           teamID,
		AdminAdjustments: []ScoreAdjustment{},
		CompletedGroups:  []string{},
	}
}
