// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package catalog

import (
	"testing"

	"github.com/tomtom215/cartographus/internal/models"
)

func testTokens() []models.Token {
	return []models.Token{
		{ID: "rat001", Value: 1000, GroupID: "Marcus Sucks", GroupMultiplier: 2},
		{ID: "rat002", Value: 2000, GroupID: "Marcus Sucks", GroupMultiplier: 2},
		{ID: "rat003", Value: 4000, GroupID: "Marcus Sucks", GroupMultiplier: 2},
		{ID: "jaw001", Value: 500},
	}
}

func TestLookup(t *testing.T) {
	c := New(testTokens())
	tok, ok := c.Lookup("jaw001")
	if !ok || tok.Value != 500 {
		t.Fatalf("Lookup(jaw001) = %v, %v", tok, ok)
	}
	if _, ok := c.Lookup("missing"); ok {
		t.Error("Lookup(missing) should not be found")
	}
}

func TestGroupComplete(t *testing.T) {
	c := New(testTokens())
	scanned := map[string]bool{"rat001": true, "rat002": true}
	if c.GroupComplete("Marcus Sucks", scanned) {
		t.Error("group should not be complete with only 2/3 scanned")
	}
	scanned["rat003"] = true
	if !c.GroupComplete("Marcus Sucks", scanned) {
		t.Error("group should be complete with all 3 scanned")
	}
}

func TestGroupValueSum(t *testing.T) {
	c := New(testTokens())
	if sum := c.GroupValueSum("Marcus Sucks"); sum != 7000 {
		t.Errorf("GroupValueSum() = %d, want 7000", sum)
	}
}
