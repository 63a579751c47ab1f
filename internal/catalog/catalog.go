// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package catalog loads the static token catalog (token ID -> value, group,
media assets, memory type). Token/media catalog loading is an external
collaborator per spec §1 ("deliberately out of scope... not respecified
here"); this package is the minimal read-only loader the engine depends on,
not a restatement of the spec's core.
*/
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/tomtom215/cartographus/internal/models"
)

// Catalog is a read-only, in-memory token catalog. It is safe for
// concurrent reads from multiple goroutines once loaded.
type Catalog struct {
	tokens map[string]models.Token
	groups map[string][]models.Token
}

// Load reads a JSON array of models.Token from path and builds a Catalog.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read token catalog: %w", err)
	}

	var tokens []models.Token
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("parse token catalog: %w", err)
	}

	return New(tokens), nil
}

// New builds a Catalog directly from a token slice (used by Load and by
// tests that don't want a fixture file on disk).
func New(tokens []models.Token) *Catalog {
	c := &Catalog{
		tokens: make(map[string]models.Token, len(tokens)),
		groups: make(map[string][]models.Token),
	}
	for _, tok := range tokens {
		c.tokens[tok.ID] = tok
		if tok.InGroup() {
			c.groups[tok.GroupID] = append(c.groups[tok.GroupID], tok)
		}
	}
	return c
}

// Lookup returns the token for id, if known.
func (c *Catalog) Lookup(id string) (models.Token, bool) {
	tok, ok := c.tokens[id]
	return tok, ok
}

// GroupMembers returns every token belonging to groupID.
func (c *Catalog) GroupMembers(groupID string) []models.Token {
	return c.groups[groupID]
}

// GroupComplete reports whether scanned (a set of token IDs) contains every
// member of groupID.
func (c *Catalog) GroupComplete(groupID string, scanned map[string]bool) bool {
	members := c.groups[groupID]
	if len(members) == 0 {
		return false
	}
	for _, tok := range members {
		if !scanned[tok.ID] {
			return false
		}
	}
	return true
}

// GroupValueSum returns the sum of token values in groupID.
func (c *Catalog) GroupValueSum(groupID string) int {
	sum := 0
	for _, tok := range c.groups[groupID] {
		sum += tok.Value
	}
	return sum
}

// All returns every token in the catalog, sorted by ID for a stable
// GET /api/tokens response.
func (c *Catalog) All() []models.Token {
	out := make([]models.Token, 0, len(c.tokens))
	for _, tok := range c.tokens {
		out = append(out, tok)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
