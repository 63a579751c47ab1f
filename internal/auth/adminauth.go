// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the teacher's chosen work factor: strong enough to
// resist offline brute force, cheap enough for a login that happens a
// handful of times per session.
const bcryptCost = 12

// AdminVerifier checks a submitted password against the single configured
// admin password. There are no other accounts: every GM and facilitator
// shares this one credential, scoped down from the multi-account Basic Auth
// system this package used to carry.
type AdminVerifier struct {
	hash []byte
}

// NewAdminVerifier hashes the configured admin password once at startup and
// returns a verifier that can check candidate passwords in constant time.
// It returns an error if password is empty, since an empty admin password
// would accept every login attempt.
func NewAdminVerifier(password string) (*AdminVerifier, error) {
	if password == "" {
		return nil, fmt.Errorf("admin password is required but was empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}

	return &AdminVerifier{hash: hash}, nil
}

// NewAdminVerifierFromHash constructs a verifier from an already-hashed
// password, for deployments that provision the hash out of band instead of
// handing the plaintext admin password to the process.
func NewAdminVerifierFromHash(hash string) (*AdminVerifier, error) {
	if hash == "" {
		return nil, fmt.Errorf("admin password hash is required but was empty")
	}
	return &AdminVerifier{hash: []byte(hash)}, nil
}

// Verify reports whether candidate matches the configured admin password.
// Comparison is constant-time via bcrypt; callers should still route failed
// attempts through LockoutManager to slow down brute force.
func (v *AdminVerifier) Verify(candidate string) bool {
	if candidate == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword(v.hash, []byte(candidate))
	return err == nil
}
