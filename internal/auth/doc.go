// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package auth provides authentication and security middleware for the GM/admin
control surface.

There is exactly one credential: a single shared admin password, configured
once at startup and verified with bcrypt. There are no per-user accounts, no
sessions, and no OAuth/OIDC flows. A successful POST to /api/admin/auth
exchanges that password for a short-lived JWT bearer token; every subsequent
admin-plane request carries that token in an Authorization: Bearer header.

Key Components:

  - AdminVerifier: bcrypt comparison of the configured admin password hash
  - JWTManager: token generation and validation using HMAC-SHA256
  - LockoutManager: exponential-backoff lockout after repeated failed logins
  - Middleware: HTTP middleware for authentication, rate limiting, and CORS
  - RateLimiter: token bucket rate limiter (configurable requests per window)

Usage Example:

	import (
	    "github.com/tomtom215/cartographus/internal/auth"
	    "github.com/tomtom215/cartographus/internal/config"
	)

	jwtManager, err := auth.NewJWTManager(cfg.Security)
	if err != nil {
	    log.Fatal(err)
	}

	verifier, err := auth.NewAdminVerifier(cfg.Security.AdminPassword)
	if err != nil {
	    log.Fatal(err)
	}

	if verifier.Verify(submittedPassword) {
	    token, err := jwtManager.GenerateToken("gm", "admin")
	    ...
	}

Usage Example - Middleware:

	middleware := auth.NewMiddleware(
	    jwtManager,
	    100,                 // requests per window
	    time.Minute,         // window duration
	    false,               // rate limiting disabled?
	    []string{"*"},       // CORS origins
	    []string{},          // trusted proxies
	)

	http.HandleFunc("/api/admin/sessions",
	    middleware.CORS(
	        middleware.RateLimit(
	            middleware.RequireRole("admin", handler),
	        ),
	    ),
	)

Security Features:

  - Password hashing: bcrypt with cost 12
  - Token signing: HMAC-SHA256 with a 32+ character secret
  - Algorithm confusion defense: ValidateToken rejects any non-HMAC alg
  - Lockout: exponential backoff per subject (and optionally per IP) after
    repeated failed login attempts, see LockoutManager
  - Rate limiting: token bucket algorithm, configurable per deployment
  - CORS: configurable allowed origins
  - CSP: nonce-based Content Security Policy scoped to the GM console's own
    assets plus the websocket fabric (wss:/ws: in connect-src)
  - IP extraction: X-Forwarded-For / X-Real-IP honored only from configured
    trusted proxies

Thread Safety:

All components are safe for concurrent use. RateLimiter and LockoutManager
guard their internal maps with sync.RWMutex; JWTManager and AdminVerifier are
read-only after construction.

See Also:

  - internal/adminplane: gm:command dispatch protected by this middleware
  - internal/api: HTTP routes exposing /api/admin/auth and friends
  - internal/audit: records of authentication and GM-command events
*/
package auth
