// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package config provides centralized configuration management for the
orchestrator process: the session & transaction engine, the video queue, the
websocket event fabric, the domain event bus, and the admin/GM HTTP surface
all read from one immutable Config.

# Configuration Sources

Configuration loads in three layers, each overriding the last:

  - Defaults: sensible built-in values for every optional setting
  - Config File: an optional YAML file (config.yaml or $CONFIG_PATH)
  - Environment Variables: the highest-priority override, used for secrets
    and per-deployment tuning

# Configuration Structure

  - ServerConfig: HTTP listen address, request/shutdown timeouts
  - APIConfig: pagination defaults for list endpoints
  - SecurityConfig: JWT bearer auth, the single shared admin password, rate
    limiting, CORS
  - LoggingConfig: zerolog level/format/caller settings
  - StorageConfig: the Badger-backed opaque key/value store
  - SessionConfig: offline-queue bound and heartbeat tuning for the
    session & transaction engine
  - VideoConfig: the external video-player RPC endpoint and conflict-arbiter
    timing
  - RealtimeConfig: websocket fabric ping/pong and close-drain timing
  - EventsConfig: the embedded NATS JetStream domain event bus that
    decouples the engines from the event fabric

# Environment Variables

HTTP Server (ServerConfig):
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 3857)
  - REQUEST_TIMEOUT: Per-handler budget (default: 10s)
  - SHUTDOWN_TIMEOUT: Hard cap on graceful drain (default: 5s)
  - ENVIRONMENT: development, staging, or production

Authentication (SecurityConfig):
  - JWT_SECRET: JWT signing secret (min 32 chars, required)
  - SESSION_TIMEOUT: Bearer token lifetime (default: 24h)
  - ADMIN_PASSWORD: The single shared GM/admin password (required)
  - RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW: Token-bucket rate limiting
  - CORS_ORIGINS: Comma-separated allowed origins (rejects "*" in production)
  - TRUSTED_PROXIES: Comma-separated proxy IPs allowed to set X-Forwarded-For

Storage (StorageConfig):
  - STORAGE_PATH: Badger data directory (default: /data/cartographus/badger)
  - STORAGE_IN_MEMORY: Skip the disk backing entirely (tests)
  - STORAGE_SYNC_WRITES: fsync every write (default: true)
  - STORAGE_CLEANUP_INTERVAL: Periodic retention sweep (default: 1h)

Session & Offline Protocol (SessionConfig):
  - OFFLINE_QUEUE_CAP: Per-client, per-kind bound (default: 100)
  - HEARTBEAT_INTERVAL / HEARTBEAT_TIMEOUT: Reconnect detection tuning
  - PERSIST_TIMEOUT: Budget for the durable write inside processScan

Video Queue (VideoConfig):
  - VIDEO_PLAYER_URL: External player RPC base URL (empty runs degraded mode)
  - VIDEO_PLAYER_TIMEOUT: Per-call RPC budget
  - VIDEO_STATUS_POLL_INTERVAL / VIDEO_DEGRADED_RETRY_INTERVAL

Event Fabric (RealtimeConfig):
  - WS_PING_INTERVAL / WS_PONG_WAIT / WS_WRITE_WAIT
  - WS_MAX_MESSAGE_BYTES: Per-frame size cap
  - WS_CLOSE_TIMEOUT: Hard cap on socket drain during shutdown (default: 5s)
  - WS_OUTBOUND_BUFFER_SIZE: Per-client outbound queue depth

Domain Event Bus (EventsConfig):
  - EVENTS_ENABLED: Toggle the bus (default: true)
  - EVENTS_EMBEDDED: Run an embedded NATS server (default: true)
  - EVENTS_URL: External NATS URL, used only when EVENTS_EMBEDDED=false
  - EVENTS_STORE_DIR: JetStream storage directory for the embedded server

Logging (LoggingConfig):
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json, console (default: json)
  - LOG_CALLER: Include caller file:line (default: false)

# Usage Example

	import "github.com/tomtom215/cartographus/internal/config"

	cfg, err := config.Load()
	if err != nil {
	    log.Fatalf("Failed to load config: %v", err)
	}

	fmt.Printf("Starting server on %s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("Storage path: %s\n", cfg.Storage.Path)

Testing with custom configuration:

	os.Setenv("HTTP_PORT", "8080")
	os.Setenv("JWT_SECRET", "test-secret-at-least-32-characters-long")
	os.Setenv("ADMIN_PASSWORD", "correct-horse-battery-staple")

	cfg, err := config.Load()
	// Use cfg for testing

# Validation

  - Required fields: JWT_SECRET, ADMIN_PASSWORD
  - String length: JWT_SECRET ≥32 chars
  - Numeric ranges: HTTP_PORT (1-65535), RATE_LIMIT_REQUESTS (1-100000)
  - Duration bounds: HEARTBEAT_TIMEOUT must exceed HEARTBEAT_INTERVAL,
    WS_PONG_WAIT must exceed WS_PING_INTERVAL
  - URL formats: VIDEO_PLAYER_URL and EVENTS_URL must be valid when set
  - Placeholder rejection: JWT_SECRET/ADMIN_PASSWORD containing CHANGEME,
    PLACEHOLDER, etc. are refused
  - Production mode additionally enforces: no wildcard CORS, and the admin
    password must satisfy the NIST SP 800-63B policy in password_policy.go

# Defaults

  - HTTP_PORT: 3857 (matches EPSG:3857 Web Mercator projection, kept from
    this codebase's prior life as a map-tile server)
  - SESSION_TIMEOUT: 24 hours (spec-mandated bearer token lifetime)
  - OFFLINE_QUEUE_CAP: 100 entries per client per kind
  - WS_CLOSE_TIMEOUT / SHUTDOWN_TIMEOUT: 5 seconds (bounded drain on shutdown)

# Thread Safety

The Config struct is immutable after Load() returns, making it safe for
concurrent access from multiple goroutines without synchronization.

# See Also

  - internal/storage: the Badger-backed KV store StorageConfig provisions
  - internal/auth: consumes SecurityConfig for JWT and admin-password checks
  - internal/wsfabric: consumes RealtimeConfig for the event fabric
*/
package config
