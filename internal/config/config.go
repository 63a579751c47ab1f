// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from environment variables
// and an optional config file.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in sensible defaults for all optional settings
//  2. Config File: optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: override any setting via environment variables
//
// Configuration Categories:
//
//  1. Core domain:
//     - Session: offline-queue and heartbeat tuning for the session/transaction engine
//     - Video: external video-player RPC endpoint and conflict-arbiter timing
//     - Realtime: websocket fabric timing (ping/pong, close budgets)
//     - Events: domain event bus transport (embedded NATS JetStream)
//
//  2. Infrastructure:
//     - Storage: opaque KV store backing session/transaction persistence
//     - Server: HTTP server configuration (port, host, timeouts)
//
//  3. API & Security:
//     - API: pagination and response limits
//     - Security: JWT bearer auth, admin password, rate limiting, CORS
//
//  4. Observability:
//     - Logging: log levels and output formats
//
// Example - Load configuration from environment:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//
// Validation:
// The Load() function validates all required fields and returns an error if:
//   - JWT_SECRET or ADMIN_PASSWORD is missing or too weak
//   - Values are malformed (invalid URL format, negative numbers)
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access from
// multiple goroutines.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
	Storage  StorageConfig  `koanf:"storage"`
	Session  SessionConfig  `koanf:"session"`
	Video    VideoConfig    `koanf:"video"`
	Realtime RealtimeConfig `koanf:"realtime"`
	Events   EventsConfig   `koanf:"events"`
	Catalog  CatalogConfig  `koanf:"catalog"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`  // per-handler budget (spec: 10s default)
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"` // hard cap on graceful drain (spec: 5s)
	Environment     string        `koanf:"environment"`      // "development", "staging", "production"
}

// APIConfig holds API pagination and response settings.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds authentication, rate limiting, and CORS settings for
// the admin/GM control surface. There is exactly one credential: the shared
// admin password, exchanged for a JWT bearer token at POST /api/admin/auth.
type SecurityConfig struct {
	JWTSecret         string        `koanf:"jwt_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"` // JWT lifetime (spec: 24h)
	AdminPassword     string        `koanf:"admin_password"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// StorageConfig holds settings for the Badger-backed opaque KV store that
// persists session state (`session:current`, `session:<id>`, `gameState:current`).
type StorageConfig struct {
	Path             string        `koanf:"path"`
	InMemory         bool          `koanf:"in_memory"` // run without a disk backing (tests, degraded startup)
	SyncWrites       bool          `koanf:"sync_writes"`
	ValueLogGCPeriod time.Duration `koanf:"value_log_gc_period"`
	CleanupInterval  time.Duration `koanf:"cleanup_interval"` // periodic retention sweep
}

// SessionConfig tunes the session & transaction engine and the offline/reconnect
// protocol.
type SessionConfig struct {
	// OfflineQueueCap is the per-client, per-kind bound on queued offline work
	// (spec: 100; the 101st submission fails QUEUE_FULL).
	OfflineQueueCap int `koanf:"offline_queue_cap"`

	// HeartbeatInterval is how often connected clients are expected to ping.
	HeartbeatInterval time.Duration `koanf:"heartbeat_interval"`

	// HeartbeatTimeout is how long a client may go without a heartbeat before
	// it is considered disconnected/reconnecting.
	HeartbeatTimeout time.Duration `koanf:"heartbeat_timeout"`

	// PersistTimeout bounds how long processScan will wait on the durable
	// write before treating it as a structural failure.
	PersistTimeout time.Duration `koanf:"persist_timeout"`
}

// VideoConfig holds settings for the external video-player RPC and the
// single-resource conflict arbiter.
type VideoConfig struct {
	// PlayerURL is the base URL of the external video-player RPC endpoint
	// (play/pause/stop/status). Empty disables the integration and runs the
	// queue permanently in degraded mode.
	PlayerURL string `koanf:"player_url"`

	// PlayerTimeout bounds each RPC call to the external player.
	PlayerTimeout time.Duration `koanf:"player_timeout"`

	// StatusPollInterval is how often the queue polls player status while a
	// video is playing, to detect completion and flip to degraded mode.
	StatusPollInterval time.Duration `koanf:"status_poll_interval"`

	// DegradedRetryInterval is how often a degraded queue retries contact
	// with the external player.
	DegradedRetryInterval time.Duration `koanf:"degraded_retry_interval"`

	// DefaultPlaybackDuration estimates how long a video plays when the
	// player RPC reports no duration, so a conflicting scan can still be
	// given a waitTime hint.
	DefaultPlaybackDuration time.Duration `koanf:"default_playback_duration"`
}

// RealtimeConfig holds websocket fabric timing.
type RealtimeConfig struct {
	PingInterval    time.Duration `koanf:"ping_interval"`
	PongWait        time.Duration `koanf:"pong_wait"`
	WriteWait       time.Duration `koanf:"write_wait"`
	MaxMessageBytes int64         `koanf:"max_message_bytes"`
	// CloseTimeout bounds socket drain/close during shutdown (spec: 5s).
	CloseTimeout time.Duration `koanf:"close_timeout"`
	// OutboundBufferSize is the per-client outbound queue depth; beyond this,
	// a slow client is disconnected rather than blocking the session actor.
	OutboundBufferSize int `koanf:"outbound_buffer_size"`
}

// EventsConfig holds settings for the embedded domain event bus (NATS
// JetStream) that decouples the session/video engines from the event fabric.
type EventsConfig struct {
	Enabled        bool          `koanf:"enabled"`
	URL            string        `koanf:"url"`
	EmbeddedServer bool          `koanf:"embedded_server"`
	StoreDir       string        `koanf:"store_dir"`
	StreamMaxAge   time.Duration `koanf:"stream_max_age"`
}

// CatalogConfig locates the static token catalog: the fixed mapping of
// physical token/NFC IDs to memory type, group membership, and media
// assets that the session engine and video queue consult on every scan.
type CatalogConfig struct {
	Path string `koanf:"path"`
}

// Load reads configuration from environment variables and an optional config
// file, in the order described on Config. See LoadWithKoanf() for the
// underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// LoadLegacy reads configuration directly from environment variables only,
// bypassing the config-file layer. Preserved for tests that want a config
// without touching the filesystem.
func LoadLegacy() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getIntEnv("HTTP_PORT", 3857),
			Host:            getEnv("HTTP_HOST", "0.0.0.0"),
			RequestTimeout:  getDurationEnv("REQUEST_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 5*time.Second),
			Environment:     getEnv("ENVIRONMENT", "development"),
		},
		API: APIConfig{
			DefaultPageSize: getIntEnv("API_DEFAULT_PAGE_SIZE", 20),
			MaxPageSize:     getIntEnv("API_MAX_PAGE_SIZE", 100),
		},
		Security: SecurityConfig{
			JWTSecret:         getEnv("JWT_SECRET", ""),
			SessionTimeout:    getDurationEnv("SESSION_TIMEOUT", 24*time.Hour),
			AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
			RateLimitReqs:     getIntEnv("RATE_LIMIT_REQUESTS", 100),
			RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", 1*time.Minute),
			RateLimitDisabled: getBoolEnv("DISABLE_RATE_LIMIT", false),
			CORSOrigins:       getSliceEnv("CORS_ORIGINS", []string{"*"}),
			TrustedProxies:    getSliceEnv("TRUSTED_PROXIES", []string{}),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			Caller: getBoolEnv("LOG_CALLER", false),
		},
		Storage: StorageConfig{
			Path:             getEnv("STORAGE_PATH", "/data/cartographus/badger"),
			InMemory:         getBoolEnv("STORAGE_IN_MEMORY", false),
			SyncWrites:       getBoolEnv("STORAGE_SYNC_WRITES", true),
			ValueLogGCPeriod: getDurationEnv("STORAGE_VALUE_LOG_GC_PERIOD", 10*time.Minute),
			CleanupInterval:  getDurationEnv("STORAGE_CLEANUP_INTERVAL", 1*time.Hour),
		},
		Session: SessionConfig{
			OfflineQueueCap:   getIntEnv("OFFLINE_QUEUE_CAP", 100),
			HeartbeatInterval: getDurationEnv("HEARTBEAT_INTERVAL", 15*time.Second),
			HeartbeatTimeout:  getDurationEnv("HEARTBEAT_TIMEOUT", 45*time.Second),
			PersistTimeout:    getDurationEnv("PERSIST_TIMEOUT", 2*time.Second),
		},
		Video: VideoConfig{
			PlayerURL:               getEnv("VIDEO_PLAYER_URL", ""),
			PlayerTimeout:           getDurationEnv("VIDEO_PLAYER_TIMEOUT", 3*time.Second),
			StatusPollInterval:      getDurationEnv("VIDEO_STATUS_POLL_INTERVAL", 1*time.Second),
			DegradedRetryInterval:   getDurationEnv("VIDEO_DEGRADED_RETRY_INTERVAL", 10*time.Second),
			DefaultPlaybackDuration: getDurationEnv("VIDEO_DEFAULT_PLAYBACK_DURATION", 30*time.Second),
		},
		Realtime: RealtimeConfig{
			PingInterval:       getDurationEnv("WS_PING_INTERVAL", 30*time.Second),
			PongWait:           getDurationEnv("WS_PONG_WAIT", 60*time.Second),
			WriteWait:          getDurationEnv("WS_WRITE_WAIT", 10*time.Second),
			MaxMessageBytes:    getInt64Env("WS_MAX_MESSAGE_BYTES", 1<<20),
			CloseTimeout:       getDurationEnv("WS_CLOSE_TIMEOUT", 5*time.Second),
			OutboundBufferSize: getIntEnv("WS_OUTBOUND_BUFFER_SIZE", 256),
		},
		Events: EventsConfig{
			Enabled:        getBoolEnv("EVENTS_ENABLED", true),
			URL:            getEnv("EVENTS_URL", "nats://127.0.0.1:4222"),
			EmbeddedServer: getBoolEnv("EVENTS_EMBEDDED", true),
			StoreDir:       getEnv("EVENTS_STORE_DIR", "/data/cartographus/jetstream"),
			StreamMaxAge:   getDurationEnv("EVENTS_STREAM_MAX_AGE", 24*time.Hour),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// NOTE: Validate() lives in config_validate.go
// NOTE: URL validation helpers live in config_url.go
// NOTE: Environment variable helpers live in config_env.go
