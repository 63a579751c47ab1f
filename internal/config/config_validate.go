// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateStorage(); err != nil {
		return err
	}

	if err := c.validateSession(); err != nil {
		return err
	}

	if err := c.validateVideo(); err != nil {
		return err
	}

	if err := c.validateRealtime(); err != nil {
		return err
	}

	if err := c.validateEvents(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates HTTP server configuration.
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// validateSecurity validates authentication, CORS, and rate limiting.
func (c *Config) validateSecurity() error {
	if err := c.validateJWTSecret(); err != nil {
		return err
	}

	if err := c.validateAdminPassword(); err != nil {
		return err
	}

	if err := c.validateCORS(); err != nil {
		return err
	}

	return c.validateRateLimits()
}

// validateJWTSecret validates the JWT signing secret.
func (c *Config) validateJWTSecret() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters for security")
	}
	if containsPlaceholder(c.Security.JWTSecret) {
		return fmt.Errorf("JWT_SECRET contains a placeholder value - generate a secure secret with: openssl rand -base64 32")
	}
	return nil
}

// validateAdminPassword validates the single shared admin password and, in
// production, enforces the password strength policy.
func (c *Config) validateAdminPassword() error {
	if c.Security.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required")
	}
	if containsPlaceholder(c.Security.AdminPassword) {
		return fmt.Errorf("ADMIN_PASSWORD contains a placeholder value - set a secure password")
	}
	if c.IsProduction() {
		policy := DefaultPasswordPolicy()
		if err := policy.ValidateWithError(c.Security.AdminPassword, "admin"); err != nil {
			return fmt.Errorf("ADMIN_PASSWORD: %w", err)
		}
	}
	return nil
}

// validateCORS validates CORS configuration for security best practices.
// In production, wildcard CORS is rejected: paired with a bearer token,
// a wildcard origin lets any website ride a stolen token straight into the
// admin/GM control surface.
func (c *Config) validateCORS() error {
	if c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production. " +
			"Set specific origins: CORS_ORIGINS=https://gm.example.com " +
			"or use ENVIRONMENT=development for testing purposes")
	}
	return nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins.
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if CORS configuration has security concerns
// that should be logged at startup.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS()
}

// Rate limit bounds.
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// IsDevelopment returns true if the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "" || env == "development" || env == "dev"
}

// validateStorage validates the Badger-backed KV store configuration.
func (c *Config) validateStorage() error {
	if !c.Storage.InMemory && c.Storage.Path == "" {
		return fmt.Errorf("STORAGE_PATH is required unless STORAGE_IN_MEMORY=true")
	}
	if c.Storage.ValueLogGCPeriod < 0 {
		return fmt.Errorf("STORAGE_VALUE_LOG_GC_PERIOD must not be negative")
	}
	if c.Storage.CleanupInterval < 0 {
		return fmt.Errorf("STORAGE_CLEANUP_INTERVAL must not be negative")
	}
	return nil
}

// validateSession validates session-engine and offline-protocol tuning.
func (c *Config) validateSession() error {
	if c.Session.OfflineQueueCap < 1 {
		return fmt.Errorf("OFFLINE_QUEUE_CAP must be at least 1")
	}
	if c.Session.HeartbeatInterval <= 0 {
		return fmt.Errorf("HEARTBEAT_INTERVAL must be positive")
	}
	if c.Session.HeartbeatTimeout <= c.Session.HeartbeatInterval {
		return fmt.Errorf("HEARTBEAT_TIMEOUT must be greater than HEARTBEAT_INTERVAL")
	}
	if c.Session.PersistTimeout <= 0 {
		return fmt.Errorf("PERSIST_TIMEOUT must be positive")
	}
	return nil
}

// validateVideo validates the external video-player RPC configuration. The
// player URL is optional: an empty URL runs the queue permanently in
// degraded mode rather than failing startup.
func (c *Config) validateVideo() error {
	if c.Video.PlayerURL != "" {
		if err := validateHTTPURL(c.Video.PlayerURL, "VIDEO_PLAYER_URL"); err != nil {
			return fmt.Errorf("VIDEO_PLAYER_URL is invalid: %w", err)
		}
	}
	if c.Video.PlayerTimeout <= 0 {
		return fmt.Errorf("VIDEO_PLAYER_TIMEOUT must be positive")
	}
	if c.Video.StatusPollInterval <= 0 {
		return fmt.Errorf("VIDEO_STATUS_POLL_INTERVAL must be positive")
	}
	if c.Video.DegradedRetryInterval <= 0 {
		return fmt.Errorf("VIDEO_DEGRADED_RETRY_INTERVAL must be positive")
	}
	return nil
}

// validateRealtime validates websocket fabric timing.
func (c *Config) validateRealtime() error {
	if c.Realtime.PingInterval <= 0 {
		return fmt.Errorf("WS_PING_INTERVAL must be positive")
	}
	if c.Realtime.PongWait <= c.Realtime.PingInterval {
		return fmt.Errorf("WS_PONG_WAIT must be greater than WS_PING_INTERVAL")
	}
	if c.Realtime.MaxMessageBytes < 1 {
		return fmt.Errorf("WS_MAX_MESSAGE_BYTES must be positive")
	}
	if c.Realtime.CloseTimeout <= 0 {
		return fmt.Errorf("WS_CLOSE_TIMEOUT must be positive")
	}
	if c.Realtime.OutboundBufferSize < 1 {
		return fmt.Errorf("WS_OUTBOUND_BUFFER_SIZE must be at least 1")
	}
	return nil
}

// validateEvents validates the embedded domain event bus configuration.
func (c *Config) validateEvents() error {
	if !c.Events.Enabled {
		return nil
	}
	if c.Events.EmbeddedServer && c.Events.StoreDir == "" {
		return fmt.Errorf("EVENTS_STORE_DIR is required when EVENTS_EMBEDDED=true")
	}
	if !c.Events.EmbeddedServer {
		if c.Events.URL == "" {
			return fmt.Errorf("EVENTS_URL is required when EVENTS_EMBEDDED=false")
		}
		if err := validateNATSURL(c.Events.URL); err != nil {
			return fmt.Errorf("EVENTS_URL is invalid: %w", err)
		}
	}
	return nil
}

// validLogLevels defines the allowed log levels.
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats.
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration.
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// placeholderPatterns defines common placeholder patterns that indicate
// the user forgot to set a real value.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"YOUR_PASSWORD",
	"PLACEHOLDER",
	"TODO",
	"FIXME",
	"XXX",
	"EXAMPLE",
}

// containsPlaceholder checks if a value contains common placeholder patterns.
func containsPlaceholder(value string) bool {
	upperValue := strings.ToUpper(value)
	return containsAnyPattern(upperValue, placeholderPatterns)
}

// containsAnyPattern checks if a string contains any of the provided patterns.
func containsAnyPattern(s string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(s, pattern) {
			return true
		}
	}
	return false
}
