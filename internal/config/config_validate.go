// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validatePlex(); err != nil {
		return err
	}

	if err := c.validateSweep(); err != nil {
		return err
	}

	if err := c.validateSettings(); err != nil {
		return err
	}

	if err := c.validateEventLog(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validatePlex validates the Plex connection settings
func (c *Config) validatePlex() error {
	if err := c.validatePlexURL(); err != nil {
		return err
	}
	if err := c.validatePlexToken(); err != nil {
		return err
	}
	if c.Plex.Timeout <= 0 {
		return fmt.Errorf("PLEX_TIMEOUT must be positive")
	}
	if c.Plex.RequestsPerSecond == 0 {
		return fmt.Errorf("PLEX_REQUESTS_PER_SECOND must not be 0 (use a negative value to disable limiting)")
	}
	return nil
}

// validatePlexURL validates the Plex URL
func (c *Config) validatePlexURL() error {
	if c.Plex.URL == "" {
		return fmt.Errorf("PLEX_URL is required")
	}
	return validateHTTPURL(c.Plex.URL, "PLEX_URL")
}

// validatePlexToken validates the Plex token
func (c *Config) validatePlexToken() error {
	if strings.TrimSpace(c.Plex.Token) == "" {
		return fmt.Errorf("PLEX_TOKEN is required")
	}
	if containsPlaceholder(c.Plex.Token) {
		return fmt.Errorf("PLEX_TOKEN contains a placeholder value - copy the X-Plex-Token from your server")
	}
	return nil
}

func (c *Config) validateSweep() error {
	if c.Sweep.BatchSize < 0 {
		return fmt.Errorf("BATCH_SIZE must be 0 (unbounded) or greater, got %d", c.Sweep.BatchSize)
	}
	return nil
}

// validateSettings validates the defaults for runtime-editable settings
func (c *Config) validateSettings() error {
	if c.Settings.Path == "" {
		return fmt.Errorf("SETTINGS_PATH is required")
	}
	if err := c.Settings.RatingConfig().Validate(); err != nil {
		return fmt.Errorf("RATING_STYLE/TARGET_RATING: %w", err)
	}
	if c.Settings.BatchIntervalMinutes < 0 {
		return fmt.Errorf("BATCH_INTERVAL_MINUTES must be 0 (disabled) or greater, got %d", c.Settings.BatchIntervalMinutes)
	}
	return nil
}

// validateEventLog validates activity log capacities and archive settings
func (c *Config) validateEventLog() error {
	if c.EventLog.Capacity <= 0 {
		return fmt.Errorf("EVENTLOG_CAPACITY must be greater than 0")
	}
	if c.EventLog.SubscriberBuffer <= 0 {
		return fmt.Errorf("EVENTLOG_SUBSCRIBER_BUFFER must be greater than 0")
	}
	if !c.EventLog.ArchiveEnabled {
		return nil
	}
	if c.EventLog.ArchivePath == "" {
		return fmt.Errorf("EVENTLOG_ARCHIVE_PATH is required when EVENTLOG_ARCHIVE_ENABLED=true")
	}
	if c.EventLog.ArchiveGCInterval <= 0 {
		return fmt.Errorf("EVENTLOG_ARCHIVE_GC_INTERVAL must be positive")
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if err := c.validateAuthMode(); err != nil {
		return err
	}

	if err := c.validateRateLimits(); err != nil {
		return err
	}

	if c.Security.AuthMode == "basic" {
		return c.validateAdminCredentials()
	}
	return nil
}

// validAuthModes defines the allowed authentication modes
var validAuthModes = map[string]bool{
	"none":  true,
	"basic": true,
}

// validateAuthMode checks if auth mode is valid
func (c *Config) validateAuthMode() error {
	if !validAuthModes[c.Security.AuthMode] {
		return fmt.Errorf("AUTH_MODE must be one of: basic, none")
	}
	return nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if CORS configuration has security concerns
// that should be logged at startup
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.Security.AuthMode != "none" && c.hasWildcardCORS()
}

// Rate limit constants
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
	if c.Security.WebhookRateLimitReqs < minRateLimitRequests || c.Security.WebhookRateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("WEBHOOK_RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validateAdminCredentials validates admin username and password
func (c *Config) validateAdminCredentials() error {
	if c.Security.AdminUsername == "" {
		return fmt.Errorf("APP_USERNAME is required when AUTH_MODE is basic")
	}
	if c.Security.AdminPassword == "" {
		return fmt.Errorf("APP_PASSWORD is required when AUTH_MODE is basic")
	}
	if containsPlaceholder(c.Security.AdminPassword) {
		return fmt.Errorf("APP_PASSWORD contains a placeholder value - set a real password")
	}
	if err := DefaultPasswordPolicy().ValidateWithError(c.Security.AdminPassword, c.Security.AdminUsername); err != nil {
		return fmt.Errorf("APP_PASSWORD: %w", err)
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
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
	"YOUR_TOKEN",
	"YOUR_PASSWORD",
	"PLACEHOLDER",
}

// containsPlaceholder checks if a value contains common placeholder patterns
func containsPlaceholder(value string) bool {
	upperValue := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upperValue, pattern) {
			return true
		}
	}
	return false
}
