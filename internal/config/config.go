// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package config

import (
	"time"

	"github.com/tomtom215/starsync/internal/rating"
)

// Config holds all application configuration.
type Config struct {
	Plex     PlexConfig     `koanf:"plex"`
	Sweep    SweepConfig    `koanf:"sweep"`
	Settings SettingsConfig `koanf:"settings"`
	EventLog EventLogConfig `koanf:"eventlog"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// PlexConfig holds Plex Media Server connection settings.
type PlexConfig struct {
	URL               string        `koanf:"url"`
	Token             string        `koanf:"token"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	RequestBurst      int           `koanf:"request_burst"`
}

// SweepConfig holds sweep settings that are not editable at runtime.
type SweepConfig struct {
	// BatchSize bounds batch-style triggers. 0 = unbounded.
	BatchSize int `koanf:"batch_size"`
}

// SettingsConfig holds the defaults for the runtime-editable settings and
// where they are persisted.
type SettingsConfig struct {
	Path                 string   `koanf:"path"`
	Libraries            []string `koanf:"libraries"`
	RatingStyle          string   `koanf:"rating_style"`
	TargetRating         float64  `koanf:"target_rating"`
	OverrideRating       bool     `koanf:"override_rating"`
	BatchIntervalMinutes int      `koanf:"batch_interval_minutes"`
}

// RatingConfig returns the default rating configuration.
func (s *SettingsConfig) RatingConfig() rating.Config {
	return rating.Config{
		Style:            rating.Style(s.RatingStyle),
		Value:            s.TargetRating,
		OverrideExisting: s.OverrideRating,
	}
}

// EventLogConfig holds activity log settings.
type EventLogConfig struct {
	Capacity          int           `koanf:"capacity"`
	SubscriberBuffer  int           `koanf:"subscriber_buffer"`
	ArchiveEnabled    bool          `koanf:"archive_enabled"`
	ArchivePath       string        `koanf:"archive_path"`
	ArchiveGCInterval time.Duration `koanf:"archive_gc_interval"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// SecurityConfig holds authentication and request limiting settings.
type SecurityConfig struct {
	AuthMode             string        `koanf:"auth_mode"`
	AdminUsername        string        `koanf:"admin_username"`
	AdminPassword        string        `koanf:"admin_password"`
	CORSOrigins          []string      `koanf:"cors_origins"`
	RateLimitReqs        int           `koanf:"rate_limit_reqs"`
	RateLimitWindow      time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled    bool          `koanf:"rate_limit_disabled"`
	WebhookRateLimitReqs int           `koanf:"webhook_rate_limit_reqs"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`

	// File receives a copy of every log line. Empty disables the file sink.
	File string `koanf:"file"`
}

// Load reads configuration from all sources with the following precedence
// (highest to lowest):
//  1. Environment variables
//  2. Config file (CONFIG_PATH, or config.yaml if it exists)
//  3. Built-in defaults
func Load() (*Config, error) {
	return LoadWithKoanf()
}
