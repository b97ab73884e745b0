// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// setMinimalEnv sets the variables every successful load needs and points
// CONFIG_PATH somewhere that does not exist.
func setMinimalEnv(t *testing.T) {
	t.Helper()
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("PLEX_URL", "http://plex.local:32400")
	t.Setenv("PLEX_TOKEN", "abcdef123456")
	t.Setenv("AUTH_MODE", "none")
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := defaultConfig()

	if cfg.Plex.Timeout != 30*time.Second {
		t.Errorf("Plex.Timeout = %v, want 30s", cfg.Plex.Timeout)
	}
	if cfg.Plex.RequestsPerSecond != 10 {
		t.Errorf("Plex.RequestsPerSecond = %v, want 10", cfg.Plex.RequestsPerSecond)
	}
	if cfg.Sweep.BatchSize != 0 {
		t.Errorf("Sweep.BatchSize = %d, want 0", cfg.Sweep.BatchSize)
	}
	if cfg.Settings.Path != "config/settings.json" {
		t.Errorf("Settings.Path = %q, want config/settings.json", cfg.Settings.Path)
	}
	if cfg.Settings.RatingStyle != "5stars" || cfg.Settings.TargetRating != 3 {
		t.Errorf("Settings rating = %s/%v, want 5stars/3", cfg.Settings.RatingStyle, cfg.Settings.TargetRating)
	}
	if cfg.Settings.BatchIntervalMinutes != 60 {
		t.Errorf("Settings.BatchIntervalMinutes = %d, want 60", cfg.Settings.BatchIntervalMinutes)
	}
	if cfg.EventLog.Capacity != 500 {
		t.Errorf("EventLog.Capacity = %d, want 500", cfg.EventLog.Capacity)
	}
	if cfg.Server.Port != 5454 {
		t.Errorf("Server.Port = %d, want 5454", cfg.Server.Port)
	}
	if cfg.Security.AuthMode != "basic" {
		t.Errorf("Security.AuthMode = %q, want basic", cfg.Security.AuthMode)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "*" {
		t.Errorf("Security.CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}
	if cfg.Logging.File != "logs/starsync.log" {
		t.Errorf("Logging.File = %q, want logs/starsync.log", cfg.Logging.File)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"PLEX_URL", "plex.url"},
		{"PLEX_TOKEN", "plex.token"},
		{"BATCH_SIZE", "sweep.batch_size"},
		{"LIBRARY_NAME", "settings.libraries"},
		{"RATING_STYLE", "settings.rating_style"},
		{"TARGET_RATING", "settings.target_rating"},
		{"OVERRIDE_RATING", "settings.override_rating"},
		{"BATCH_INTERVAL_MINUTES", "settings.batch_interval_minutes"},
		{"EVENTLOG_CAPACITY", "eventlog.capacity"},
		{"HTTP_PORT", "server.port"},
		{"APP_USERNAME", "security.admin_username"},
		{"APP_PASSWORD", "security.admin_password"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"LOG_FILE", "logging.file"},
		{"HOME", ""},
		{"PATH", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.input); got != tt.expected {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestLoadWithKoanfEnvVars(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("LIBRARY_NAME", "Music, Jazz ,")
	t.Setenv("RATING_STYLE", "5stars_half")
	t.Setenv("TARGET_RATING", "4.5")
	t.Setenv("OVERRIDE_RATING", "true")
	t.Setenv("BATCH_INTERVAL_MINUTES", "15")
	t.Setenv("BATCH_SIZE", "25")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("PLEX_TIMEOUT", "45s")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if got := strings.Join(cfg.Settings.Libraries, "|"); got != "Music|Jazz" {
		t.Errorf("Settings.Libraries = %q, want Music|Jazz", got)
	}
	if cfg.Settings.RatingStyle != "5stars_half" || cfg.Settings.TargetRating != 4.5 {
		t.Errorf("Settings rating = %s/%v, want 5stars_half/4.5", cfg.Settings.RatingStyle, cfg.Settings.TargetRating)
	}
	if !cfg.Settings.OverrideRating {
		t.Error("Settings.OverrideRating should be true")
	}
	if cfg.Settings.BatchIntervalMinutes != 15 {
		t.Errorf("Settings.BatchIntervalMinutes = %d, want 15", cfg.Settings.BatchIntervalMinutes)
	}
	if cfg.Sweep.BatchSize != 25 {
		t.Errorf("Sweep.BatchSize = %d, want 25", cfg.Sweep.BatchSize)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Plex.Timeout != 45*time.Second {
		t.Errorf("Plex.Timeout = %v, want 45s", cfg.Plex.Timeout)
	}
}

func TestLoadWithKoanfConfigFile(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(ConfigPathEnvVar, writeConfigFile(t, `
settings:
  libraries:
    - "Music"
    - "Soundtracks"
  rating_style: "1star"
  target_rating: 1

server:
  port: 8888
  host: "127.0.0.1"

logging:
  level: "warn"
`))

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if len(cfg.Settings.Libraries) != 2 || cfg.Settings.Libraries[1] != "Soundtracks" {
		t.Errorf("Settings.Libraries = %v, want [Music Soundtracks]", cfg.Settings.Libraries)
	}
	if cfg.Settings.RatingStyle != "1star" {
		t.Errorf("Settings.RatingStyle = %q, want 1star", cfg.Settings.RatingStyle)
	}
	if cfg.Server.Port != 8888 || cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server = %s:%d, want 127.0.0.1:8888", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}

	// Defaults still apply for unset values
	if cfg.EventLog.Capacity != 500 {
		t.Errorf("EventLog.Capacity = %d, want 500 (default)", cfg.EventLog.Capacity)
	}
}

func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(ConfigPathEnvVar, writeConfigFile(t, `
server:
  port: 8888
logging:
  level: "warn"
`))
	t.Setenv("HTTP_PORT", "9999")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999 (env override)", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn (from file)", cfg.Logging.Level)
	}
}

func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "invalid rating pair",
			env:     map[string]string{"RATING_STYLE": "5stars", "TARGET_RATING": "3.5"},
			wantErr: "RATING_STYLE/TARGET_RATING",
		},
		{
			name:    "unknown rating style",
			env:     map[string]string{"RATING_STYLE": "10stars"},
			wantErr: "RATING_STYLE/TARGET_RATING",
		},
		{
			name:    "missing plex token",
			env:     map[string]string{"PLEX_TOKEN": " "},
			wantErr: "PLEX_TOKEN is required",
		},
		{
			name:    "plex url with path",
			env:     map[string]string{"PLEX_URL": "http://plex.local:32400/web"},
			wantErr: "PLEX_URL should be base URL only",
		},
		{
			name:    "negative interval",
			env:     map[string]string{"BATCH_INTERVAL_MINUTES": "-1"},
			wantErr: "BATCH_INTERVAL_MINUTES",
		},
		{
			name:    "basic auth without username",
			env:     map[string]string{"AUTH_MODE": "basic", "APP_PASSWORD": "correct-horse"},
			wantErr: "APP_USERNAME is required",
		},
		{
			name:    "basic auth short password",
			env:     map[string]string{"AUTH_MODE": "basic", "APP_USERNAME": "admin", "APP_PASSWORD": "short"},
			wantErr: "at least 8 characters",
		},
		{
			name:    "unknown auth mode",
			env:     map[string]string{"AUTH_MODE": "jwt"},
			wantErr: "AUTH_MODE must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setMinimalEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadWithKoanf()
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestLoadWithKoanfBasicAuth(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("AUTH_MODE", "basic")
	t.Setenv("APP_USERNAME", "curator")
	t.Setenv("APP_PASSWORD", "vinyl-crate-42")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Security.AdminUsername != "curator" {
		t.Errorf("Security.AdminUsername = %q, want curator", cfg.Security.AdminUsername)
	}
	if !cfg.ShouldWarnAboutCORS() {
		t.Error("Expected CORS warning for wildcard origins with basic auth")
	}
}

func TestFindConfigFile(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 1234\n")
	t.Setenv(ConfigPathEnvVar, path)

	if got := findConfigFile(); got != path {
		t.Errorf("findConfigFile() = %q, want %q", got, path)
	}
}
