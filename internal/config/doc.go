// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

/*
Package config provides centralized configuration management for StarSync.

Configuration is layered with koanf, lowest priority first:
 1. Built-in defaults (defaultConfig)
 2. An optional YAML file (CONFIG_PATH, config.yaml, /etc/starsync/config.yaml)
 3. Environment variables

# Environment Variables

Plex (PlexConfig):
  - PLEX_URL: Plex server base URL, e.g. http://plex:32400 (required)
  - PLEX_TOKEN: X-Plex-Token (required)
  - PLEX_TIMEOUT: per-request timeout (default: 30s)
  - PLEX_REQUESTS_PER_SECOND: outbound request pacing (default: 10)
  - PLEX_REQUEST_BURST: limiter burst (default: 20)

Sweeps (SweepConfig):
  - BATCH_SIZE: tracks per library for batch triggers, 0 = unbounded (default: 0)

Settings defaults (SettingsConfig), used until settings.json exists:
  - LIBRARY_NAME: comma-separated music library names
  - RATING_STYLE: 1star, 5stars or 5stars_half (default: 5stars)
  - TARGET_RATING: rating value in the style's scale (default: 3)
  - OVERRIDE_RATING: overwrite existing ratings (default: false)
  - BATCH_INTERVAL_MINUTES: periodic trigger interval, 0 = disabled (default: 60)
  - SETTINGS_PATH: persisted settings file (default: config/settings.json)

Event log (EventLogConfig):
  - EVENTLOG_CAPACITY: retained lines (default: 500)
  - EVENTLOG_SUBSCRIBER_BUFFER: pending lines per live subscriber (default: 256)
  - EVENTLOG_ARCHIVE_ENABLED: persist lines in BadgerDB (default: false)
  - EVENTLOG_ARCHIVE_PATH: BadgerDB directory (default: data/eventlog)
  - EVENTLOG_ARCHIVE_GC_INTERVAL: value log GC interval (default: 10m)

HTTP server (ServerConfig):
  - HTTP_HOST (default: 0.0.0.0), HTTP_PORT (default: 5454)
  - SERVER_TIMEOUT: read/write timeout (default: 30s)
  - SHUTDOWN_TIMEOUT: graceful shutdown budget (default: 15s)

Security (SecurityConfig):
  - AUTH_MODE: basic or none (default: basic)
  - APP_USERNAME, APP_PASSWORD: Basic auth credentials
  - CORS_ORIGINS: comma-separated allowed origins (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW: control API limit (default: 100 per 1m)
  - WEBHOOK_RATE_LIMIT_REQUESTS: webhook limit per window (default: 60)
  - DISABLE_RATE_LIMIT: turn limits off (default: false)

Logging (LoggingConfig):
  - LOG_LEVEL (default: info), LOG_FORMAT (default: json), LOG_CALLER
  - LOG_FILE: copy of every log line (default: logs/starsync.log, empty disables)
*/
package config
