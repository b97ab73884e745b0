// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

/*
Package plex is the Plex Media Server API client used by the sweep runner.

Client Features:
  - X-Plex-Token authentication on every request
  - Outbound request pacing with golang.org/x/time/rate
  - Automatic HTTP 429 handling with exponential backoff and Retry-After
  - JSON response parsing with goccy/go-json

CircuitBreakerClient wraps Client with sony/gobreaker so a Plex outage
fails sweeps fast instead of stacking timeouts.

Related Files:
  - request.go: HTTP request helpers and 429 retry loop
  - library.go: library listing, track search and rating
  - circuit_breaker.go: breaker wrapper
*/
package plex

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds a single Plex HTTP request.
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerSecond paces outbound requests during large sweeps.
	DefaultRequestsPerSecond = 10

	// DefaultBurst is the limiter burst size.
	DefaultBurst = 20

	defaultMaxRetries = 5
	defaultBaseDelay  = time.Second
)

// Config holds Plex connection settings.
type Config struct {
	URL               string
	Token             string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client handles communication with the Plex Media Server API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter

	maxRetries int
	baseDelay  time.Duration
}

// NewClient creates a Plex client. Zero config values select defaults; a
// RequestsPerSecond below zero disables pacing.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}

	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond < 0 {
		limit = rate.Inf
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:    rate.NewLimiter(limit, cfg.Burst),
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
	}
}
