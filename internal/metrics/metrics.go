// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

// Package metrics exposes StarSync's Prometheus collectors.
//
// Metrics are served at /metrics in Prometheus text format:
//
//	curl http://localhost:5454/metrics
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Sweep Metrics
	SweepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "starsync_sweeps_total",
			Help: "Total number of sweep attempts by trigger and outcome",
		},
		[]string{"trigger", "outcome"}, // outcome: "completed", "rejected"
	)

	SweepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "starsync_sweep_duration_seconds",
			Help:    "Duration of completed sweeps in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"trigger"},
	)

	TracksProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "starsync_tracks_processed_total",
			Help: "Tracks processed by sweeps, by action",
		},
		[]string{"action"}, // "rated", "updated", "skipped", "failed", "cleared"
	)

	LibraryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "starsync_library_errors_total",
			Help: "Libraries that could not be processed during a sweep",
		},
		[]string{"reason"}, // "missing", "fetch"
	)

	SweepInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "starsync_sweep_in_progress",
			Help: "1 while a sweep or reset holds the single-flight gate",
		},
	)

	// Scheduler Metrics
	SchedulerIntervalMinutes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "starsync_scheduler_interval_minutes",
			Help: "Configured periodic sweep interval (0 = disabled)",
		},
	)

	SchedulerTicks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "starsync_scheduler_ticks_total",
			Help: "Total number of periodic sweep triggers",
		},
	)

	// Webhook Metrics
	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "starsync_webhook_events_total",
			Help: "Plex webhook requests by result",
		},
		[]string{"result"}, // "dispatched", "ignored", "missing_payload", "error"
	)

	// Event Log Metrics
	EventLogSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "starsync_eventlog_subscribers",
			Help: "Current number of live log subscribers",
		},
	)

	EventLogLines = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "starsync_eventlog_lines_total",
			Help: "Total number of lines appended to the event log",
		},
	)

	EventLogDroppedLines = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "starsync_eventlog_dropped_lines_total",
			Help: "Lines discarded from full subscriber queues",
		},
	)

	EventLogArchiveErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "starsync_eventlog_archive_errors_total",
			Help: "Failed writes to the event log archive",
		},
	)

	// Plex Client Metrics
	PlexRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "starsync_plex_request_duration_seconds",
			Help:    "Plex API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	PlexRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "starsync_plex_request_errors_total",
			Help: "Failed Plex API requests",
		},
		[]string{"operation"},
	)

	PlexRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "starsync_plex_rate_limited_total",
			Help: "HTTP 429 responses received from Plex",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordSweep records a completed sweep.
func RecordSweep(trigger string, duration time.Duration) {
	SweepsTotal.WithLabelValues(trigger, "completed").Inc()
	SweepDuration.WithLabelValues(trigger).Observe(duration.Seconds())
}

// RecordSweepRejected records a trigger dropped because the gate was held.
func RecordSweepRejected(trigger string) {
	SweepsTotal.WithLabelValues(trigger, "rejected").Inc()
}

// RecordTrackAction records one per-track outcome.
func RecordTrackAction(action string) {
	TracksProcessed.WithLabelValues(action).Inc()
}

// RecordLibraryError records a library skipped during a sweep.
func RecordLibraryError(reason string) {
	LibraryErrors.WithLabelValues(reason).Inc()
}

// SetSweepInProgress updates the in-progress gauge.
func SetSweepInProgress(running bool) {
	if running {
		SweepInProgress.Set(1)
	} else {
		SweepInProgress.Set(0)
	}
}

// RecordWebhookEvent records the outcome of one webhook request.
func RecordWebhookEvent(result string) {
	WebhookEvents.WithLabelValues(result).Inc()
}

// RecordPlexRequest records a Plex API request metric.
func RecordPlexRequest(operation string, duration time.Duration, err error) {
	PlexRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		PlexRequestErrors.WithLabelValues(operation).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
