// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

/*
Package middleware provides HTTP infrastructure middleware for the StarSync API.

Key Components:

  - Request ID: UUID-based request tracking, propagated into the logging context
  - Prometheus Metrics: request count, latency and in-flight instrumentation

Both are chi-compatible (func(http.Handler) http.Handler) and sit at the top of
the router, before authentication:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)

PrometheusMetrics labels requests by chi route pattern (e.g. "/api/v1/trigger/{kind}")
rather than raw path, keeping label cardinality bounded. The wrapped writer keeps
http.Flusher and http.Hijacker available so SSE and WebSocket endpoints work
underneath it.
*/
package middleware
