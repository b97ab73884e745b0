// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

/*
Package api provides the StarSync HTTP surface on a chi router.

Route groups:

	POST /plex-webhook, /api/v1/plex/webhook   Plex webhooks (no auth, rate limited)
	GET  /api/v1/health/live, /ready           liveness and readiness (no auth)
	GET  /metrics                              Prometheus exposition
	/api/v1/...                                control API (Basic auth unless AUTH_MODE=none)

Control API:

	POST /api/v1/trigger/all      sweep every selected library, unbounded
	POST /api/v1/trigger/batch    sweep the newest BATCH_SIZE tracks per library
	POST /api/v1/ratings/reset    clear every rating in the selected libraries
	GET  /api/v1/logs             activity log snapshot
	GET  /api/v1/logs/stream      activity log as Server-Sent Events
	GET  /api/v1/logs/ws          activity log over WebSocket
	GET  /api/v1/settings         current settings
	PUT  /api/v1/settings         partial settings update (POST also accepted)
	GET  /api/v1/libraries        music libraries with the selection marked
	GET  /api/v1/status           sweep, scheduler and stream state

Trigger endpoints answer 202 Accepted immediately; the sweep runs in the
background and its progress appears on the log stream. A trigger that arrives
while a sweep is running is still accepted, and the rejection is visible as a
"Batch already running, skipping this trigger." log line.

Every JSON response uses models.APIResponse. Errors carry a machine-readable
code: BAD_REQUEST, UNAUTHORIZED, VALIDATION_FAILED, INTERNAL_ERROR or
SERVICE_UNAVAILABLE.

The webhook endpoint keeps the plain-text responses Plex expects: 204 when a
sweep was dispatched, 200 "Ignored", 400 for a missing payload and 500 when
the payload is not valid JSON.
*/
package api
