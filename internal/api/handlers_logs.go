// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/starsync/internal/eventlog"
	"github.com/tomtom215/starsync/internal/logging"
	"github.com/tomtom215/starsync/internal/models"
)

// sseKeepAlive is how long an idle SSE stream waits before sending a comment line.
const sseKeepAlive = 30 * time.Second

// GetLogs returns the activity log snapshot, oldest first.
// GET /api/v1/logs
func (h *Handler) GetLogs(w http.ResponseWriter, r *http.Request) {
	lines := h.control.SnapshotLog()
	if lines == nil {
		lines = []string{}
	}
	respondSuccess(w, http.StatusOK, models.LogSnapshot{
		Lines:       lines,
		Subscribers: h.control.Status().Subscribers,
	})
}

// StreamLogs serves the activity log as Server-Sent Events.
// GET /api/v1/logs/stream[?replay=true]
//
// Each line is framed as "data: <line>\n\n". With replay=true the current
// snapshot is sent before live lines, with no gap or duplicate between them.
func (h *Handler) StreamLogs(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Streaming unsupported", nil)
		return
	}

	snapshot, sub := h.control.SubscribeLog(getBoolParam(r, "replay", false))
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	for _, line := range snapshot {
		if _, err := fmt.Fprintf(w, "data: %s\n\n", line); err != nil {
			return
		}
	}
	flusher.Flush()

	ctx := r.Context()
	for {
		waitCtx, cancel := context.WithTimeout(ctx, sseKeepAlive)
		line, err := sub.Next(waitCtx)
		cancel()

		switch {
		case err == nil:
			if _, err := fmt.Fprintf(w, "data: %s\n\n", line); err != nil {
				return
			}
		case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
		case errors.Is(err, eventlog.ErrSubscriptionClosed):
			logging.Ctx(ctx).Debug().Msg("Log stream closed by server")
			return
		default:
			return
		}
		flusher.Flush()
	}
}

// LogsWebSocket upgrades to a WebSocket that carries {type:"log", data} messages.
// GET /api/v1/logs/ws
func (h *Handler) LogsWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "WebSocket service unavailable", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("WebSocket upgrade error")
		return
	}

	if err := h.wsHub.Serve(conn); err != nil {
		logging.Warn().Err(err).Msg("WebSocket client refused")
	}
}
