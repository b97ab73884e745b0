// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/starsync/internal/control"
	"github.com/tomtom215/starsync/internal/eventlog"
	"github.com/tomtom215/starsync/internal/logging"
	"github.com/tomtom215/starsync/internal/models"
	"github.com/tomtom215/starsync/internal/settings"
)

// ControlService is the application surface the handlers drive.
// *control.Service implements it.
type ControlService interface {
	TriggerAll() <-chan struct{}
	TriggerLastBatch() <-chan struct{}
	ResetAllRatings() <-chan struct{}
	BatchLimit() *int

	SnapshotLog() []string
	SubscribeLog(withSnapshot bool) ([]string, *eventlog.Subscription)

	Settings() settings.Settings
	UpdateSettings(ctx context.Context, patch settings.Patch) (settings.Settings, error)
	Libraries(ctx context.Context) ([]models.LibraryOption, error)

	HandleLibraryEvent(webhook *models.PlexWebhook) bool

	Status() control.Status
	Ready() bool
}

// Journal receives operator-visible activity lines.
type Journal interface {
	Appendf(format string, args ...interface{}) eventlog.Entry
}

// LogStreamHub takes ownership of upgraded WebSocket connections.
type LogStreamHub interface {
	Serve(conn *websocket.Conn) error
}

// Handler serves the StarSync HTTP endpoints.
type Handler struct {
	control     ControlService
	journal     Journal
	wsHub       LogStreamHub
	corsOrigins []string
	startTime   time.Time
}

// NewHandler creates a new API handler.
//
// corsOrigins doubles as the WebSocket origin allow-list; "*" allows any
// browser origin. wsHub may be nil, in which case /logs/ws answers 503.
func NewHandler(svc ControlService, journal Journal, wsHub LogStreamHub, corsOrigins []string) *Handler {
	return &Handler{
		control:     svc,
		journal:     journal,
		wsHub:       wsHub,
		corsOrigins: corsOrigins,
		startTime:   time.Now(),
	}
}

func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins.
// Browsers always send Origin, so a missing header is rejected.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	for _, allowedOrigin := range h.corsOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
