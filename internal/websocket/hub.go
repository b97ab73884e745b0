// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package websocket

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/starsync/internal/eventlog"
	"github.com/tomtom215/starsync/internal/logging"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path (e.g., SIGTERM).
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline may indicate a hung operation during shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for WebSocket communication
const (
	MessageTypeLog = "log"
)

// Message represents a WebSocket message
type Message struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// ErrHubClosed is returned by Serve after the hub has shut down.
var ErrHubClosed = errors.New("websocket: hub closed")

// Source provides the log lines streamed to clients.
type Source interface {
	SubscribeWithSnapshot() ([]string, *eventlog.Subscription)
}

// Hub maintains the set of active clients.
type Hub struct {
	source  Source
	mu      sync.Mutex
	clients map[uint64]*Client
	closed  bool
}

// NewHub creates a new Hub
func NewHub(source Source) *Hub {
	return &Hub{
		source:  source,
		clients: make(map[uint64]*Client),
	}
}

// Serve takes ownership of an upgraded connection and starts its pumps.
// The snapshot and the subscription are taken atomically so the client
// sees every line exactly once.
func (h *Hub) Serve(conn *websocket.Conn) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return ErrHubClosed
	}
	snapshot, sub := h.source.SubscribeWithSnapshot()
	c := newClient(h, conn, sub, snapshot)
	h.clients[c.id] = c
	count := len(h.clients)
	h.mu.Unlock()

	logging.Debug().Uint64("client_id", c.id).Int("clients", count).Msg("WebSocket client connected")
	c.Start()
	return nil
}

// unregister removes a client. Safe to call more than once.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	count := len(h.clients)
	h.mu.Unlock()

	if ok {
		logging.Debug().Uint64("client_id", c.id).Int("clients", count).Msg("WebSocket client disconnected")
	}
}

// clientCount returns the number of connected clients
func (h *Hub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// RunWithContext blocks until ctx is done, then disconnects every client
// and refuses new ones.
func (h *Hub) RunWithContext(ctx context.Context) error {
	<-ctx.Done()

	reason := ShutdownReasonContextCanceled
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		reason = ShutdownReasonContextDeadline
	}

	h.mu.Lock()
	h.closed = true
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	// Close in ID order for predictable logs
	sort.Slice(clients, func(i, j int) bool { return clients[i].id < clients[j].id })
	for _, c := range clients {
		c.stop()
	}

	logging.Info().
		Str("reason", string(reason)).
		Int("clients_closed", len(clients)).
		Msg("WebSocket hub stopped")
	return ctx.Err()
}
