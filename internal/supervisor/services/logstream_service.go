// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package services

import (
	"context"
)

// ContextHub is satisfied by *websocket.Hub.
type ContextHub interface {
	RunWithContext(ctx context.Context) error
}

// LogStreamHubService runs the WebSocket log stream hub. When the context
// ends the hub closes every client and refuses new ones.
type LogStreamHubService struct {
	hub  ContextHub
	name string
}

// NewLogStreamHubService creates a new log stream hub service wrapper.
func NewLogStreamHubService(hub ContextHub) *LogStreamHubService {
	return &LogStreamHubService{
		hub:  hub,
		name: "logstream-hub",
	}
}

// Serve implements suture.Service.
func (w *LogStreamHubService) Serve(ctx context.Context) error {
	return w.hub.RunWithContext(ctx)
}

// String implements fmt.Stringer for supervisor logs.
func (w *LogStreamHubService) String() string {
	return w.name
}
