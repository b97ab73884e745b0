// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

/*
Package websocket streams the activity log to browser clients over WebSocket.

Each connected client owns one eventlog.Subscription. On connect the client
receives the current log snapshot, then every new line in append order:

	{"type": "log", "data": "Rated: Artist - Title"}

A client that cannot keep up loses its oldest queued lines (the subscription
is bounded and drop-oldest); it is never disconnected for being slow and it
never slows down other clients or the sweep.

Goroutines per client:

  - writePump: drains the subscription and sends keepalive pings
  - readPump: handles pongs and detects disconnects

The Hub tracks connected clients so a supervised shutdown can close them all:

	hub := websocket.NewHub(events)
	go hub.RunWithContext(ctx)

	// in the HTTP handler, after upgrading:
	hub.Serve(conn)
*/
package websocket
