// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

/*
Package services provides suture.Service wrappers for StarSync components.

Each wrapper turns a component lifecycle (ListenAndServe/Shutdown,
Activate/Stop, RunWithContext, periodic maintenance) into suture's
Serve(ctx) error and names itself via fmt.Stringer for supervisor logs.

	HTTPServerService      *http.Server with graceful shutdown
	SchedulerService       periodic batch scheduler bound to the service context
	LogStreamHubService    WebSocket log stream hub
	ArchiveGCService       badger value-log GC for the event log archive

Wrappers depend on small interfaces rather than the concrete packages, so
tests drive them with fakes.
*/
package services
