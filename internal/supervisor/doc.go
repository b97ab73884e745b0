// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

/*
Package supervisor provides process supervision for StarSync using suture v4.

Every long-running component runs as a suture.Service under a three-layer tree:

	RootSupervisor ("starsync")
	├── DataSupervisor ("data-layer")
	│   └── ArchiveGCService (if EVENTLOG_ARCHIVE_ENABLED)
	├── EngineSupervisor ("engine-layer")
	│   ├── SchedulerService
	│   └── LogStreamHubService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crash in one layer is restarted inside that layer. The sweep runner and the
trigger dispatcher are not services; sweeps are short-lived goroutines owned by
the dispatcher and bounded by the single-flight gate.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddEngineService(services.NewSchedulerService(sched))
	tree.AddEngineService(services.NewLogStreamHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor stopped")
	}

# Failure Handling

Failures are counted per supervisor with exponential decay (FailureDecay
seconds). Past FailureThreshold the supervisor waits FailureBackoff before the
next restart. Return values from Serve:
  - nil: stopped cleanly, not restarted
  - error: crashed, restarted
  - ctx.Err(): shutdown requested

Services that miss ShutdownTimeout are listed by UnstoppedServiceReport.
*/
package supervisor
