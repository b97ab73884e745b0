// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

/*
Package main is the entry point for the StarSync server.

StarSync keeps the ratings of tracks in Plex music libraries at a configured
target. Unrated tracks are rated; with OVERRIDE_RATING=true tracks rated
differently are updated. Sweeps run on demand, on a periodic interval, and
when Plex reports new library content through a webhook.

# Startup

 1. Configuration: koanf layers of defaults, config.yaml, environment
 2. Logging: zerolog, optionally teed to LOG_FILE
 3. Activity log: bounded ring, optionally archived in badger and restored
 4. Settings: settings.json merged over the environment defaults
 5. Plex client: rate-limited HTTP client behind a circuit breaker
 6. Sweep engine: runner, single-flight dispatcher, periodic scheduler
 7. HTTP: chi router, Basic auth, webhook, log streams, metrics
 8. Supervisor tree: archive GC, scheduler, log stream hub, HTTP server

# Example

	export PLEX_URL=http://plex:32400
	export PLEX_TOKEN=your-plex-token
	export LIBRARY_NAME="Music,Jazz"
	export RATING_STYLE=5stars
	export TARGET_RATING=3
	export APP_USERNAME=curator
	export APP_PASSWORD=a-long-password
	./starsync

Point the Plex webhook at http://starsync:5454/plex-webhook.

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree: the HTTP server drains, log
stream clients are closed, the scheduler loop exits, and an in-flight sweep
gets up to 30 seconds to finish.
*/
package main
