// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

/*
Package auth provides HTTP Basic authentication and security headers for the
StarSync control API.

A single admin account is configured through APP_USERNAME and APP_PASSWORD.
The password is bcrypt-hashed once at startup; each request compares the
username in constant time and the password through bcrypt.

Authentication Modes (AUTH_MODE):

  - basic (default): every /api/v1 endpoint except health requires credentials
  - none: no authentication, intended for trusted networks only

The Plex webhook endpoints never require credentials; Plex cannot send them.

Usage:

	manager, err := auth.NewBasicAuthManager(cfg.Security.AdminUsername, cfg.Security.AdminPassword)
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to initialize basic auth")
	}
	mw := auth.NewMiddleware(manager, cfg.Security.AuthMode)

	r.Group(func(r chi.Router) {
	    r.Use(mw.Authenticate)
	    r.Post("/api/v1/trigger/all", handler.TriggerAll)
	})

Unauthenticated requests receive 401 with a WWW-Authenticate challenge and the
standard JSON error envelope.
*/
package auth
