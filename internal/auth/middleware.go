// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/starsync/internal/logging"
	"github.com/tomtom215/starsync/internal/models"
)

// Auth modes accepted by NewMiddleware.
const (
	AuthModeBasic = "basic"
	AuthModeNone  = "none"
)

type contextKey string

// UsernameContextKey holds the authenticated username.
const UsernameContextKey contextKey = "username"

// Middleware enforces the configured authentication mode.
type Middleware struct {
	basicAuthManager *BasicAuthManager
	authMode         string
}

// NewMiddleware creates a new authentication middleware. manager may be nil
// when authMode is "none".
func NewMiddleware(manager *BasicAuthManager, authMode string) *Middleware {
	return &Middleware{
		basicAuthManager: manager,
		authMode:         authMode,
	}
}

// Authenticate is chi-compatible middleware that enforces authentication.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.authMode == AuthModeNone {
			next.ServeHTTP(w, r)
			return
		}

		if m.basicAuthManager == nil {
			logging.Ctx(r.Context()).Error().Msg("Basic auth enabled but no credentials configured")
			m.sendBasicAuthChallenge(w, "Unauthorized: authentication unavailable")
			return
		}

		username, err := m.basicAuthManager.ValidateCredentials(r.Header.Get("Authorization"))
		if err != nil {
			if errors.Is(err, ErrNoCredentials) {
				m.sendBasicAuthChallenge(w, "Unauthorized: authentication required")
				return
			}
			logging.Ctx(r.Context()).Warn().
				Str("remote_addr", r.RemoteAddr).
				Str("path", r.URL.Path).
				Msg("Basic auth validation failed")
			m.sendBasicAuthChallenge(w, "Unauthorized: invalid credentials")
			return
		}

		ctx := context.WithValue(r.Context(), UsernameContextKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UsernameFromContext returns the authenticated username, or "" when the
// request was not authenticated.
func UsernameFromContext(ctx context.Context) string {
	if username, ok := ctx.Value(UsernameContextKey).(string); ok {
		return username
	}
	return ""
}

// sendBasicAuthChallenge sends a WWW-Authenticate challenge and error response
func (m *Middleware) sendBasicAuthChallenge(w http.ResponseWriter, message string) {
	header := `Basic realm="StarSync", charset="UTF-8"`
	if m.basicAuthManager != nil {
		header = m.basicAuthManager.GetWWWAuthenticateHeader()
	}
	w.Header().Set("WWW-Authenticate", header)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	resp := models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error: &models.APIError{
			Code:    "UNAUTHORIZED",
			Message: message,
		},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("Failed to encode auth error response")
	}
}

// SecurityHeaders adds security headers to all responses
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; frame-ancestors 'none'; base-uri 'self'")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// HSTS (only if using HTTPS - check X-Forwarded-Proto)
		if r.Header.Get("X-Forwarded-Proto") == "https" || r.TLS != nil {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}
