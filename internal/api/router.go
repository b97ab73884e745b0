// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/starsync/internal/auth"
	"github.com/tomtom215/starsync/internal/middleware"
)

// Router wires handlers and middleware into a chi route tree.
type Router struct {
	handler       *Handler
	auth          *auth.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a new router. A nil authMiddleware leaves the control API open.
func NewRouter(handler *Handler, authMiddleware *auth.Middleware, chiMiddleware *ChiMiddleware) *Router {
	if chiMiddleware == nil {
		chiMiddleware = NewChiMiddleware(nil)
	}
	if authMiddleware == nil {
		authMiddleware = auth.NewMiddleware(nil, auth.AuthModeNone)
	}
	return &Router{
		handler:       handler,
		auth:          authMiddleware,
		chiMiddleware: chiMiddleware,
	}
}

// SetupChi builds the complete route tree.
//
// Middleware order (global):
//  1. RequestID - tags the request and its log lines
//  2. RealIP - resolves the client address for rate limiting
//  3. Recoverer - turns handler panics into 500s
//  4. PrometheusMetrics - request counts and latency by route pattern
//  5. CORS
//  6. SecurityHeaders
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()
	h := router.handler
	cm := router.chiMiddleware

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(cm.CORS())
	r.Use(auth.SecurityHeaders)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Handle("/metrics", promhttp.Handler())

	// Legacy webhook path configured in existing Plex servers
	r.With(cm.RateLimitWebhook()).Post("/plex-webhook", h.PlexWebhook)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/health", func(r chi.Router) {
			r.Use(cm.RateLimitHealth())
			r.Get("/live", h.HealthLive)
			r.Get("/ready", h.HealthReady)
		})

		r.With(cm.RateLimitWebhook()).Post("/plex/webhook", h.PlexWebhook)

		r.Group(func(r chi.Router) {
			r.Use(cm.RateLimit())
			r.Use(router.auth.Authenticate)

			r.Post("/trigger/all", h.TriggerAll)
			r.Post("/trigger/batch", h.TriggerBatch)
			r.Post("/ratings/reset", h.ResetRatings)

			r.Get("/logs", h.GetLogs)
			r.Get("/logs/stream", h.StreamLogs)
			r.Get("/logs/ws", h.LogsWebSocket)

			r.Get("/settings", h.GetSettings)
			r.Put("/settings", h.UpdateSettings)
			r.Post("/settings", h.UpdateSettings)

			r.Get("/libraries", h.GetLibraries)
			r.Get("/status", h.GetStatus)
		})
	})

	return r
}
