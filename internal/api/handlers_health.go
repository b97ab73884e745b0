// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/starsync/internal/models"
)

// HealthLive handles liveness probe requests (Kubernetes-style)
// GET /api/v1/health/live
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests.
// GET /api/v1/health/ready
//
// Returns 503 while the Plex circuit breaker is open.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	st := h.control.Status()
	if !h.control.Ready() {
		respondAPIError(w, http.StatusServiceUnavailable, &models.APIError{
			Code:    ErrCodeServiceUnavailable,
			Message: "Plex is unavailable",
			Details: map[string]interface{}{
				"plex_breaker": st.PlexBreaker,
			},
		})
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"status":       "ready",
		"plex_breaker": st.PlexBreaker,
		"scheduler":    st.Scheduler,
	})
}
