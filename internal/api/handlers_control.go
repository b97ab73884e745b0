// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/starsync/internal/auth"
	"github.com/tomtom215/starsync/internal/logging"
	"github.com/tomtom215/starsync/internal/models"
	"github.com/tomtom215/starsync/internal/settings"
)

// TriggerAll starts an unbounded sweep of every selected library.
// POST /api/v1/trigger/all
func (h *Handler) TriggerAll(w http.ResponseWriter, r *http.Request) {
	h.control.TriggerAll()
	logging.Ctx(r.Context()).Info().Str("trigger", "all").Str("user", auth.UsernameFromContext(r.Context())).Msg("Trigger accepted")
	respondSuccess(w, http.StatusAccepted, models.TriggerAccepted{Trigger: "all"})
}

// TriggerBatch sweeps the newest BATCH_SIZE tracks of each selected library.
// POST /api/v1/trigger/batch
func (h *Handler) TriggerBatch(w http.ResponseWriter, r *http.Request) {
	limit := h.control.BatchLimit()
	h.control.TriggerLastBatch()
	logging.Ctx(r.Context()).Info().Str("trigger", "batch").Str("user", auth.UsernameFromContext(r.Context())).Msg("Trigger accepted")
	respondSuccess(w, http.StatusAccepted, models.TriggerAccepted{Trigger: "batch", Limit: limit})
}

// ResetRatings clears every rating in the selected libraries.
// POST /api/v1/ratings/reset
func (h *Handler) ResetRatings(w http.ResponseWriter, r *http.Request) {
	h.control.ResetAllRatings()
	logging.Ctx(r.Context()).Warn().Str("trigger", "reset").Str("user", auth.UsernameFromContext(r.Context())).Msg("Rating reset accepted")
	respondSuccess(w, http.StatusAccepted, models.TriggerAccepted{Trigger: "reset"})
}

// GetSettings returns the current settings snapshot.
// GET /api/v1/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, h.control.Settings())
}

// UpdateSettings applies a partial settings update.
// PUT|POST /api/v1/settings
//
// Omitted fields keep their current value. A rejected update leaves the
// previous settings in place and answers 422 VALIDATION_FAILED.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch settings.Patch
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSettingsBodyBytes))
	if err := dec.Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body", nil)
		return
	}

	updated, err := h.control.UpdateSettings(r.Context(), patch)
	if err != nil {
		if apiErr := settingsErrorToAPIError(err); apiErr != nil {
			respondAPIError(w, http.StatusUnprocessableEntity, apiErr)
			return
		}
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to update settings", err)
		return
	}

	respondSuccess(w, http.StatusOK, updated)
}

// GetLibraries lists the Plex music libraries with the current selection marked.
// GET /api/v1/libraries
func (h *Handler) GetLibraries(w http.ResponseWriter, r *http.Request) {
	libs, err := h.control.Libraries(r.Context())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Plex libraries unavailable", err)
		return
	}
	if libs == nil {
		libs = []models.LibraryOption{}
	}
	respondSuccess(w, http.StatusOK, libs)
}

// GetStatus reports sweep, scheduler and stream state.
// GET /api/v1/status
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, h.control.Status())
}
