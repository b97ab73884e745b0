// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/starsync/internal/logging"
	"github.com/tomtom215/starsync/internal/metrics"
	"github.com/tomtom215/starsync/internal/models"
)

// maxWebhookMemory bounds the in-memory part of a multipart webhook body.
// Plex attaches a thumbnail to some events.
const maxWebhookMemory = 8 << 20

// PlexWebhook handles incoming Plex webhook notifications
// POST /plex-webhook
// POST /api/v1/plex/webhook
//
// Plex posts a form with a JSON "payload" field, either urlencoded or
// multipart. A library.new event (any event containing "new") for a
// selected library section dispatches a batch sweep.
//
// Responses are plain text:
//   - 204: sweep dispatched
//   - 200 "Ignored": event or section not of interest
//   - 400 "Bad Request: Missing payload"
//   - 500 "Error": payload is not valid JSON
func (h *Handler) PlexWebhook(w http.ResponseWriter, r *http.Request) {
	h.journal.Appendf("Webhook received - start")

	payload := webhookPayload(r)
	if payload == "" {
		h.journal.Appendf("No payload received in form data")
		metrics.RecordWebhookEvent("missing_payload")
		respondText(w, http.StatusBadRequest, "Bad Request: Missing payload")
		return
	}

	var webhook models.PlexWebhook
	if err := json.Unmarshal([]byte(payload), &webhook); err != nil {
		h.journal.Appendf("Webhook error: %s", sanitizeLogValue(err.Error()))
		metrics.RecordWebhookEvent("error")
		respondText(w, http.StatusInternalServerError, "Error")
		return
	}

	event := sanitizeLogValue(webhook.Event)
	section := sanitizeLogValue(webhook.SectionTitle())
	h.journal.Appendf("Webhook: %s in %s", event, section)
	logging.Ctx(r.Context()).Info().
		Str("event", event).
		Str("section", section).
		Msg("Webhook received")

	if h.control.HandleLibraryEvent(&webhook) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondText(w, http.StatusOK, "Ignored")
}

// webhookPayload extracts the payload field from a urlencoded or multipart form.
func webhookPayload(r *http.Request) string {
	if err := r.ParseMultipartForm(maxWebhookMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to parse webhook form")
		return ""
	}
	return r.PostFormValue("payload")
}
