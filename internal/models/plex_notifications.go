// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package models

import "strings"

// PlexWebhook represents the JSON carried in the "payload" form field of a
// Plex webhook POST. Only the fields StarSync acts on are decoded.
type PlexWebhook struct {
	Event    string               `json:"event"` // e.g. "library.new", "media.play"
	User     bool                 `json:"user"`
	Owner    bool                 `json:"owner"`
	Account  PlexWebhookAccount   `json:"Account"`
	Server   PlexWebhookServer    `json:"Server"`
	Metadata *PlexWebhookMetadata `json:"Metadata,omitempty"`
}

// PlexWebhookAccount represents the user account in webhook payload
type PlexWebhookAccount struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// PlexWebhookServer represents the Plex server in webhook payload
type PlexWebhookServer struct {
	Title string `json:"title"`
	UUID  string `json:"uuid"`
}

// PlexWebhookMetadata represents content metadata in webhook payload
type PlexWebhookMetadata struct {
	LibrarySectionType  string `json:"librarySectionType"`
	LibrarySectionTitle string `json:"librarySectionTitle"`
	LibrarySectionID    int    `json:"librarySectionID"`
	RatingKey           string `json:"ratingKey"`
	Type                string `json:"type"`
	Title               string `json:"title"`
}

// IsNewContentEvent reports whether the event announces newly added content.
// Matching is a case-insensitive substring test for "new".
func (w *PlexWebhook) IsNewContentEvent() bool {
	return strings.Contains(strings.ToLower(w.Event), "new")
}

// SectionTitle returns the library section title, or "" when the payload
// carries no metadata.
func (w *PlexWebhook) SectionTitle() string {
	if w.Metadata == nil {
		return ""
	}
	return w.Metadata.LibrarySectionTitle
}
