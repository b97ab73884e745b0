// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package models

// Library is a resolved library section.
type Library struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// IsMusic reports whether the section holds music. Plex reports music
// sections as "artist"; some agents report "music".
func (l *Library) IsMusic() bool {
	return l.Type == "artist" || l.Type == "music"
}

// Track is a music track as seen by a sweep.
type Track struct {
	RatingKey string `json:"rating_key"`
	Title     string `json:"title"`

	// UserRating is nil when the track has never been rated (or was cleared).
	UserRating *float64 `json:"user_rating,omitempty"`
}

// HasRating reports whether a user rating is present.
func (t *Track) HasRating() bool {
	return t.UserRating != nil
}
