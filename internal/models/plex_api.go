// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package models

// ============================================================================
// Library Sections Models - GET /library/sections
// ============================================================================

// PlexLibrarySectionsResponse represents the response from GET /library/sections
type PlexLibrarySectionsResponse struct {
	MediaContainer PlexLibrarySectionsContainer `json:"MediaContainer"`
}

// PlexLibrarySectionsContainer wraps the list of library sections
type PlexLibrarySectionsContainer struct {
	Size      int                  `json:"size"`
	Directory []PlexLibrarySection `json:"Directory,omitempty"`
}

// PlexLibrarySection represents a single library section
type PlexLibrarySection struct {
	Key       string `json:"key"`   // Section key (used in URLs like /library/sections/{key})
	UUID      string `json:"uuid"`  // Unique section UUID
	Title     string `json:"title"` // Section name
	Type      string `json:"type"`  // Section type: "movie", "show", "artist", "photo"
	Agent     string `json:"agent,omitempty"`
	ScannedAt int64  `json:"scannedAt,omitempty"`
}

// ToLibrary converts the wire section to a Library.
func (s *PlexLibrarySection) ToLibrary() Library {
	return Library{Key: s.Key, Title: s.Title, Type: s.Type}
}

// ============================================================================
// Track Listing Models - GET /library/sections/{key}/all?type=10
// ============================================================================

// PlexTrackListResponse represents the response from a track listing
type PlexTrackListResponse struct {
	MediaContainer PlexTrackListContainer `json:"MediaContainer"`
}

// PlexTrackListContainer wraps track metadata items
type PlexTrackListContainer struct {
	Size                int                 `json:"size"`
	TotalSize           int                 `json:"totalSize,omitempty"`
	Offset              int                 `json:"offset,omitempty"`
	LibrarySectionID    int                 `json:"librarySectionID,omitempty"`
	LibrarySectionTitle string              `json:"librarySectionTitle,omitempty"`
	Metadata            []PlexTrackMetadata `json:"Metadata,omitempty"`
}

// PlexTrackMetadata represents a single track
type PlexTrackMetadata struct {
	RatingKey        string   `json:"ratingKey"`
	Key              string   `json:"key"`
	Type             string   `json:"type"`
	Title            string   `json:"title"`
	ParentTitle      string   `json:"parentTitle,omitempty"`      // Album
	GrandparentTitle string   `json:"grandparentTitle,omitempty"` // Artist
	UserRating       *float64 `json:"userRating,omitempty"`       // Absent when unrated
	AddedAt          int64    `json:"addedAt,omitempty"`
}

// ToTrack converts the wire metadata to a Track.
func (m *PlexTrackMetadata) ToTrack() Track {
	return Track{RatingKey: m.RatingKey, Title: m.Title, UserRating: m.UserRating}
}
