// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package plex

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tomtom215/starsync/internal/metrics"
	"github.com/tomtom215/starsync/internal/models"
)

const (
	// trackType is the Plex metadata type for audio tracks.
	trackType = "10"

	// ratingIdentifier is the provider identifier Plex expects on /:/rate.
	ratingIdentifier = "com.plexapp.plugins.library"

	// clearRating is the rating value Plex interprets as "remove rating".
	clearRating = "-1"
)

// ListLibraries returns every library section on the server.
func (c *Client) ListLibraries(ctx context.Context) ([]models.Library, error) {
	start := time.Now()
	var resp models.PlexLibrarySectionsResponse
	err := c.doRequest(ctx, requestConfig{
		method: http.MethodGet,
		path:   "/library/sections",
	}, &resp)
	metrics.RecordPlexRequest("list_libraries", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("list libraries: %w", err)
	}

	libraries := make([]models.Library, 0, len(resp.MediaContainer.Directory))
	for i := range resp.MediaContainer.Directory {
		libraries = append(libraries, resp.MediaContainer.Directory[i].ToLibrary())
	}
	return libraries, nil
}

// ResolveLibrary finds a library by exact title. It returns nil, nil when no
// library has that title.
func (c *Client) ResolveLibrary(ctx context.Context, name string) (*models.Library, error) {
	libraries, err := c.ListLibraries(ctx)
	if err != nil {
		return nil, err
	}
	for i := range libraries {
		if libraries[i].Title == name {
			return &libraries[i], nil
		}
	}
	return nil, nil
}

// SearchTracks lists tracks in lib, newest first. A non-nil limit bounds the
// result to the limit most recently added tracks.
func (c *Client) SearchTracks(ctx context.Context, lib models.Library, limit *int) ([]models.Track, error) {
	if limit != nil && *limit <= 0 {
		return nil, nil
	}

	query := url.Values{}
	query.Set("type", trackType)
	query.Set("sort", "addedAt:desc")
	if limit != nil {
		query.Set("X-Plex-Container-Start", "0")
		query.Set("X-Plex-Container-Size", strconv.Itoa(*limit))
	}

	start := time.Now()
	var resp models.PlexTrackListResponse
	err := c.doRequest(ctx, requestConfig{
		method: http.MethodGet,
		path:   "/library/sections/" + url.PathEscape(lib.Key) + "/all",
		query:  query,
	}, &resp)
	metrics.RecordPlexRequest("search_tracks", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("search tracks in %s: %w", lib.Title, err)
	}

	metadata := resp.MediaContainer.Metadata
	if limit != nil && len(metadata) > *limit {
		metadata = metadata[:*limit]
	}

	tracks := make([]models.Track, 0, len(metadata))
	for i := range metadata {
		tracks = append(tracks, metadata[i].ToTrack())
	}
	return tracks, nil
}

// SetRating writes rating (0-10) to the track. A nil rating clears it.
func (c *Client) SetRating(ctx context.Context, track models.Track, rating *float64) error {
	value := clearRating
	if rating != nil {
		value = strconv.FormatFloat(*rating, 'f', -1, 64)
	}

	query := url.Values{}
	query.Set("key", track.RatingKey)
	query.Set("identifier", ratingIdentifier)
	query.Set("rating", value)

	start := time.Now()
	err := c.doRequest(ctx, requestConfig{
		method:      http.MethodPut,
		path:        "/:/rate",
		query:       query,
		expectNoErr: true,
	}, nil)
	metrics.RecordPlexRequest("set_rating", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("set rating: %w", err)
	}
	return nil
}
