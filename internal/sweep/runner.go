// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

// Package sweep performs one pass over the selected music libraries, applying
// the configured rating to tracks that need it.
//
// A sweep never aborts part-way: a missing library, a failed track listing
// or a failed rating call is logged and the sweep moves on. Callers must hold
// the single-flight gate while a sweep or reset runs.
package sweep

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/starsync/internal/eventlog"
	"github.com/tomtom215/starsync/internal/logging"
	"github.com/tomtom215/starsync/internal/metrics"
	"github.com/tomtom215/starsync/internal/models"
	"github.com/tomtom215/starsync/internal/rating"
)

// Client is the media server surface a sweep needs.
type Client interface {
	// ResolveLibrary returns nil, nil when no library has that name.
	ResolveLibrary(ctx context.Context, name string) (*models.Library, error)

	// SearchTracks lists tracks newest-added first. A nil limit is unbounded.
	SearchTracks(ctx context.Context, lib models.Library, limit *int) ([]models.Track, error)

	// SetRating applies rating to the track. A nil rating clears it.
	SetRating(ctx context.Context, track models.Track, rating *float64) error
}

// LibraryResult summarizes one library of a sweep.
type LibraryResult struct {
	Library string `json:"library"`
	Rated   int    `json:"rated"`
	Updated int    `json:"updated"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
	Err     error  `json:"-"`
}

// Summary renders the per-library summary line.
func (r LibraryResult) Summary() string {
	s := fmt.Sprintf("%s: Rated %d, Updated %d, Skipped %d", r.Library, r.Rated, r.Updated, r.Skipped)
	if r.Failed > 0 {
		s += fmt.Sprintf(", Failed %d", r.Failed)
	}
	return s
}

// Runner executes sweeps and resets.
type Runner struct {
	client Client
	events *eventlog.Log
	logger zerolog.Logger
}

// NewRunner creates a Runner writing progress to events.
func NewRunner(client Client, events *eventlog.Log) *Runner {
	return &Runner{
		client: client,
		events: events,
		logger: logging.WithComponent("sweep"),
	}
}

// Run sweeps libraries in order and returns one result per library that was
// found. limit bounds the tracks fetched per library (nil = all).
func (r *Runner) Run(ctx context.Context, libraries []string, cfg rating.Config, limit *int) []LibraryResult {
	target := rating.TargetRating(cfg)
	results := make([]LibraryResult, 0, len(libraries))

	logger := logging.Ctx(ctx).With().Str("component", "sweep").Logger()
	logger.Info().
		Strs("libraries", libraries).
		Float64("target", target).
		Bool("override", cfg.OverrideExisting).
		Interface("limit", limit).
		Msg("Sweep started")

	for _, name := range libraries {
		lib := r.resolve(ctx, name)
		if lib == nil {
			continue
		}
		results = append(results, r.sweepLibrary(ctx, logger, *lib, target, cfg.OverrideExisting, limit))
	}
	return results
}

// resolve looks up a library by name, logging a warning when it is missing.
func (r *Runner) resolve(ctx context.Context, name string) *models.Library {
	lib, err := r.client.ResolveLibrary(ctx, name)
	if err != nil {
		r.logger.Warn().Err(err).Str("library", name).Msg("Library lookup failed")
	}
	if err != nil || lib == nil {
		metrics.RecordLibraryError("missing")
		r.events.Appendf("Warning: Library '%s' not found or unavailable", name)
		return nil
	}
	return lib
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func (r *Runner) sweepLibrary(ctx context.Context, logger zerolog.Logger, lib models.Library, target float64, override bool, limit *int) LibraryResult {
	result := LibraryResult{Library: lib.Title}
	logger.Info().Str("library", lib.Title).Msg("Processing library: " + lib.Title)

	tracks, err := r.client.SearchTracks(ctx, lib, limit)
	if err != nil {
		metrics.RecordLibraryError("fetch")
		result.Err = err
		r.events.Appendf("Fetch error in %s: %v", lib.Title, err)
		return result
	}
	if len(tracks) == 0 {
		r.events.Appendf("No tracks in %s", lib.Title)
		return result
	}

	for i, track := range tracks {
		idx := i + 1
		action := rating.Classify(track.UserRating, target, override)
		if action == rating.ActionSkip {
			result.Skipped++
			metrics.RecordTrackAction(action.String())
			continue
		}

		value := target
		if err := r.client.SetRating(ctx, track, &value); err != nil {
			result.Failed++
			metrics.RecordTrackAction("failed")
			r.events.Appendf("Error rating track %s: %v", track.Title, err)
			continue
		}

		metrics.RecordTrackAction(action.String())
		switch action {
		case rating.ActionRate:
			result.Rated++
			r.events.Appendf("[%d] Rated: %s", idx, track.Title)
		case rating.ActionUpdate:
			result.Updated++
			r.events.Appendf("[%d] Updated: %s", idx, track.Title)
		}
	}

	r.events.Append(result.Summary())
	return result
}

// Totals sums a set of library results.
func Totals(results []LibraryResult) LibraryResult {
	total := LibraryResult{Library: strings.Join(libraryNames(results), ", ")}
	for _, r := range results {
		total.Rated += r.Rated
		total.Updated += r.Updated
		total.Skipped += r.Skipped
		total.Failed += r.Failed
	}
	return total
}

func libraryNames(results []LibraryResult) []string {
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Library)
	}
	return names
}
