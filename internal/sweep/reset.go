// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package sweep

import (
	"context"
	"fmt"

	"github.com/tomtom215/starsync/internal/metrics"
)

// ResetResult summarizes one library of a reset.
type ResetResult struct {
	Library string `json:"library"`
	Cleared int    `json:"cleared"`
	Failed  int    `json:"failed"`
	Err     error  `json:"-"`
}

// Reset clears the user rating of every rated track in libraries. Unlike a
// sweep it always walks the full library.
func (r *Runner) Reset(ctx context.Context, libraries []string) []ResetResult {
	results := make([]ResetResult, 0, len(libraries))

	for _, name := range libraries {
		lib := r.resolve(ctx, name)
		if lib == nil {
			continue
		}

		result := ResetResult{Library: lib.Title}
		tracks, err := r.client.SearchTracks(ctx, *lib, nil)
		if err != nil {
			metrics.RecordLibraryError("fetch")
			result.Err = err
			r.events.Appendf("Error in %s: %v", lib.Title, err)
			results = append(results, result)
			continue
		}

		for _, track := range tracks {
			if !track.HasRating() {
				continue
			}
			if err := r.client.SetRating(ctx, track, nil); err != nil {
				result.Failed++
				metrics.RecordTrackAction("failed")
				r.events.Appendf("Error clearing track %s: %v", track.Title, err)
				continue
			}
			result.Cleared++
			metrics.RecordTrackAction("cleared")
			r.events.Appendf("Cleared: %s", track.Title)
		}

		summary := fmt.Sprintf("%s: Cleared %d", lib.Title, result.Cleared)
		if result.Failed > 0 {
			summary += fmt.Sprintf(", Failed %d", result.Failed)
		}
		r.events.Append(summary)
		results = append(results, result)
	}
	return results
}
