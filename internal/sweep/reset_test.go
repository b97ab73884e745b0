// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package sweep

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/starsync/internal/models"
)

func TestReset_ClearsRatedTracks(t *testing.T) {
	t.Parallel()

	client := newMockClient()
	client.libraries["Music"] = []models.Track{
		{RatingKey: "1", Title: "Rated", UserRating: ptr(8)},
		{RatingKey: "2", Title: "Unrated"},
		{RatingKey: "3", Title: "Also Rated", UserRating: ptr(2)},
	}
	runner, events := newTestRunner(client)

	results := runner.Reset(context.Background(), []string{"Music"})

	if len(results) != 1 || results[0].Cleared != 2 {
		t.Fatalf("Expected 2 cleared, got %+v", results)
	}
	if v, ok := client.applied["1"]; !ok || v != nil {
		t.Errorf("Expected track 1 cleared with nil rating, got %v (present=%v)", v, ok)
	}
	if _, ok := client.applied["2"]; ok {
		t.Error("Expected unrated track to be untouched")
	}

	want := []string{"Cleared: Rated", "Cleared: Also Rated", "Music: Cleared 2"}
	got := texts(events)
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Line %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestReset_FetchError(t *testing.T) {
	t.Parallel()

	client := newMockClient()
	client.fetchErr["Music"] = errors.New("boom")
	runner, events := newTestRunner(client)

	results := runner.Reset(context.Background(), []string{"Music"})

	if len(results) != 1 || results[0].Err == nil {
		t.Fatalf("Expected error result, got %+v", results)
	}
	if got := texts(events); len(got) != 1 || got[0] != "Error in Music: boom" {
		t.Errorf("Expected 'Error in Music: boom', got %v", got)
	}
}

func TestReset_UsesUnboundedListing(t *testing.T) {
	t.Parallel()

	client := newMockClient()
	client.libraries["Music"] = []models.Track{{RatingKey: "1", Title: "A", UserRating: ptr(4)}}
	runner, _ := newTestRunner(client)

	runner.Reset(context.Background(), []string{"Music"})

	if client.lastLimit != nil {
		t.Errorf("Expected nil limit for reset, got %d", *client.lastLimit)
	}
}
