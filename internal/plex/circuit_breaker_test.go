// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package plex

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/starsync/internal/models"
)

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cbc := NewCircuitBreakerClient(newTestClient(server.URL), BreakerConfig{
		MinRequests: 3,
		Timeout:     time.Hour,
	})

	for i := 0; i < 3; i++ {
		if _, err := cbc.ListLibraries(context.Background()); err == nil {
			t.Fatalf("Expected failure on call %d", i)
		}
	}
	if !cbc.IsOpen() || cbc.State() != "open" {
		t.Fatalf("Expected breaker open, got %s", cbc.State())
	}

	_, err := cbc.SearchTracks(context.Background(), models.Library{Key: "1"}, nil)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Expected ErrOpenState, got %v", err)
	}
	if hits.Load() != 3 {
		t.Errorf("Expected rejected call not to reach Plex, got %d hits", hits.Load())
	}
}

func TestCircuitBreaker_DoesNotOpenBelowMinimum(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	cbc := NewCircuitBreakerClient(newTestClient(server.URL), BreakerConfig{})
	for i := 0; i < 5; i++ {
		_ = cbc.SetRating(context.Background(), models.Track{RatingKey: "1"}, nil)
	}
	if cbc.IsOpen() {
		t.Error("Expected breaker to stay closed below minimum requests")
	}
}

func TestCircuitBreaker_PassesResults(t *testing.T) {
	server := httptest.NewServer(sectionsHandler(t))
	defer server.Close()

	cbc := NewCircuitBreakerClient(newTestClient(server.URL), BreakerConfig{})

	lib, err := cbc.ResolveLibrary(context.Background(), "Music")
	if err != nil || lib == nil || lib.Key != "4" {
		t.Fatalf("Expected Music library, got %+v, %v", lib, err)
	}

	missing, err := cbc.ResolveLibrary(context.Background(), "Nope")
	if err != nil || missing != nil {
		t.Errorf("Expected nil, nil for missing library, got %+v, %v", missing, err)
	}

	libs, err := cbc.ListLibraries(context.Background())
	if err != nil || len(libs) != 3 {
		t.Errorf("Expected 3 libraries, got %d, %v", len(libs), err)
	}
	if cbc.State() != "closed" {
		t.Errorf("Expected closed breaker, got %s", cbc.State())
	}
}

func TestCircuitBreaker_CanceledContextIsNotFailure(t *testing.T) {
	server := httptest.NewServer(sectionsHandler(t))
	defer server.Close()

	cbc := NewCircuitBreakerClient(newTestClient(server.URL), BreakerConfig{MinRequests: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 3; i++ {
		_, _ = cbc.ListLibraries(ctx)
	}
	if cbc.IsOpen() {
		t.Error("Expected canceled requests not to open the breaker")
	}
}
