// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

// Package control is the operator-facing surface of StarSync: manual
// triggers, reset, the activity log, settings and the webhook decision.
// HTTP handlers call into a Service; nothing here knows about HTTP.
package control

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/starsync/internal/eventlog"
	"github.com/tomtom215/starsync/internal/logging"
	"github.com/tomtom215/starsync/internal/metrics"
	"github.com/tomtom215/starsync/internal/models"
	"github.com/tomtom215/starsync/internal/scheduler"
	"github.com/tomtom215/starsync/internal/settings"
	"github.com/tomtom215/starsync/internal/trigger"
	"github.com/tomtom215/starsync/internal/validation"
)

// LibraryLister lists the libraries on the media server.
type LibraryLister interface {
	ListLibraries(ctx context.Context) ([]models.Library, error)
}

// Scheduler is the part of *scheduler.Scheduler the service drives.
type Scheduler interface {
	Start(intervalMinutes int) error
	State() scheduler.State
}

// BreakerState reports the Plex circuit breaker state.
type BreakerState interface {
	State() string
	IsOpen() bool
}

// Service implements the control operations.
type Service struct {
	dispatcher *trigger.Dispatcher
	store      *settings.Store
	scheduler  Scheduler
	libraries  LibraryLister
	events     *eventlog.Log
	breaker    BreakerState
	logger     zerolog.Logger

	// updateMu orders store commit, save and scheduler restart so the
	// scheduler always runs on the interval the store holds.
	updateMu sync.Mutex
}

// NewService wires a Service. breaker may be nil.
func NewService(
	dispatcher *trigger.Dispatcher,
	store *settings.Store,
	sched Scheduler,
	libraries LibraryLister,
	events *eventlog.Log,
	breaker BreakerState,
) *Service {
	return &Service{
		dispatcher: dispatcher,
		store:      store,
		scheduler:  sched,
		libraries:  libraries,
		events:     events,
		breaker:    breaker,
		logger:     logging.WithComponent("control"),
	}
}

// Announce writes the startup banner to the event log.
func (s *Service) Announce() {
	cur := s.store.Current()
	s.events.Append("=== Starting StarSync ===")
	s.events.Appendf("Libraries: %s", strings.Join(cur.Libraries, ", "))
	s.events.Appendf("Rating style: %s", cur.RatingStyle)
	s.events.Appendf("Target rating value: %g", cur.RatingValue)
	s.events.Appendf("Override rating: %t", cur.OverrideRating)
	s.events.Appendf("Batch interval (minutes): %d", cur.BatchIntervalMinutes)
}

// TriggerAll starts an unbounded sweep. It never blocks on the sweep.
func (s *Service) TriggerAll() <-chan struct{} {
	return s.dispatcher.Dispatch(trigger.ReasonManualAll, nil)
}

// TriggerLastBatch starts a sweep bounded by the batch size.
func (s *Service) TriggerLastBatch() <-chan struct{} {
	return s.dispatcher.Dispatch(trigger.ReasonManualBatch, s.dispatcher.BatchLimit())
}

// ResetAllRatings clears ratings in every selected library.
func (s *Service) ResetAllRatings() <-chan struct{} {
	return s.dispatcher.DispatchReset()
}

// BatchLimit is the limit applied by batch-style triggers (nil = unbounded).
func (s *Service) BatchLimit() *int {
	return s.dispatcher.BatchLimit()
}

// SnapshotLog returns the retained log lines, oldest first.
func (s *Service) SnapshotLog() []string {
	return s.events.Snapshot()
}

// SubscribeLog registers a live log subscriber. When withSnapshot is true
// the returned lines precede everything the subscription will deliver.
func (s *Service) SubscribeLog(withSnapshot bool) ([]string, *eventlog.Subscription) {
	if withSnapshot {
		return s.events.SubscribeWithSnapshot()
	}
	return nil, s.events.Subscribe()
}

// Settings returns the current settings.
func (s *Service) Settings() settings.Settings {
	return s.store.Current()
}

// UpdateSettings validates and applies a partial update, persists it and
// restarts the periodic trigger with the resulting interval. When the
// library list cannot be fetched the library names are not checked.
func (s *Service) UpdateSettings(ctx context.Context, patch settings.Patch) (settings.Settings, error) {
	if verr := validation.ValidateStruct(patch); verr != nil {
		s.events.Appendf("%s", verr.Error())
		return s.store.Current(), verr
	}

	available, err := s.MusicLibraryNames(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Library list unavailable, skipping library check")
		available = nil
	}

	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	_, after, err := s.store.Update(patch, available)
	if err != nil {
		return after, err
	}

	// Save journals its own outcome; a failed write keeps the in-memory value.
	_ = s.store.Save()

	if err := s.scheduler.Start(after.BatchIntervalMinutes); err != nil {
		return after, fmt.Errorf("restart scheduler: %w", err)
	}
	return after, nil
}

// MusicLibraryNames lists the titles of music libraries. Fetch errors are
// written to the event log.
func (s *Service) MusicLibraryNames(ctx context.Context) ([]string, error) {
	libs, err := s.musicLibraries(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(libs))
	for _, lib := range libs {
		names = append(names, lib.Title)
	}
	return names, nil
}

// Libraries lists music libraries with the current selection marked.
func (s *Service) Libraries(ctx context.Context) ([]models.LibraryOption, error) {
	libs, err := s.musicLibraries(ctx)
	if err != nil {
		return nil, err
	}
	selected := s.store.Current().Libraries

	options := make([]models.LibraryOption, 0, len(libs))
	for _, lib := range libs {
		options = append(options, models.LibraryOption{
			Key:      lib.Key,
			Title:    lib.Title,
			Type:     lib.Type,
			Selected: slices.Contains(selected, lib.Title),
		})
	}
	return options, nil
}

func (s *Service) musicLibraries(ctx context.Context) ([]models.Library, error) {
	all, err := s.libraries.ListLibraries(ctx)
	if err != nil {
		s.events.Appendf("Error fetching libraries: %v", err)
		return nil, err
	}
	music := make([]models.Library, 0, len(all))
	for i := range all {
		if all[i].IsMusic() {
			music = append(music, all[i])
		}
	}
	return music, nil
}

// HandleLibraryEvent decides whether a webhook warrants a sweep and
// dispatches one if so. It reports whether a sweep was dispatched.
func (s *Service) HandleLibraryEvent(webhook *models.PlexWebhook) bool {
	section := webhook.SectionTitle()
	if !webhook.IsNewContentEvent() || !slices.Contains(s.store.Current().Libraries, section) {
		metrics.RecordWebhookEvent("ignored")
		return false
	}

	metrics.RecordWebhookEvent("dispatched")
	s.dispatcher.Dispatch(trigger.ReasonWebhook, s.dispatcher.BatchLimit())
	return true
}
