// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/starsync/internal/eventlog"
	"github.com/tomtom215/starsync/internal/logging"
)

// Journal receives human-readable settings messages (the event log).
type Journal interface {
	Appendf(format string, args ...interface{}) eventlog.Entry
}

// Store is the single owner of the current settings.
type Store struct {
	mu      sync.RWMutex
	current Settings

	path    string
	journal Journal
	logger  zerolog.Logger
}

// NewStore creates a store holding defaults. path is the JSON file used by
// Load and Save; an empty path disables persistence.
func NewStore(defaults Settings, path string, journal Journal) *Store {
	return &Store{
		current: defaults.Clone(),
		path:    path,
		journal: journal,
		logger:  logging.WithComponent("settings"),
	}
}

// Current returns a copy of the current settings.
func (s *Store) Current() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Load merges the settings file over the defaults the store was created
// with. A missing file is created from the defaults. A file that cannot be
// read or parsed is reported and the defaults are kept.
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.journal.Appendf("Settings file not found. Creating from environment/defaults.")
		return s.Save()
	}
	if err != nil {
		s.journal.Appendf("Failed to load settings: %v", err)
		return fmt.Errorf("read settings file: %w", err)
	}

	s.mu.Lock()
	merged := s.current.Clone()
	if err := json.Unmarshal(data, &merged); err != nil {
		s.mu.Unlock()
		s.journal.Appendf("Failed to load settings: %v", err)
		return fmt.Errorf("parse settings file: %w", err)
	}
	merged.Libraries = dedupe(merged.Libraries)
	if err := merged.Validate(nil); err != nil {
		s.mu.Unlock()
		s.journal.Appendf("Failed to load settings: %v", err)
		return fmt.Errorf("validate settings file: %w", err)
	}
	s.current = merged
	s.mu.Unlock()

	s.journal.Appendf("Settings loaded from file.")
	return nil
}

// Save writes the current settings to the settings file atomically.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(s.Current(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := writeFileAtomic(s.path, data); err != nil {
		s.journal.Appendf("Error saving settings: %v", err)
		return err
	}
	s.journal.Appendf("Settings saved.")
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("create temp settings file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close() //nolint:errcheck // already returning the write error
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close settings: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}

// Update applies patch if the merged result is valid. available is the list
// of selectable library names, or nil when it could not be fetched. On
// failure the error is journaled and the current settings are unchanged.
func (s *Store) Update(patch Patch, available []string) (Settings, Settings, error) {
	s.mu.Lock()
	before := s.current.Clone()
	next := patch.Apply(before)
	if err := next.Validate(available); err != nil {
		s.mu.Unlock()
		s.journal.Appendf("%s", err.Error())
		s.logger.Warn().Err(err).Msg("Rejected settings update")
		return before, before, err
	}
	s.current = next
	s.mu.Unlock()

	s.journalChanges(before, next)
	s.logger.Info().
		Strs("libraries", next.Libraries).
		Str("rating_style", next.RatingStyle).
		Float64("rating_value", next.RatingValue).
		Bool("override_rating", next.OverrideRating).
		Int("batch_interval_minutes", next.BatchIntervalMinutes).
		Msg("Settings updated")
	return before, next.Clone(), nil
}

//nolint:gocritic // Settings is a small value type
func (s *Store) journalChanges(before, after Settings) {
	if !slices.Equal(before.Libraries, after.Libraries) {
		s.journal.Appendf("Libraries changed to: %s", strings.Join(after.Libraries, ", "))
	}
	if before.RatingStyle != after.RatingStyle || before.RatingValue != after.RatingValue {
		s.journal.Appendf("Rating style set to: %s, Rating value set to: %g", after.RatingStyle, after.RatingValue)
	}
	if before.OverrideRating != after.OverrideRating {
		s.journal.Appendf("Override rating set to: %t", after.OverrideRating)
	}
	if before.BatchIntervalMinutes != after.BatchIntervalMinutes {
		s.journal.Appendf("Batch interval set to %d minutes", after.BatchIntervalMinutes)
	}
}
