// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

// Package settings owns the runtime-editable settings: which libraries are
// swept, how tracks are rated and how often the periodic sweep runs.
//
// The Store hands out value copies; the only way to change settings is
// Store.Update, which validates the whole merged result under a lock and
// either applies all of it or none of it.
package settings

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tomtom215/starsync/internal/rating"
)

// Settings is the persisted settings document (config/settings.json).
type Settings struct {
	Libraries            []string `json:"libraries"`
	RatingStyle          string   `json:"rating_style"`
	RatingValue          float64  `json:"rating_value"`
	OverrideRating       bool     `json:"override_rating"`
	BatchIntervalMinutes int      `json:"batch_interval_minutes"`
}

// RatingConfig returns the rating portion of the settings.
func (s Settings) RatingConfig() rating.Config {
	return rating.Config{
		Style:            rating.Style(s.RatingStyle),
		Value:            s.RatingValue,
		OverrideExisting: s.OverrideRating,
	}
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	s.Libraries = slices.Clone(s.Libraries)
	return s
}

// Patch is a partial settings update. Nil fields keep their current value.
type Patch struct {
	Libraries            []string `json:"libraries,omitempty" validate:"omitempty,dive,required"`
	RatingStyle          *string  `json:"rating_style,omitempty" validate:"omitempty,oneof=1star 5stars 5stars_half"`
	RatingValue          *float64 `json:"rating_value,omitempty" validate:"omitempty,halfstep,gte=0,lte=5"`
	OverrideRating       *bool    `json:"override_rating,omitempty"`
	BatchIntervalMinutes *int     `json:"batch_interval_minutes,omitempty" validate:"omitempty,gte=0"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Libraries == nil && p.RatingStyle == nil && p.RatingValue == nil &&
		p.OverrideRating == nil && p.BatchIntervalMinutes == nil
}

// Apply merges p onto s and returns the result. Library names are trimmed
// and de-duplicated, keeping the first occurrence.
func (p Patch) Apply(s Settings) Settings {
	out := s.Clone()
	if p.Libraries != nil {
		out.Libraries = dedupe(p.Libraries)
	}
	if p.RatingStyle != nil {
		out.RatingStyle = strings.TrimSpace(*p.RatingStyle)
	}
	if p.RatingValue != nil {
		out.RatingValue = *p.RatingValue
	}
	if p.OverrideRating != nil {
		out.OverrideRating = *p.OverrideRating
	}
	if p.BatchIntervalMinutes != nil {
		out.BatchIntervalMinutes = *p.BatchIntervalMinutes
	}
	return out
}

func dedupe(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || slices.Contains(out, n) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Validate checks s. When available is non-nil every selected library must be
// in it; a nil available list skips that check (library list unreachable).
func (s Settings) Validate(available []string) error {
	if len(s.Libraries) == 0 {
		return &ValidationError{Field: "libraries", Message: "Invalid library selection attempted or no libraries selected."}
	}
	if available != nil {
		for _, lib := range s.Libraries {
			if !slices.Contains(available, lib) {
				return &ValidationError{Field: "libraries", Message: "Invalid library selection attempted or no libraries selected."}
			}
		}
	}
	if err := s.RatingConfig().Validate(); err != nil {
		return wrapRatingError(err)
	}
	if s.BatchIntervalMinutes < 0 {
		return &ValidationError{Field: "batch_interval_minutes", Message: "Batch interval must be >= 0"}
	}
	return nil
}

func wrapRatingError(err error) error {
	if cve, ok := err.(*rating.ConfigValidationError); ok { //nolint:errorlint // rating returns the concrete type
		return &ValidationError{Field: cve.Field, Message: cve.Message}
	}
	return fmt.Errorf("validate rating: %w", err)
}

// ValidationError reports a rejected settings update.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
