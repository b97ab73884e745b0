// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

// Package rating computes the rating StarSync applies to tracks and decides,
// per track, whether a sweep should rate it, update it, or leave it alone.
//
// Plex stores user ratings on a 0-10 scale where each star is worth 2 points.
// The configured value is expressed in the style's own units (0/1 for the
// single-star style, 1-5 stars otherwise) and converted here.
package rating

import (
	"fmt"
	"math"
	"strings"
)

// Style selects how the configured value is interpreted.
type Style string

const (
	// StyleOneStar is a binary "loved" flag: 1 maps to 10, 0 maps to 0.
	StyleOneStar Style = "1star"

	// StyleFiveStars accepts whole stars from 1 to 5.
	StyleFiveStars Style = "5stars"

	// StyleFiveStarsHalf accepts 1 to 5 stars in half-star steps.
	StyleFiveStarsHalf Style = "5stars_half"
)

// NeutralRating is applied when the target cannot be computed (3 stars).
const NeutralRating = 6.0

// equalityTolerance is the distance under which two ratings are treated as equal.
const equalityTolerance = 0.01

// Styles lists every accepted style in display order.
var Styles = []Style{StyleOneStar, StyleFiveStars, StyleFiveStarsHalf}

// ParseStyle converts a raw setting value into a Style.
func ParseStyle(s string) (Style, error) {
	style := Style(strings.TrimSpace(s))
	for _, known := range Styles {
		if style == known {
			return style, nil
		}
	}
	return "", &ConfigValidationError{Field: "rating_style", Message: fmt.Sprintf("Invalid rating style: %s", s)}
}

// Config is the rating portion of the settings.
type Config struct {
	Style            Style   `json:"rating_style"`
	Value            float64 `json:"rating_value"`
	OverrideExisting bool    `json:"override_rating"`
}

// Validate checks that Value satisfies the step and range constraint of Style.
func (c Config) Validate() error {
	if _, err := ParseStyle(string(c.Style)); err != nil {
		return err
	}
	return ValidateValue(c.Style, c.Value)
}

// ValidateValue checks a rating value against a style.
func ValidateValue(style Style, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return &ConfigValidationError{Field: "rating_value", Message: "rating value must be a finite number"}
	}
	switch style {
	case StyleOneStar:
		if value != 0 && value != 1 {
			return &ConfigValidationError{Field: "rating_value", Message: "1star rating must be 0 or 1"}
		}
	case StyleFiveStars:
		if value < 1 || value > 5 || value != math.Trunc(value) {
			return &ConfigValidationError{Field: "rating_value", Message: "5stars rating must be 1-5 integer"}
		}
	case StyleFiveStarsHalf:
		if value < 1 || value > 5 || value*2 != math.Trunc(value*2) {
			return &ConfigValidationError{Field: "rating_value", Message: "5stars_half rating must be 1-5 in 0.5 steps"}
		}
	default:
		return &ConfigValidationError{Field: "rating_style", Message: fmt.Sprintf("Invalid rating style: %s", style)}
	}
	return nil
}

// TargetRating returns the 0-10 rating a sweep applies for cfg. It never
// fails: anything it cannot compute yields NeutralRating.
func TargetRating(cfg Config) float64 {
	v := cfg.Value
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NeutralRating
	}
	switch cfg.Style {
	case StyleOneStar:
		if v >= 1 {
			return 10
		}
		return 0
	case StyleFiveStars, StyleFiveStarsHalf:
		return clamp(v/5*10, 2, 10)
	default:
		return NeutralRating
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Action is the decision made for a single track.
type Action int

const (
	// ActionSkip leaves the track untouched.
	ActionSkip Action = iota
	// ActionRate applies a rating to an unrated track.
	ActionRate
	// ActionUpdate replaces an existing, different rating.
	ActionUpdate
)

// String returns the metric/log label for the action.
func (a Action) String() string {
	switch a {
	case ActionRate:
		return "rated"
	case ActionUpdate:
		return "updated"
	default:
		return "skipped"
	}
}

// Classify decides what a sweep does with a track whose current rating is
// current (nil when unrated).
func Classify(current *float64, target float64, override bool) Action {
	if current == nil {
		return ActionRate
	}
	if override && math.Abs(*current-target) > equalityTolerance {
		return ActionUpdate
	}
	return ActionSkip
}

// ConfigValidationError reports a rejected rating or settings field.
type ConfigValidationError struct {
	Field   string
	Message string
}

func (e *ConfigValidationError) Error() string {
	return e.Message
}
