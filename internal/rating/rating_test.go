// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package rating

import (
	"errors"
	"math"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func TestTargetRating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want float64
	}{
		{"one star set", Config{Style: StyleOneStar, Value: 1}, 10},
		{"one star unset", Config{Style: StyleOneStar, Value: 0}, 0},
		{"one star above one", Config{Style: StyleOneStar, Value: 3}, 10},
		{"five stars max", Config{Style: StyleFiveStars, Value: 5}, 10},
		{"five stars three", Config{Style: StyleFiveStars, Value: 3}, 6},
		{"five stars one", Config{Style: StyleFiveStars, Value: 1}, 2},
		{"five stars clamps low", Config{Style: StyleFiveStars, Value: 0}, 2},
		{"five stars clamps high", Config{Style: StyleFiveStars, Value: 9}, 10},
		{"half step", Config{Style: StyleFiveStarsHalf, Value: 3.5}, 7},
		{"half step lowest", Config{Style: StyleFiveStarsHalf, Value: 1}, 2},
		{"unknown style", Config{Style: "10stars", Value: 4}, NeutralRating},
		{"nan value", Config{Style: StyleFiveStars, Value: math.NaN()}, NeutralRating},
		{"inf value", Config{Style: StyleFiveStarsHalf, Value: math.Inf(1)}, NeutralRating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TargetRating(tt.cfg); got != tt.want {
				t.Errorf("TargetRating(%+v) = %v, want %v", tt.cfg, got, tt.want)
			}
		})
	}
}

func TestTargetRating_RangeForValidConfigs(t *testing.T) {
	t.Parallel()

	for _, style := range Styles {
		for v := 0.0; v <= 5.0; v += 0.5 {
			cfg := Config{Style: style, Value: v}
			if cfg.Validate() != nil {
				continue
			}
			got := TargetRating(cfg)
			if got < 0 || got > 10 {
				t.Errorf("TargetRating(%+v) = %v, outside [0,10]", cfg, got)
			}
			if style != StyleOneStar && (got < 2 || got > 10) {
				t.Errorf("TargetRating(%+v) = %v, outside [2,10]", cfg, got)
			}
		}
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		current  *float64
		target   float64
		override bool
		want     Action
	}{
		{"unrated", nil, 10, false, ActionRate},
		{"unrated with override", nil, 10, true, ActionRate},
		{"rated no override", ptr(4), 10, false, ActionSkip},
		{"rated equal with override", ptr(10), 10, true, ActionSkip},
		{"rated within tolerance", ptr(9.995), 10, true, ActionSkip},
		{"rated different with override", ptr(4), 10, true, ActionUpdate},
		{"rated zero with override", ptr(0), 6, true, ActionUpdate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.current, tt.target, tt.override); got != tt.want {
				t.Errorf("Classify = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantMsg string
	}{
		{"one star zero", Config{Style: StyleOneStar, Value: 0}, ""},
		{"one star one", Config{Style: StyleOneStar, Value: 1}, ""},
		{"one star two", Config{Style: StyleOneStar, Value: 2}, "1star rating must be 0 or 1"},
		{"five stars four", Config{Style: StyleFiveStars, Value: 4}, ""},
		{"five stars fraction", Config{Style: StyleFiveStars, Value: 4.5}, "5stars rating must be 1-5 integer"},
		{"five stars seven", Config{Style: StyleFiveStars, Value: 7}, "5stars rating must be 1-5 integer"},
		{"five stars zero", Config{Style: StyleFiveStars, Value: 0}, "5stars rating must be 1-5 integer"},
		{"half step ok", Config{Style: StyleFiveStarsHalf, Value: 2.5}, ""},
		{"half step quarter", Config{Style: StyleFiveStarsHalf, Value: 2.25}, "5stars_half rating must be 1-5 in 0.5 steps"},
		{"half step high", Config{Style: StyleFiveStarsHalf, Value: 5.5}, "5stars_half rating must be 1-5 in 0.5 steps"},
		{"unknown style", Config{Style: "stars", Value: 3}, "Invalid rating style: stars"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.wantMsg == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error %q, got nil", tt.wantMsg)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("Expected error %q, got %q", tt.wantMsg, err.Error())
			}
			var cve *ConfigValidationError
			if !errors.As(err, &cve) {
				t.Errorf("Expected *ConfigValidationError, got %T", err)
			}
		})
	}
}

func TestParseStyle(t *testing.T) {
	t.Parallel()

	if s, err := ParseStyle(" 5stars_half "); err != nil || s != StyleFiveStarsHalf {
		t.Errorf("Expected 5stars_half, got %q (%v)", s, err)
	}
	if _, err := ParseStyle("thumbs"); err == nil {
		t.Error("Expected error for unknown style")
	}
}

func TestActionString(t *testing.T) {
	t.Parallel()

	if ActionRate.String() != "rated" || ActionUpdate.String() != "updated" || ActionSkip.String() != "skipped" {
		t.Errorf("Unexpected action labels: %s %s %s", ActionRate, ActionUpdate, ActionSkip)
	}
}
