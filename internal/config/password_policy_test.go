// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package config

import "testing"

func TestPasswordPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		password   string
		username   string
		violations int
	}{
		{"acceptable", "vinyl-crate-42", "curator", 0},
		{"too short", "abc12", "curator", 1},
		{"common", "password123", "curator", 1},
		{"contains username", "curator2026", "curator", 1},
		{"reversed username", "xxrotaruc", "curator", 1},
		{"short and common", "admin", "someone", 2},
		{"no username", "vinyl-crate-42", "", 0},
	}

	policy := DefaultPasswordPolicy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := policy.Validate(tt.password, tt.username)
			if len(got) != tt.violations {
				t.Errorf("Expected %d violations, got %d: %v", tt.violations, len(got), got)
			}
			err := policy.ValidateWithError(tt.password, tt.username)
			if (err == nil) != (tt.violations == 0) {
				t.Errorf("ValidateWithError() = %v, violations = %d", err, tt.violations)
			}
		})
	}
}
