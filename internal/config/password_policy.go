// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package config

import (
	"errors"
	"fmt"
	"strings"
)

// PasswordPolicy defines requirements for the admin password.
type PasswordPolicy struct {
	// MinLength is the minimum password length in characters.
	MinLength int

	// ForbidCommonPasswords blocks well-known breached passwords.
	ForbidCommonPasswords bool

	// ForbidUsernameSimilarity rejects passwords containing the username.
	ForbidUsernameSimilarity bool
}

// DefaultPasswordPolicy returns the policy applied to APP_PASSWORD.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:                8,
		ForbidCommonPasswords:    true,
		ForbidUsernameSimilarity: true,
	}
}

// Validate returns every policy violation for password. An empty slice
// means the password is acceptable.
func (p PasswordPolicy) Validate(password, username string) []string {
	var violations []string

	if n := len([]rune(password)); n < p.MinLength {
		violations = append(violations, fmt.Sprintf("must be at least %d characters (got %d)", p.MinLength, n))
	}
	if p.ForbidCommonPasswords && isCommonPassword(password) {
		violations = append(violations, "is a commonly used password")
	}
	if p.ForbidUsernameSimilarity && username != "" && isSimilarToUsername(password, username) {
		violations = append(violations, "is too similar to the username")
	}

	return violations
}

// ValidateWithError joins all violations into a single error.
func (p PasswordPolicy) ValidateWithError(password, username string) error {
	violations := p.Validate(password, username)
	if len(violations) == 0 {
		return nil
	}
	return errors.New("password " + strings.Join(violations, "; "))
}

var commonPasswords = map[string]bool{
	"123456":        true,
	"password":      true,
	"123456789":     true,
	"12345678":      true,
	"1234567890":    true,
	"qwerty":        true,
	"qwerty123":     true,
	"abc123":        true,
	"password1":     true,
	"password123":   true,
	"admin":         true,
	"admin123":      true,
	"administrator": true,
	"letmein":       true,
	"welcome":       true,
	"iloveyou":      true,
	"sunshine":      true,
	"trustno1":      true,
	"passw0rd":      true,
	"changeme":      true,
	"starsync":      true,
	"plexpass":      true,
}

// isCommonPassword checks the password against a short list of breached passwords.
func isCommonPassword(password string) bool {
	return commonPasswords[strings.ToLower(password)]
}

// isSimilarToUsername reports whether the password contains the username,
// its reverse, or the reverse relation.
func isSimilarToUsername(password, username string) bool {
	lowerPass := strings.ToLower(password)
	lowerUser := strings.ToLower(username)

	if strings.Contains(lowerPass, lowerUser) || strings.Contains(lowerUser, lowerPass) {
		return true
	}
	return strings.Contains(lowerPass, reverseString(lowerUser))
}

func reverseString(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
