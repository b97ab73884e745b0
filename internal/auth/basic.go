// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrNoCredentials is returned when the request carries no Basic credentials.
	ErrNoCredentials = errors.New("no credentials provided")

	// ErrInvalidCredentials is returned for malformed or wrong credentials.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// DefaultBcryptCost is used by NewBasicAuthManager.
const DefaultBcryptCost = 12

// BasicAuthManager handles HTTP Basic Authentication with secure password verification
type BasicAuthManager struct {
	username     string
	passwordHash []byte // bcrypt hash of password
}

// NewBasicAuthManager creates a new Basic Auth manager with bcrypt-hashed password
// The password is hashed at initialization to avoid hashing on every request
func NewBasicAuthManager(username, password string) (*BasicAuthManager, error) {
	return NewBasicAuthManagerWithCost(username, password, DefaultBcryptCost)
}

// NewBasicAuthManagerWithCost is NewBasicAuthManager with an explicit bcrypt cost.
func NewBasicAuthManagerWithCost(username, password string, cost int) (*BasicAuthManager, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters for security")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &BasicAuthManager{
		username:     username,
		passwordHash: hash,
	}, nil
}

// ValidateCredentials validates an Authorization header value.
// Returns the username if valid.
func (m *BasicAuthManager) ValidateCredentials(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrNoCredentials
	}
	if !strings.HasPrefix(authHeader, "Basic ") {
		return "", fmt.Errorf("%w: unsupported authorization scheme", ErrInvalidCredentials)
	}

	credentials, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(authHeader, "Basic "))
	if err != nil {
		return "", fmt.Errorf("%w: failed to decode credentials", ErrInvalidCredentials)
	}

	// Passwords may contain colons; usernames may not.
	username, password, ok := strings.Cut(string(credentials), ":")
	if !ok {
		return "", fmt.Errorf("%w: missing separator", ErrInvalidCredentials)
	}

	if !m.validateUsernamePassword(username, password) {
		return "", fmt.Errorf("%w: invalid username or password", ErrInvalidCredentials)
	}

	return username, nil
}

// validateUsernamePassword runs both comparisons regardless of the username
// result so response time does not reveal which part was wrong.
func (m *BasicAuthManager) validateUsernamePassword(username, password string) bool {
	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(m.username)) == 1
	passwordMatch := bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password)) == nil
	return usernameMatch && passwordMatch
}

// GetWWWAuthenticateHeader returns the WWW-Authenticate header value
// sent with 401 responses.
func (m *BasicAuthManager) GetWWWAuthenticateHeader() string {
	return `Basic realm="StarSync", charset="UTF-8"`
}
