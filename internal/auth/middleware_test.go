// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/starsync/internal/logging"
	"github.com/tomtom215/starsync/internal/models"
)

func init() {
	logging.Init(logging.Config{Level: "disabled", Output: io.Discard})
}

func TestMiddleware_Authenticate_BasicAuth(t *testing.T) {
	t.Parallel()

	manager, err := newBasicAuthManagerForTest("admin", "securepass123")
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	mw := NewMiddleware(manager, AuthModeBasic)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantUser   string
	}{
		{"valid", makeAuthHeader("admin", "securepass123"), http.StatusOK, "admin"},
		{"missing", "", http.StatusUnauthorized, ""},
		{"wrong password", makeAuthHeader("admin", "nope-nope-nope"), http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotUser string
			handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = UsernameFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if gotUser != tt.wantUser {
				t.Errorf("Expected user %q, got %q", tt.wantUser, gotUser)
			}
			if tt.wantStatus != http.StatusUnauthorized {
				return
			}
			if !strings.HasPrefix(rec.Header().Get("WWW-Authenticate"), "Basic realm=") {
				t.Errorf("Expected WWW-Authenticate challenge, got %q", rec.Header().Get("WWW-Authenticate"))
			}
			var resp models.APIResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Failed to decode error envelope: %v", err)
			}
			if resp.Status != "error" || resp.Error == nil || resp.Error.Code != "UNAUTHORIZED" {
				t.Errorf("Expected UNAUTHORIZED envelope, got %+v", resp)
			}
		})
	}
}

func TestMiddleware_Authenticate_None(t *testing.T) {
	t.Parallel()

	mw := NewMiddleware(nil, AuthModeNone)
	called := false
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	if !called {
		t.Error("Expected handler to run without credentials in none mode")
	}
}

func TestMiddleware_Authenticate_MissingManager(t *testing.T) {
	t.Parallel()

	mw := NewMiddleware(nil, AuthModeBasic)
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not run without a credential manager")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	tests := []struct {
		name      string
		forwarded string
		wantHSTS  bool
	}{
		{"plain http", "", false},
		{"behind tls proxy", "https", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-Proto", tt.forwarded)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
				t.Errorf("Expected X-Frame-Options DENY, got %q", got)
			}
			if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
				t.Errorf("Expected X-Content-Type-Options nosniff, got %q", got)
			}
			if hasHSTS := rec.Header().Get("Strict-Transport-Security") != ""; hasHSTS != tt.wantHSTS {
				t.Errorf("Expected HSTS=%v, got %v", tt.wantHSTS, hasHSTS)
			}
		})
	}
}
