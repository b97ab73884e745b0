// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/starsync/internal/models"
	"github.com/tomtom215/starsync/internal/settings"
	"github.com/tomtom215/starsync/internal/validation"
)

// maxSettingsBodyBytes caps PUT /settings bodies.
const maxSettingsBodyBytes = 64 << 10

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
// Newlines in a webhook section title would otherwise forge extra activity log lines.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// toModelAPIError converts a validator failure to the envelope error shape.
func toModelAPIError(verr *validation.RequestValidationError) *models.APIError {
	apiErr := verr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// settingsErrorToAPIError maps a rejected settings update to a VALIDATION_FAILED error.
// It returns nil when err is not a validation failure.
func settingsErrorToAPIError(err error) *models.APIError {
	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		return toModelAPIError(verr)
	}

	var serr *settings.ValidationError
	if errors.As(err, &serr) {
		return &models.APIError{
			Code:    ErrCodeValidationFailed,
			Message: serr.Message,
			Details: map[string]interface{}{
				"field": serr.Field,
			},
		}
	}
	return nil
}

// getBoolParam extracts a boolean query parameter with a default value.
func getBoolParam(r *http.Request, key string, defaultValue bool) bool {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
