// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all
// JSON endpoints.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "VALIDATION_FAILED",
//	    "message": "5stars rating must be 1-5 integer",
//	    "details": {"field": "rating_value"}
//	  },
//	  "metadata": {"timestamp": "2026-01-02T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
}

// APIError represents an error response with structured error details.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// TriggerAccepted is returned by the trigger endpoints. The sweep itself runs
// in the background; progress is visible on the log stream.
type TriggerAccepted struct {
	Trigger string `json:"trigger"`
	Limit   *int   `json:"limit,omitempty"`
}

// LibraryOption is a music library offered for selection.
type LibraryOption struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Selected bool   `json:"selected"`
}

// LogSnapshot is the response of GET /api/v1/logs.
type LogSnapshot struct {
	Lines       []string `json:"lines"`
	Subscribers int      `json:"subscribers"`
}
