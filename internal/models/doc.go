// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

/*
Package models defines data structures shared across StarSync packages.

Model Categories:

1. API Request/Response Models:
  - APIResponse: Standard response wrapper
  - APIError: Error details
  - Metadata: Response metadata (timestamp)

2. Plex API Models:
  - PlexLibrarySectionsResponse: GET /library/sections
  - PlexTrackListResponse: GET /library/sections/{key}/all?type=10
  - PlexWebhook: multipart webhook payload

3. Domain Models:
  - Library: a resolved library section handle
  - Track: a music track with its optional user rating
*/
package models
