// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package provenance

import "errors"

// Sentinel errors for the provenance service.
var (
	// ErrViewNotFound indicates an unknown or discarded content view.
	ErrViewNotFound = errors.New("content view not found")

	// ErrCitationNotFound indicates an unknown citation ID within a
	// view.
	ErrCitationNotFound = errors.New("citation not found")

	// ErrInvalidPillar indicates a pillar outside the closed set.
	ErrInvalidPillar = errors.New("invalid pillar")
)
