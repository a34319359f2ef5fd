// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package source

import "errors"

// Sentinel errors for citation source records.
var (
	// ErrInvalidSource indicates a record failed struct validation.
	ErrInvalidSource = errors.New("invalid citation source")

	// ErrCoordinatesOutOfRange indicates a highlight rectangle that
	// does not fit within the page canvas.
	ErrCoordinatesOutOfRange = errors.New("coordinates out of range")

	// ErrUnknownPillar indicates a pillar outside the closed set.
	ErrUnknownPillar = errors.New("unknown pillar")
)
