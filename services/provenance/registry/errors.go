// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package registry

import "errors"

// Sentinel errors for the citation registry.
var (
	// ErrDuplicateID indicates an internal citation ID collision.
	ErrDuplicateID = errors.New("duplicate citation id")

	// ErrDuplicateSourceID indicates an externally supplied source ID
	// that is already in use within this registry.
	ErrDuplicateSourceID = errors.New("duplicate source id")
)
