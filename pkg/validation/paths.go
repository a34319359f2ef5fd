// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for
// security-critical operations.
//
// This package contains validators for user-provided inputs that reach
// the filesystem or appear in formatted output. Using these validators
// prevents path traversal and keeps identifiers within their expected
// shapes.
package validation

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// ValidateRelativePath validates a document path before it is joined
// to a resolver root.
//
// Valid paths:
//   - non-empty, relative (no leading / or drive letter)
//   - no ".." traversal segments
//   - no NUL bytes
//
// Returns an error if the path is invalid.
//
// Example:
//
//	if err := validation.ValidateRelativePath(p); err != nil {
//	    return nil, err
//	}
//	// Safe to join to the resolver root
func ValidateRelativePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("path contains NUL byte")
	}
	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return fmt.Errorf("path must be relative: %q", path)
	}
	clean := filepath.ToSlash(filepath.Clean(filepath.FromSlash(path)))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("path contains traversal sequences: %q", path)
	}
	return nil
}

// sourceIDPattern matches minted citation source IDs.
// Allows: an uppercase alphanumeric prefix, then an optional space or
// hyphen separated suffix of digits, dots, and hyphens.
// Examples: D-102, IMG-23, OBC 3.4, OBC 3.4-2, LOG-45
var sourceIDPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{0,7}([ -][A-Za-z0-9][A-Za-z0-9.\-]{0,31})?$`)

// ValidateSourceID validates a human-legible citation source ID as it
// arrives from a client, before it is claimed by a registry.
//
// Returns an error if the ID does not look like a minted source ID.
func ValidateSourceID(id string) error {
	if id == "" {
		return fmt.Errorf("source id cannot be empty")
	}
	if !sourceIDPattern.MatchString(id) {
		return fmt.Errorf("invalid source id format: %q", id)
	}
	return nil
}
