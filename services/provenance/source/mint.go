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

import (
	"fmt"
	"log/slog"
	"strings"
)

// Minter produces collision-free human-legible source IDs.
//
// Each document type maps to a prefix from the kind table. The suffix
// is either the caller's seed hint (preferred verbatim when free, e.g.
// a regulation's own section number) or an incrementing counter scoped
// to that prefix. Colliding seeds get a "-2", "-3", ... disambiguator:
//
//	Mint(DocumentRegulation, "3.4")  -> "OBC 3.4"
//	Mint(DocumentRegulation, "3.4")  -> "OBC 3.4-2"
//	Mint(DocumentRegulation, "5.1")  -> "OBC 5.1"
//	Mint(DocumentPDF, "")            -> "D-1"
//
// Thread Safety:
//
//	A Minter is owned by a single registry and mutated under that
//	registry's lock. It is not safe for unsynchronized concurrent use.
type Minter struct {
	used     map[string]struct{}
	counters map[string]int
}

// NewMinter creates an empty minter.
func NewMinter() *Minter {
	return &Minter{
		used:     make(map[string]struct{}),
		counters: make(map[string]int),
	}
}

// Mint returns a new source ID for the given document type.
//
// Description:
//
//	Deterministically produces a collision-free source ID given the
//	set of IDs already minted or claimed. Never fails: unknown
//	document types degrade to the generic "DOC" prefix with a warning
//	log, and colliding seed hints fall back to a counter suffix.
//
// Inputs:
//
//	t - The document type (selects the prefix)
//	seedHint - Optional suffix derived from the document's own
//	           numbering; "" to use the per-prefix counter
//
// Outputs:
//
//	string - A source ID unique within this minter
func (m *Minter) Mint(t DocumentType, seedHint string) string {
	kind, known := KindOf(t)
	if !known {
		slog.Warn("Unknown document type, minting generic source ID",
			"document_type", string(t))
	}

	if hint := strings.TrimSpace(seedHint); hint != "" {
		id := kind.Prefix + kind.Separator + hint
		if m.claim(id) {
			return id
		}
		// Seed is taken: disambiguate with an ordinal.
		for n := 2; ; n++ {
			candidate := fmt.Sprintf("%s-%d", id, n)
			if m.claim(candidate) {
				return candidate
			}
		}
	}

	for {
		m.counters[kind.Prefix]++
		id := fmt.Sprintf("%s%s%d", kind.Prefix, kind.Separator, m.counters[kind.Prefix])
		if m.claim(id) {
			return id
		}
	}
}

// Claim reserves an externally supplied source ID.
//
// Returns false if the ID is already in use; the caller decides how to
// surface that. Claimed IDs participate in collision avoidance exactly
// like minted ones.
func (m *Minter) Claim(id string) bool {
	return m.claim(id)
}

// Used reports whether an ID has been minted or claimed.
func (m *Minter) Used(id string) bool {
	_, taken := m.used[id]
	return taken
}

func (m *Minter) claim(id string) bool {
	if _, taken := m.used[id]; taken {
		return false
	}
	m.used[id] = struct{}{}
	return true
}
