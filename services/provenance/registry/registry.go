// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package registry owns the citation collection for one unit of
// generated content (e.g. one analysis run).
//
// The registry indexes citation sources, groups them into display
// buckets, tracks pillar linkage for coverage auditing, and formats
// references for copy/export. It never originates content-derived
// fields; claim generation supplies the records, the registry only
// mints source IDs and maintains linkage.
//
// Failure semantics: operations are local pure-data transforms. The
// only failure mode besides invalid input on Add is "citation not
// found", which is a silent no-op so the registry stays usable when a
// caller holds a slightly stale snapshot.
package registry

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/AleutianProvenance/pkg/validation"
	"github.com/AleutianAI/AleutianProvenance/services/provenance/source"
)

// ClipboardSink receives formatted reference strings on copy/export.
//
// The registry never talks to a real clipboard; the surrounding
// application supplies whatever sink it wants (OS clipboard bridge,
// HTTP response, test buffer).
type ClipboardSink interface {
	// Write accepts a formatted reference string.
	Write(text string) error
}

// Group is one display bucket of citations.
type Group struct {
	// Bucket identifies the group.
	Bucket source.Bucket `json:"bucket"`

	// Label is the display label for the group.
	Label string `json:"label"`

	// Citations are the group members in collection order. Duplicates
	// are preserved: the same source cited from several claims appears
	// once per citation record.
	Citations []*source.CitationSource `json:"citations"`

	// Count is len(Citations), exposed for count badges.
	Count int `json:"count"`
}

// GroupCitations buckets an ordered citation sequence by document type.
//
// Description:
//
//	Pure function shared by the registry and the reference list
//	renderer. Buckets appear in fixed priority order (site photos,
//	documents, images, regulations, other); empty buckets are omitted.
//	Group membership is a pure function of DocumentType via the kind
//	table, so the sum of group sizes always equals len(citations).
//
// Inputs:
//
//	citations - Ordered citation records (duplicates allowed)
//
// Outputs:
//
//	[]Group - Non-empty groups in priority order
func GroupCitations(citations []*source.CitationSource) []Group {
	byBucket := make(map[source.Bucket][]*source.CitationSource)
	for _, c := range citations {
		kind, _ := source.KindOf(c.DocumentType)
		byBucket[kind.Bucket] = append(byBucket[kind.Bucket], c)
	}

	groups := make([]Group, 0, len(byBucket))
	for _, bucket := range source.BucketOrder {
		members := byBucket[bucket]
		if len(members) == 0 {
			continue
		}
		groups = append(groups, Group{
			Bucket:    bucket,
			Label:     source.BucketLabels[bucket],
			Citations: members,
			Count:     len(members),
		})
	}
	return groups
}

// CoverageReport summarizes pillar linkage for claim auditing.
type CoverageReport struct {
	// Total is the number of citations in the registry.
	Total int `json:"total"`

	// Linked is the number of citations linked to any pillar.
	Linked int `json:"linked"`

	// ByPillar counts citations per pillar. Pillars with no citations
	// are omitted.
	ByPillar map[source.Pillar]int `json:"by_pillar"`

	// Uncovered lists pillars with zero supporting citations, in
	// display order.
	Uncovered []source.Pillar `json:"uncovered"`
}

// Registry owns the citation collection for one content view.
//
// Thread Safety:
//
//	Safe for concurrent reads from any number of renderers. Writes
//	(Add, LinkToPillar, UnlinkPillar) come from the single owning
//	view; a RWMutex keeps readers consistent with them.
type Registry struct {
	mu        sync.RWMutex
	minter    *source.Minter
	ordered   []*source.CitationSource
	byID      map[string]*source.CitationSource
	clipboard ClipboardSink
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		minter: source.NewMinter(),
		byID:   make(map[string]*source.CitationSource),
	}
}

// WithClipboard sets the copy/export sink for method chaining.
func (r *Registry) WithClipboard(sink ClipboardSink) *Registry {
	r.clipboard = sink
	return r
}

// Add appends a citation record to the collection.
//
// Equivalent to AddWithHint(src, "").
func (r *Registry) Add(src *source.CitationSource) error {
	return r.AddWithHint(src, "")
}

// AddWithHint appends a citation record, minting its source ID from an
// optional seed hint.
//
// Description:
//
//	Validates the record, assigns an internal ID when empty, and mints
//	the source ID when empty. A pre-set source ID is claimed instead;
//	claiming a taken ID fails, because source IDs must stay unique
//	within one registry instance. Records are never removed; the whole
//	collection is discarded with the surrounding view.
//
// Inputs:
//
//	src - The citation record (mutated in place: ID, SourceID, Timestamp)
//	seedHint - Optional suffix hint, e.g. a regulation section number
//
// Outputs:
//
//	error - ErrInvalidSource/ErrDuplicateID variants, nil on success
func (r *Registry) AddWithHint(src *source.CitationSource, seedHint string) error {
	if src == nil {
		return source.ErrInvalidSource
	}
	if err := src.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if src.ID == "" {
		src.ID = uuid.New().String()
	} else if _, exists := r.byID[src.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateID, src.ID)
	}

	if src.SourceID == "" {
		src.SourceID = r.minter.Mint(src.DocumentType, seedHint)
	} else {
		if err := validation.ValidateSourceID(src.SourceID); err != nil {
			return fmt.Errorf("%w: %v", source.ErrInvalidSource, err)
		}
		if !r.minter.Claim(src.SourceID) {
			return fmt.Errorf("%w: %q", ErrDuplicateSourceID, src.SourceID)
		}
	}

	if src.Timestamp.IsZero() {
		src.Timestamp = time.Now()
	}

	r.ordered = append(r.ordered, src)
	r.byID[src.ID] = src
	return nil
}

// LinkToPillar links a citation to an audited claim category.
//
// Description:
//
//	Sets LinkedPillar, the only permitted post-creation mutation.
//	Idempotent: re-linking to the same pillar is a no-op, re-linking
//	to a different pillar overwrites. A stale or unknown citation ID
//	is a silent no-op (the calling UI may hold an outdated snapshot),
//	as is a pillar outside the closed set.
//
// Inputs:
//
//	id - Internal citation ID
//	pillar - Target pillar
//
// Outputs:
//
//	bool - true if the citation is now linked to pillar
func (r *Registry) LinkToPillar(id string, pillar source.Pillar) bool {
	if !source.ValidPillar(pillar) {
		slog.Warn("Ignoring link to unknown pillar", "pillar", string(pillar))
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	src, ok := r.byID[id]
	if !ok {
		return false
	}
	if src.LinkedPillar != nil && *src.LinkedPillar == pillar {
		return true
	}
	p := pillar
	src.LinkedPillar = &p
	return true
}

// UnlinkPillar clears a citation's pillar link.
//
// Stale IDs and already-unlinked citations are silent no-ops.
func (r *Registry) UnlinkPillar(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	src, ok := r.byID[id]
	if !ok {
		return false
	}
	src.LinkedPillar = nil
	return true
}

// Get returns the citation with the given internal ID, or nil.
func (r *Registry) Get(id string) *source.CitationSource {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id]
}

// BySourceID returns the citation with the given source ID, or nil.
func (r *Registry) BySourceID(sourceID string) *source.CitationSource {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.ordered {
		if c.SourceID == sourceID {
			return c
		}
	}
	return nil
}

// List returns the citations in collection order.
//
// The slice is a copy; the records are shared and immutable by
// contract (pillar linkage excepted).
func (r *Registry) List() []*source.CitationSource {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*source.CitationSource, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Grouped returns the collection bucketed for display.
func (r *Registry) Grouped() []Group {
	return GroupCitations(r.List())
}

// Len returns the number of citations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ordered)
}

// IsEmpty reports whether the registry holds no citations.
//
// Exposed explicitly so callers can distinguish "no citations yet"
// from "still extracting" instead of inferring emptiness from list
// length.
func (r *Registry) IsEmpty() bool {
	return r.Len() == 0
}

// LinkedCount returns the number of pillar-linked citations.
func (r *Registry) LinkedCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, c := range r.ordered {
		if c.Linked() {
			n++
		}
	}
	return n
}

// UnlinkedCount returns the number of citations without a pillar link.
func (r *Registry) UnlinkedCount() int {
	return r.Len() - r.LinkedCount()
}

// Coverage summarizes pillar linkage for claim-coverage auditing.
func (r *Registry) Coverage() CoverageReport {
	r.mu.RLock()
	defer r.mu.RUnlock()

	report := CoverageReport{
		Total:    len(r.ordered),
		ByPillar: make(map[source.Pillar]int),
	}
	for _, c := range r.ordered {
		if c.LinkedPillar == nil {
			continue
		}
		report.Linked++
		report.ByPillar[*c.LinkedPillar]++
	}
	for _, p := range source.Pillars {
		if report.ByPillar[p] == 0 {
			report.Uncovered = append(report.Uncovered, p)
		}
	}
	return report
}

// CopyReference formats one citation as "[sourceID]" and hands it to
// the clipboard sink.
//
// A stale source ID returns "" without touching the sink. Pure string
// formatting otherwise; no registry state changes.
func (r *Registry) CopyReference(sourceID string) string {
	if r.BySourceID(sourceID) == nil {
		return ""
	}
	text := "[" + sourceID + "]"
	r.toClipboard(text)
	return text
}

// CopyAll formats the full ordered reference list as comma-joined
// bracketed source IDs, e.g. "[D-1], [D-2]", and hands it to the
// clipboard sink.
func (r *Registry) CopyAll() string {
	r.mu.RLock()
	parts := make([]string, len(r.ordered))
	for i, c := range r.ordered {
		parts[i] = "[" + c.SourceID + "]"
	}
	r.mu.RUnlock()

	text := strings.Join(parts, ", ")
	if text != "" {
		r.toClipboard(text)
	}
	return text
}

func (r *Registry) toClipboard(text string) {
	if r.clipboard == nil {
		return
	}
	if err := r.clipboard.Write(text); err != nil {
		slog.Warn("Clipboard sink rejected reference text", "error", err)
	}
}

// BufferSink is a ClipboardSink that collects writes in memory.
//
// Useful for tests and for callers that deliver copied text over a
// transport instead of a real clipboard.
type BufferSink struct {
	mu     sync.Mutex
	writes []string
}

// Write appends the text to the buffer.
func (b *BufferSink) Write(text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writes = append(b.writes, text)
	return nil
}

// Writes returns a copy of all collected writes.
func (b *BufferSink) Writes() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.writes))
	copy(out, b.writes)
	return out
}

// Last returns the most recent write, or "".
func (b *BufferSink) Last() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.writes) == 0 {
		return ""
	}
	return b.writes[len(b.writes)-1]
}

var _ ClipboardSink = (*BufferSink)(nil)
