// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianProvenance/services/provenance/source"
)

func newSource(typ source.DocumentType, name string) *source.CitationSource {
	return &source.CitationSource{
		DocumentName:   name,
		DocumentType:   typ,
		ContextSnippet: "snippet for " + name,
	}
}

func addSource(t *testing.T, r *Registry, typ source.DocumentType, name string) *source.CitationSource {
	t.Helper()
	src := newSource(typ, name)
	require.NoError(t, r.Add(src))
	return src
}

// =============================================================================
// Add Tests
// =============================================================================

func TestAdd_AssignsIDsAndTimestamp(t *testing.T) {
	r := New()
	src := addSource(t, r, source.DocumentPDF, "Cost Report")

	assert.NotEmpty(t, src.ID)
	assert.Equal(t, "D-1", src.SourceID)
	assert.False(t, src.Timestamp.IsZero())
	assert.Same(t, src, r.Get(src.ID))
}

func TestAdd_InvalidRecordRejected(t *testing.T) {
	r := New()
	src := newSource(source.DocumentPDF, "Cost Report")
	src.ContextSnippet = ""

	err := r.Add(src)
	assert.ErrorIs(t, err, source.ErrInvalidSource)
	assert.True(t, r.IsEmpty())
}

func TestAdd_SeedHintUsedForMinting(t *testing.T) {
	r := New()
	src := newSource(source.DocumentRegulation, "Ontario Building Code")
	require.NoError(t, r.AddWithHint(src, "3.4"))

	assert.Equal(t, "OBC 3.4", src.SourceID)
}

func TestAdd_PresetSourceIDClaimed(t *testing.T) {
	r := New()
	first := newSource(source.DocumentPDF, "Report A")
	first.SourceID = "D-7"
	require.NoError(t, r.Add(first))

	second := newSource(source.DocumentPDF, "Report B")
	second.SourceID = "D-7"
	assert.ErrorIs(t, r.Add(second), ErrDuplicateSourceID)
}

func TestAdd_MalformedPresetSourceIDRejected(t *testing.T) {
	r := New()
	src := newSource(source.DocumentPDF, "Report A")
	src.SourceID = "not a source id!"

	assert.ErrorIs(t, r.Add(src), source.ErrInvalidSource)
}

func TestAdd_DuplicateInternalIDRejected(t *testing.T) {
	r := New()
	first := addSource(t, r, source.DocumentPDF, "Report A")

	second := newSource(source.DocumentPDF, "Report B")
	second.ID = first.ID
	assert.ErrorIs(t, r.Add(second), ErrDuplicateID)
}

// =============================================================================
// Grouping Tests
// =============================================================================

func TestGrouped_FixedPriorityOrder(t *testing.T) {
	r := New()
	addSource(t, r, source.DocumentRegulation, "OBC excerpt")
	addSource(t, r, source.DocumentSitePhoto, "North wall photo")
	addSource(t, r, source.DocumentPDF, "Cost Report")
	addSource(t, r, source.DocumentImage, "Crack detail")
	addSource(t, r, source.DocumentBlueprint, "Foundation Plan")
	addSource(t, r, source.DocumentLog, "Inspection entry")

	groups := r.Grouped()
	buckets := make([]source.Bucket, len(groups))
	for i, g := range groups {
		buckets[i] = g.Bucket
	}
	assert.Equal(t, []source.Bucket{
		source.BucketSitePhotos,
		source.BucketDocuments,
		source.BucketImages,
		source.BucketRegulations,
		source.BucketOther,
	}, buckets)

	// Blueprints and PDFs merge into one documents bucket.
	assert.Equal(t, 2, groups[1].Count)
}

func TestGrouped_SumOfBucketsEqualsTotal(t *testing.T) {
	r := New()
	types := []source.DocumentType{
		source.DocumentPDF, source.DocumentPDF, source.DocumentSitePhoto,
		source.DocumentLog, source.DocumentRegulation, source.DocumentImage,
		source.DocumentBlueprint, source.DocumentType("hologram"),
	}
	for i, typ := range types {
		addSource(t, r, typ, "doc")
		_ = i
	}

	total := 0
	for _, g := range r.Grouped() {
		total += g.Count
	}
	assert.Equal(t, r.Len(), total)
	assert.Equal(t, r.Len(), r.LinkedCount()+r.UnlinkedCount())
}

// TestGrouped_SpecScenario: pdf + linked blueprint + log reports
// linkedCount=1, not empty, and no bucket is "other" except the log's.
func TestGrouped_MixedCollection(t *testing.T) {
	r := New()
	addSource(t, r, source.DocumentPDF, "Cost Report")
	bp := addSource(t, r, source.DocumentBlueprint, "Foundation Plan")
	addSource(t, r, source.DocumentLog, "Inspection entry")

	require.True(t, r.LinkToPillar(bp.ID, source.PillarArea))

	assert.Equal(t, 1, r.LinkedCount())
	assert.False(t, r.IsEmpty())
	assert.Len(t, r.Grouped(), 2) // documents (pdf+blueprint) and other (log)
}

func TestGroupCitations_EmptyInput(t *testing.T) {
	assert.Empty(t, GroupCitations(nil))
}

// =============================================================================
// Pillar Linking Tests
// =============================================================================

func TestLinkToPillar_Idempotent(t *testing.T) {
	r := New()
	src := addSource(t, r, source.DocumentBlueprint, "Foundation Plan")

	require.True(t, r.LinkToPillar(src.ID, source.PillarArea))
	first := *src.LinkedPillar
	require.True(t, r.LinkToPillar(src.ID, source.PillarArea))

	assert.Equal(t, first, *src.LinkedPillar)
	assert.Equal(t, 1, r.LinkedCount())
}

func TestLinkToPillar_OverwritesDifferentPillar(t *testing.T) {
	r := New()
	src := addSource(t, r, source.DocumentBlueprint, "Foundation Plan")

	require.True(t, r.LinkToPillar(src.ID, source.PillarArea))
	require.True(t, r.LinkToPillar(src.ID, source.PillarConflict))

	assert.Equal(t, source.PillarConflict, *src.LinkedPillar)
	assert.Equal(t, 1, r.LinkedCount())
}

func TestLinkToPillar_StaleIDIsNoOp(t *testing.T) {
	r := New()
	addSource(t, r, source.DocumentPDF, "Cost Report")

	assert.False(t, r.LinkToPillar("no-such-id", source.PillarArea))
	assert.Equal(t, 0, r.LinkedCount())
}

func TestLinkToPillar_UnknownPillarIsNoOp(t *testing.T) {
	r := New()
	src := addSource(t, r, source.DocumentPDF, "Cost Report")

	assert.False(t, r.LinkToPillar(src.ID, source.Pillar("vibes")))
	assert.Nil(t, src.LinkedPillar)
}

func TestUnlinkPillar(t *testing.T) {
	r := New()
	src := addSource(t, r, source.DocumentPDF, "Cost Report")
	require.True(t, r.LinkToPillar(src.ID, source.PillarOBC))

	assert.True(t, r.UnlinkPillar(src.ID))
	assert.Nil(t, src.LinkedPillar)
	assert.False(t, r.UnlinkPillar("no-such-id"))
}

// =============================================================================
// Coverage Tests
// =============================================================================

func TestCoverage(t *testing.T) {
	r := New()
	a := addSource(t, r, source.DocumentBlueprint, "Plan")
	b := addSource(t, r, source.DocumentRegulation, "OBC")
	addSource(t, r, source.DocumentLog, "Log")
	require.True(t, r.LinkToPillar(a.ID, source.PillarArea))
	require.True(t, r.LinkToPillar(b.ID, source.PillarOBC))

	report := r.Coverage()
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Linked)
	assert.Equal(t, 1, report.ByPillar[source.PillarArea])
	assert.Equal(t, 1, report.ByPillar[source.PillarOBC])
	assert.Contains(t, report.Uncovered, source.PillarMaterials)
	assert.NotContains(t, report.Uncovered, source.PillarArea)
}

// =============================================================================
// Copy/Export Tests
// =============================================================================

func TestCopyAll_Format(t *testing.T) {
	sink := &BufferSink{}
	r := New().WithClipboard(sink)
	addSource(t, r, source.DocumentPDF, "Report A")
	addSource(t, r, source.DocumentPDF, "Report B")

	text := r.CopyAll()
	assert.Equal(t, "[D-1], [D-2]", text)
	assert.Equal(t, "[D-1], [D-2]", sink.Last())
}

func TestCopyAll_EmptyRegistry(t *testing.T) {
	sink := &BufferSink{}
	r := New().WithClipboard(sink)

	assert.Equal(t, "", r.CopyAll())
	assert.Empty(t, sink.Writes())
}

func TestCopyReference(t *testing.T) {
	sink := &BufferSink{}
	r := New().WithClipboard(sink)
	src := addSource(t, r, source.DocumentSitePhoto, "North wall")

	assert.Equal(t, "["+src.SourceID+"]", r.CopyReference(src.SourceID))
	assert.Equal(t, "["+src.SourceID+"]", sink.Last())
}

func TestCopyReference_StaleSourceID(t *testing.T) {
	sink := &BufferSink{}
	r := New().WithClipboard(sink)

	assert.Equal(t, "", r.CopyReference("D-404"))
	assert.Empty(t, sink.Writes())
}

func TestCopyAll_NoSinkStillFormats(t *testing.T) {
	r := New()
	addSource(t, r, source.DocumentPDF, "Report A")
	assert.Equal(t, "[D-1]", r.CopyAll())
}

// =============================================================================
// Empty-State Tests
// =============================================================================

func TestIsEmpty(t *testing.T) {
	r := New()
	assert.True(t, r.IsEmpty())
	assert.Empty(t, r.Grouped())

	addSource(t, r, source.DocumentPDF, "Report")
	assert.False(t, r.IsEmpty())
}
