// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianProvenance/services/provenance/proof"
	"github.com/AleutianAI/AleutianProvenance/services/provenance/source"
)

func plainRenderer() *Renderer {
	return NewRenderer(WithPlain())
}

func cite(typ source.DocumentType, sourceID, name string) *source.CitationSource {
	return &source.CitationSource{
		ID:             sourceID,
		SourceID:       sourceID,
		DocumentName:   name,
		DocumentType:   typ,
		ContextSnippet: "snippet for " + name,
	}
}

// =============================================================================
// Marker Tests
// =============================================================================

func TestMarker_BracketedSourceID(t *testing.T) {
	r := plainRenderer()
	assert.Equal(t, "[D-102]", r.Marker(cite(source.DocumentPDF, "D-102", "Cost Report")))
}

func TestMarker_NilSource(t *testing.T) {
	assert.Equal(t, "", plainRenderer().Marker(nil))
}

// =============================================================================
// MarkerPreview Tests
// =============================================================================

func TestMarkerPreview_IncludesNamePageAndSnippet(t *testing.T) {
	r := plainRenderer()
	src := cite(source.DocumentPDF, "D-1", "Cost Report")
	page := 4
	src.PageNumber = &page

	preview := r.MarkerPreview(src)
	assert.Contains(t, preview, "Cost Report")
	assert.Contains(t, preview, "p.4")
	assert.Contains(t, preview, "snippet for Cost Report")
}

func TestMarkerPreview_TruncatesSnippet(t *testing.T) {
	r := NewRenderer(WithPlain(), WithSnippetPreviewLen(10))
	src := cite(source.DocumentLog, "LOG-1", "Daily log")
	src.ContextSnippet = "a very long snippet that keeps going and going"

	preview := r.MarkerPreview(src)
	assert.Contains(t, preview, "…")
	assert.NotContains(t, preview, "keeps going")
}

func TestMarkerPreview_NoPageForPagelessSource(t *testing.T) {
	preview := plainRenderer().MarkerPreview(cite(source.DocumentLog, "LOG-1", "Daily log"))
	assert.NotContains(t, preview, "p.")
}

// =============================================================================
// ReferenceList Tests
// =============================================================================

func TestReferenceList_EmptyRendersNothing(t *testing.T) {
	assert.Equal(t, "", plainRenderer().ReferenceList(nil, nil))
}

func TestReferenceList_GroupsInPriorityOrder(t *testing.T) {
	r := plainRenderer()
	out := r.ReferenceList([]*source.CitationSource{
		cite(source.DocumentRegulation, "OBC 3.4", "Ontario Building Code"),
		cite(source.DocumentSitePhoto, "PH-1", "North wall"),
		cite(source.DocumentPDF, "D-1", "Cost Report"),
	}, nil)

	photosAt := strings.Index(out, "Site Photos")
	docsAt := strings.Index(out, "Documents")
	regsAt := strings.Index(out, "Regulations")
	require.True(t, photosAt >= 0 && docsAt >= 0 && regsAt >= 0, "all groups present:\n%s", out)
	assert.Less(t, photosAt, docsAt)
	assert.Less(t, docsAt, regsAt)
	assert.Contains(t, out, "3 references")
}

func TestReferenceList_CountBadges(t *testing.T) {
	r := plainRenderer()
	out := r.ReferenceList([]*source.CitationSource{
		cite(source.DocumentPDF, "D-1", "Report A"),
		cite(source.DocumentBlueprint, "BP-1", "Plan"),
	}, nil)

	assert.Contains(t, out, "Documents (2)")
	assert.Contains(t, out, "2 references")
}

func TestReferenceList_CollapsedGroupHidesRows(t *testing.T) {
	r := plainRenderer()
	citations := []*source.CitationSource{cite(source.DocumentPDF, "D-1", "Report A")}

	expanded := r.ReferenceList(citations, nil)
	assert.Contains(t, expanded, "[D-1]")

	collapsed := r.ReferenceList(citations, map[source.Bucket]bool{source.BucketDocuments: true})
	assert.NotContains(t, collapsed, "[D-1]")
	assert.Contains(t, collapsed, "Documents")
}

func TestReferenceList_DuplicatesPreserved(t *testing.T) {
	r := plainRenderer()
	c := cite(source.DocumentPDF, "D-1", "Report A")
	out := r.ReferenceList([]*source.CitationSource{c, c}, nil)
	assert.Equal(t, 2, strings.Count(out, "[D-1]"))
}

// =============================================================================
// ProofPanel Tests
// =============================================================================

func TestProofPanel_Idle(t *testing.T) {
	assert.Equal(t, "", plainRenderer().ProofPanel(proof.State{Load: proof.LoadIdle}))
}

func TestProofPanel_LoadingNamesDocument(t *testing.T) {
	st := proof.State{
		Load:   proof.LoadLoading,
		Source: cite(source.DocumentPDF, "D-1", "Cost Report"),
	}
	assert.Contains(t, plainRenderer().ProofPanel(st), "Loading Cost Report")
}

func TestProofPanel_FailureNamesDocument(t *testing.T) {
	st := proof.State{
		Load:   proof.LoadFailed,
		Source: cite(source.DocumentPDF, "D-1", "Cost Report"),
		Err:    errors.New("storage offline"),
	}
	out := plainRenderer().ProofPanel(st)
	assert.Contains(t, out, "Cost Report")
	assert.Contains(t, out, "storage offline")
}

func TestProofPanel_TextFallbackShowsSnippet(t *testing.T) {
	src := cite(source.DocumentLog, "LOG-1", "Daily log")
	st := proof.State{Load: proof.LoadReady, Strategy: source.ViewerText, Source: src, Page: 1, PageCount: 1, Zoom: 100}

	out := plainRenderer().ProofPanel(st)
	assert.Contains(t, out, "snippet for Daily log")
}

func TestProofPanel_PagedShowsPageAndZoom(t *testing.T) {
	src := cite(source.DocumentPDF, "D-1", "Cost Report")
	page := 2
	src.PageNumber = &page
	src.Coordinates = &source.Coordinates{X: 10, Y: 10, Width: 10, Height: 10}
	st := proof.State{Load: proof.LoadReady, Strategy: source.ViewerPaged, Source: src, Page: 2, PageCount: 5, Zoom: 150}

	out := plainRenderer().ProofPanel(st)
	assert.Contains(t, out, "Page 2/5")
	assert.Contains(t, out, "150%")
	assert.Contains(t, out, "highlight on this page")
}

func TestProofPanel_PagedHighlightOnlyOnItsPage(t *testing.T) {
	src := cite(source.DocumentPDF, "D-1", "Cost Report")
	page := 2
	src.PageNumber = &page
	src.Coordinates = &source.Coordinates{X: 10, Y: 10, Width: 10, Height: 10}
	st := proof.State{Load: proof.LoadReady, Strategy: source.ViewerPaged, Source: src, Page: 3, PageCount: 5, Zoom: 100}

	assert.NotContains(t, plainRenderer().ProofPanel(st), "highlight on this page")
}
