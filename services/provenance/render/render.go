// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/AleutianAI/AleutianProvenance/services/provenance/proof"
	"github.com/AleutianAI/AleutianProvenance/services/provenance/registry"
	"github.com/AleutianAI/AleutianProvenance/services/provenance/source"
)

// DefaultSnippetPreviewLen bounds the hover preview snippet length.
const DefaultSnippetPreviewLen = 160

// Renderer draws citation components as strings.
//
// In styled mode output carries ANSI styling; in plain mode (the
// default when stdout is not a terminal) the same structure is emitted
// unstyled, which also keeps test assertions deterministic.
type Renderer struct {
	styled     bool
	snippetLen int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPlain forces unstyled output.
func WithPlain() Option {
	return func(r *Renderer) { r.styled = false }
}

// WithStyled forces styled output regardless of TTY detection.
func WithStyled() Option {
	return func(r *Renderer) { r.styled = true }
}

// WithSnippetPreviewLen bounds preview snippet truncation.
func WithSnippetPreviewLen(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.snippetLen = n
		}
	}
}

// NewRenderer creates a renderer, styling output only when stdout is a
// terminal.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		styled:     isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
		snippetLen: DefaultSnippetPreviewLen,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Marker renders one citation as its inline badge, e.g. "[D-102]".
//
// Linked citations render in the linked style so reviewers can see
// audited coverage at a glance. Activation is the caller's concern:
// wire it to the proof session's Open.
func (r *Renderer) Marker(src *source.CitationSource) string {
	if src == nil {
		return ""
	}
	text := "[" + src.SourceID + "]"
	if !r.styled {
		return text
	}
	if src.Linked() {
		return Styles.BadgeLinked.Render(text)
	}
	return Styles.Badge.Render(text)
}

// MarkerPreview renders the hover/focus preview for a citation:
// document name, page if any, and the bounded context snippet.
func (r *Renderer) MarkerPreview(src *source.CitationSource) string {
	if src == nil {
		return ""
	}
	kind, _ := source.KindOf(src.DocumentType)

	header := kind.Icon + " " + src.DocumentName
	if src.PageNumber != nil {
		header += fmt.Sprintf(" · p.%d", *src.PageNumber)
	}
	snippet := "“" + truncate(src.ContextSnippet, r.snippetLen) + "”"

	if !r.styled {
		return header + "\n" + snippet
	}
	return Styles.Bold.Render(header) + "\n" + Styles.Muted.Render(snippet)
}

// ReferenceList renders the grouped evidence list behind a piece of
// generated content.
//
// Description:
//
//	Groups the citations by document type into the fixed-priority
//	buckets and renders a header with a count badge per group, rows
//	for expanded groups, and a total line. Collapsed buckets render
//	only their header. An empty collection renders "" with no
//	empty-state chrome: "no references" is a valid mid-generation
//	state, and its presentation belongs to the caller.
//
// Inputs:
//
//	citations - Ordered citations (duplicates preserved)
//	collapsed - Buckets to render header-only; nil expands all
//
// Outputs:
//
//	string - The rendered list, "" for an empty collection
func (r *Renderer) ReferenceList(citations []*source.CitationSource, collapsed map[source.Bucket]bool) string {
	if len(citations) == 0 {
		return ""
	}

	var b strings.Builder
	total := 0
	for _, group := range registry.GroupCitations(citations) {
		total += group.Count
		marker := "▾"
		if collapsed[group.Bucket] {
			marker = "▸"
		}
		header := fmt.Sprintf("%s %s %s", marker, group.Label, r.countBadge(group.Count))
		b.WriteString(header)
		b.WriteString("\n")
		if collapsed[group.Bucket] {
			continue
		}
		for _, c := range group.Citations {
			kind, _ := source.KindOf(c.DocumentType)
			row := fmt.Sprintf("  %s %s %s — %s",
				kind.Icon, r.Marker(c), c.DocumentName, truncate(c.ContextSnippet, r.snippetLen))
			b.WriteString(row)
			b.WriteString("\n")
		}
	}

	footer := fmt.Sprintf("%d references", total)
	if total == 1 {
		footer = "1 reference"
	}
	if r.styled {
		footer = Styles.Muted.Render(footer)
	}
	b.WriteString(footer)
	return b.String()
}

// ProofPanel renders the proof viewer's current state.
//
// Load failures keep the citation's document name visible so reviewers
// can tell which evidence failed, not just that something did.
func (r *Renderer) ProofPanel(st proof.State) string {
	switch st.Load {
	case proof.LoadIdle:
		return ""

	case proof.LoadLoading:
		text := fmt.Sprintf("Loading %s…", st.Source.DocumentName)
		if !r.styled {
			return text
		}
		return Styles.Muted.Render(text)

	case proof.LoadFailed:
		body := fmt.Sprintf("✗ Could not load evidence\n%s\n%v", st.Source.DocumentName, st.Err)
		if !r.styled {
			return body
		}
		return Styles.ErrorPanel.Render(body)

	default:
		return r.readyPanel(st)
	}
}

func (r *Renderer) readyPanel(st proof.State) string {
	src := st.Source
	kind, _ := source.KindOf(src.DocumentType)

	var b strings.Builder
	title := kind.Icon + " " + src.DocumentName
	if r.styled {
		title = Styles.Title.Render(title)
	}
	b.WriteString(title)
	b.WriteString("\n")

	switch st.Strategy {
	case source.ViewerText:
		// Snippet-only fallback: the quoted evidence inside a
		// highlighted block.
		well := "“" + src.ContextSnippet + "”"
		if r.styled {
			well = Styles.EvidenceWell.Render(well)
		}
		b.WriteString(well)

	case source.ViewerImage:
		status := fmt.Sprintf("%s · %d%%", st.ContentType, st.Zoom)
		if src.Coordinates != nil {
			status += " · highlight"
		}
		if r.styled {
			status = Styles.Muted.Render(status)
		}
		b.WriteString(status)

	case source.ViewerPaged:
		status := fmt.Sprintf("Page %d/%d · %d%%", st.Page, st.PageCount, st.Zoom)
		if src.Coordinates != nil && src.Page() == st.Page {
			status += " · highlight on this page"
		}
		if r.styled {
			status = Styles.Muted.Render(status)
		}
		b.WriteString(status)
	}

	if r.styled {
		return Styles.Panel.Render(b.String())
	}
	return b.String()
}

func (r *Renderer) countBadge(n int) string {
	text := fmt.Sprintf("(%d)", n)
	if !r.styled {
		return text
	}
	return Styles.CountBadge.Render(fmt.Sprintf("%d", n))
}

// truncate bounds s to n runes, appending an ellipsis when cut.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
