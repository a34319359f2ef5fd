// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package render draws citation markers, reference lists, and the
// proof panel for terminal surfaces.
//
// Everything here is a pure string producer: renderers hold no proof
// state and trigger no transitions. Callers wire activation (click,
// Enter) to the proof session's Open themselves, which is what keeps
// "at most one proof open" true no matter how many markers exist in
// the tree.
package render

import "github.com/charmbracelet/lipgloss"

// Provenance color palette - drafting blues and survey amber
var (
	ColorInkBright  = lipgloss.Color("#5EB1FF") // Bright drafting blue - badges, highlights
	ColorInkPrimary = lipgloss.Color("#3D8FE0") // Primary blue - brand color
	ColorInkDeep    = lipgloss.Color("#2A6CB0") // Deep blue - borders
	ColorPaper      = lipgloss.Color("#1B2B3A") // Blueprint paper - backgrounds
	ColorGraphite   = lipgloss.Color("#5C6B7A") // Graphite - muted text

	ColorAmber   = lipgloss.Color("#F4B942") // Survey amber - evidence highlight
	ColorSuccess = lipgloss.Color("#4FD1A5") // Linked/ok
	ColorWarning = lipgloss.Color("#F4D03F") // Warnings
	ColorError   = lipgloss.Color("#E74C3C") // Load failures
)

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	// Text styles
	Title     lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style

	// Citation marker styles
	Badge       lipgloss.Style
	BadgeLinked lipgloss.Style
	CountBadge  lipgloss.Style

	// Panel styles
	Panel        lipgloss.Style
	EvidenceWell lipgloss.Style
	ErrorPanel   lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorInkBright),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorGraphite),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorAmber).Bold(true),

	Badge:       lipgloss.NewStyle().Foreground(ColorInkBright).Bold(true),
	BadgeLinked: lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true),
	CountBadge:  lipgloss.NewStyle().Foreground(ColorPaper).Background(ColorInkPrimary).Padding(0, 1),

	Panel: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorInkDeep).
		Padding(0, 1),
	EvidenceWell: lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(ColorAmber).
		Padding(0, 1),
	ErrorPanel: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorError).
		Padding(0, 1),
}
