// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command proofview is an interactive terminal browser for a citation
// collection and its evidence.
//
// It seeds a registry from a JSON citations file, renders the grouped
// reference list, and drives a proof session against evidence files
// under the given root:
//
//	go run ./cmd/proofview -citations citations.json -root ./evidence
//
// Keys:
//
//	j/k     move between citations
//	enter   open proof for the selected citation
//	esc     close the proof panel
//	n/p     next/previous page
//	+/-     zoom in/out
//	c       copy the selected reference
//	C       copy all references
//	q       quit
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/AleutianAI/AleutianProvenance/pkg/logging"
	"github.com/AleutianAI/AleutianProvenance/services/provenance/proof"
	"github.com/AleutianAI/AleutianProvenance/services/provenance/registry"
	"github.com/AleutianAI/AleutianProvenance/services/provenance/render"
	"github.com/AleutianAI/AleutianProvenance/services/provenance/resolver"
	"github.com/AleutianAI/AleutianProvenance/services/provenance/source"
)

func main() {
	citationsPath := flag.String("citations", "", "JSON file with citation records")
	root := flag.String("root", ".", "Root directory for evidence files")
	flag.Parse()

	logger := logging.New(logging.Config{Level: logging.LevelWarn, Service: "proofview"})
	defer logger.Close()

	reg := registry.New()
	if err := seedRegistry(reg, *citationsPath); err != nil {
		fmt.Fprintf(os.Stderr, "proofview: %v\n", err)
		os.Exit(1)
	}
	if reg.IsEmpty() {
		fmt.Fprintln(os.Stderr, "proofview: no citations to browse (use -citations)")
		os.Exit(1)
	}

	res, err := resolver.NewLocalResolver(*root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "proofview: %v\n", err)
		os.Exit(1)
	}

	session := proof.NewSession(proof.SessionConfig{})
	viewer := proof.NewViewer(session, res)
	defer viewer.Detach()

	model := newBrowserModel(reg, session, viewer)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "proofview: %v\n", err)
		os.Exit(1)
	}
}

// seedRegistry loads citation records from a JSON array file.
func seedRegistry(reg *registry.Registry, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read citations: %w", err)
	}
	var records []*source.CitationSource
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parse citations: %w", err)
	}
	for _, record := range records {
		if err := reg.Add(record); err != nil {
			return fmt.Errorf("add citation %q: %w", record.DocumentName, err)
		}
	}
	return nil
}

// =============================================================================
// Messages
// =============================================================================

// tickMsg drives periodic snapshot refreshes so async evidence loads
// show up without user input.
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// =============================================================================
// Model
// =============================================================================

// browserModel is the bubbletea model for the citation browser.
type browserModel struct {
	reg      *registry.Registry
	session  *proof.Session
	viewer   *proof.Viewer
	renderer *render.Renderer

	citations []*source.CitationSource
	selected  int
	copied    string

	viewport viewport.Model
	width    int
	height   int
	ready    bool
	quitting bool
}

func newBrowserModel(reg *registry.Registry, session *proof.Session, viewer *proof.Viewer) browserModel {
	return browserModel{
		reg:       reg,
		session:   session,
		viewer:    viewer,
		renderer:  render.NewRenderer(render.WithStyled()),
		citations: reg.List(),
	}
}

// Init implements tea.Model.
func (m browserModel) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model.
func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		viewportHeight := m.height - 4
		if !m.ready {
			m.viewport = viewport.New(m.width, viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = viewportHeight
		}
		m.refreshContent()

	case tickMsg:
		m.refreshContent()
		return m, tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "j", "down":
			if m.selected < len(m.citations)-1 {
				m.selected++
			}

		case "k", "up":
			if m.selected > 0 {
				m.selected--
			}

		case "enter":
			m.session.Open(m.citations[m.selected])

		case "esc":
			m.session.Close()

		case "n":
			m.viewer.NextPage()

		case "p":
			m.viewer.PrevPage()

		case "+", "=":
			m.viewer.ZoomIn()

		case "-":
			m.viewer.ZoomOut()

		case "c":
			m.copied = m.reg.CopyReference(m.citations[m.selected].SourceID)

		case "C":
			m.copied = m.reg.CopyAll()
		}
		m.refreshContent()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m browserModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading...\n"
	}

	var b strings.Builder
	b.WriteString(render.Styles.Title.Render("Provenance Browser"))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

// refreshContent rebuilds the viewport from the registry and viewer
// snapshot.
func (m *browserModel) refreshContent() {
	if !m.ready {
		return
	}
	var b strings.Builder

	for i, c := range m.citations {
		cursor := "  "
		if i == m.selected {
			cursor = render.Styles.Highlight.Render("> ")
		}
		b.WriteString(cursor)
		b.WriteString(m.renderer.Marker(c))
		b.WriteString(" ")
		b.WriteString(c.DocumentName)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if panel := m.renderer.ProofPanel(m.viewer.Snapshot()); panel != "" {
		b.WriteString(panel)
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderer.ReferenceList(m.citations, nil))
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
}

func (m browserModel) footer() string {
	help := "j/k select · enter open · esc close · n/p page · +/- zoom · c/C copy · q quit"
	if m.copied != "" {
		help = "copied: " + m.copied + "  ·  " + help
	}
	return render.Styles.Muted.Render(help)
}
