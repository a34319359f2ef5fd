// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package proof

import (
	"context"
	"strings"
	"sync"

	"github.com/AleutianAI/AleutianProvenance/services/provenance/resolver"
	"github.com/AleutianAI/AleutianProvenance/services/provenance/source"
)

// LoadState is the viewer's document load state.
type LoadState string

const (
	// LoadIdle means no proof target is displayed.
	LoadIdle LoadState = "idle"

	// LoadLoading means the document fetch is in flight.
	LoadLoading LoadState = "loading"

	// LoadReady means the document (or text fallback) is displayable.
	LoadReady LoadState = "ready"

	// LoadFailed means the fetch failed. The citation's document name
	// stays visible so reviewers can tell which evidence failed.
	LoadFailed LoadState = "failed"
)

// ZoomSteps are the allowed zoom percentages, in order.
var ZoomSteps = []int{50, 75, 100, 125, 150, 200}

// defaultZoomIdx indexes 100% in ZoomSteps.
const defaultZoomIdx = 2

// Rect is a pixel rectangle in the rendered box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ScrollTarget is the point the viewport should center on once the
// document is ready, in percentage units of the page.
type ScrollTarget struct {
	// X and Y are the center of the highlighted region.
	X float64 `json:"x"`
	Y float64 `json:"y"`

	// Fallback is true when the source has no coordinates and the
	// whole fallback block should be centered instead.
	Fallback bool `json:"fallback"`
}

// State is a render-ready snapshot of the viewer.
type State struct {
	// Source is the displayed citation, nil when idle. Retained
	// through LoadFailed so the failed document stays identifiable.
	Source *source.CitationSource `json:"source,omitempty"`

	// Load is the document load state.
	Load LoadState `json:"load"`

	// Strategy is the effective viewer strategy for the source.
	Strategy source.ViewerStrategy `json:"strategy"`

	// Page and PageCount describe paged navigation. Page is clamped
	// to [1, PageCount].
	Page      int `json:"page"`
	PageCount int `json:"page_count"`

	// Zoom is the current zoom percentage.
	Zoom int `json:"zoom"`

	// ContentType is the resolved document's MIME type, "" until
	// ready.
	ContentType string `json:"content_type,omitempty"`

	// Err is the load failure, nil otherwise.
	Err error `json:"-"`
}

// OverlayRect computes the highlight rectangle for a source on the
// rendered box.
//
// Description:
//
//	Pure function of (coordinates, displayed page, zoom, rendered box
//	dimensions); recomputed on every page or zoom change, since both
//	change the box the percentage coordinates are relative to. No
//	pixel state survives a zoom or page change.
//
// Inputs:
//
//	src - The displayed citation (nil-safe)
//	page - The currently displayed page
//	zoom - Zoom percentage
//	boxW, boxH - Rendered page box at 100% zoom, in pixels
//
// Outputs:
//
//	*Rect - Highlight rectangle, nil when the source has no
//	        coordinates or its page is not the displayed one
func OverlayRect(src *source.CitationSource, page int, zoom int, boxW, boxH float64) *Rect {
	if src == nil || src.Coordinates == nil {
		return nil
	}
	if src.Page() != page {
		return nil
	}
	scale := float64(zoom) / 100
	c := src.Coordinates
	return &Rect{
		X:      c.X / 100 * boxW * scale,
		Y:      c.Y / 100 * boxH * scale,
		Width:  c.Width / 100 * boxW * scale,
		Height: c.Height / 100 * boxH * scale,
	}
}

// Viewer renders the currently open proof target.
//
// The viewer subscribes to a session and loads the opened source's
// document through a resolver. Loads are asynchronous and guarded by
// the open's generation token: a result arriving after the slot has
// moved on is discarded, never rendered.
//
// Thread Safety:
//
//	Safe for concurrent use. Scroll callbacks run on whichever
//	goroutine completes the load or requests the scroll.
type Viewer struct {
	mu       sync.Mutex
	session  *Session
	resolver resolver.FileResolver
	subToken int

	src      *source.CitationSource
	gen      uint64
	load     LoadState
	doc      *resolver.Document
	err      error
	page     int
	zoomIdx  int
	cancel   context.CancelFunc
	wantRoll bool
	onScroll func(ScrollTarget)
}

// NewViewer creates a viewer bound to a session.
//
// The viewer starts following the session immediately; call Detach
// when the surrounding view unmounts.
func NewViewer(session *Session, res resolver.FileResolver) *Viewer {
	v := &Viewer{
		session:  session,
		resolver: res,
		load:     LoadIdle,
		zoomIdx:  defaultZoomIdx,
		page:     1,
	}
	v.subToken = session.Subscribe(v.onSessionEvent)
	return v
}

// Detach unsubscribes from the session and cancels any in-flight load.
func (v *Viewer) Detach() {
	v.session.Unsubscribe(v.subToken)
	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.mu.Unlock()
}

// OnScroll registers the auto-scroll callback.
//
// The callback fires when a scroll has been requested and the document
// is ready: either immediately on RequestScroll, or deferred until the
// load completes. A scroll requested before the target exists is
// retried on load completion, not dropped.
func (v *Viewer) OnScroll(fn func(ScrollTarget)) {
	v.mu.Lock()
	v.onScroll = fn
	v.mu.Unlock()
}

// onSessionEvent reacts to session transitions.
func (v *Viewer) onSessionEvent(ev Event) {
	switch ev.Type {
	case EventOpened:
		v.show(ev.Source, ev.Generation)
	case EventCleared:
		v.reset()
	case EventClosed:
		// Keep displaying the outgoing source through the deferred
		// clear; the closing transition still reads it.
	}
}

// show starts displaying a newly opened source.
func (v *Viewer) show(src *source.CitationSource, gen uint64) {
	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.src = src
	v.gen = gen
	v.doc = nil
	v.err = nil
	v.page = src.Page()
	v.zoomIdx = defaultZoomIdx
	v.wantRoll = true

	kind, _ := source.KindOf(src.DocumentType)
	if src.FilePath == "" || kind.Viewer == source.ViewerText {
		// Snippet-only fallback panel needs no fetch.
		v.load = LoadReady
		fire, target := v.scrollLocked()
		v.mu.Unlock()
		if fire != nil {
			fire(target)
		}
		return
	}

	v.load = LoadLoading
	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	path := src.FilePath
	v.mu.Unlock()

	go func() {
		doc, err := v.resolver.Resolve(ctx, path)
		v.apply(gen, doc, err)
	}()
}

// apply installs a load result unless it has been superseded.
func (v *Viewer) apply(gen uint64, doc *resolver.Document, err error) {
	v.mu.Lock()
	if gen != v.gen || v.src == nil {
		// Stale load: the slot moved on while the fetch was in
		// flight. Discard silently.
		v.mu.Unlock()
		return
	}
	v.cancel = nil
	if err != nil {
		v.load = LoadFailed
		v.err = err
		v.doc = nil
		v.mu.Unlock()
		return
	}
	v.load = LoadReady
	v.doc = doc
	if v.page > doc.PageCount {
		v.page = doc.PageCount
	}
	fire, target := v.scrollLocked()
	v.mu.Unlock()
	if fire != nil {
		fire(target)
	}
}

// reset returns the viewer to idle after a completed clear.
func (v *Viewer) reset() {
	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.src = nil
	v.doc = nil
	v.err = nil
	v.load = LoadIdle
	v.page = 1
	v.zoomIdx = defaultZoomIdx
	v.wantRoll = false
	v.mu.Unlock()
}

// scrollLocked resolves a pending scroll request if the document is
// ready. Caller must hold v.mu; the returned callback is invoked after
// unlocking.
func (v *Viewer) scrollLocked() (func(ScrollTarget), ScrollTarget) {
	if !v.wantRoll || v.load != LoadReady || v.src == nil || v.onScroll == nil {
		return nil, ScrollTarget{}
	}
	v.wantRoll = false
	if c := v.src.Coordinates; c != nil {
		return v.onScroll, ScrollTarget{X: c.X + c.Width/2, Y: c.Y + c.Height/2}
	}
	return v.onScroll, ScrollTarget{X: 50, Y: 50, Fallback: true}
}

// RequestScroll asks the viewer to center the evidence in the
// viewport. Deferred until the load completes if the document is not
// ready yet.
func (v *Viewer) RequestScroll() {
	v.mu.Lock()
	v.wantRoll = true
	fire, target := v.scrollLocked()
	v.mu.Unlock()
	if fire != nil {
		fire(target)
	}
}

// ZoomIn steps the zoom up one notch, clamped at the top step.
func (v *Viewer) ZoomIn() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.zoomIdx < len(ZoomSteps)-1 {
		v.zoomIdx++
	}
	return ZoomSteps[v.zoomIdx]
}

// ZoomOut steps the zoom down one notch, clamped at the bottom step.
func (v *Viewer) ZoomOut() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.zoomIdx > 0 {
		v.zoomIdx--
	}
	return ZoomSteps[v.zoomIdx]
}

// Zoom returns the current zoom percentage.
func (v *Viewer) Zoom() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return ZoomSteps[v.zoomIdx]
}

// NextPage advances one page. Zoom is deliberately preserved across
// page changes within one open session.
func (v *Viewer) NextPage() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.page < v.pageCountLocked() {
		v.page++
	}
	return v.page
}

// PrevPage steps back one page.
func (v *Viewer) PrevPage() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.page > 1 {
		v.page--
	}
	return v.page
}

// Overlay computes the highlight rectangle for the current page and
// zoom on a rendered box of the given dimensions.
func (v *Viewer) Overlay(boxW, boxH float64) *Rect {
	v.mu.Lock()
	defer v.mu.Unlock()
	return OverlayRect(v.src, v.page, ZoomSteps[v.zoomIdx], boxW, boxH)
}

// Snapshot returns a render-ready copy of the viewer state.
func (v *Viewer) Snapshot() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	st := State{
		Source:    v.src,
		Load:      v.load,
		Page:      v.page,
		PageCount: v.pageCountLocked(),
		Zoom:      ZoomSteps[v.zoomIdx],
		Err:       v.err,
	}
	if v.doc != nil {
		st.ContentType = v.doc.ContentType
	}
	st.Strategy = v.strategyLocked()
	return st
}

// pageCountLocked returns the displayable page count. Caller holds v.mu.
func (v *Viewer) pageCountLocked() int {
	if v.doc != nil && v.doc.PageCount > 0 {
		return v.doc.PageCount
	}
	return 1
}

// strategyLocked derives the effective viewer strategy. Caller holds
// v.mu. Paged kinds downgrade to the image strategy when the resolved
// file turns out to be a single-page image (image-like blueprints).
func (v *Viewer) strategyLocked() source.ViewerStrategy {
	if v.src == nil {
		return source.ViewerText
	}
	kind, _ := source.KindOf(v.src.DocumentType)
	if v.src.FilePath == "" {
		return source.ViewerText
	}
	if kind.Viewer == source.ViewerPaged && v.doc != nil &&
		v.doc.PageCount == 1 && strings.HasPrefix(v.doc.ContentType, "image/") {
		return source.ViewerImage
	}
	return kind.Viewer
}
