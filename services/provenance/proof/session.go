// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package proof tracks which citation's evidence is currently open and
// models the viewer that renders it.
//
// The session is a single-slot state machine: at most one source is
// the active proof target, no queueing, no stacking. One session is
// created per content view and shared with every renderer in that
// view, so a citation badge anywhere in the tree can request the proof
// panel without being an ancestor or descendant of it. There is
// deliberately no package-level session; two analysis panels open at
// once each own an independent instance.
package proof

import (
	"sync"
	"time"

	"github.com/AleutianAI/AleutianProvenance/services/provenance/source"
)

// DefaultClearDelay is how long the outgoing source is retained after
// Close before the slot is cleared. The closing transition reads the
// outgoing source's data during this window instead of flashing empty.
const DefaultClearDelay = 300 * time.Millisecond

// EventType identifies a session transition.
type EventType string

const (
	// EventOpened fires when a source becomes the proof target.
	EventOpened EventType = "opened"

	// EventClosed fires when the visual close begins. The outgoing
	// source is still readable until EventCleared.
	EventClosed EventType = "closed"

	// EventCleared fires when the deferred clear completes and the
	// slot is empty. Suppressed if a new open lands first.
	EventCleared EventType = "cleared"
)

// Event is a session transition snapshot delivered to subscribers.
type Event struct {
	// Type is the transition kind.
	Type EventType `json:"type"`

	// Source is the proof target involved. Nil only for EventCleared.
	Source *source.CitationSource `json:"source,omitempty"`

	// Generation identifies the open this event belongs to. Async
	// consumers compare it against StillCurrent to discard stale work.
	Generation uint64 `json:"generation"`
}

// SessionConfig configures a proof session.
type SessionConfig struct {
	// ClearDelay is the deferred-clear window after Close.
	// Default: DefaultClearDelay.
	ClearDelay time.Duration
}

// Session is the single-slot proof state machine.
//
// States: closed (no current source) and open (exactly one source).
// Open replaces the slot directly; Close begins a deferred clear that
// retains the outgoing source for ClearDelay so the closing transition
// never reads an empty slot. Re-opening during the window cancels the
// pending clear, so subscribers never observe an intermediate empty
// state between two opens.
//
// Thread Safety:
//
//	Safe for concurrent use. Subscriber callbacks run on the mutating
//	goroutine after internal locks are released; they may call back
//	into the session.
type Session struct {
	mu         sync.Mutex
	current    *source.CitationSource
	open       bool
	generation uint64
	clearDelay time.Duration
	clearTimer *time.Timer
	subs       map[int]func(Event)
	nextSub    int
}

// NewSession creates a closed session.
func NewSession(cfg SessionConfig) *Session {
	delay := cfg.ClearDelay
	if delay <= 0 {
		delay = DefaultClearDelay
	}
	return &Session{
		clearDelay: delay,
		subs:       make(map[int]func(Event)),
	}
}

// Open makes src the active proof target.
//
// Description:
//
//	Replaces the slot directly, whether the session was closed, open
//	on another source, or inside a deferred-clear window (the pending
//	clear is canceled, so no empty state is ever observed). Returns
//	the generation token for this open; async work started on its
//	behalf should verify StillCurrent(gen) before applying results.
//
// Inputs:
//
//	src - The citation whose proof should be shown
//
// Outputs:
//
//	uint64 - Generation token for this open
func (s *Session) Open(src *source.CitationSource) uint64 {
	s.mu.Lock()
	if s.clearTimer != nil {
		s.clearTimer.Stop()
		s.clearTimer = nil
	}
	s.generation++
	gen := s.generation
	s.current = src
	s.open = true
	subs := s.snapshotSubs()
	s.mu.Unlock()

	notify(subs, Event{Type: EventOpened, Source: src, Generation: gen})
	return gen
}

// Close begins closing the proof panel.
//
// The session reports closed immediately, but the outgoing source
// stays readable via Current for ClearDelay before the slot empties.
// Closing a closed session is a no-op.
func (s *Session) Close() {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return
	}
	s.open = false
	gen := s.generation
	outgoing := s.current
	s.clearTimer = time.AfterFunc(s.clearDelay, func() { s.finishClear(gen) })
	subs := s.snapshotSubs()
	s.mu.Unlock()

	notify(subs, Event{Type: EventClosed, Source: outgoing, Generation: gen})
}

// finishClear empties the slot unless a newer open superseded it.
func (s *Session) finishClear(gen uint64) {
	s.mu.Lock()
	if s.open || s.generation != gen {
		s.mu.Unlock()
		return
	}
	s.current = nil
	s.clearTimer = nil
	subs := s.snapshotSubs()
	s.mu.Unlock()

	notify(subs, Event{Type: EventCleared, Generation: gen})
}

// Current returns the slot's source.
//
// Non-nil while open and during the deferred-clear window after
// Close, nil once the clear completes.
func (s *Session) Current() *source.CitationSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// IsOpen reports whether a proof target is open. False as soon as
// Close is called, even while the outgoing source is still retained.
func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// StillCurrent reports whether the open identified by gen is still the
// active one. Used to discard results of superseded async loads.
func (s *Session) StillCurrent(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open && s.generation == gen
}

// Subscribe registers a transition callback and returns a token for
// Unsubscribe. Callbacks run synchronously on the mutating goroutine.
func (s *Session) Subscribe(fn func(Event)) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	s.subs[s.nextSub] = fn
	return s.nextSub
}

// Unsubscribe removes a subscription. Unknown tokens are no-ops.
func (s *Session) Unsubscribe(token int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, token)
}

// snapshotSubs copies the callback list. Caller must hold s.mu.
func (s *Session) snapshotSubs() []func(Event) {
	out := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(Event), ev Event) {
	for _, fn := range subs {
		fn(ev)
	}
}
