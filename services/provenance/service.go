// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package provenance exposes the citation registry and proof session
// over HTTP.
//
// The service manages content views: one view per unit of generated
// content, each owning its own citation registry and single-slot proof
// session. Views are in-memory only; discarding a view discards its
// whole citation collection, which is the intended lifecycle.
package provenance

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/AleutianProvenance/services/provenance/proof"
	"github.com/AleutianAI/AleutianProvenance/services/provenance/registry"
	"github.com/AleutianAI/AleutianProvenance/services/provenance/source"
)

// Version is the service version reported by the health endpoint.
const Version = "0.1.0"

// ServiceConfig holds configuration for the provenance service.
type ServiceConfig struct {
	// MaxViews caps concurrently held content views. When the cap is
	// reached, the least recently used view is evicted. Default: 64.
	MaxViews int

	// ViewTTL expires views untouched for this long. Zero disables
	// expiry. Expired views are swept lazily on view access.
	ViewTTL time.Duration

	// ClearDelay is the proof session's deferred-clear window.
	// Default: proof.DefaultClearDelay.
	ClearDelay time.Duration

	// Clipboard receives copied reference text. Optional; copy
	// endpoints still return the formatted text without one.
	Clipboard registry.ClipboardSink

	// Logger is the structured logger. Default: slog.Default().
	Logger *slog.Logger
}

// DefaultServiceConfig returns a config with sane defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxViews:   64,
		ClearDelay: proof.DefaultClearDelay,
	}
}

// View is one content view: a citation registry plus a proof session.
type View struct {
	// ID is the view's UUID.
	ID string

	// Registry owns the view's citation collection.
	Registry *registry.Registry

	// Session is the view's single-slot proof session.
	Session *proof.Session

	// CreatedAt is when the view was created.
	CreatedAt time.Time

	lastUsed time.Time
}

// Service manages content views and delegates citation and proof
// operations to the owning view.
//
// Thread Safety:
//
//	Safe for concurrent use. The view map has its own lock; per-view
//	state is guarded by the registry and session locks.
type Service struct {
	mu     sync.Mutex
	views  map[string]*View
	config ServiceConfig
	logger *slog.Logger
}

// NewService creates a provenance service.
func NewService(config ServiceConfig) *Service {
	if config.MaxViews <= 0 {
		config.MaxViews = DefaultServiceConfig().MaxViews
	}
	if config.ClearDelay <= 0 {
		config.ClearDelay = proof.DefaultClearDelay
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		views:  make(map[string]*View),
		config: config,
		logger: logger,
	}
}

// CreateView creates an empty content view and returns its ID.
//
// At the MaxViews cap the least recently used view is evicted first;
// its citation collection is discarded with it.
func (s *Service) CreateView() *View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepExpiredLocked()
	if len(s.views) >= s.config.MaxViews {
		s.evictOldestLocked()
	}

	reg := registry.New()
	if s.config.Clipboard != nil {
		reg = reg.WithClipboard(s.config.Clipboard)
	}
	now := time.Now()
	view := &View{
		ID:        uuid.New().String(),
		Registry:  reg,
		Session:   proof.NewSession(proof.SessionConfig{ClearDelay: s.config.ClearDelay}),
		CreatedAt: now,
		lastUsed:  now,
	}
	s.views[view.ID] = view

	s.logger.Info("Created content view", "view_id", view.ID, "views", len(s.views))
	return view
}

// evictOldestLocked drops the least recently used view. Caller must
// hold s.mu.
func (s *Service) evictOldestLocked() {
	var oldest *View
	for _, v := range s.views {
		if oldest == nil || v.lastUsed.Before(oldest.lastUsed) {
			oldest = v
		}
	}
	if oldest == nil {
		return
	}
	oldest.Session.Close()
	delete(s.views, oldest.ID)
	s.logger.Warn("Evicted least recently used content view",
		"view_id", oldest.ID, "citations", oldest.Registry.Len())
}

// sweepExpiredLocked drops views past the TTL. Caller must hold s.mu.
func (s *Service) sweepExpiredLocked() {
	if s.config.ViewTTL <= 0 {
		return
	}
	cutoff := time.Now().Add(-s.config.ViewTTL)
	for id, v := range s.views {
		if v.lastUsed.Before(cutoff) {
			v.Session.Close()
			delete(s.views, id)
			s.logger.Info("Expired content view", "view_id", id, "citations", v.Registry.Len())
		}
	}
}

// GetView returns the view with the given ID. Expired views are as
// gone as deleted ones.
func (s *Service) GetView(id string) (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepExpiredLocked()
	view, ok := s.views[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrViewNotFound, id)
	}
	view.lastUsed = time.Now()
	return view, nil
}

// DeleteView discards a view and its citation collection.
func (s *Service) DeleteView(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	view, ok := s.views[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrViewNotFound, id)
	}
	view.Session.Close()
	delete(s.views, id)
	s.logger.Info("Discarded content view", "view_id", id, "citations", view.Registry.Len())
	return nil
}

// ViewCount returns the number of live views.
func (s *Service) ViewCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

// AddCitation adds a citation record to a view, minting its source ID
// from the optional seed hint.
func (s *Service) AddCitation(viewID string, src *source.CitationSource, seedHint string) (*source.CitationSource, error) {
	view, err := s.GetView(viewID)
	if err != nil {
		return nil, err
	}
	if err := view.Registry.AddWithHint(src, seedHint); err != nil {
		return nil, err
	}
	s.logger.Debug("Added citation",
		"view_id", viewID, "source_id", src.SourceID, "document_type", string(src.DocumentType))
	return src, nil
}

// LinkPillar links a citation to a pillar. Unknown pillars are
// rejected; stale citation IDs report linked=false per the registry's
// silent no-op contract.
func (s *Service) LinkPillar(viewID, citationID string, pillar source.Pillar) (bool, error) {
	if !source.ValidPillar(pillar) {
		return false, fmt.Errorf("%w: %q", ErrInvalidPillar, string(pillar))
	}
	view, err := s.GetView(viewID)
	if err != nil {
		return false, err
	}
	return view.Registry.LinkToPillar(citationID, pillar), nil
}

// UnlinkPillar clears a citation's pillar link.
func (s *Service) UnlinkPillar(viewID, citationID string) (bool, error) {
	view, err := s.GetView(viewID)
	if err != nil {
		return false, err
	}
	return view.Registry.UnlinkPillar(citationID), nil
}

// Copy formats reference text for export. An empty sourceID copies the
// full ordered reference list.
func (s *Service) Copy(viewID, sourceID string) (string, error) {
	view, err := s.GetView(viewID)
	if err != nil {
		return "", err
	}
	if sourceID == "" {
		return view.Registry.CopyAll(), nil
	}
	return view.Registry.CopyReference(sourceID), nil
}

// ProofOpen makes the identified citation the view's active proof
// target and returns its record.
func (s *Service) ProofOpen(viewID, citationID string) (*source.CitationSource, error) {
	view, err := s.GetView(viewID)
	if err != nil {
		return nil, err
	}
	src := view.Registry.Get(citationID)
	if src == nil {
		return nil, fmt.Errorf("%w: %q", ErrCitationNotFound, citationID)
	}
	view.Session.Open(src)
	return src, nil
}

// ProofClose begins closing the view's proof panel.
func (s *Service) ProofClose(viewID string) error {
	view, err := s.GetView(viewID)
	if err != nil {
		return err
	}
	view.Session.Close()
	return nil
}

// ProofState returns the view's proof session state.
func (s *Service) ProofState(viewID string) (ProofStateResponse, error) {
	view, err := s.GetView(viewID)
	if err != nil {
		return ProofStateResponse{}, err
	}
	return ProofStateResponse{
		Open:    view.Session.IsOpen(),
		Current: view.Session.Current(),
	}, nil
}
