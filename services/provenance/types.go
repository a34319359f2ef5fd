// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package provenance

import (
	"github.com/AleutianAI/AleutianProvenance/services/provenance/registry"
	"github.com/AleutianAI/AleutianProvenance/services/provenance/source"
)

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	// Error is the human-readable message.
	Error string `json:"error"`

	// Code is a stable machine-readable error code.
	Code string `json:"code"`
}

// CreateViewResponse is the response for POST /v1/provenance/views.
type CreateViewResponse struct {
	// ViewID identifies the new content view.
	ViewID string `json:"view_id"`
}

// ViewResponse is the response for GET /v1/provenance/views/:id.
type ViewResponse struct {
	// ViewID identifies the content view.
	ViewID string `json:"view_id"`

	// Total is the number of citations in the view.
	Total int `json:"total"`

	// LinkedCount is the number of pillar-linked citations.
	LinkedCount int `json:"linked_count"`

	// IsEmpty distinguishes "no citations yet" from callers inferring
	// emptiness out of list length.
	IsEmpty bool `json:"is_empty"`
}

// AddCitationRequest is the request body for POST
// /v1/provenance/views/:id/citations.
type AddCitationRequest struct {
	// SourceID optionally presets the human-legible label. Minted
	// from DocumentType and SeedHint when empty.
	SourceID string `json:"source_id"`

	// DocumentName is the display name of the document. Required.
	DocumentName string `json:"document_name" binding:"required"`

	// DocumentType is the document kind. Required. Unknown values
	// degrade to the generic document bucket.
	DocumentType source.DocumentType `json:"document_type" binding:"required"`

	// PageNumber locates the evidence in multi-page sources.
	PageNumber *int `json:"page_number"`

	// ContextSnippet is the quoted evidence text. Required.
	ContextSnippet string `json:"context_snippet" binding:"required"`

	// Coordinates positions the highlight overlay, percentage units.
	Coordinates *source.Coordinates `json:"coordinates"`

	// FilePath locates the original file for the proof viewer.
	FilePath string `json:"file_path"`

	// SeedHint seeds source ID minting, e.g. a regulation section
	// number.
	SeedHint string `json:"seed_hint"`
}

// CitationResponse wraps a single citation record.
type CitationResponse struct {
	Citation *source.CitationSource `json:"citation"`
}

// ListCitationsResponse is the response for GET
// /v1/provenance/views/:id/citations.
type ListCitationsResponse struct {
	Citations []*source.CitationSource `json:"citations"`
	Total     int                      `json:"total"`
	Linked    int                      `json:"linked"`
	IsEmpty   bool                     `json:"is_empty"`
}

// GroupedResponse is the response for GET
// /v1/provenance/views/:id/citations/grouped.
type GroupedResponse struct {
	Groups []registry.Group `json:"groups"`
	Total  int              `json:"total"`
}

// LinkPillarRequest is the request body for POST
// /v1/provenance/views/:id/citations/:cid/link.
type LinkPillarRequest struct {
	// Pillar is the audited claim category. Required.
	Pillar source.Pillar `json:"pillar" binding:"required"`
}

// LinkPillarResponse reports the outcome of a link or unlink.
type LinkPillarResponse struct {
	// Linked is true when the citation now carries a pillar link.
	Linked bool `json:"linked"`

	// Pillar is the citation's pillar after the operation, if any.
	Pillar *source.Pillar `json:"pillar,omitempty"`
}

// CopyRequest is the request body for POST /v1/provenance/views/:id/copy.
type CopyRequest struct {
	// SourceID selects a single reference. Empty copies all.
	SourceID string `json:"source_id"`
}

// CopyResponse carries the formatted reference text.
type CopyResponse struct {
	Text string `json:"text"`
}

// ProofOpenRequest is the request body for POST
// /v1/provenance/views/:id/proof/open.
type ProofOpenRequest struct {
	// CitationID is the internal citation ID. Required.
	CitationID string `json:"citation_id" binding:"required"`
}

// ProofStateResponse is the readable proof session state.
type ProofStateResponse struct {
	// Open reports whether a proof target is open.
	Open bool `json:"open"`

	// Current is the slot's source. Non-nil while open and during
	// the deferred-clear window after close.
	Current *source.CitationSource `json:"current,omitempty"`
}

// HealthResponse is the response for GET /v1/provenance/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Views   int    `json:"views"`
}
