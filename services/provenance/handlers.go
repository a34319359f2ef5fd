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
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/AleutianProvenance/services/provenance/registry"
	"github.com/AleutianAI/AleutianProvenance/services/provenance/source"
)

// Handlers contains the HTTP handlers for the provenance service.
type Handlers struct {
	svc *Service
}

// NewHandlers creates handlers for the given service.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// HandleCreateView handles POST /v1/provenance/views.
//
// Response:
//
//	201 Created: CreateViewResponse
func (h *Handlers) HandleCreateView(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleCreateView")

	view := h.svc.CreateView()
	logger.Info("Created view", "view_id", view.ID)
	c.JSON(http.StatusCreated, CreateViewResponse{ViewID: view.ID})
}

// HandleGetView handles GET /v1/provenance/views/:id.
//
// Response:
//
//	200 OK: ViewResponse
//	404 Not Found: Unknown view
func (h *Handlers) HandleGetView(c *gin.Context) {
	getOrCreateRequestID(c)

	view, err := h.svc.GetView(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ViewResponse{
		ViewID:      view.ID,
		Total:       view.Registry.Len(),
		LinkedCount: view.Registry.LinkedCount(),
		IsEmpty:     view.Registry.IsEmpty(),
	})
}

// HandleDeleteView handles DELETE /v1/provenance/views/:id.
//
// Discards the view and its whole citation collection.
//
// Response:
//
//	204 No Content
//	404 Not Found: Unknown view
func (h *Handlers) HandleDeleteView(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleDeleteView")

	if err := h.svc.DeleteView(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	logger.Info("Deleted view", "view_id", c.Param("id"))
	c.Status(http.StatusNoContent)
}

// HandleAddCitation handles POST /v1/provenance/views/:id/citations.
//
// Description:
//
//	Adds a citation record to the view. The source ID is minted from
//	the document type and optional seed hint unless preset in the
//	request; preset IDs must be unique within the view.
//
// Request Body:
//
//	AddCitationRequest
//
// Response:
//
//	201 Created: CitationResponse
//	400 Bad Request: Validation error
//	404 Not Found: Unknown view
//	409 Conflict: Duplicate preset ID
func (h *Handlers) HandleAddCitation(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleAddCitation")

	var req AddCitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	src := &source.CitationSource{
		SourceID:       req.SourceID,
		DocumentName:   req.DocumentName,
		DocumentType:   req.DocumentType,
		PageNumber:     req.PageNumber,
		ContextSnippet: req.ContextSnippet,
		Coordinates:    req.Coordinates,
		FilePath:       req.FilePath,
	}
	added, err := h.svc.AddCitation(c.Param("id"), src, req.SeedHint)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Added citation",
		"view_id", c.Param("id"),
		"source_id", added.SourceID,
		"document_type", string(added.DocumentType))
	c.JSON(http.StatusCreated, CitationResponse{Citation: added})
}

// HandleListCitations handles GET /v1/provenance/views/:id/citations.
//
// Response:
//
//	200 OK: ListCitationsResponse
//	404 Not Found: Unknown view
func (h *Handlers) HandleListCitations(c *gin.Context) {
	getOrCreateRequestID(c)

	view, err := h.svc.GetView(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListCitationsResponse{
		Citations: view.Registry.List(),
		Total:     view.Registry.Len(),
		Linked:    view.Registry.LinkedCount(),
		IsEmpty:   view.Registry.IsEmpty(),
	})
}

// HandleGroupedCitations handles GET
// /v1/provenance/views/:id/citations/grouped.
//
// Returns the citations bucketed for reference list display, in fixed
// priority order with empty buckets omitted.
//
// Response:
//
//	200 OK: GroupedResponse
//	404 Not Found: Unknown view
func (h *Handlers) HandleGroupedCitations(c *gin.Context) {
	getOrCreateRequestID(c)

	view, err := h.svc.GetView(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, GroupedResponse{
		Groups: view.Registry.Grouped(),
		Total:  view.Registry.Len(),
	})
}

// HandleLinkPillar handles POST
// /v1/provenance/views/:id/citations/:cid/link.
//
// Description:
//
//	Links a citation to an audited claim pillar. Linking is the only
//	permitted post-creation mutation. A stale citation ID reports
//	linked=false with 200; the registry treats it as a no-op because
//	the calling UI may hold an outdated snapshot.
//
// Request Body:
//
//	LinkPillarRequest
//
// Response:
//
//	200 OK: LinkPillarResponse
//	400 Bad Request: Pillar outside the closed set
//	404 Not Found: Unknown view
func (h *Handlers) HandleLinkPillar(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleLinkPillar")

	var req LinkPillarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	linked, err := h.svc.LinkPillar(c.Param("id"), c.Param("cid"), req.Pillar)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := LinkPillarResponse{Linked: linked}
	if linked {
		p := req.Pillar
		resp.Pillar = &p
	}
	c.JSON(http.StatusOK, resp)
}

// HandleUnlinkPillar handles POST
// /v1/provenance/views/:id/citations/:cid/unlink.
//
// Response:
//
//	200 OK: LinkPillarResponse (Linked false)
//	404 Not Found: Unknown view
func (h *Handlers) HandleUnlinkPillar(c *gin.Context) {
	getOrCreateRequestID(c)

	if _, err := h.svc.UnlinkPillar(c.Param("id"), c.Param("cid")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, LinkPillarResponse{Linked: false})
}

// HandleCoverage handles GET /v1/provenance/views/:id/coverage.
//
// Response:
//
//	200 OK: registry.CoverageReport
//	404 Not Found: Unknown view
func (h *Handlers) HandleCoverage(c *gin.Context) {
	getOrCreateRequestID(c)

	view, err := h.svc.GetView(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view.Registry.Coverage())
}

// HandleCopy handles POST /v1/provenance/views/:id/copy.
//
// Description:
//
//	Formats reference text for export: a single bracketed source ID
//	when the request names one, the full comma-joined reference list
//	when it doesn't. A stale source ID yields empty text with 200, per
//	the registry's silent no-op contract.
//
// Request Body:
//
//	CopyRequest
//
// Response:
//
//	200 OK: CopyResponse
//	404 Not Found: Unknown view
func (h *Handlers) HandleCopy(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleCopy")

	// An empty or missing body means "copy all".
	var req CopyRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Invalid request body", "error", err)
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "Invalid request body",
				Code:  "INVALID_REQUEST",
			})
			return
		}
	}

	text, err := h.svc.Copy(c.Param("id"), req.SourceID)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Debug("Copied references", "view_id", c.Param("id"), "chars", len(text))
	c.JSON(http.StatusOK, CopyResponse{Text: text})
}

// HandleProofOpen handles POST /v1/provenance/views/:id/proof/open.
//
// Makes the identified citation the view's single proof target,
// replacing any current one.
//
// Request Body:
//
//	ProofOpenRequest
//
// Response:
//
//	200 OK: ProofStateResponse
//	400 Bad Request: Validation error
//	404 Not Found: Unknown view or citation
func (h *Handlers) HandleProofOpen(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleProofOpen")

	var req ProofOpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	src, err := h.svc.ProofOpen(c.Param("id"), req.CitationID)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Info("Opened proof", "view_id", c.Param("id"), "source_id", src.SourceID)
	c.JSON(http.StatusOK, ProofStateResponse{Open: true, Current: src})
}

// HandleProofClose handles POST /v1/provenance/views/:id/proof/close.
//
// Response:
//
//	200 OK: ProofStateResponse
//	404 Not Found: Unknown view
func (h *Handlers) HandleProofClose(c *gin.Context) {
	getOrCreateRequestID(c)

	if err := h.svc.ProofClose(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	state, err := h.svc.ProofState(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// HandleProofState handles GET /v1/provenance/views/:id/proof.
//
// Response:
//
//	200 OK: ProofStateResponse
//	404 Not Found: Unknown view
func (h *Handlers) HandleProofState(c *gin.Context) {
	getOrCreateRequestID(c)

	state, err := h.svc.ProofState(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// HandleHealth handles GET /v1/provenance/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: Version,
		Views:   h.svc.ViewCount(),
	})
}

// HandleReady handles GET /v1/provenance/ready.
func (h *Handlers) HandleReady(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// respondError maps service errors to HTTP status codes with the
// uniform error body.
func respondError(c *gin.Context, err error) {
	statusCode := http.StatusInternalServerError
	errCode := "INTERNAL_ERROR"

	switch {
	case errors.Is(err, ErrViewNotFound):
		statusCode = http.StatusNotFound
		errCode = "VIEW_NOT_FOUND"
	case errors.Is(err, ErrCitationNotFound):
		statusCode = http.StatusNotFound
		errCode = "CITATION_NOT_FOUND"
	case errors.Is(err, ErrInvalidPillar):
		statusCode = http.StatusBadRequest
		errCode = "INVALID_PILLAR"
	case errors.Is(err, source.ErrInvalidSource):
		statusCode = http.StatusBadRequest
		errCode = "INVALID_SOURCE"
	case errors.Is(err, source.ErrCoordinatesOutOfRange):
		statusCode = http.StatusBadRequest
		errCode = "COORDINATES_OUT_OF_RANGE"
	case errors.Is(err, registry.ErrDuplicateID), errors.Is(err, registry.ErrDuplicateSourceID):
		statusCode = http.StatusConflict
		errCode = "DUPLICATE_ID"
	}

	c.JSON(statusCode, ErrorResponse{Error: err.Error(), Code: errCode})
}

// getOrCreateRequestID returns the request ID from the X-Request-ID
// header, generating one if absent, and echoes it on the response.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
