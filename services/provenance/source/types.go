// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package source defines the citation source record and its identifier
// minting.
//
// A CitationSource links one generated claim to one piece of evidence:
// a document, a location within it, and the quoted snippet that backs
// the claim. Records are immutable after creation except for the pillar
// link, which is the registry's single post-creation mutation.
package source

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// DocumentType classifies the originating document of a citation.
//
// The type drives three concerns at once via the kind table: the display
// icon, the grouping bucket, and the proof viewer strategy. Unknown
// types degrade to a generic document kind rather than failing, since a
// missing citation is worse than a mislabeled one.
type DocumentType string

const (
	// DocumentPDF is a paged PDF document (plans, reports, contracts).
	DocumentPDF DocumentType = "pdf"

	// DocumentImage is a standalone image that is not a site photo.
	DocumentImage DocumentType = "image"

	// DocumentBlueprint is a construction drawing. Blueprints may be
	// single images or paged sets; the viewer strategy follows the
	// page count of the resolved file.
	DocumentBlueprint DocumentType = "blueprint"

	// DocumentRegulation is a building-code or regulation excerpt.
	DocumentRegulation DocumentType = "regulation"

	// DocumentLog is an inspection or site log entry. Logs carry no
	// positional evidence; their proof view is the snippet itself.
	DocumentLog DocumentType = "log"

	// DocumentSitePhoto is a photo taken on site.
	DocumentSitePhoto DocumentType = "site_photo"
)

// Pillar is an audited claim category a citation can support.
//
// At most one pillar per citation. Evidence that supports several
// categories is recorded as duplicate citations with different pillars.
type Pillar string

const (
	PillarArea       Pillar = "area"
	PillarMaterials  Pillar = "materials"
	PillarBlueprint  Pillar = "blueprint"
	PillarOBC        Pillar = "obc"
	PillarConflict   Pillar = "conflict"
	PillarMode       Pillar = "mode"
	PillarConfidence Pillar = "confidence"
)

// Pillars lists all audited claim categories in display order.
var Pillars = []Pillar{
	PillarArea,
	PillarMaterials,
	PillarBlueprint,
	PillarOBC,
	PillarConflict,
	PillarMode,
	PillarConfidence,
}

// ValidPillar reports whether p is a member of the closed pillar set.
func ValidPillar(p Pillar) bool {
	for _, known := range Pillars {
		if p == known {
			return true
		}
	}
	return false
}

// Coordinates is a normalized highlight rectangle in percentage units
// (0-100) of the page or image it belongs to.
type Coordinates struct {
	X      float64 `json:"x" validate:"gte=0,lte=100"`
	Y      float64 `json:"y" validate:"gte=0,lte=100"`
	Width  float64 `json:"width" validate:"gte=0,lte=100"`
	Height float64 `json:"height" validate:"gte=0,lte=100"`
}

// Validate checks that the rectangle lies fully within the page canvas.
//
// A highlight never overflows the page: X+Width and Y+Height must both
// stay within 100.
func (c Coordinates) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrCoordinatesOutOfRange, err)
	}
	if c.X+c.Width > 100 {
		return fmt.Errorf("%w: x+width = %.2f", ErrCoordinatesOutOfRange, c.X+c.Width)
	}
	if c.Y+c.Height > 100 {
		return fmt.Errorf("%w: y+height = %.2f", ErrCoordinatesOutOfRange, c.Y+c.Height)
	}
	return nil
}

// CitationSource is the evidentiary record behind one citation.
//
// Write-once by contract: after a record enters a registry, only
// LinkedPillar may change, and only through the registry's link
// operation. The struct is shared by pointer between the registry and
// any number of renderers; readers rely on that immutability.
type CitationSource struct {
	// ID is the internal unique key, stable for the life of the
	// collection. Assigned by the registry when empty.
	ID string `json:"id"`

	// SourceID is the short human-legible label shown inline,
	// e.g. "D-102", "OBC 3.4", "LOG-45". Minted when empty.
	SourceID string `json:"source_id"`

	// DocumentName is the display name of the originating document.
	DocumentName string `json:"document_name" validate:"required"`

	// DocumentType drives icon, grouping bucket, and viewer strategy.
	DocumentType DocumentType `json:"document_type" validate:"required"`

	// PageNumber locates the evidence in multi-page sources.
	PageNumber *int `json:"page_number,omitempty" validate:"omitempty,gte=1"`

	// ContextSnippet is the exact quoted text (or description, for
	// images) that justifies the citation. Always present.
	ContextSnippet string `json:"context_snippet" validate:"required"`

	// Coordinates positions the highlight overlay. Absent for sources
	// without positional evidence, e.g. logs.
	Coordinates *Coordinates `json:"coordinates,omitempty"`

	// FilePath locates the original file. Used only by the proof
	// viewer; an external resolver turns it into bytes.
	FilePath string `json:"file_path,omitempty"`

	// Timestamp is when the citation was extracted or created.
	Timestamp time.Time `json:"timestamp"`

	// LinkedPillar records which audited claim category this evidence
	// supports. Nil means unlinked. At most one pillar per citation.
	LinkedPillar *Pillar `json:"linked_pillar,omitempty"`
}

var validate = validator.New()

// Validate checks structural validity of the record.
//
// Description:
//
//	Runs struct-tag validation, the coordinate bound check, and the
//	pillar membership check. An unrecognized DocumentType is NOT an
//	error here: unknown types degrade to the generic document kind
//	at render and mint time instead of blocking citation creation.
//
// Outputs:
//
//	error - nil if the record is valid
func (s *CitationSource) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}
	if s.Coordinates != nil {
		if err := s.Coordinates.Validate(); err != nil {
			return err
		}
	}
	if s.LinkedPillar != nil && !ValidPillar(*s.LinkedPillar) {
		return fmt.Errorf("%w: %q", ErrUnknownPillar, *s.LinkedPillar)
	}
	return nil
}

// Linked reports whether the citation is linked to a pillar.
func (s *CitationSource) Linked() bool {
	return s.LinkedPillar != nil
}

// Page returns the page number, defaulting to 1 for single-page or
// pageless sources.
func (s *CitationSource) Page() int {
	if s.PageNumber != nil {
		return *s.PageNumber
	}
	return 1
}
