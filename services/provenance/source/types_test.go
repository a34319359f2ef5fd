// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package source

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSource() *CitationSource {
	return &CitationSource{
		DocumentName:   "Foundation Plan Rev C",
		DocumentType:   DocumentBlueprint,
		ContextSnippet: "Footing depth 1.2m below grade",
		Timestamp:      time.Now(),
	}
}

// =============================================================================
// Coordinates Tests
// =============================================================================

func TestCoordinates_Valid(t *testing.T) {
	c := Coordinates{X: 10, Y: 20, Width: 30, Height: 40}
	assert.NoError(t, c.Validate())
}

func TestCoordinates_FullPage(t *testing.T) {
	c := Coordinates{X: 0, Y: 0, Width: 100, Height: 100}
	assert.NoError(t, c.Validate())
}

func TestCoordinates_OverflowX(t *testing.T) {
	c := Coordinates{X: 80, Y: 0, Width: 30, Height: 10}
	err := c.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCoordinatesOutOfRange)
}

func TestCoordinates_OverflowY(t *testing.T) {
	c := Coordinates{X: 0, Y: 95, Width: 10, Height: 10}
	assert.ErrorIs(t, c.Validate(), ErrCoordinatesOutOfRange)
}

func TestCoordinates_Negative(t *testing.T) {
	c := Coordinates{X: -1, Y: 0, Width: 10, Height: 10}
	assert.ErrorIs(t, c.Validate(), ErrCoordinatesOutOfRange)
}

// =============================================================================
// CitationSource Tests
// =============================================================================

func TestCitationSource_Valid(t *testing.T) {
	assert.NoError(t, validSource().Validate())
}

func TestCitationSource_MissingSnippet(t *testing.T) {
	s := validSource()
	s.ContextSnippet = ""
	assert.ErrorIs(t, s.Validate(), ErrInvalidSource)
}

func TestCitationSource_MissingDocumentName(t *testing.T) {
	s := validSource()
	s.DocumentName = ""
	assert.ErrorIs(t, s.Validate(), ErrInvalidSource)
}

func TestCitationSource_ZeroPageRejected(t *testing.T) {
	s := validSource()
	zero := 0
	s.PageNumber = &zero
	assert.ErrorIs(t, s.Validate(), ErrInvalidSource)
}

func TestCitationSource_UnknownTypeIsNotAnError(t *testing.T) {
	// Unknown types degrade at mint/render time instead of blocking
	// citation creation.
	s := validSource()
	s.DocumentType = DocumentType("hologram")
	assert.NoError(t, s.Validate())
}

func TestCitationSource_BadCoordinatesRejected(t *testing.T) {
	s := validSource()
	s.Coordinates = &Coordinates{X: 60, Y: 10, Width: 60, Height: 10}
	assert.ErrorIs(t, s.Validate(), ErrCoordinatesOutOfRange)
}

func TestCitationSource_UnknownPillarRejected(t *testing.T) {
	s := validSource()
	p := Pillar("vibes")
	s.LinkedPillar = &p
	assert.ErrorIs(t, s.Validate(), ErrUnknownPillar)
}

func TestCitationSource_Page(t *testing.T) {
	s := validSource()
	assert.Equal(t, 1, s.Page())

	three := 3
	s.PageNumber = &three
	assert.Equal(t, 3, s.Page())
}

func TestValidPillar(t *testing.T) {
	for _, p := range Pillars {
		assert.True(t, ValidPillar(p))
	}
	assert.False(t, ValidPillar(Pillar("vibes")))
}
