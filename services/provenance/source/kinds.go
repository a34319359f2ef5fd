// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package source

// Bucket is a display group for citations. Buckets are ordered by
// fixed priority; BucketOrder is the single source of that order.
type Bucket string

const (
	// BucketSitePhotos groups site photos.
	BucketSitePhotos Bucket = "site_photos"

	// BucketDocuments groups blueprints and PDFs.
	BucketDocuments Bucket = "documents"

	// BucketImages groups images that are not site photos.
	BucketImages Bucket = "images"

	// BucketRegulations groups regulation excerpts.
	BucketRegulations Bucket = "regulations"

	// BucketOther collects everything else, including unknown types.
	BucketOther Bucket = "other"
)

// BucketOrder is the fixed display priority for citation groups.
var BucketOrder = []Bucket{
	BucketSitePhotos,
	BucketDocuments,
	BucketImages,
	BucketRegulations,
	BucketOther,
}

// BucketLabels maps each bucket to its display label.
var BucketLabels = map[Bucket]string{
	BucketSitePhotos:  "Site Photos",
	BucketDocuments:   "Documents",
	BucketImages:      "Images",
	BucketRegulations: "Regulations",
	BucketOther:       "Other",
}

// ViewerStrategy selects how the proof viewer renders a source.
type ViewerStrategy string

const (
	// ViewerImage renders the raw image with a highlight overlay.
	ViewerImage ViewerStrategy = "image"

	// ViewerPaged renders one page of a multi-page document with
	// forward/back navigation.
	ViewerPaged ViewerStrategy = "paged"

	// ViewerText renders a snippet-only fallback panel. Used for logs
	// and for any source lacking a resolvable file.
	ViewerText ViewerStrategy = "text"
)

// KindInfo describes everything that hangs off a document type: the
// minting prefix, the display icon, the grouping bucket, and the proof
// viewer strategy. Keeping all four in one table guarantees they cannot
// drift apart when a new document kind is added.
type KindInfo struct {
	// Prefix is the source ID prefix, e.g. "D" for "D-102".
	Prefix string

	// Separator joins prefix and suffix. Regulations read as
	// "OBC 3.4", everything else as "D-102".
	Separator string

	// Icon is the display glyph for this kind.
	Icon string

	// Bucket is the grouping bucket for reference lists.
	Bucket Bucket

	// Viewer is the proof viewer strategy.
	Viewer ViewerStrategy
}

// kinds is the closed document-kind table.
var kinds = map[DocumentType]KindInfo{
	DocumentPDF:        {Prefix: "D", Separator: "-", Icon: "📄", Bucket: BucketDocuments, Viewer: ViewerPaged},
	DocumentImage:      {Prefix: "IMG", Separator: "-", Icon: "🖼", Bucket: BucketImages, Viewer: ViewerImage},
	DocumentBlueprint:  {Prefix: "BP", Separator: "-", Icon: "📐", Bucket: BucketDocuments, Viewer: ViewerPaged},
	DocumentRegulation: {Prefix: "OBC", Separator: " ", Icon: "⚖", Bucket: BucketRegulations, Viewer: ViewerPaged},
	DocumentLog:        {Prefix: "LOG", Separator: "-", Icon: "📋", Bucket: BucketOther, Viewer: ViewerText},
	DocumentSitePhoto:  {Prefix: "PH", Separator: "-", Icon: "📷", Bucket: BucketSitePhotos, Viewer: ViewerImage},
}

// genericKind is the degraded kind for unrecognized document types.
var genericKind = KindInfo{
	Prefix:    "DOC",
	Separator: "-",
	Icon:      "📄",
	Bucket:    BucketOther,
	Viewer:    ViewerText,
}

// KindOf returns the kind info for a document type.
//
// Description:
//
//	Looks up the document kind table. Unknown types return the generic
//	kind and false so callers can log the degradation; they never get
//	an error, because an unrecognized type must not block citation
//	creation or rendering.
//
// Inputs:
//
//	t - The document type to look up
//
// Outputs:
//
//	KindInfo - Kind info (generic for unknown types)
//	bool - true if t is a known type
func KindOf(t DocumentType) (KindInfo, bool) {
	if k, ok := kinds[t]; ok {
		return k, true
	}
	return genericKind, false
}
