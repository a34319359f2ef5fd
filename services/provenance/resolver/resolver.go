// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package resolver turns citation file paths into renderable document
// bytes.
//
// Resolution is the proof viewer's only external dependency: the
// registry itself never touches files. Implementations may read local
// disk, object storage, or a test script; the viewer only cares about
// bytes, a page count, and errors.
package resolver

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/AleutianAI/AleutianProvenance/pkg/validation"
)

// Document is a resolved evidence file.
type Document struct {
	// Data is the raw file content.
	Data []byte

	// PageCount is the number of renderable pages. Always >= 1.
	PageCount int

	// ContentType is the detected MIME type.
	ContentType string
}

// FileResolver resolves a citation's file path to document bytes.
//
// Implementations must honor context cancellation: a resolve that is
// superseded by a newer proof open may be abandoned at any time.
type FileResolver interface {
	// Resolve returns the document behind filePath.
	Resolve(ctx context.Context, filePath string) (*Document, error)
}

// LocalResolver serves documents from a root directory on disk.
//
// Paths are relative to the root; absolute paths and traversal
// sequences are rejected before touching the filesystem.
type LocalResolver struct {
	root string
}

// NewLocalResolver creates a resolver rooted at dir.
func NewLocalResolver(dir string) (*LocalResolver, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %q is not a directory", abs)
	}
	return &LocalResolver{root: abs}, nil
}

// Resolve reads the file at root/filePath.
//
// Description:
//
//	Validates the relative path, reads the file, and derives the page
//	count. Page counts come from a cheap PDF page-object scan; images
//	and unknown formats count as one page. Honors ctx cancellation
//	before the read.
//
// Inputs:
//
//	ctx - Cancellation context
//	filePath - Path relative to the resolver root
//
// Outputs:
//
//	*Document - The resolved document
//	error - Path validation, IO, or context error
func (r *LocalResolver) Resolve(ctx context.Context, filePath string) (*Document, error) {
	if err := validation.ValidateRelativePath(filePath); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(r.root, filepath.FromSlash(filePath)))
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	doc := &Document{
		Data:        data,
		PageCount:   1,
		ContentType: http.DetectContentType(data),
	}
	if strings.EqualFold(filepath.Ext(filePath), ".pdf") {
		if n := bytes.Count(data, []byte("/Type /Page")); n > 0 {
			doc.PageCount = n
		}
	}
	return doc, nil
}

var _ FileResolver = (*LocalResolver)(nil)
