// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package resolver

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// StaticResolver serves scripted documents from memory.
//
// Built for tests that need deterministic latency and failures, e.g.
// exercising the proof viewer's stale-load guard. Also usable as a
// fixture source for demos.
type StaticResolver struct {
	mu    sync.Mutex
	docs  map[string]*Document
	fails map[string]error
	delay time.Duration
}

// NewStaticResolver creates an empty scripted resolver.
func NewStaticResolver() *StaticResolver {
	return &StaticResolver{
		docs:  make(map[string]*Document),
		fails: make(map[string]error),
	}
}

// Put registers a document under filePath.
func (r *StaticResolver) Put(filePath string, doc *Document) *StaticResolver {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc.PageCount < 1 {
		doc.PageCount = 1
	}
	r.docs[filePath] = doc
	return r
}

// Fail scripts an error for filePath.
func (r *StaticResolver) Fail(filePath string, err error) *StaticResolver {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fails[filePath] = err
	return r
}

// WithDelay makes every Resolve wait before answering, unless the
// context is canceled first.
func (r *StaticResolver) WithDelay(d time.Duration) *StaticResolver {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delay = d
	return r
}

// Resolve returns the scripted document or error for filePath.
func (r *StaticResolver) Resolve(ctx context.Context, filePath string) (*Document, error) {
	r.mu.Lock()
	delay := r.delay
	scriptedErr := r.fails[filePath]
	doc := r.docs[filePath]
	r.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if scriptedErr != nil {
		return nil, scriptedErr
	}
	if doc == nil {
		return nil, fmt.Errorf("no document at %q", filePath)
	}
	return doc, nil
}

var _ FileResolver = (*StaticResolver)(nil)
