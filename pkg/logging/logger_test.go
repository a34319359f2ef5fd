// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"
)

// =============================================================================
// Level Tests
// =============================================================================

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
		{Level(-1), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := tt.level.String()
			if got != tt.want {
				t.Errorf("Level.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLevel_toSlogLevel(t *testing.T) {
	tests := []struct {
		level Level
		want  slog.Level
	}{
		{LevelDebug, slog.LevelDebug},
		{LevelInfo, slog.LevelInfo},
		{LevelWarn, slog.LevelWarn},
		{LevelError, slog.LevelError},
		{Level(99), slog.LevelInfo}, // Unknown defaults to Info
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			got := tt.level.toSlogLevel()
			if got != tt.want {
				t.Errorf("Level.toSlogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLevel_Constants(t *testing.T) {
	// Verify ordering: Debug < Info < Warn < Error
	if LevelDebug >= LevelInfo {
		t.Error("LevelDebug should be < LevelInfo")
	}
	if LevelInfo >= LevelWarn {
		t.Error("LevelInfo should be < LevelWarn")
	}
	if LevelWarn >= LevelError {
		t.Error("LevelWarn should be < LevelError")
	}
}

// =============================================================================
// Logger Constructor Tests
// =============================================================================

func TestNew_DefaultConfig(t *testing.T) {
	logger := New(Config{Quiet: true})
	if logger == nil {
		t.Fatal("New() returned nil")
	}
	if logger.slogger == nil {
		t.Error("logger.slogger is nil")
	}
	defer logger.Close()
}

func TestNew_AllLevels(t *testing.T) {
	levels := []Level{LevelDebug, LevelInfo, LevelWarn, LevelError}
	for _, level := range levels {
		t.Run(level.String(), func(t *testing.T) {
			logger := New(Config{Level: level, Quiet: true})
			if logger == nil {
				t.Fatal("New() returned nil")
			}
			defer logger.Close()
		})
	}
}

func TestNew_WithLogDir(t *testing.T) {
	tmpDir := t.TempDir()
	logger := New(Config{
		LogDir:  tmpDir,
		Service: "test",
		Quiet:   true,
	})
	defer logger.Close()

	if logger.file == nil {
		t.Fatal("logger.file is nil when LogDir specified")
	}

	files, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	if len(files) == 0 {
		t.Error("No log file created in LogDir")
	}
	if !strings.HasPrefix(files[0].Name(), "test_") {
		t.Errorf("Log file %q should carry the service prefix", files[0].Name())
	}
}

func TestNew_WithLogDir_DefaultService(t *testing.T) {
	tmpDir := t.TempDir()
	logger := New(Config{LogDir: tmpDir, Quiet: true})
	defer logger.Close()

	files, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	found := false
	for _, f := range files {
		if strings.HasPrefix(f.Name(), "provenance_") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected log file with 'provenance_' prefix")
	}
}

func TestNew_WithLogDir_InvalidPath(t *testing.T) {
	// Setup failure degrades to stderr-only instead of failing startup.
	logger := New(Config{
		LogDir: string([]byte{0}) + "/not/a/path",
		Quiet:  true,
	})
	defer logger.Close()

	if logger.file != nil {
		t.Error("logger.file should be nil for an unusable LogDir")
	}
	logger.Info("still works")
}

func TestDefault(t *testing.T) {
	logger := Default()
	if logger == nil {
		t.Fatal("Default() returned nil")
	}
	if logger.file != nil {
		t.Error("Default() should not open a log file")
	}
}

// =============================================================================
// Output Tests
// =============================================================================

// fileLogger builds a quiet file-backed logger and returns a reader for
// the emitted JSON lines.
func fileLogger(t *testing.T, level Level) (*Logger, func() []map[string]any) {
	t.Helper()
	tmpDir := t.TempDir()
	logger := New(Config{Level: level, LogDir: tmpDir, Service: "test", Quiet: true})
	t.Cleanup(func() { logger.Close() })

	read := func() []map[string]any {
		files, err := os.ReadDir(tmpDir)
		if err != nil || len(files) == 0 {
			t.Fatalf("no log file: %v", err)
		}
		data, err := os.ReadFile(tmpDir + "/" + files[0].Name())
		if err != nil {
			t.Fatalf("read log file: %v", err)
		}
		var entries []map[string]any
		for _, line := range bytes.Split(bytes.TrimSpace(data), []byte("\n")) {
			if len(line) == 0 {
				continue
			}
			var entry map[string]any
			if err := json.Unmarshal(line, &entry); err != nil {
				t.Fatalf("bad JSON line %q: %v", line, err)
			}
			entries = append(entries, entry)
		}
		return entries
	}
	return logger, read
}

func TestLogger_WritesStructuredEntries(t *testing.T) {
	logger, read := fileLogger(t, LevelInfo)

	logger.Info("citation added", "source_id", "D-1")
	logger.Error("load failed", "path", "plans/a.pdf")

	entries := read()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0]["msg"] != "citation added" || entries[0]["source_id"] != "D-1" {
		t.Errorf("unexpected first entry: %v", entries[0])
	}
	if entries[1]["level"] != "ERROR" {
		t.Errorf("unexpected second entry level: %v", entries[1]["level"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, read := fileLogger(t, LevelWarn)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("visible")
	logger.Error("visible")

	entries := read()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (Debug and Info filtered)", len(entries))
	}
}

func TestLogger_With(t *testing.T) {
	logger, read := fileLogger(t, LevelInfo)

	derived := logger.With("request_id", "req-1")
	derived.Info("handled")

	entries := read()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0]["request_id"] != "req-1" {
		t.Errorf("derived logger lost attribute: %v", entries[0])
	}
}

func TestLogger_Slog(t *testing.T) {
	logger := New(Config{Quiet: true})
	defer logger.Close()

	if logger.Slog() == nil {
		t.Fatal("Slog() returned nil")
	}
	if !logger.Slog().Enabled(context.Background(), slog.LevelInfo) {
		// Quiet stderr-only loggers still accept records; they just
		// discard them.
		t.Log("info disabled in quiet mode")
	}
}

func TestLogger_CloseTwice(t *testing.T) {
	tmpDir := t.TempDir()
	logger := New(Config{LogDir: tmpDir, Service: "test", Quiet: true})

	if err := logger.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestMultiHandler_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	handler := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
	}}
	logger := slog.New(handler)

	logger.Info("hello", "k", "v")

	if !strings.Contains(a.String(), "hello") {
		t.Error("text handler missed the record")
	}
	if !strings.Contains(b.String(), `"hello"`) {
		t.Error("JSON handler missed the record")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/logs", home + "/logs"},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
