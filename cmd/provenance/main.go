// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command provenance starts the Aleutian Provenance API server.
//
// Aleutian Provenance is the citation and evidence registry behind
// AI-generated construction analyses:
//   - Content views, one per generated analysis, each owning its
//     citation collection
//   - Deterministic human-legible source IDs (D-1, OBC 3.4, PH-2)
//   - Pillar linking for claim-coverage auditing
//   - Single-slot proof sessions with a live WebSocket event stream
//
// Usage:
//
//	go run ./cmd/provenance
//	go run ./cmd/provenance -port 9090 -debug
//
// Example requests:
//
//	# Health check
//	curl http://localhost:8080/v1/provenance/health
//
//	# Create a content view
//	curl -X POST http://localhost:8080/v1/provenance/views
//
//	# Add a citation
//	curl -X POST http://localhost:8080/v1/provenance/views/{id}/citations \
//	  -H "Content-Type: application/json" \
//	  -d '{"document_name": "Ontario Building Code", "document_type": "regulation",
//	       "context_snippet": "Section 3.4 requires...", "seed_hint": "3.4"}'
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianProvenance/pkg/logging"
	"github.com/AleutianAI/AleutianProvenance/services/provenance"
)

func main() {
	port := flag.Int("port", 8080, "Port to listen on")
	debug := flag.Bool("debug", false, "Enable debug mode")
	logDir := flag.String("log-dir", "", "Directory for JSON log files (stderr only if empty)")
	flag.Parse()

	level := logging.LevelInfo
	if *debug {
		level = logging.LevelDebug
	}
	logger := logging.New(logging.Config{
		Level:   level,
		LogDir:  *logDir,
		Service: "provenance",
	})
	defer logger.Close()
	slog.SetDefault(logger.Slog())

	// Set Gin mode
	if *debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create service with default config
	cfg := provenance.DefaultServiceConfig()
	cfg.Logger = logger.Slog()
	svc := provenance.NewService(cfg)

	// Create handlers
	handlers := provenance.NewHandlers(svc)

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())
	if *debug {
		router.Use(gin.Logger())
	}

	// Register routes under /v1/provenance
	v1 := router.Group("/v1")
	provenance.RegisterRoutes(v1, handlers)

	// Print startup banner
	printBanner(*port)

	// Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		slog.Info("Shutting down Aleutian Provenance server")
		os.Exit(0)
	}()

	// Start server
	addr := fmt.Sprintf(":%d", *port)
	slog.Info("Starting Aleutian Provenance server", slog.String("address", addr))
	if err := router.Run(addr); err != nil {
		slog.Error("Failed to start server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func printBanner(port int) {
	banner := `
╔═══════════════════════════════════════════════════════════════════╗
║                   ALEUTIAN PROVENANCE SERVER                      ║
╠═══════════════════════════════════════════════════════════════════╣
║                                                                   ║
║  Citation and evidence registry for generated analyses.           ║
║                                                                   ║
║  Quick Start:                                                     ║
║  ┌─────────────────────────────────────────────────────────────┐  ║
║  │ # Health check                                              │  ║
║  │ curl http://localhost:%d/v1/provenance/health             │  ║
║  │                                                             │  ║
║  │ # Create a content view                                     │  ║
║  │ curl -X POST http://localhost:%d/v1/provenance/views      │  ║
║  │                                                             │  ║
║  │ # Add a citation                                            │  ║
║  │ curl -X POST \                                              │  ║
║  │   http://localhost:%d/v1/provenance/views/{id}/citations  │  ║
║  └─────────────────────────────────────────────────────────────┘  ║
║                                                                   ║
║  Endpoints:                                                       ║
║  ├── Views: POST /views, GET|DELETE /views/:id                   ║
║  ├── Citations: /citations, /citations/grouped, /link, /unlink   ║
║  ├── Export: /copy, /coverage                                    ║
║  └── Proof: /proof, /proof/open, /proof/close, /proof/ws         ║
║                                                                   ║
║  Press Ctrl+C to stop                                             ║
╚═══════════════════════════════════════════════════════════════════╝
`
	fmt.Printf(banner, port, port, port)
}
