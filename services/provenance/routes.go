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

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the provenance endpoints on the given
// router group.
//
// Routes are mounted under /provenance relative to rg, typically
// yielding /v1/provenance/*.
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	prov := rg.Group("/provenance")
	{
		prov.GET("/health", handlers.HandleHealth)
		prov.GET("/ready", handlers.HandleReady)

		views := prov.Group("/views")
		{
			views.POST("", handlers.HandleCreateView)
			views.GET("/:id", handlers.HandleGetView)
			views.DELETE("/:id", handlers.HandleDeleteView)

			views.POST("/:id/citations", handlers.HandleAddCitation)
			views.GET("/:id/citations", handlers.HandleListCitations)
			views.GET("/:id/citations/grouped", handlers.HandleGroupedCitations)
			views.POST("/:id/citations/:cid/link", handlers.HandleLinkPillar)
			views.POST("/:id/citations/:cid/unlink", handlers.HandleUnlinkPillar)

			views.GET("/:id/coverage", handlers.HandleCoverage)
			views.POST("/:id/copy", handlers.HandleCopy)

			views.GET("/:id/proof", handlers.HandleProofState)
			views.POST("/:id/proof/open", handlers.HandleProofOpen)
			views.POST("/:id/proof/close", handlers.HandleProofClose)
			views.GET("/:id/proof/ws", handlers.HandleProofSocket)
		}
	}
}
