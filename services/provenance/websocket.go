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
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/AleutianAI/AleutianProvenance/services/provenance/proof"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  4 * 1024,
	WriteBufferSize: 4 * 1024,
}

// proofSocketMessage is one frame on the proof event stream.
type proofSocketMessage struct {
	// Action distinguishes the initial snapshot from live transitions.
	Action string `json:"action"`

	// Event carries the session transition for action "proof_event".
	Event *proof.Event `json:"event,omitempty"`

	// State carries the snapshot for action "proof_state".
	State *ProofStateResponse `json:"state,omitempty"`
}

// HandleProofSocket handles GET /v1/provenance/views/:id/proof/ws.
//
// Description:
//
//	Upgrades to a WebSocket and streams the view's proof session
//	transitions (opened, closed, cleared) as JSON frames. The current
//	state is sent as an initial snapshot so late subscribers don't
//	miss an already-open proof. The read side only detects client
//	disconnect; proof control stays on the POST endpoints.
//
// Response:
//
//	101 Switching Protocols, then proofSocketMessage frames
//	404 Not Found: Unknown view
func (h *Handlers) HandleProofSocket(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleProofSocket")

	view, err := h.svc.GetView(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("Failed to upgrade websocket", "error", err)
		return
	}
	defer ws.Close()
	logger.Info("Proof socket connected", "view_id", view.ID)

	// Buffered so subscriber callbacks never block the session's
	// mutating goroutine; a stalled client drops frames instead.
	events := make(chan proof.Event, 16)
	token := view.Session.Subscribe(func(ev proof.Event) {
		select {
		case events <- ev:
		default:
		}
	})
	defer view.Session.Unsubscribe(token)

	snapshot := ProofStateResponse{
		Open:    view.Session.IsOpen(),
		Current: view.Session.Current(),
	}
	if err := ws.WriteJSON(proofSocketMessage{Action: "proof_state", State: &snapshot}); err != nil {
		logger.Warn("Failed to write initial proof state", "error", err)
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev := <-events:
			if err := ws.WriteJSON(proofSocketMessage{Action: "proof_event", Event: &ev}); err != nil {
				logger.Info("Proof socket client disconnected", "view_id", view.ID)
				return
			}
		case <-done:
			logger.Info("Proof socket closed by client", "view_id", view.ID)
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
