// Copyright 2024 The Sentinel Authors
// This file is part of the Sentinel bytecode analyzer.
//
// Sentinel is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Sentinel is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Sentinel. If not, see <http://www.gnu.org/licenses/>.

package sentinelapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// wsUpgrader permits any origin, matching the façade's permissive REST CORS
// policy (sentinelconfig.Config.CORSOrigins defaults to "*"); browsers
// enforce the Origin check, not this server, for a publicly reachable
// analysis endpoint.
var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// wsRequest is one inbound frame on /ws/analyze: a bytecode string to
// analyze, echoed back as a sequence of wsProgressFrame frames followed by
// an analyzeResponse (or errorResponse) frame.
type wsRequest struct {
	Bytecode string `json:"bytecode"`
}

// wsProgressFrame reports that the pipeline has started a given stage, so a
// client streaming a large batch of contracts can show liveness while a
// single analysis is still running.
type wsProgressFrame struct {
	Stage string `json:"stage"`
}

// wsConn serializes writes to a *websocket.Conn: gorilla/websocket permits
// at most one concurrent writer, but both the read loop (progress frames,
// results) and pingLoop write to the same connection.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return c.conn.WriteJSON(v)
}

func (c *wsConn) writeMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return c.conn.WriteMessage(messageType, data)
}

// handleAnalyzeWS upgrades the connection and analyzes one bytecode string
// per inbound text frame, so a client can stream many contracts over a
// single connection instead of opening a POST /analyze request each time.
// Each analysis that isn't already cached streams a wsProgressFrame per
// pipeline stage before the final result frame.
func (s *Server) handleAnalyzeWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	l := loggerFromContext(r.Context())

	raw, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		l.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer raw.Close()
	conn := &wsConn{conn: raw}

	stop := make(chan struct{})
	go s.pingLoop(conn, stop)
	defer close(stop)

	for {
		var req wsRequest
		if err := raw.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				l.Debug("websocket read error", "error", err)
			}
			return
		}

		resp, err := s.analyzeHexStaged(req.Bytecode, func(stage string) {
			_ = conn.writeJSON(wsProgressFrame{Stage: stage})
		})
		if err != nil {
			if writeErr := conn.writeJSON(errorResponse{Error: "analysis failed", Details: err.Error()}); writeErr != nil {
				return
			}
			continue
		}
		if writeErr := conn.writeJSON(resp); writeErr != nil {
			return
		}
	}
}

// pingLoop keeps the connection alive across idle periods by sending a ping
// every wsPingInterval until stop is closed or a ping fails to write.
func (s *Server) pingLoop(conn *wsConn, stop <-chan struct{}) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := conn.writeMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
