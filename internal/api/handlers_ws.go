package api

import (
	"encoding/json"
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/helmcode/skillgate/internal/audit"
)

// StreamAuditLog streams newly appended audit records via WebSocket.
// It polls the log and pushes records the client has not seen yet, in
// chronological order.
func (s *Server) StreamAuditLog(c *websocket.Conn) {
	defer c.Close()

	seen := make(map[string]struct{})

	// Prime the seen set with the current tail so the client only
	// receives records appended after it connected.
	for _, rec := range s.gate.Audit.Recent(audit.MaxRecent) {
		seen[rec.ID] = struct{}{}
	}

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	// Also listen for close messages from client.
	done := make(chan struct{})
	go func() {
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				close(done)
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			recent := s.gate.Audit.Recent(audit.MaxRecent)
			// Recent is newest-first; walk backwards to send in
			// chronological order.
			for i := len(recent) - 1; i >= 0; i-- {
				rec := recent[i]
				if _, ok := seen[rec.ID]; ok {
					continue
				}
				data, err := json.Marshal(rec)
				if err != nil {
					continue
				}
				if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
					return
				}
				seen[rec.ID] = struct{}{}
			}
		}
	}
}
