package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helmcode/skillgate/internal/audit"
)

// GetLogs returns the most recent audit records, newest first.
func (s *Server) GetLogs(c *fiber.Ctx) error {
	recs := s.gate.Audit.Recent(audit.MaxRecent)
	if recs == nil {
		recs = []audit.Record{}
	}
	return c.JSON(LogsResponse{Logs: recs, Count: len(recs)})
}
