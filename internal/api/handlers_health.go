package api

import (
	"github.com/gofiber/fiber/v2"
)

// HealthCheck verifies API liveness and that the audit log path is usable.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	if err := s.gate.Audit.Ping(); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"errors": []string{"audit log: " + err.Error()},
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
