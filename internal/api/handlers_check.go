package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helmcode/skillgate/internal/gate"
)

// Check runs the permission decision for a userId and records the
// outcome. The userId string is attacker-influenceable and treated as
// an opaque label; no identity verification happens here.
func (s *Server) Check(c *fiber.Ctx) error {
	userID := c.Query("userId")
	if userID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "userId query parameter is required")
	}

	res := s.gate.Check(userID, c.Query("skill"), gate.SurfaceHTTP)
	return c.JSON(res)
}
