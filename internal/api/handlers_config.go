package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helmcode/skillgate/internal/policy"
)

// GetConfig returns the current mutable policy fields.
func (s *Server) GetConfig(c *fiber.Ctx) error {
	return c.JSON(configResponse(s.gate.Store.Snapshot()))
}

// UpdateConfig applies a partial policy update. Fields absent from the
// body are left untouched; a malformed body leaves the policy unmodified.
func (s *Server) UpdateConfig(c *fiber.Ctx) error {
	var u policy.Update
	if err := c.BodyParser(&u); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid JSON")
	}

	if u.DefaultPolicy != nil && *u.DefaultPolicy != policy.PolicyAllow && *u.DefaultPolicy != policy.PolicyDeny {
		return fiber.NewError(fiber.StatusBadRequest, `defaultPolicy must be "allow" or "deny"`)
	}

	return c.JSON(configResponse(s.gate.Store.ApplyUpdate(u)))
}
