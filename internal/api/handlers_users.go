package api

import (
	"github.com/gofiber/fiber/v2"
)

// AllowUser moves a user onto the allowlist (removing any denylist
// entry) and returns the updated config.
func (s *Server) AllowUser(c *fiber.Ctx) error {
	req, err := s.parseUserRequest(c)
	if err != nil {
		return err
	}
	return c.JSON(configResponse(s.gate.Store.AllowUser(req.UserID)))
}

// DenyUser moves a user onto the denylist (removing any allowlist
// entry) and returns the updated config.
func (s *Server) DenyUser(c *fiber.Ctx) error {
	req, err := s.parseUserRequest(c)
	if err != nil {
		return err
	}
	return c.JSON(configResponse(s.gate.Store.DenyUser(req.UserID)))
}

// RemoveUser drops a user from both lists and returns the updated config.
func (s *Server) RemoveUser(c *fiber.Ctx) error {
	req, err := s.parseUserRequest(c)
	if err != nil {
		return err
	}
	return c.JSON(configResponse(s.gate.Store.RemoveUser(req.UserID)))
}

func (s *Server) parseUserRequest(c *fiber.Ctx) (UserRequest, error) {
	var req UserRequest
	if err := c.BodyParser(&req); err != nil {
		return req, fiber.NewError(fiber.StatusBadRequest, "Invalid JSON")
	}
	if req.UserID == "" {
		return req, fiber.NewError(fiber.StatusBadRequest, "userId is required")
	}
	return req, nil
}
