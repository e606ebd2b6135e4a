package api

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func (s *Server) registerRoutes() {
	// Health check.
	s.App.Get("/health", s.HealthCheck)

	api := s.App.Group("/api")

	// Decision endpoint, open to any caller.
	api.Get("/check", s.Check)

	// Admin endpoints, gated on the shared secret.
	api.Get("/config", s.adminRequired, s.GetConfig)
	api.Put("/config", s.adminRequired, s.UpdateConfig)

	users := api.Group("/users", s.adminRequired)
	users.Post("/allow", s.AllowUser)
	users.Post("/deny", s.DenyUser)
	users.Post("/remove", s.RemoveUser)

	api.Get("/logs", s.adminRequired, s.GetLogs)

	// WebSocket audit tail.
	s.App.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.App.Get("/ws/logs", s.adminRequired, websocket.New(s.StreamAuditLog))

	// Anything else is a JSON 404.
	s.App.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not found")
	})
}
