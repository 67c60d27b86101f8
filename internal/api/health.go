package api

import "github.com/gofiber/fiber/v2"

func (h *Handler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"msg":     "CampusHub API is running",
	})
}

// Health reports liveness plus database reachability.
func (h *Handler) Health(c *fiber.Ctx) error {
	if err := h.repo.HealthCheck(c.Context()); err != nil {
		h.logger.Error("health check failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"status":  "degraded",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"status":  "ok",
	})
}
