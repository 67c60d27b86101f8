package api

import "github.com/gofiber/fiber/v2"

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"msg":     msg,
	})
}

func failValidation(c *fiber.Ctx, errs []string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"msg":     "Invalid input",
		"errors":  errs,
	})
}

// serverError logs the underlying cause and answers with the generic
// envelope so internals never leak to clients.
func (h *Handler) serverError(c *fiber.Ctx, err error) error {
	h.logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	return fail(c, fiber.StatusInternalServerError, "Internal server error")
}
