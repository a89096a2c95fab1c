package handlers

import "github.com/gofiber/fiber/v2"

// Root is the unauthenticated liveness probe.
// @Summary Liveness check
// @Description Plain-text response confirming the server answers GET requests
// @Tags health
// @Produce plain
// @Success 200 {string} string
// @Router / [get]
func Root(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).SendString("Welcome to root URL of Server")
}
