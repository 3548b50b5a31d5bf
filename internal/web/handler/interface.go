package handler

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the JSON shape of every error this API returns.
type ErrorResponse struct {
	Message string `json:"message"`
}

// JSONError sends a JSON error response with the given status code.
func JSONError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{Message: message})
}
