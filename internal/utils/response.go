package utils

import "github.com/gofiber/fiber/v2"

// APIError is the single error envelope exposed to clients. Every failure
// kind collapses to one message plus the HTTP status.
type APIError struct {
	Error string `json:"error"`
}

// SendJSON sends a success payload at the top level of the response body.
func SendJSON(c *fiber.Ctx, status int, payload interface{}) error {
	if status == 0 {
		status = fiber.StatusOK
	}

	return c.Status(status).JSON(payload)
}

// SendError sends an error JSON response with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(APIError{Error: message})
}
