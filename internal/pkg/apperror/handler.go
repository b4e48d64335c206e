package apperror

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/OpenFormsApp/OpenForms/internal/pkg/env"
)

// ErrorHandler is the central fiber error handler. Every failure yields the
// shared envelope with success=false; detail is withheld in production mode.
func ErrorHandler(c *fiber.Ctx, err error) error {
	appErr := Translate(err)

	if appErr.Status >= fiber.StatusInternalServerError {
		log.Printf("[%s %s] %v", c.Method(), c.Path(), err)
	}

	body := fiber.Map{
		"success": false,
		"message": appErr.Message,
	}
	if len(appErr.Errors) > 0 {
		body["errors"] = appErr.Errors
	}
	if env.IsDev() {
		body["error"] = err.Error()
	}

	return c.Status(appErr.Status).JSON(body)
}

// NotFoundHandler answers unmatched routes with the shared envelope.
func NotFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"message": "Route " + c.OriginalURL() + " not found",
	})
}
