package http

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Healthz returns HTTP 200 once the process is up, regardless of readiness.
func Healthz(c *fiber.Ctx) error {
	return c.SendString("healthy")
}

// Version returns HTTP 200 with the running build's version.
func Version(version string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"version":     version,
			"buildNumber": os.Getenv("BUILD_NUMBER"),
			"requestDate": time.Now().UTC(),
		})
	}
}

// Welcome returns HTTP 200 with service info.
func Welcome(service string, description string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service":     service,
			"description": description,
		})
	}
}
