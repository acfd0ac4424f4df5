package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/redpen-labs/redpen-api/internal/config"
	"github.com/redpen-labs/redpen-api/internal/handler"
	"github.com/redpen-labs/redpen-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AnalyzeHandler   *handler.AnalyzeHandler
	EssayHandler     *handler.EssayHandler
	DirectoryHandler *handler.DirectoryHandler
	ImportHandler    *handler.ImportHandler
	JWTMiddleware    fiber.Handler
	AnalyzeRateLimit fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.DirectoryHandler != nil {
		directory := api.Group("/directory", jwtMiddleware)
		deps.DirectoryHandler.Register(directory)
	}

	if deps.AnalyzeHandler != nil {
		analyze := api.Group("/analyze", jwtMiddleware)
		if deps.AnalyzeRateLimit != nil {
			analyze.Use(deps.AnalyzeRateLimit)
		}
		deps.AnalyzeHandler.Register(analyze)
	}

	if deps.EssayHandler != nil {
		essays := api.Group("/essays", jwtMiddleware)
		deps.EssayHandler.Register(essays)
	}

	if deps.ImportHandler != nil {
		imports := api.Group("/import", jwtMiddleware)
		deps.ImportHandler.Register(imports)
	}
}
