package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/answerly/scoring-api/internal/config"
	"github.com/answerly/scoring-api/internal/handler"
	"github.com/answerly/scoring-api/internal/middleware"
	"github.com/answerly/scoring-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	EvaluationHandler *handler.EvaluationHandler
	DocumentHandler   *handler.DocumentHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.EvaluationHandler != nil {
		evaluations := api.Group("/evaluations",
			middleware.RateLimit("evaluations", cfg.RateLimitMax, cfg.RateLimitWindow))
		deps.EvaluationHandler.Register(evaluations)

		if deps.DocumentHandler != nil {
			deps.DocumentHandler.Register(evaluations)
		}
	}
}
