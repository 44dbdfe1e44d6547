package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/lukajvnic/Avocado/internal/handler"
	"github.com/lukajvnic/Avocado/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Check   *handler.CheckHandler
	History *handler.HistoryHandler
	Stats   *handler.StatsHandler
	Health  *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(corsOrigins))
	app.Use(handler.MetricsMiddleware())

	// Probes and metrics sit outside the API group
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	api := app.Group("/api/v1")

	api.Get("/health", h.Health.Health)
	api.Post("/check", h.Check.Check, middleware.NewCheckRateLimiter().Handler())
	api.Get("/history", h.History.List, middleware.NewHistoryRateLimiter().Handler())
	api.Get("/stats", h.Stats.GetStats, middleware.NewStatsRateLimiter().Handler())
}
