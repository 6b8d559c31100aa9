package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/estimmo/backend/internal/service"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, estimateSvc *service.EstimateService) {
	handler := NewHandler(estimateSvc)

	// Health check
	app.Get("/health", handler.HealthCheck)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		// Estimation endpoints
		api.Post("/estimate", handler.Estimate)
		api.Post("/estimate/multi", handler.EstimateMulti)

		// Raw source lookups
		api.Get("/cadastre", handler.GetCadastre)
		api.Get("/sales", handler.GetSales)

		// Past estimations
		api.Get("/history", handler.GetHistory)
	}
}
