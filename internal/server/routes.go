package server

import (
	"github.com/labstack/echo/v4"

	"multirag/internal/server/middleware"
	"multirag/internal/server/routes"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.APIKeyMiddleware)

	apiRoutes.POST("/ingest", routes.IngestHandler)
	apiRoutes.POST("/query", routes.QueryHandler)
}
