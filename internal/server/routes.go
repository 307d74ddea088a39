package server

import (
	"github.com/OFFIS-RIT/newsgraph/internal/server/middleware"
	"github.com/OFFIS-RIT/newsgraph/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, app *middleware.App) {
	e.GET("/health", routes.HealthHandler)

	if app.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(app.Metrics.Handler()))
	}

	e.GET("/subgraph", routes.GetSubgraphHandler, middleware.AuthMiddleware, middleware.RequirePermission(middleware.PermissionGraphRead))
	e.POST("/ingest", routes.CreateIngestJobHandler, middleware.AuthMiddleware, middleware.RequirePermission(middleware.PermissionGraphIngest))
}
