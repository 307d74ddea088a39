package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/OFFIS-RIT/newsgraph/internal/server/middleware"
	"github.com/OFFIS-RIT/newsgraph/pkg/logger"

	"github.com/labstack/echo/v4"
)

func HealthHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App

	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()
	if err := app.Storage.Ping(ctx); err != nil {
		logger.Warn("[Server] Graph store unhealthy", "err", err)
		return c.String(http.StatusServiceUnavailable, "graph store unavailable")
	}

	return c.String(http.StatusOK, "OK")
}
