package routes

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/OFFIS-RIT/newsgraph/internal/server/middleware"
	"github.com/OFFIS-RIT/newsgraph/pkg/logger"
	"github.com/OFFIS-RIT/newsgraph/pkg/store"

	"github.com/labstack/echo/v4"
)

// GetSubgraphHandler returns the neighbourhood of ?entity= up to ?depth= hops.
func GetSubgraphHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App

	entity := strings.TrimSpace(c.QueryParam("entity"))
	if entity == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "entity is required"})
	}

	depth := store.DefaultSubgraphDepth
	if app.MaxSubgraphDepth > 0 {
		depth = min(depth, app.MaxSubgraphDepth)
	}
	if raw := strings.TrimSpace(c.QueryParam("depth")); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": store.ErrInvalidDepth.Error()})
		}
		depth = d
	}
	if app.MaxSubgraphDepth > 0 && depth > app.MaxSubgraphDepth {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("depth must not exceed %d", app.MaxSubgraphDepth),
		})
	}

	sg, err := app.Storage.GetSubgraph(c.Request().Context(), entity, depth)
	if err != nil {
		if errors.Is(err, store.ErrInvalidDepth) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": store.ErrInvalidDepth.Error()})
		}
		logger.Error("[Server] Failed to get subgraph", "entity", entity, "depth", depth, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to retrieve subgraph"})
	}

	return c.JSON(http.StatusOK, sg)
}
