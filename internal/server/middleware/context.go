package middleware

import (
	"github.com/OFFIS-RIT/newsgraph/internal/queue"
	"github.com/OFFIS-RIT/newsgraph/pkg/metrics"
	"github.com/OFFIS-RIT/newsgraph/pkg/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type AppUser struct {
	Subject     string
	Role        string
	Permissions []string
}

// App carries the shared clients handed to every request. Queue, KeyFunc
// and Metrics are optional.
type App struct {
	Storage          store.GraphStorage
	Queue            queue.Publisher
	KeyFunc          jwt.Keyfunc
	Metrics          *metrics.Registry
	MasterAPIKey     string
	MaxSubgraphDepth int
}

// AuthEnabled reports whether requests must carry a bearer token.
func (a *App) AuthEnabled() bool {
	return a.KeyFunc != nil || a.MasterAPIKey != ""
}

type AppContext struct {
	echo.Context
	App  *App
	User *AppUser
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app, nil}
			return next(cc)
		}
	}
}
