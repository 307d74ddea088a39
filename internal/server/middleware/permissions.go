package middleware

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
)

const (
	PermissionGraphRead   = "graph.read"
	PermissionGraphIngest = "graph.ingest"
)

var allPermissions = []string{
	PermissionGraphRead,
	PermissionGraphIngest,
}

// HasPermission reports whether user was granted permission. Admins without
// explicit permissions hold all of them.
func HasPermission(user *AppUser, permission string) bool {
	if user == nil {
		return false
	}
	if user.Role == "admin" && len(user.Permissions) == 0 {
		return true
	}
	return slices.Contains(user.Permissions, permission)
}

// RequirePermission must run after AuthMiddleware.
func RequirePermission(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := c.(*AppContext).User
			if user == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			}
			if !HasPermission(user, permission) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "missing permission " + permission})
			}
			return next(c)
		}
	}
}
