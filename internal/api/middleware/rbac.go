package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/listado/marketplace-api/internal/core/domain"
)

// RBAC is a coarse route gate on the session role. Fine-grained decisions
// (ownership, state transitions) stay in the service layer; this only keeps
// obviously unauthorized roles away from whole route groups.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, _ := c.Get("identity").(domain.Identity)
			if _, ok := allowed[identity.Role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
