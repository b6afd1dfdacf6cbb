package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/listado/marketplace-api/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// performs a fast-fail check before any service call: an empty id or role
// means the middleware never ran, or the token carried no usable claims.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	identity, _ := c.Get("identity").(domain.Identity)
	if identity.ID == "" || identity.Role == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return identity, nil
}

// ctxOptionalIdentity returns the identity when present and the zero value
// otherwise. Public read endpoints use this to widen visibility for owners
// and admins without requiring a session.
func ctxOptionalIdentity(c echo.Context) domain.Identity {
	identity, _ := c.Get("identity").(domain.Identity)
	return identity
}
