package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/listado/marketplace-api/internal/core/domain"
)

// TokenChecker reports whether a token id has been revoked (logout).
type TokenChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Auth validates the JWT, rejects revoked tokens and injects the verified
// identity into context. Role and account id come exclusively from the
// signed claims; nothing client-asserted in the request body or headers is
// ever trusted. When the revocation store cannot be reached the request is
// rejected: a logged-out token must never be admitted on a store outage.
func Auth(jwtSecret string, revoked TokenChecker, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			if revoked != nil {
				if jti, _ := claims["jti"].(string); jti != "" {
					isRevoked, err := revoked.IsRevoked(c.Request().Context(), jti)
					if err != nil {
						log.Error().Err(err).Str("jti", jti).Msg("revocation check failed")
						return echo.NewHTTPError(http.StatusServiceUnavailable, "authorization temporarily unavailable")
					}
					if isRevoked {
						return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
					}
				}
			}

			sub, _ := claims["sub"].(string)
			role, _ := claims["role"].(string)

			c.Set("identity", domain.Identity{ID: sub, Role: domain.Role(role)})
			c.Set("username", claims["username"])
			c.Set("role", role)

			return next(c)
		}
	}
}

// OptionalAuth injects the identity when a bearer token is present and
// passes the request through anonymously otherwise. Used on public read
// endpoints where an authenticated owner or admin may see more than the
// public.
func OptionalAuth(jwtSecret string, revoked TokenChecker, log zerolog.Logger) echo.MiddlewareFunc {
	authed := Auth(jwtSecret, revoked, log)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		withAuth := authed(next)
		return func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") == "" {
				return next(c)
			}
			return withAuth(c)
		}
	}
}
