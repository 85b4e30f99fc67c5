package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	jwtpkg "github.com/fletero/fletero/internal/pkg/jwt"
	"github.com/fletero/fletero/internal/pkg/models"
	"github.com/fletero/fletero/internal/utils"
)

const principalContextKey = "principal"

// JWTAuthMiddleware creates a middleware for JWT authentication
func JWTAuthMiddleware(config models.JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return utils.UnauthorizedResponse(c, "Authorization header is required")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return utils.UnauthorizedResponse(c, "Invalid authorization format")
			}

			claims, err := jwtpkg.ValidateToken(parts[1], config.Secret)
			if err != nil {
				return utils.UnauthorizedResponse(c, "Invalid token")
			}

			c.Set(principalContextKey, models.Principal{ID: claims.UserID, Role: claims.Role})
			c.Set("user_id", claims.UserID)

			return next(c)
		}
	}
}

// PrincipalFromContext returns the authenticated principal set by
// JWTAuthMiddleware.
func PrincipalFromContext(c echo.Context) (models.Principal, bool) {
	p, ok := c.Get(principalContextKey).(models.Principal)
	return p, ok
}
