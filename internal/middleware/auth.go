// Package middleware holds the echo middlewares shared by the dashboard routes.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/hugorgg/command-ai-nexus/internal/session"
	"github.com/hugorgg/command-ai-nexus/pkg/jwtutil"
	"github.com/hugorgg/command-ai-nexus/pkg/logger"
	"github.com/hugorgg/command-ai-nexus/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TokenValidator parses a bearer token into claims
type TokenValidator interface {
	ValidateToken(token string) (*jwtutil.UserClaims, error)
}

// Auth validates the bearer token and stores the caller's identity in the
// request context. The request logger is enriched with the tenant id.
func Auth(validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				// browsers cannot set headers on websocket upgrades
				if token := c.QueryParam("access_token"); token != "" && c.IsWebSocket() {
					authHeader = "Bearer " + token
				}
			}
			if authHeader == "" {
				log.Warn("Missing Authorization header")
				prometheus.RecordAuthError("missing")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				log.Warn("Invalid Authorization header format")
				prometheus.RecordAuthError("format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			claims, err := validator.ValidateToken(parts[1])
			if errors.Is(err, jwtutil.ErrMissingTenant) {
				log.Warn("JWT token does not contain tenant_id")
				prometheus.RecordAuthError("no_tenant")
				return c.JSON(http.StatusForbidden, echo.Map{"error": "no tenant is associated with this user"})
			}
			if err != nil {
				log.Warn("Invalid JWT token", zap.Error(err))
				prometheus.RecordAuthError("invalid")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			id := session.Identity{
				UserID:   claims.UserID,
				Email:    claims.Email,
				TenantID: claims.TenantID,
				Role:     claims.Role,
			}
			req := c.Request()
			c.SetRequest(req.WithContext(session.WithIdentity(req.Context(), id)))
			logger.SetEcho(c, log.With(
				zap.String("tenant_id", id.TenantID),
				zap.String("user_id", id.UserID),
			))

			return next(c)
		}
	}
}
