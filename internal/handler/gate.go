package handler

import (
	"errors"
	"net/http"

	"github.com/hugorgg/command-ai-nexus/internal/gateway"
	"github.com/hugorgg/command-ai-nexus/internal/plan"
	"github.com/hugorgg/command-ai-nexus/pkg/logger"
	"github.com/hugorgg/command-ai-nexus/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequireCapability loads the caller's tenant on every request and answers 403
// with a locked payload when its tier does not unlock c. The tier is never
// cached so an upgrade takes effect on the next request.
func (h *Handler) RequireCapability(c plan.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id, err := identity(ctx)
			if err != nil {
				return err
			}
			log := logger.FromEcho(ctx)

			tenant, err := h.gw.FindTenant(ctx.Request().Context(), id.TenantID)
			if errors.Is(err, gateway.ErrNotFound) {
				return errorJSON(ctx, http.StatusNotFound, "tenant not found")
			}
			if err != nil {
				log.Error("Failed to load tenant", zap.Error(err))
				return errorJSON(ctx, http.StatusInternalServerError, "failed to load tenant")
			}

			// an unrecognised tier unlocks nothing
			tier, _ := plan.ParseTier(tenant.Tier)
			if !plan.Allows(tier, c) {
				prometheus.RecordFeatureGateDenied(string(c))
				log.Info("Capability locked",
					zap.String("capability", string(c)),
					zap.String("tier", tenant.Tier))
				return ctx.JSON(http.StatusForbidden, echo.Map{
					"error":         "this feature is not available on your plan",
					"locked":        true,
					"tier":          tenant.Tier,
					"required_tier": plan.RequiredTier(c).String(),
				})
			}

			return next(ctx)
		}
	}
}
