package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/hugorgg/command-ai-nexus/internal/provision"
	"github.com/hugorgg/command-ai-nexus/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// ProvisionCORS is the CORS policy of the provisioning function
func ProvisionCORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
	})
}

// SetupTenant creates a tenant and seeds its sample data. Any method is
// routed here so that non-POST calls get a 405 with CORS headers.
func (h *Handler) SetupTenant(c echo.Context) (err error) {
	log := logger.FromEcho(c)

	defer func() {
		if r := recover(); r != nil {
			log.Error("Tenant provisioning panicked", zap.Any("panic", r))
			err = c.JSON(http.StatusInternalServerError, echo.Map{
				"error":   "internal server error",
				"details": fmt.Sprint(r),
			})
		}
	}()

	switch c.Request().Method {
	case http.MethodOptions:
		return c.NoContent(http.StatusNoContent)
	case http.MethodPost:
	default:
		return errorJSON(c, http.StatusMethodNotAllowed, "method not allowed")
	}

	var req provision.Request
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}

	result, err := h.provisioner.Provision(c.Request().Context(), req)
	if errors.Is(err, provision.ErrInvalidRequest) {
		log.Warn("Rejected provisioning request", zap.Error(err))
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":   "failed to create tenant",
			"details": err.Error(),
		})
	}

	message := "Tenant created and sample data seeded"
	if failed := result.Failed(); len(failed) > 0 {
		message = "Tenant created; sample data incomplete for: " + strings.Join(failed, ", ")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"tenant_id": result.TenantID,
		"message":   message,
		"steps":     result.Steps,
	})
}
