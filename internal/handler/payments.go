package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/hugorgg/command-ai-nexus/internal/analytics"
	"github.com/hugorgg/command-ai-nexus/internal/gateway"
	"github.com/hugorgg/command-ai-nexus/internal/model"
	"github.com/hugorgg/command-ai-nexus/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListPayments returns payments newest first. The date filter matches the
// calendar day of received_at in UTC.
func (h *Handler) ListPayments(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	filters := map[string]any{}
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		filters["status"] = status
	}
	var day *time.Time
	if raw := strings.TrimSpace(c.QueryParam("date")); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		day = &d
	}

	rows := []model.Payment{}
	if err := h.gw.Select(c.Request().Context(), id.TenantID, &rows, gateway.Query{
		Filters: filters,
		OrderBy: "received_at",
		Desc:    true,
	}); err != nil {
		logger.FromEcho(c).Error("Failed to list payments", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "failed to list payments")
	}

	if day != nil {
		end := day.AddDate(0, 0, 1)
		matched := make([]model.Payment, 0, len(rows))
		for _, p := range rows {
			if t := p.ReceivedAt.UTC(); !t.Before(*day) && t.Before(end) {
				matched = append(matched, p)
			}
		}
		rows = matched
	}
	return c.JSON(http.StatusOK, rows)
}

// PaymentTotals sums received, pending and overall amounts
func (h *Handler) PaymentTotals(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	var rows []model.Payment
	if err := h.gw.Select(c.Request().Context(), id.TenantID, &rows, gateway.Query{}); err != nil {
		logger.FromEcho(c).Error("Failed to load payments", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "failed to load payments")
	}
	return c.JSON(http.StatusOK, analytics.SumPayments(rows))
}
