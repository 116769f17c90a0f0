package handler

import (
	"context"
	"net/http"

	"github.com/hugorgg/command-ai-nexus/internal/gateway"
	"github.com/hugorgg/command-ai-nexus/internal/model"
	"github.com/hugorgg/command-ai-nexus/internal/stats"
	"github.com/hugorgg/command-ai-nexus/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const notificationFeedSize = 10

type dashboardResponse struct {
	Stats              stats.Snapshot       `json:"stats"`
	Notifications      []model.Notification `json:"notifications"`
	Error              string               `json:"error,omitempty"`
	NotificationsError string               `json:"notifications_error,omitempty"`
}

// Dashboard returns the stats snapshot and the latest notifications. Each half
// fails on its own: stats degrade to zero counters, notifications to an empty
// list, each with its own error message.
func (h *Handler) Dashboard(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	log := logger.FromEcho(c)

	resp := dashboardResponse{Stats: stats.Zero()}
	if snapshot, err := h.stats.Fetch(ctx, id.TenantID); err != nil {
		resp.Error = "could not load dashboard statistics"
	} else {
		resp.Stats = *snapshot
	}

	resp.Notifications, err = h.recentNotifications(ctx, id.TenantID)
	if err != nil {
		log.Error("Failed to load notifications", zap.Error(err))
		resp.Notifications = []model.Notification{}
		resp.NotificationsError = "could not load notifications"
	}
	return c.JSON(http.StatusOK, resp)
}

// ListNotifications returns the newest notifications
func (h *Handler) ListNotifications(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	rows, err := h.recentNotifications(c.Request().Context(), id.TenantID)
	if err != nil {
		logger.FromEcho(c).Error("Failed to load notifications", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "failed to load notifications")
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *Handler) recentNotifications(ctx context.Context, tenantID string) ([]model.Notification, error) {
	rows := []model.Notification{}
	err := h.gw.Select(ctx, tenantID, &rows, gateway.Query{
		OrderBy: "created_at",
		Desc:    true,
		Limit:   notificationFeedSize,
	})
	return rows, err
}
