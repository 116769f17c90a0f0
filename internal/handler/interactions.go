package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/hugorgg/command-ai-nexus/internal/analytics"
	"github.com/hugorgg/command-ai-nexus/internal/feed"
	"github.com/hugorgg/command-ai-nexus/internal/gateway"
	"github.com/hugorgg/command-ai-nexus/internal/model"
	"github.com/hugorgg/command-ai-nexus/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type interactionRequest struct {
	CustomerName string  `json:"customer_name" validate:"required"`
	Channel      *string `json:"channel" validate:"omitempty,oneof=WhatsApp Telegram Instagram"`
	Status       string  `json:"status" validate:"omitempty,oneof=New 'In Progress' Completed"`
	Description  string  `json:"description"`
}

type interactionSummary struct {
	Statuses analytics.StatusCounts     `json:"statuses"`
	Channels []analytics.CategoryBucket `json:"channels"`
}

func interactionFilters(c echo.Context) map[string]any {
	filters := map[string]any{}
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		filters["status"] = status
	}
	if channel := strings.TrimSpace(c.QueryParam("channel")); channel != "" {
		filters["channel"] = channel
	}
	return filters
}

func (h *Handler) loadInteractions(ctx context.Context, tenantID string, filters map[string]any) ([]model.Interaction, error) {
	rows := []model.Interaction{}
	err := h.gw.Select(ctx, tenantID, &rows, gateway.Query{
		Filters: filters,
		OrderBy: "created_at",
		Desc:    true,
	})
	return rows, err
}

// ListInteractions returns the newest interactions first, optionally filtered
// by status and channel
func (h *Handler) ListInteractions(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	rows, err := h.loadInteractions(c.Request().Context(), id.TenantID, interactionFilters(c))
	if err != nil {
		logger.FromEcho(c).Error("Failed to list interactions", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "failed to list interactions")
	}
	return c.JSON(http.StatusOK, rows)
}

// CreateInteraction records a customer conversation
func (h *Handler) CreateInteraction(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req interactionRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	interaction := model.Interaction{
		TenantID:     id.TenantID,
		CustomerName: strings.TrimSpace(req.CustomerName),
		Channel:      req.Channel,
		Status:       req.Status,
		Description:  req.Description,
	}

	ctx := c.Request().Context()
	if err := h.gw.Insert(ctx, &interaction); err != nil {
		logger.FromEcho(c).Error("Failed to create interaction", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "failed to create interaction")
	}
	h.stats.Invalidate(ctx, id.TenantID)
	return c.JSON(http.StatusCreated, interaction)
}

// InteractionSummary counts interactions by status and by channel
func (h *Handler) InteractionSummary(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	rows, err := h.loadInteractions(c.Request().Context(), id.TenantID, nil)
	if err != nil {
		logger.FromEcho(c).Error("Failed to summarise interactions", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "failed to load interactions")
	}
	return c.JSON(http.StatusOK, interactionSummary{
		Statuses: analytics.CountInteractionStatuses(rows),
		Channels: analytics.InteractionsByChannel(rows),
	})
}

// StreamInteractions pushes the tenant's full interaction list over a
// websocket, refreshed every poll interval, until the client disconnects
func (h *Handler) StreamInteractions(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	filters := interactionFilters(c)

	fetch := func(ctx context.Context) ([]model.Interaction, error) {
		return h.loadInteractions(ctx, id.TenantID, filters)
	}
	return feed.Serve(c.Response(), c.Request(), fetch, h.pollInterval, logger.FromEcho(c))
}
