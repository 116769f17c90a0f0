package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/hugorgg/command-ai-nexus/internal/gateway"
	"github.com/hugorgg/command-ai-nexus/internal/model"
	"github.com/hugorgg/command-ai-nexus/internal/plan"
	"github.com/hugorgg/command-ai-nexus/internal/schedule"
	"github.com/hugorgg/command-ai-nexus/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type settingsResponse struct {
	Tenant       *model.Tenant            `json:"tenant"`
	Capabilities map[plan.Capability]bool `json:"capabilities"`
	Tiers        []string                 `json:"tiers"`
}

type tenantUpdateRequest struct {
	Name *string `json:"name"`
	Tier *string `json:"tier"`
}

type serviceRequest struct {
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price"`
}

type scheduleRequest struct {
	Slots []schedule.SlotInput `json:"slots" validate:"required,dive"`
}

type paymentLinksRequest struct {
	GenericLink string `json:"generic_link" validate:"omitempty,url"`
	PixLink     string `json:"pix_link" validate:"omitempty,url"`
	CardLink    string `json:"card_link" validate:"omitempty,url"`
}

type voiceToneRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// GetSettings returns the tenant with the capabilities its tier unlocks
func (h *Handler) GetSettings(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	tenant, err := h.gw.FindTenant(c.Request().Context(), id.TenantID)
	if errors.Is(err, gateway.ErrNotFound) {
		return errorJSON(c, http.StatusNotFound, "tenant not found")
	}
	if err != nil {
		logger.FromEcho(c).Error("Failed to load tenant", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "failed to load tenant")
	}

	tier, _ := plan.ParseTier(tenant.Tier)
	return c.JSON(http.StatusOK, settingsResponse{
		Tenant:       tenant,
		Capabilities: plan.Capabilities(tier),
		Tiers:        plan.Names(),
	})
}

// UpdateTenant renames the tenant and/or changes its tier
func (h *Handler) UpdateTenant(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req tenantUpdateRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return errorJSON(c, http.StatusBadRequest, "name must not be empty")
		}
		updates["name"] = name
	}
	if req.Tier != nil {
		tier, err := plan.ParseTier(*req.Tier)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, err.Error())
		}
		updates["tier"] = tier.String()
	}
	if len(updates) == 0 {
		return errorJSON(c, http.StatusBadRequest, "nothing to update")
	}

	log := logger.FromEcho(c)
	ctx := c.Request().Context()
	err = h.gw.UpdateTenant(ctx, id.TenantID, updates)
	if errors.Is(err, gateway.ErrNotFound) {
		return errorJSON(c, http.StatusNotFound, "tenant not found")
	}
	if err != nil {
		log.Error("Failed to update tenant", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "failed to update tenant")
	}
	log.Info("Tenant updated", zap.Any("fields", updates))

	tenant, err := h.gw.FindTenant(ctx, id.TenantID)
	if err != nil {
		log.Error("Failed to reload tenant", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "failed to load tenant")
	}
	return c.JSON(http.StatusOK, tenant)
}

// ListServices returns the tenant's service catalog
func (h *Handler) ListServices(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	rows := []model.Service{}
	if err := h.gw.Select(c.Request().Context(), id.TenantID, &rows, gateway.Query{OrderBy: "name"}); err != nil {
		logger.FromEcho(c).Error("Failed to list services", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "failed to list services")
	}
	return c.JSON(http.StatusOK, rows)
}

// CreateService adds an entry to the service catalog
func (h *Handler) CreateService(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req serviceRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	if req.Price.IsNegative() {
		return errorJSON(c, http.StatusBadRequest, "price must not be negative")
	}

	service := model.Service{
		TenantID: id.TenantID,
		Name:     strings.TrimSpace(req.Name),
		Price:    req.Price,
	}
	if err := h.gw.Insert(c.Request().Context(), &service); err != nil {
		logger.FromEcho(c).Error("Failed to create service", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "failed to create service")
	}
	return c.JSON(http.StatusCreated, service)
}

// DeleteService removes a catalog entry
func (h *Handler) DeleteService(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	serviceID := c.Param("id")
	if _, err := uuid.Parse(serviceID); err != nil {
		return errorJSON(c, http.StatusNotFound, "service not found")
	}

	n, err := h.gw.DeleteWhere(c.Request().Context(), id.TenantID, &model.Service{}, map[string]any{"id": serviceID})
	if err != nil {
		logger.FromEcho(c).Error("Failed to delete service", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "failed to delete service")
	}
	if n == 0 {
		return errorJSON(c, http.StatusNotFound, "service not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// GetSchedule returns all seven weekdays, filling gaps with the default hours
func (h *Handler) GetSchedule(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	var stored []model.ScheduleSlot
	if err := h.gw.Select(c.Request().Context(), id.TenantID, &stored, gateway.Query{}); err != nil {
		logger.FromEcho(c).Error("Failed to load schedule", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "failed to load schedule")
	}
	return c.JSON(http.StatusOK, schedule.Merge(id.TenantID, stored))
}

// SaveSchedule replaces the tenant's week in one transaction
func (h *Handler) SaveSchedule(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req scheduleRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	slots, err := schedule.Build(id.TenantID, req.Slots)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	if err := h.gw.ReplaceAll(c.Request().Context(), id.TenantID, &model.ScheduleSlot{}, slots); err != nil {
		logger.FromEcho(c).Error("Failed to save schedule", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "failed to save schedule")
	}
	return c.JSON(http.StatusOK, schedule.Merge(id.TenantID, slots))
}

// GetPaymentLinks returns the tenant's links, or an empty object
func (h *Handler) GetPaymentLinks(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	var rows []model.PaymentLinkSet
	if err := h.gw.Select(c.Request().Context(), id.TenantID, &rows, gateway.Query{Limit: 1}); err != nil {
		logger.FromEcho(c).Error("Failed to load payment links", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "failed to load payment links")
	}
	if len(rows) == 0 {
		return c.JSON(http.StatusOK, echo.Map{})
	}
	return c.JSON(http.StatusOK, rows[0])
}

// SavePaymentLinks upserts the tenant's links
func (h *Handler) SavePaymentLinks(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req paymentLinksRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	links := model.PaymentLinkSet{
		TenantID:    id.TenantID,
		GenericLink: req.GenericLink,
		PixLink:     req.PixLink,
		CardLink:    req.CardLink,
	}
	ctx := c.Request().Context()
	if err := h.gw.UpsertByTenant(ctx, &links, "generic_link", "pix_link", "card_link"); err != nil {
		logger.FromEcho(c).Error("Failed to save payment links", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "failed to save payment links")
	}

	// on conflict the insert's generated id is not the stored one
	var saved []model.PaymentLinkSet
	if err := h.gw.Select(ctx, id.TenantID, &saved, gateway.Query{Limit: 1}); err != nil || len(saved) == 0 {
		logger.FromEcho(c).Error("Failed to reload payment links", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "failed to save payment links")
	}
	return c.JSON(http.StatusOK, saved[0])
}

// GetVoiceTone returns the agent prompt, or an empty object
func (h *Handler) GetVoiceTone(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	var rows []model.VoiceTone
	if err := h.gw.Select(c.Request().Context(), id.TenantID, &rows, gateway.Query{Limit: 1}); err != nil {
		logger.FromEcho(c).Error("Failed to load voice tone", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "failed to load voice tone")
	}
	if len(rows) == 0 {
		return c.JSON(http.StatusOK, echo.Map{})
	}
	return c.JSON(http.StatusOK, rows[0])
}

// SaveVoiceTone upserts the prompt the AI agent answers customers with
func (h *Handler) SaveVoiceTone(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req voiceToneRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return errorJSON(c, http.StatusBadRequest, "prompt must not be empty")
	}

	tone := model.VoiceTone{TenantID: id.TenantID, Prompt: prompt}
	ctx := c.Request().Context()
	if err := h.gw.UpsertByTenant(ctx, &tone, "prompt"); err != nil {
		logger.FromEcho(c).Error("Failed to save voice tone", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "failed to save voice tone")
	}

	var saved []model.VoiceTone
	if err := h.gw.Select(ctx, id.TenantID, &saved, gateway.Query{Limit: 1}); err != nil || len(saved) == 0 {
		logger.FromEcho(c).Error("Failed to reload voice tone", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "failed to save voice tone")
	}

	// the agent reads the prompt from the table; nothing is pushed to it
	logger.FromEcho(c).Info("Voice tone updated", zap.Int("prompt_length", len(prompt)))
	return c.JSON(http.StatusOK, saved[0])
}
