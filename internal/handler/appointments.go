package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugorgg/command-ai-nexus/internal/gateway"
	"github.com/hugorgg/command-ai-nexus/internal/model"
	"github.com/hugorgg/command-ai-nexus/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const dateLayout = "2006-01-02"

type appointmentRequest struct {
	CustomerName string           `json:"customer_name" validate:"required"`
	Phone        string           `json:"phone"`
	Service      string           `json:"service"`
	Amount       *decimal.Decimal `json:"amount"`
	Date         string           `json:"date" validate:"required,datetime=2006-01-02"`
	Time         *string          `json:"time" validate:"omitempty,datetime=15:04"`
	Status       string           `json:"status" validate:"omitempty,oneof=Scheduled Pending Completed"`
}

// ListAppointments returns the tenant's appointments by date, optionally
// filtered by status and by a YYYY-MM-DD date
func (h *Handler) ListAppointments(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	filters := map[string]any{}
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		filters["status"] = status
	}
	if raw := strings.TrimSpace(c.QueryParam("date")); raw != "" {
		day, err := time.Parse(dateLayout, raw)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		filters["date"] = datatypes.Date(day)
	}

	rows := []model.Appointment{}
	if err := h.gw.Select(c.Request().Context(), id.TenantID, &rows, gateway.Query{Filters: filters, OrderBy: "date"}); err != nil {
		logger.FromEcho(c).Error("Failed to list appointments", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "failed to list appointments")
	}
	return c.JSON(http.StatusOK, rows)
}

// CreateAppointment books an appointment; the status defaults to Scheduled
func (h *Handler) CreateAppointment(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req appointmentRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	if req.Amount != nil && req.Amount.IsNegative() {
		return errorJSON(c, http.StatusBadRequest, "amount must not be negative")
	}
	day, _ := time.Parse(dateLayout, req.Date)

	appointment := model.Appointment{
		TenantID:     id.TenantID,
		CustomerName: strings.TrimSpace(req.CustomerName),
		Phone:        req.Phone,
		Service:      req.Service,
		Amount:       req.Amount,
		Date:         datatypes.Date(day),
		Time:         req.Time,
		Status:       req.Status,
	}

	ctx := c.Request().Context()
	if err := h.gw.Insert(ctx, &appointment); err != nil {
		logger.FromEcho(c).Error("Failed to create appointment", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "failed to create appointment")
	}
	h.stats.Invalidate(ctx, id.TenantID)

	logger.FromEcho(c).Info("Appointment created", zap.String("appointment_id", appointment.ID))
	return c.JSON(http.StatusCreated, appointment)
}

// CompleteAppointment marks a scheduled or pending appointment as completed
func (h *Handler) CompleteAppointment(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	appointmentID := c.Param("id")
	if _, err := uuid.Parse(appointmentID); err != nil {
		return errorJSON(c, http.StatusNotFound, "appointment not found")
	}

	var rows []model.Appointment
	if err := h.gw.Select(ctx, id.TenantID, &rows, gateway.Query{
		Filters: map[string]any{"id": appointmentID},
		Limit:   1,
	}); err != nil {
		log.Error("Failed to load appointment", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "failed to load appointment")
	}
	if len(rows) == 0 {
		return errorJSON(c, http.StatusNotFound, "appointment not found")
	}
	appointment := rows[0]
	if appointment.Status == model.AppointmentCompleted {
		return errorJSON(c, http.StatusConflict, "appointment is already completed")
	}

	err = h.gw.UpdateByID(ctx, id.TenantID, &model.Appointment{}, appointmentID, map[string]any{
		"status": model.AppointmentCompleted,
	})
	if errors.Is(err, gateway.ErrNotFound) {
		return errorJSON(c, http.StatusNotFound, "appointment not found")
	}
	if err != nil {
		log.Error("Failed to complete appointment", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "failed to complete appointment")
	}
	h.stats.Invalidate(ctx, id.TenantID)

	appointment.Status = model.AppointmentCompleted
	return c.JSON(http.StatusOK, appointment)
}
