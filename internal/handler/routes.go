package handler

import (
	"github.com/hugorgg/command-ai-nexus/internal/plan"
	"github.com/labstack/echo/v4"
)

// ProvisionPath is the provisioning function's route. It carries its own CORS policy.
const ProvisionPath = "/functions/setup-tenant"

// Register mounts every route on e. auth guards the /api group.
func (h *Handler) Register(e *echo.Echo, auth echo.MiddlewareFunc) {
	e.Validator = NewValidator(h.validate)

	e.GET("/health", Health)
	e.Any(ProvisionPath, h.SetupTenant, ProvisionCORS())

	api := e.Group("/api", auth)

	api.GET("/dashboard", h.Dashboard)
	api.GET("/notifications", h.ListNotifications)

	api.GET("/appointments", h.ListAppointments)
	api.POST("/appointments", h.CreateAppointment)
	api.POST("/appointments/:id/complete", h.CompleteAppointment)

	api.GET("/interactions", h.ListInteractions)
	api.POST("/interactions", h.CreateInteraction)
	api.GET("/interactions/summary", h.InteractionSummary)
	api.GET("/interactions/stream", h.StreamInteractions)

	api.GET("/payments", h.ListPayments)
	api.GET("/payments/totals", h.PaymentTotals)

	settings := api.Group("/settings")
	settings.GET("", h.GetSettings)
	settings.PATCH("/tenant", h.UpdateTenant)
	settings.GET("/schedule", h.GetSchedule)
	settings.PUT("/schedule", h.SaveSchedule)
	settings.GET("/payment-links", h.GetPaymentLinks)
	settings.PUT("/payment-links", h.SavePaymentLinks)

	services := settings.Group("/services", h.RequireCapability(plan.ServiceCatalog))
	services.GET("", h.ListServices)
	services.POST("", h.CreateService)
	services.DELETE("/:id", h.DeleteService)

	voice := settings.Group("/voice-tone", h.RequireCapability(plan.VoiceTone))
	voice.GET("", h.GetVoiceTone)
	voice.PUT("", h.SaveVoiceTone)

	reports := api.Group("/reports", h.RequireCapability(plan.Reports))
	reports.GET("", h.Report)
	reports.GET("/export", h.ExportReport)

}
