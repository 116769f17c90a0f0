package provision

import (
	"time"

	"github.com/hugorgg/command-ai-nexus/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Seed step names, in execution order
const (
	StepAppointments  = "appointments"
	StepInteractions  = "interactions"
	StepPayments      = "payments"
	StepNotifications = "notifications"
	StepServices      = "services"
)

type seedStep struct {
	name  string
	build func(tenantID string, now time.Time) (rows any, count int)
}

var seedSteps = []seedStep{
	{StepAppointments, sampleAppointments},
	{StepInteractions, sampleInteractions},
	{StepPayments, samplePayments},
	{StepNotifications, sampleNotifications},
	{StepServices, sampleServices},
}

func money(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func moneyPtr(v int64) *decimal.Decimal {
	d := money(v)
	return &d
}

func strPtr(s string) *string {
	return &s
}

func dayOffset(now time.Time, days int) datatypes.Date {
	d := now.AddDate(0, 0, days)
	return datatypes.Date(time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC))
}

func sampleAppointments(tenantID string, now time.Time) (any, int) {
	rows := []model.Appointment{
		{
			TenantID:     tenantID,
			CustomerName: "João Silva",
			Phone:        "(11) 99999-9999",
			Service:      "Consultation",
			Amount:       moneyPtr(150),
			Date:         dayOffset(now, 1),
			Time:         strPtr("14:00"),
			Status:       model.AppointmentScheduled,
		},
		{
			TenantID:     tenantID,
			CustomerName: "Maria Santos",
			Phone:        "(11) 88888-8888",
			Service:      "Exam",
			Amount:       moneyPtr(80),
			Date:         dayOffset(now, 2),
			Time:         strPtr("10:30"),
			Status:       model.AppointmentScheduled,
		},
		{
			TenantID:     tenantID,
			CustomerName: "Pedro Costa",
			Phone:        "(11) 77777-7777",
			Service:      "Follow-up",
			Amount:       moneyPtr(100),
			Date:         dayOffset(now, -1),
			Time:         strPtr("16:00"),
			Status:       model.AppointmentCompleted,
		},
	}
	return &rows, len(rows)
}

func sampleInteractions(tenantID string, now time.Time) (any, int) {
	rows := []model.Interaction{
		{
			TenantID:     tenantID,
			CustomerName: "Ana Oliveira",
			Channel:      strPtr(model.ChannelWhatsApp),
			Status:       model.InteractionInProgress,
			Description:  "Questions about booking",
		},
		{
			TenantID:     tenantID,
			CustomerName: "Carlos Ferreira",
			Channel:      strPtr(model.ChannelTelegram),
			Status:       model.InteractionNew,
			Description:  "Quote request",
		},
		{
			TenantID:     tenantID,
			CustomerName: "Lucia Martins",
			Channel:      strPtr(model.ChannelInstagram),
			Status:       model.InteractionCompleted,
			Description:  "Information about services",
		},
	}
	return &rows, len(rows)
}

func samplePayments(tenantID string, now time.Time) (any, int) {
	rows := []model.Payment{
		{TenantID: tenantID, CustomerName: "João Silva", Amount: money(150), Method: strPtr(model.MethodPix), Status: model.PaymentPaid, ReceivedAt: now},
		{TenantID: tenantID, CustomerName: "Maria Santos", Amount: money(80), Method: strPtr(model.MethodCard), Status: model.PaymentPending, ReceivedAt: now},
		{TenantID: tenantID, CustomerName: "Pedro Costa", Amount: money(100), Method: strPtr(model.MethodLink), Status: model.PaymentPaid, ReceivedAt: now},
	}
	return &rows, len(rows)
}

func sampleNotifications(tenantID string, now time.Time) (any, int) {
	rows := []model.Notification{
		{TenantID: tenantID, Type: model.NotificationInteractionStarted, Message: "New interaction started with Ana Oliveira"},
		{TenantID: tenantID, Type: model.NotificationSaleConfirmed, Message: "Sale confirmed for João Silva", Amount: moneyPtr(150)},
		{TenantID: tenantID, Type: model.NotificationNewAppointment, Message: "New appointment created for Maria Santos", Amount: moneyPtr(80)},
	}
	return &rows, len(rows)
}

func sampleServices(tenantID string, now time.Time) (any, int) {
	rows := []model.Service{
		{TenantID: tenantID, Name: "Initial Consultation", Price: money(150)},
		{TenantID: tenantID, Name: "Full Exam", Price: money(200)},
		{TenantID: tenantID, Name: "Follow-up Consultation", Price: money(100)},
	}
	return &rows, len(rows)
}
