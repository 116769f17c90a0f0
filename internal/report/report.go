// Package report assembles the Pro reporting page and its spreadsheet export.
package report

import (
	"context"
	"time"

	"github.com/hugorgg/command-ai-nexus/internal/analytics"
	"github.com/hugorgg/command-ai-nexus/internal/gateway"
	"github.com/hugorgg/command-ai-nexus/internal/model"
	"github.com/hugorgg/command-ai-nexus/internal/stats"
)

// Source is the read surface a report needs
type Source interface {
	Select(ctx context.Context, tenantID string, dest any, q gateway.Query) error
}

// Report is the aggregated view of a tenant over one period
type Report struct {
	TenantID                  string                     `json:"tenant_id"`
	Period                    analytics.Period           `json:"period"`
	GeneratedAt               time.Time                  `json:"generated_at"`
	Appointments              []analytics.DayBucket      `json:"appointments"`
	Payments                  []analytics.DayBucket      `json:"payments"`
	Interactions              []analytics.DayBucket      `json:"interactions"`
	Channels                  []analytics.CategoryBucket `json:"channels"`
	AppointmentCompletionRate float64                    `json:"appointment_completion_rate"`
	InteractionCompletionRate float64                    `json:"interaction_completion_rate"`
	PaymentTotals             analytics.PaymentTotals    `json:"payment_totals"`
	Snapshot                  stats.Snapshot             `json:"snapshot"`
	SnapshotError             string                     `json:"snapshot_error,omitempty"`
}

// Build loads the tenant's rows and aggregates them over period
func Build(ctx context.Context, src Source, tenantID string, period analytics.Period, now time.Time) (*Report, error) {
	var (
		appointments []model.Appointment
		payments     []model.Payment
		interactions []model.Interaction
	)
	if err := src.Select(ctx, tenantID, &appointments, gateway.Query{OrderBy: "date"}); err != nil {
		return nil, err
	}
	if err := src.Select(ctx, tenantID, &payments, gateway.Query{OrderBy: "received_at"}); err != nil {
		return nil, err
	}
	if err := src.Select(ctx, tenantID, &interactions, gateway.Query{OrderBy: "created_at"}); err != nil {
		return nil, err
	}

	start, end := period.Window(now)
	var windowed []model.Payment
	for _, p := range payments {
		if t := p.ReceivedAt.In(now.Location()); !t.Before(start) && t.Before(end) {
			windowed = append(windowed, p)
		}
	}
	var recent []model.Interaction
	for _, i := range interactions {
		if t := i.CreatedAt.In(now.Location()); !t.Before(start) && t.Before(end) {
			recent = append(recent, i)
		}
	}

	r := &Report{
		TenantID:      tenantID,
		Period:        period,
		GeneratedAt:   now,
		Appointments:  analytics.AppointmentsByDay(appointments, period, now),
		Payments:      analytics.PaymentsByDay(payments, period, now),
		Interactions:  analytics.InteractionsByDay(interactions, period, now),
		Channels:      analytics.InteractionsByChannel(recent),
		PaymentTotals: analytics.SumPayments(windowed),
		Snapshot:      stats.Zero(),
	}
	r.AppointmentCompletionRate = analytics.CompletionRate(r.Appointments)
	r.InteractionCompletionRate = analytics.CompletionRate(r.Interactions)
	return r, nil
}
