package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hugorgg/command-ai-nexus/internal/analytics"
	"github.com/hugorgg/command-ai-nexus/internal/gateway"
	"github.com/hugorgg/command-ai-nexus/internal/model"
	"github.com/shopspring/decimal"
)

// ProcedureName is the stored function that builds the snapshot
const ProcedureName = "get_dashboard_stats"

// Transport fetches the raw procedure result for a tenant. The result is left
// in whatever encoding the transport received; Decode normalises it.
type Transport interface {
	Name() string
	Fetch(ctx context.Context, tenantID string) (any, error)
}

// DBTransport calls the procedure through the gateway's database connection
type DBTransport struct {
	gw *gateway.Gateway
}

func NewDBTransport(gw *gateway.Gateway) *DBTransport {
	return &DBTransport{gw: gw}
}

func (t *DBTransport) Name() string { return "db" }

func (t *DBTransport) Fetch(ctx context.Context, tenantID string) (any, error) {
	return t.gw.CallRPC(ctx, ProcedureName, tenantID)
}

// HTTPTransport calls the procedure over a PostgREST style RPC endpoint
type HTTPTransport struct {
	client *resty.Client
}

// NewHTTPTransport builds a client for baseURL. The api key is sent both as
// apikey header and bearer token.
func NewHTTPTransport(baseURL, apiKey string, timeout time.Duration, retries int) *HTTPTransport {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetHeader("apikey", apiKey).SetAuthToken(apiKey)
	}
	return &HTTPTransport{client: client}
}

func (t *HTTPTransport) Name() string { return "http" }

func (t *HTTPTransport) Fetch(ctx context.Context, tenantID string) (any, error) {
	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"p_tenant_id": tenantID}).
		Post("/rpc/" + ProcedureName)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", ProcedureName, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("call %s: status %d: %s", ProcedureName, resp.StatusCode(), resp.String())
	}
	return resp.Body(), nil
}

// LocalTransport builds the snapshot in process from the tenant's rows. It
// serves databases without the stored function, such as SQLite.
type LocalTransport struct {
	gw  *gateway.Gateway
	now func() time.Time
}

func NewLocalTransport(gw *gateway.Gateway) *LocalTransport {
	return &LocalTransport{gw: gw, now: time.Now}
}

func (t *LocalTransport) Name() string { return "local" }

func (t *LocalTransport) Fetch(ctx context.Context, tenantID string) (any, error) {
	var (
		interactions  []model.Interaction
		appointments  []model.Appointment
		payments      []model.Payment
		notifications []model.Notification
	)
	if err := t.gw.Select(ctx, tenantID, &interactions, gateway.Query{}); err != nil {
		return nil, err
	}
	if err := t.gw.Select(ctx, tenantID, &appointments, gateway.Query{OrderBy: "date"}); err != nil {
		return nil, err
	}
	if err := t.gw.Select(ctx, tenantID, &payments, gateway.Query{Filters: map[string]any{"status": model.PaymentPaid}}); err != nil {
		return nil, err
	}
	if err := t.gw.Select(ctx, tenantID, &notifications, gateway.Query{}); err != nil {
		return nil, err
	}

	now := t.now()
	revenue := decimal.Zero
	for _, p := range payments {
		revenue = revenue.Add(p.Amount)
	}

	// merge the two day series in calendar order; capacity is fixed so the
	// pointers in byLabel stay valid
	perDay := make([]DayStat, 0, int(analytics.Week))
	start, _ := analytics.Week.Window(now)
	byLabel := map[string]*DayStat{}
	for d := start; analytics.Week.Contains(d, now); d = d.AddDate(0, 0, 1) {
		label := d.Format(analytics.DayLabelLayout)
		perDay = append(perDay, DayStat{Date: label})
		byLabel[label] = &perDay[len(perDay)-1]
	}
	for _, b := range analytics.InteractionsByDay(interactions, analytics.Week, now) {
		byLabel[b.Label].Interactions = b.Count
	}
	for _, b := range analytics.AppointmentsByDay(appointments, analytics.Week, now) {
		byLabel[b.Label].Appointments = b.Count
	}
	days := perDay[:0]
	for _, d := range perDay {
		if d.Interactions > 0 || d.Appointments > 0 {
			days = append(days, d)
		}
	}

	return &Snapshot{
		TotalInteractions: len(interactions),
		TotalAppointments: len(appointments),
		TotalRevenue:      revenue,
		TotalMessages:     len(notifications),
		PerDay:            days,
	}, nil
}
