package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hugorgg/command-ai-nexus/internal/model"
	"github.com/hugorgg/command-ai-nexus/internal/report"
	"github.com/hugorgg/command-ai-nexus/internal/stats"
	"github.com/hugorgg/command-ai-nexus/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dashboardBody struct {
	Stats              stats.Snapshot       `json:"stats"`
	Notifications      []model.Notification `json:"notifications"`
	Error              string               `json:"error"`
	NotificationsError string               `json:"notifications_error"`
}

func TestDashboard(t *testing.T) {
	f := newFixture(t, nil)
	tenantID := f.provision(t, "clinic", "Starter")

	rec := f.request(t, http.MethodGet, "/api/dashboard", tenantID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[dashboardBody](t, rec)
	assert.Empty(t, body.Error)
	assert.Equal(t, 3, body.Stats.TotalInteractions)
	assert.Equal(t, 3, body.Stats.TotalAppointments)
	assert.Equal(t, 3, body.Stats.TotalMessages)
	assert.True(t, body.Stats.TotalRevenue.Equal(decimal.NewFromInt(250)), body.Stats.TotalRevenue.String())
	assert.Len(t, body.Notifications, 3)
}

func TestDashboardDegradesToZeros(t *testing.T) {
	f := newFixture(t, failingTransport{})
	tenantID := f.provision(t, "clinic", "Starter")

	rec := f.request(t, http.MethodGet, "/api/dashboard", tenantID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[dashboardBody](t, rec)
	assert.NotEmpty(t, body.Error)
	assert.Zero(t, body.Stats.TotalInteractions)
	assert.True(t, body.Stats.TotalRevenue.IsZero())
	assert.NotNil(t, body.Stats.PerDay)
	assert.Len(t, body.Notifications, 3)
}

func TestDashboardKeepsStatsWhenNotificationsFail(t *testing.T) {
	snapshot := stats.Zero()
	snapshot.TotalAppointments = 7
	f := newFixture(t, fixedTransport{snapshot: snapshot})
	tenantID := f.provision(t, "clinic", "Starter")
	require.NoError(t, f.db.Migrator().DropTable(&model.Notification{}))

	rec := f.request(t, http.MethodGet, "/api/dashboard", tenantID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[dashboardBody](t, rec)
	assert.Empty(t, body.Error)
	assert.Equal(t, 7, body.Stats.TotalAppointments)
	assert.NotNil(t, body.Notifications)
	assert.Empty(t, body.Notifications)
	assert.NotEmpty(t, body.NotificationsError)
}

func TestAppointments(t *testing.T) {
	f := newFixture(t, nil)
	tenant := testutil.NewTenant(t, f.db, "clinic", "Starter")
	other := testutil.NewTenant(t, f.db, "rival", "Starter")

	rec := f.request(t, http.MethodPost, "/api/appointments", tenant.ID, echo.Map{
		"customer_name": "Rita",
		"service":       "Consultation",
		"amount":        "120.50",
		"date":          "2026-03-12",
		"time":          "09:30",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[model.Appointment](t, rec)
	assert.Equal(t, model.AppointmentScheduled, created.Status)

	t.Run("validation", func(t *testing.T) {
		rec := f.request(t, http.MethodPost, "/api/appointments", tenant.ID, echo.Map{
			"customer_name": "Rita",
			"date":          "12/03/2026",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("filter by date", func(t *testing.T) {
		rec := f.request(t, http.MethodGet, "/api/appointments?date=2026-03-12", tenant.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]model.Appointment](t, rec), 1)

		rec = f.request(t, http.MethodGet, "/api/appointments?date=2026-03-13", tenant.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decode[[]model.Appointment](t, rec))
	})

	t.Run("scoped to tenant", func(t *testing.T) {
		rec := f.request(t, http.MethodGet, "/api/appointments", other.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

		rec = f.request(t, http.MethodPost, "/api/appointments/"+created.ID+"/complete", other.ID, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("complete", func(t *testing.T) {
		path := "/api/appointments/" + created.ID + "/complete"

		rec := f.request(t, http.MethodPost, path, tenant.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, model.AppointmentCompleted, decode[model.Appointment](t, rec).Status)

		rec = f.request(t, http.MethodPost, path, tenant.ID, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)

		rec = f.request(t, http.MethodGet, "/api/appointments?status=Completed", tenant.ID, nil)
		assert.Len(t, decode[[]model.Appointment](t, rec), 1)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := f.request(t, http.MethodPost, "/api/appointments/not-a-uuid/complete", tenant.ID, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestInteractions(t *testing.T) {
	f := newFixture(t, nil)
	tenant := testutil.NewTenant(t, f.db, "clinic", "Starter")

	rec := f.request(t, http.MethodPost, "/api/interactions", tenant.ID, echo.Map{
		"customer_name": "Ana", "channel": "Fax",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, body := range []echo.Map{
		{"customer_name": "Ana", "channel": "WhatsApp", "status": "In Progress"},
		{"customer_name": "Carlos", "channel": "WhatsApp"},
		{"customer_name": "Lucia"},
	} {
		rec := f.request(t, http.MethodPost, "/api/interactions", tenant.ID, body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = f.request(t, http.MethodGet, "/api/interactions?channel=WhatsApp", tenant.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Interaction](t, rec), 2)

	rec = f.request(t, http.MethodGet, "/api/interactions/summary", tenant.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[interactionSummary](t, rec)
	assert.Equal(t, 2, summary.Statuses.New)
	assert.Equal(t, 1, summary.Statuses.InProgress)
	require.Len(t, summary.Channels, 2)
	assert.Equal(t, "WhatsApp", summary.Channels[0].Category)
	assert.Equal(t, 2, summary.Channels[0].Count)
}

func TestInteractionStream(t *testing.T) {
	f := newFixture(t, nil)
	tenantID := f.provision(t, "clinic", "Starter")

	server := httptest.NewServer(f.e)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/interactions/stream?access_token=" + f.token(t, tenantID)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for i := 0; i < 2; i++ {
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)

		var ev struct {
			Type string              `json:"type"`
			Data []model.Interaction `json:"data"`
		}
		require.NoError(t, json.Unmarshal(msg, &ev))
		assert.Equal(t, "interactions", ev.Type)
		assert.Len(t, ev.Data, 3)
	}
}

func TestPayments(t *testing.T) {
	f := newFixture(t, nil)
	tenantID := f.provision(t, "clinic", "Starter")

	rec := f.request(t, http.MethodGet, "/api/payments?status=Paid", tenantID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	paid := decode[[]model.Payment](t, rec)
	require.Len(t, paid, 2)
	assert.False(t, paid[0].ReceivedAt.Before(paid[1].ReceivedAt), "newest first")

	today := time.Now().UTC().Format(dateLayout)
	rec = f.request(t, http.MethodGet, "/api/payments?date="+today, tenantID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[[]model.Payment](t, rec))

	rec = f.request(t, http.MethodGet, "/api/payments?date=yesterday", tenantID, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.request(t, http.MethodGet, "/api/payments/totals", tenantID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var totals struct {
		Received decimal.Decimal `json:"received"`
		Pending  decimal.Decimal `json:"pending"`
		Overall  decimal.Decimal `json:"overall"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &totals))
	assert.True(t, totals.Received.Equal(decimal.NewFromInt(250)))
	assert.True(t, totals.Pending.Equal(decimal.NewFromInt(80)))
	assert.True(t, totals.Overall.Equal(decimal.NewFromInt(330)))
}

func TestNotificationsAreCapped(t *testing.T) {
	f := newFixture(t, nil)
	tenant := testutil.NewTenant(t, f.db, "busy", "Starter")

	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	rows := make([]model.Notification, 12)
	for i := range rows {
		rows[i] = model.Notification{
			TenantID:  tenant.ID,
			Type:      model.NotificationInteractionStarted,
			Message:   "new conversation",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
	}
	require.NoError(t, f.db.Create(&rows).Error)

	rec := f.request(t, http.MethodGet, "/api/notifications", tenant.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[[]model.Notification](t, rec)
	require.Len(t, got, 10)
	assert.True(t, got[0].CreatedAt.Equal(base.Add(11*time.Minute)))
}

func TestSchedule(t *testing.T) {
	f := newFixture(t, nil)
	tenant := testutil.NewTenant(t, f.db, "clinic", "Starter")

	rec := f.request(t, http.MethodGet, "/api/settings/schedule", tenant.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	week := decode[[]model.ScheduleSlot](t, rec)
	require.Len(t, week, 7)
	assert.Equal(t, "Monday", week[0].Weekday)
	assert.Equal(t, "09:00", week[0].StartTime)
	assert.True(t, week[0].Active)

	rec = f.request(t, http.MethodPut, "/api/settings/schedule", tenant.ID, echo.Map{"slots": []echo.Map{
		{"weekday": "Monday", "start_time": "08:00", "end_time": "12:00", "active": true},
		{"weekday": "Monday", "start_time": "13:00", "end_time": "17:00", "active": true},
	}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.request(t, http.MethodPut, "/api/settings/schedule", tenant.ID, echo.Map{"slots": []echo.Map{
		{"weekday": "Monday", "start_time": "08:00", "end_time": "12:00", "active": true},
		{"weekday": "Sunday", "start_time": "09:00", "end_time": "10:00", "active": false},
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	saved := decode[[]model.ScheduleSlot](t, rec)
	require.Len(t, saved, 7)
	assert.Equal(t, "Sunday", saved[6].Weekday)
	assert.False(t, saved[6].Active)

	rec = f.request(t, http.MethodGet, "/api/settings/schedule", tenant.ID, nil)
	week = decode[[]model.ScheduleSlot](t, rec)
	require.Len(t, week, 7)
	assert.Equal(t, "08:00", week[0].StartTime)
	assert.Equal(t, "09:00", week[1].StartTime)
	assert.False(t, week[6].Active)

	rec = f.request(t, http.MethodPut, "/api/settings/schedule", tenant.ID, echo.Map{"slots": []echo.Map{
		{"weekday": "Monday", "start_time": "08:00", "end_time": "12:00", "active": false},
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.request(t, http.MethodGet, "/api/settings/schedule", tenant.ID, nil)
	week = decode[[]model.ScheduleSlot](t, rec)
	require.Len(t, week, 7)
	assert.Equal(t, "Monday", week[0].Weekday)
	assert.False(t, week[0].Active)
}

func TestPaymentLinks(t *testing.T) {
	f := newFixture(t, nil)
	tenant := testutil.NewTenant(t, f.db, "clinic", "Starter")

	rec := f.request(t, http.MethodGet, "/api/settings/payment-links", tenant.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())

	rec = f.request(t, http.MethodPut, "/api/settings/payment-links", tenant.ID, echo.Map{"pix_link": "not a url"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.request(t, http.MethodPut, "/api/settings/payment-links", tenant.ID, echo.Map{"pix_link": "https://pay.example.com/pix"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decode[model.PaymentLinkSet](t, rec)
	rec = f.request(t, http.MethodPut, "/api/settings/payment-links", tenant.ID, echo.Map{"card_link": "https://pay.example.com/card"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	second := decode[model.PaymentLinkSet](t, rec)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "https://pay.example.com/card", second.CardLink)

	rec = f.request(t, http.MethodGet, "/api/settings/payment-links", tenant.ID, nil)
	links := decode[model.PaymentLinkSet](t, rec)
	assert.Equal(t, second.ID, links.ID)
	assert.Equal(t, "https://pay.example.com/card", links.CardLink)
	assert.Empty(t, links.PixLink)

	var count int64
	require.NoError(t, f.db.Model(&model.PaymentLinkSet{}).Where("tenant_id = ?", tenant.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestServiceCatalog(t *testing.T) {
	f := newFixture(t, nil)
	tenant := testutil.NewTenant(t, f.db, "clinic", "Pro")

	rec := f.request(t, http.MethodPost, "/api/settings/services", tenant.ID, echo.Map{"name": "Cleaning", "price": "99.90"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	service := decode[model.Service](t, rec)

	rec = f.request(t, http.MethodPost, "/api/settings/services", tenant.ID, echo.Map{"name": "Refund", "price": "-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.request(t, http.MethodGet, "/api/settings/services", tenant.ID, nil)
	assert.Len(t, decode[[]model.Service](t, rec), 1)

	rec = f.request(t, http.MethodDelete, "/api/settings/services/"+service.ID, tenant.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = f.request(t, http.MethodDelete, "/api/settings/services/"+service.ID, tenant.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVoiceTone(t *testing.T) {
	f := newFixture(t, nil)
	tenant := testutil.NewTenant(t, f.db, "clinic", "Plus")

	rec := f.request(t, http.MethodPut, "/api/settings/voice-tone", tenant.ID, echo.Map{"prompt": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.request(t, http.MethodPut, "/api/settings/voice-tone", tenant.ID, echo.Map{"prompt": "Formal"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decode[model.VoiceTone](t, rec)

	rec = f.request(t, http.MethodPut, "/api/settings/voice-tone", tenant.ID, echo.Map{"prompt": "Friendly and brief"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	second := decode[model.VoiceTone](t, rec)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Friendly and brief", second.Prompt)

	rec = f.request(t, http.MethodGet, "/api/settings/voice-tone", tenant.ID, nil)
	stored := decode[model.VoiceTone](t, rec)
	assert.Equal(t, second.ID, stored.ID)
	assert.Equal(t, "Friendly and brief", stored.Prompt)
}

func TestSettings(t *testing.T) {
	f := newFixture(t, nil)
	tenant := testutil.NewTenant(t, f.db, "clinic", "Starter")

	rec := f.request(t, http.MethodGet, "/api/settings", tenant.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, map[string]any{"reports": false, "service_catalog": false, "voice_tone": false}, body["capabilities"])
	assert.Equal(t, []any{"Starter", "Pro", "Plus", "Custom"}, body["tiers"])

	rec = f.request(t, http.MethodPatch, "/api/settings/tenant", tenant.ID, echo.Map{"name": "  Clinic Two "})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Clinic Two", decode[model.Tenant](t, rec).Name)

	assert.Equal(t, http.StatusBadRequest, f.request(t, http.MethodPatch, "/api/settings/tenant", tenant.ID, echo.Map{"tier": "Gold"}).Code)
	assert.Equal(t, http.StatusBadRequest, f.request(t, http.MethodPatch, "/api/settings/tenant", tenant.ID, echo.Map{"name": ""}).Code)
	assert.Equal(t, http.StatusBadRequest, f.request(t, http.MethodPatch, "/api/settings/tenant", tenant.ID, echo.Map{}).Code)
}

func TestReports(t *testing.T) {
	f := newFixture(t, nil)
	tenantID := f.provision(t, "clinic", "Pro")

	rec := f.request(t, http.MethodGet, "/api/reports?period=30", tenantID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	r := decode[report.Report](t, rec)
	assert.EqualValues(t, 30, r.Period)
	assert.Equal(t, 3, r.Snapshot.TotalAppointments)
	assert.NotEmpty(t, r.Channels)

	rec = f.request(t, http.MethodGet, "/api/reports?period=14", tenantID, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.request(t, http.MethodGet, "/api/reports/export", tenantID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, report.ContentType, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "report-7d-")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"))
}
