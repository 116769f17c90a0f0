package prometheus

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec
	HttpStatusCategory  *prometheus.CounterVec

	// Authentication metrics
	AuthErrorsCounter *prometheus.CounterVec

	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec

	// Tenant metrics
	TenantOperationsCounter *prometheus.CounterVec
	SeedStepsCounter        *prometheus.CounterVec

	// Dashboard metrics
	StatsRPCCounter        *prometheus.CounterVec
	FeatureGateDeniedCount *prometheus.CounterVec
	FeedSubscribersGauge   prometheus.Gauge
	ReportExportsCounter   prometheus.Counter

	initOnce sync.Once
	ready    bool
)

// InitMetrics registers the collectors on the default registry. Later calls are ignored.
func InitMetrics(prefix string) {
	initOnce.Do(func() {
		HttpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		)

		HttpRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		)

		HttpStatusCategory = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_status_category_total",
				Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
			},
			[]string{"category", "method", "path"},
		)

		AuthErrorsCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_auth_errors_total",
				Help: "Total number of rejected bearer tokens",
			},
			[]string{"reason"},
		)

		DbOperationDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_db_operation_duration_seconds",
				Help:    "Duration of database operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation_type"},
		)

		TenantOperationsCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_tenant_operations_total",
				Help: "Total number of tenant operations",
			},
			[]string{"operation"},
		)

		SeedStepsCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_seed_steps_total",
				Help: "Seeding steps executed during tenant provisioning",
			},
			[]string{"step", "result"},
		)

		StatsRPCCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_stats_rpc_total",
				Help: "Calls to get_dashboard_stats by transport and result",
			},
			[]string{"transport", "result"},
		)

		FeatureGateDeniedCount = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_feature_gate_denied_total",
				Help: "Requests rejected because the tenant tier lacks a capability",
			},
			[]string{"capability"},
		)

		FeedSubscribersGauge = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: prefix + "_interaction_feed_subscribers",
				Help: "Open interaction feed websocket connections",
			},
		)

		ReportExportsCounter = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_report_exports_total",
				Help: "Total number of exported report workbooks",
			},
		)

		ready = true
	})
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if !ready {
			return
		}
		DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

// RecordTenantOperation increments the counter for tenant operations
func RecordTenantOperation(operation string) {
	if ready {
		TenantOperationsCounter.WithLabelValues(operation).Inc()
	}
}

// RecordSeedStep records the outcome of one provisioning seed step
func RecordSeedStep(step string, ok bool) {
	if !ready {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	SeedStepsCounter.WithLabelValues(step, result).Inc()
}

// RecordStatsRPC records one get_dashboard_stats call; result is ok, error or cache_hit
func RecordStatsRPC(transport, result string) {
	if ready {
		StatsRPCCounter.WithLabelValues(transport, result).Inc()
	}
}

// RecordFeatureGateDenied increments the counter for locked capability requests
func RecordFeatureGateDenied(capability string) {
	if ready {
		FeatureGateDeniedCount.WithLabelValues(capability).Inc()
	}
}

// RecordAuthError increments the counter for rejected tokens
func RecordAuthError(reason string) {
	if ready {
		AuthErrorsCounter.WithLabelValues(reason).Inc()
	}
}

// FeedSubscribed adjusts the open feed connection gauge by delta
func FeedSubscribed(delta float64) {
	if ready {
		FeedSubscribersGauge.Add(delta)
	}
}

// RecordReportExport increments the counter for exported workbooks
func RecordReportExport() {
	if ready {
		ReportExportsCounter.Inc()
	}
}
