package prometheus

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func statusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	}
	return ""
}

// responseStatus is the status the client will see. An error returned by next
// is only written later by the echo error handler, so the response still
// holds its 200 default.
func responseStatus(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

// MetricsMiddleware records request count, duration and status category
func MetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)
		if !ready {
			return err
		}

		method := c.Request().Method
		path := c.Path()
		status := responseStatus(c, err)
		statusStr := strconv.Itoa(status)

		HttpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
		HttpRequestDuration.WithLabelValues(method, path, statusStr).Observe(time.Since(start).Seconds())
		if category := statusCategory(status); category != "" {
			HttpStatusCategory.WithLabelValues(category, method, path).Inc()
		}

		return err
	}
}

// Handler returns an HTTP handler for exposing Prometheus metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
