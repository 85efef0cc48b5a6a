package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type httpMetrics struct {
	requestsTotal  *prometheus.CounterVec
	requestDur     *prometheus.HistogramVec
	activeRequests prometheus.Gauge
	searchResults  prometheus.Histogram
}

// newHTTPMetrics registers the server's collectors on reg. Each server gets
// its own registry so tests can build several.
func newHTTPMetrics(reg prometheus.Registerer) *httpMetrics {
	f := promauto.With(reg)
	return &httpMetrics{
		requestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "playground_http_requests_total",
				Help: "Total HTTP requests by method, route and status.",
			},
			[]string{"method", "endpoint", "status"},
		),
		requestDur: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "playground_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"method", "endpoint"},
		),
		activeRequests: f.NewGauge(prometheus.GaugeOpts{
			Name: "playground_http_active_requests",
			Help: "Number of in-flight HTTP requests.",
		}),
		searchResults: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "playground_search_results",
			Help:    "Number of projects matching each API search.",
			Buckets: []float64{0, 1, 3, 9, 27, 81},
		}),
	}
}

func (m *httpMetrics) middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			m.activeRequests.Inc()
			defer m.activeRequests.Dec()

			err := next(c)

			// Route templates, not raw paths, keep label cardinality bounded.
			endpoint := c.Path()
			if endpoint == "" {
				endpoint = "unmatched"
			}
			status := c.Response().Status
			var he *echo.HTTPError
			switch {
			case errors.As(err, &he):
				status = he.Code
			case err != nil:
				status = http.StatusInternalServerError
			}
			method := c.Request().Method
			m.requestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
			m.requestDur.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
