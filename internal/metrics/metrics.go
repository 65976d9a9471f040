package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Ingest metrics
	SamplesIngested = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "efficia_samples_ingested_total",
			Help: "Total activity samples stored",
		},
	)

	SampleSecondsIngested = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "efficia_sample_seconds_ingested_total",
			Help: "Sum of durations of stored activity samples",
		},
	)

	IngestRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "efficia_ingest_rejected_total",
			Help: "Activity samples rejected before storage",
		},
		[]string{"reason"},
	)

	// HTTP metrics
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "efficia_http_requests_total",
			Help: "Total HTTP requests processed",
		},
		[]string{"route", "method", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "efficia_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"route"},
	)

	// Tracker metrics
	TrackerPolls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "efficia_tracker_polls_total",
			Help: "Foreground window polls by outcome",
		},
		[]string{"state"},
	)

	TrackerPosts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "efficia_tracker_posts_total",
			Help: "Samples posted to the ingest endpoint by result",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		SamplesIngested,
		SampleSecondsIngested,
		IngestRejected,
		RequestsTotal,
		RequestDuration,
		TrackerPolls,
		TrackerPosts,
	)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts and latency per route template.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			RequestsTotal.WithLabelValues(route, c.Request().Method, strconv.Itoa(status)).Inc()
			RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
