package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the Prometheus metrics of the HTTP server. Each collector
// owns its registry so several can coexist in tests.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	OperationDuration *prometheus.HistogramVec
	Outcomes          *prometheus.CounterVec
}

// NewCollector creates a new metrics collector with the given namespace
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		OperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Duration of model calls, traversals and bus handlers",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation", "status"},
		),
		Outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "assistant_outcomes_total",
				Help:      "Questions answered, by outcome",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.OperationDuration,
		c.Outcomes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// RecordLatency implements ports.Metrics.
func (c *Collector) RecordLatency(_ context.Context, operation string, latency time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	c.OperationDuration.WithLabelValues(operation, status).Observe(latency.Seconds())
}

// RecordOutcome implements ports.Metrics.
func (c *Collector) RecordOutcome(_ context.Context, outcome string) {
	c.Outcomes.WithLabelValues(outcome).Inc()
}

// ObserveHTTP records one served request.
func (c *Collector) ObserveHTTP(method, route string, status int, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
