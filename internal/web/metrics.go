package web

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the web view metrics
type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RecordsAdded    prometheus.Counter
	EntryRejections *prometheus.CounterVec
	TableBuilds     prometheus.Counter
	Records         prometheus.Gauge
	RecordProblems  prometheus.Gauge
}

// NewCollector registers the metrics on reg
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),

		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1.0},
			},
			[]string{"route"},
		),

		RecordsAdded: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_added_total",
				Help:      "Total number of fueling records added through the web view",
			},
		),

		EntryRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "entry_rejections_total",
				Help:      "Total number of rejected entries by reason",
			},
			[]string{"reason"},
		),

		TableBuilds: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "table_builds_total",
				Help:      "Total number of derived tables built",
			},
		),

		Records: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "records",
				Help:      "Number of records in the petrol book at the last table build",
			},
		),

		RecordProblems: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "record_problems",
				Help:      "Number of records that could not be used for metrics at the last table build",
			},
		),
	}
}

// RecordRequest counts a finished request
func (c *Collector) RecordRequest(route, method string, status int, duration time.Duration) {
	c.RequestsTotal.WithLabelValues(route, method, statusClass(status)).Inc()
	c.RequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordRejection counts a rejected entry
func (c *Collector) RecordRejection(reason string) {
	c.EntryRejections.WithLabelValues(reason).Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
