package metrics

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetricsCollector records mediator traffic and the catalog writes it causes
type RequestMetricsCollector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	catalogWrites    *prometheus.CounterVec
	buildingsWritten prometheus.Counter
}

// NewRequestMetricsCollector creates a new request metrics collector
func NewRequestMetricsCollector() *RequestMetricsCollector {
	return &RequestMetricsCollector{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Total number of mediator requests by request type, kind and status",
			},
			[]string{"request", "kind", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "request_duration_seconds",
				Help:      "Mediator request duration distribution by kind",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"kind"},
		),
		catalogWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "catalog_writes_total",
				Help:      "Successful catalog writes by request type and whether the catalog was cleared first",
			},
			[]string{"request", "cleared"},
		),
		buildingsWritten: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "catalog_buildings_written_total",
				Help:      "Total number of buildings written by imports and extractions",
			},
		),
	}
}

// Register registers all request metrics with the Prometheus registry
func (c *RequestMetricsCollector) Register() error {
	return register(c.requestsTotal, c.requestDuration, c.catalogWrites, c.buildingsWritten)
}

// RecordRequest counts one handled request
func (c *RequestMetricsCollector) RecordRequest(requestName string, seconds float64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	kind := requestKind(requestName)

	c.requestsTotal.WithLabelValues(requestName, kind, status).Inc()
	c.requestDuration.WithLabelValues(kind).Observe(seconds)
}

// RecordCatalogWrite counts a catalog mutation and the buildings it wrote
func (c *RequestMetricsCollector) RecordCatalogWrite(requestName string, cleared bool, buildings int) {
	c.catalogWrites.WithLabelValues(requestName, strconv.FormatBool(cleared)).Inc()
	c.buildingsWritten.Add(float64(buildings))
}

// requestKind is "query" or "command", read off the request type name
func requestKind(requestName string) string {
	if strings.HasSuffix(requestName, "Query") {
		return "query"
	}
	return "command"
}
