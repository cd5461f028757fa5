package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/oni-calculator/internal/application/production/services"
)

// ResolverMetricsCollector records chain resolution statistics.
// It implements services.ResolutionRecorder.
type ResolverMetricsCollector struct {
	resolutionsTotal   *prometheus.CounterVec
	resolutionDuration prometheus.Histogram
	treeNodes          prometheus.Histogram
	treeDepth          prometheus.Histogram
	rawLeavesTotal     prometheus.Counter
	unresolvedTotal    prometheus.Counter
}

// NewResolverMetricsCollector creates a new resolver metrics collector
func NewResolverMetricsCollector() *ResolverMetricsCollector {
	return &ResolverMetricsCollector{
		resolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "resolutions_total",
				Help:      "Total number of chain resolutions by target resource and status",
			},
			[]string{"resource", "status"},
		),
		resolutionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "resolution_duration_seconds",
				Help:      "Chain resolution duration distribution",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
		treeNodes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "resolution_tree_nodes",
				Help:      "Number of nodes in resolved production trees",
				Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 500},
			},
		),
		treeDepth: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "resolution_max_depth",
				Help:      "Deepest recursion level reached per resolution",
				Buckets:   prometheus.LinearBuckets(0, 2, 11),
			},
		),
		rawLeavesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "raw_leaves_total",
				Help:      "Total number of raw-resource leaves produced",
			},
		),
		unresolvedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "unresolved_inputs_total",
				Help:      "Total number of inputs degraded to unresolved requirements",
			},
		),
	}
}

// Register registers all resolver metrics with the Prometheus registry
func (c *ResolverMetricsCollector) Register() error {
	return register(
		c.resolutionsTotal,
		c.resolutionDuration,
		c.treeNodes,
		c.treeDepth,
		c.rawLeavesTotal,
		c.unresolvedTotal,
	)
}

// RecordResolution implements services.ResolutionRecorder
func (c *ResolverMetricsCollector) RecordResolution(stats services.ResolutionStats) {
	status := "success"
	if stats.Err != nil {
		status = "error"
	}

	c.resolutionsTotal.WithLabelValues(stats.Resource, status).Inc()
	c.resolutionDuration.Observe(stats.Duration.Seconds())

	if stats.Err != nil {
		return
	}

	c.treeNodes.Observe(float64(stats.Nodes))
	c.treeDepth.Observe(float64(stats.MaxDepthReached))
	c.rawLeavesTotal.Add(float64(stats.RawLeaves))
	c.unresolvedTotal.Add(float64(stats.UnresolvedCount))
}
