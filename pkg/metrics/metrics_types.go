package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for one analysis run
type Registry struct {
	// Ingest Metrics
	IngestRecordsTotal *prometheus.CounterVec
	IngestRowsTotal    prometheus.Counter
	IngestBytesTotal   prometheus.Counter

	// Graph Metrics
	GraphNodes          *prometheus.GaugeVec
	GraphEdges          *prometheus.GaugeVec
	GraphPatients       prometheus.Gauge
	GraphAdjacencyNodes prometheus.Gauge

	// Stage Metrics
	StageRunsTotal *prometheus.CounterVec
	StageDuration  *prometheus.HistogramVec

	// Query Metrics
	TimelineEntries *prometheus.GaugeVec
	PatternMatches  *prometheus.GaugeVec
	PatternPairs    *prometheus.GaugeVec
	DynamicsEntries *prometheus.GaugeVec

	// Export Metrics
	ExportBytesTotal *prometheus.CounterVec

	// System Metrics
	RunInfo          *prometheus.GaugeVec
	RunStartTime     prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initIngestMetrics()
	r.initGraphMetrics()
	r.initStageMetrics()
	r.initQueryMetrics()
	r.initExportMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
