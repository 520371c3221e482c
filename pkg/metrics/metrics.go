package metrics

import (
	"fmt"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RecordStage records one pipeline stage execution
func (r *Registry) RecordStage(stage string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.StageRunsTotal.WithLabelValues(stage, status).Inc()
	r.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordOutcomes adds builder outcome counts, keyed by outcome name
func (r *Registry) RecordOutcomes(counts map[string]int) {
	for outcome, n := range counts {
		r.IngestRecordsTotal.WithLabelValues(outcome).Add(float64(n))
	}
}

// RecordIngest counts table rows and bytes read
func (r *Registry) RecordIngest(rows int, bytes int64) {
	r.IngestRowsTotal.Add(float64(rows))
	r.IngestBytesTotal.Add(float64(bytes))
}

// UpdateGraphMetrics sets the graph size gauges
func (r *Registry) UpdateGraphMetrics(argNodes, mgeNodes, coloEdges, temporalEdges, patients, adjacencyNodes int) {
	r.GraphNodes.WithLabelValues("arg").Set(float64(argNodes))
	r.GraphNodes.WithLabelValues("mge").Set(float64(mgeNodes))
	r.GraphEdges.WithLabelValues("colocalization").Set(float64(coloEdges))
	r.GraphEdges.WithLabelValues("temporal").Set(float64(temporalEdges))
	r.GraphPatients.Set(float64(patients))
	r.GraphAdjacencyNodes.Set(float64(adjacencyNodes))
}

// RecordPattern sets the match gauges for one cohort and presence pattern
func (r *Registry) RecordPattern(cohort, pattern string, entries, pairs int) {
	r.PatternMatches.WithLabelValues(cohort, pattern).Set(float64(entries))
	r.PatternPairs.WithLabelValues(cohort, pattern).Set(float64(pairs))
}

// SetTimelineEntries sets the number of (patient, ARG, MGE) entries per cohort
func (r *Registry) SetTimelineEntries(cohort string, n int) {
	r.TimelineEntries.WithLabelValues(cohort).Set(float64(n))
}

// SetDynamics sets the number of entries in one dynamics class
func (r *Registry) SetDynamics(dynamics string, n int) {
	r.DynamicsEntries.WithLabelValues(dynamics).Set(float64(n))
}

// RecordExport counts bytes written in a given format
func (r *Registry) RecordExport(format string, n int64) {
	r.ExportBytesTotal.WithLabelValues(format).Add(float64(n))
}

// SetRunInfo stamps the run identity and start time
func (r *Registry) SetRunInfo(runID, strategy string, start time.Time) {
	r.RunInfo.WithLabelValues(runID, strategy).Set(1)
	r.RunStartTime.Set(float64(start.Unix()))
}

// UpdateSystemMetrics samples runtime statistics
func (r *Registry) UpdateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}

// WriteTextfile writes every metric to path in the Prometheus text format,
// for collection by the node exporter's textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	r.UpdateSystemMetrics()
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
