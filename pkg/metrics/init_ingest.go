package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initIngestMetrics() {
	r.IngestRecordsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "conet_ingest_records_total",
			Help: "Presence records fed to the graph builder, by outcome",
		},
		[]string{"outcome"},
	)

	r.IngestRowsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "conet_ingest_rows_total",
			Help: "Data rows read from the input table",
		},
	)

	r.IngestBytesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "conet_ingest_bytes_total",
			Help: "Bytes read from input sources",
		},
	)
}
