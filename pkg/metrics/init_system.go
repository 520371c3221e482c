package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSystemMetrics() {
	r.RunInfo = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "conet_run_info",
			Help: "Constant 1, labelled with the run ID and temporal strategy",
		},
		[]string{"run_id", "temporal_strategy"},
	)

	r.RunStartTime = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "conet_run_start_timestamp_seconds",
			Help: "Unix time the run started",
		},
	)

	r.GoRoutines = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "conet_goroutines",
			Help: "Number of goroutines",
		},
	)

	r.MemoryAllocBytes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "conet_memory_alloc_bytes",
			Help: "Bytes of allocated heap objects",
		},
	)

	r.MemorySysBytes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "conet_memory_sys_bytes",
			Help: "Total bytes of memory obtained from the OS",
		},
	)
}
