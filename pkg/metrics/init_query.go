package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initQueryMetrics() {
	r.TimelineEntries = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "conet_timeline_entries",
			Help: "(patient, ARG, MGE) entries in the colocalization timeline",
		},
		[]string{"cohort"},
	)

	r.PatternMatches = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "conet_pattern_matches",
			Help: "Timeline entries matching each presence pattern",
		},
		[]string{"cohort", "pattern"},
	)

	r.PatternPairs = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "conet_pattern_pairs",
			Help: "ARG-MGE pairs with at least one patient matching each presence pattern",
		},
		[]string{"cohort", "pattern"},
	)

	r.DynamicsEntries = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "conet_dynamics_entries",
			Help: "Timeline entries per temporal dynamics class",
		},
		[]string{"dynamics"},
	)
}
