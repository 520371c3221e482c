package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphNodes = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "conet_graph_nodes",
			Help: "Nodes in the colocalization graph, by entity kind",
		},
		[]string{"kind"},
	)

	r.GraphEdges = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "conet_graph_edges",
			Help: "Edges in the colocalization graph, by edge kind",
		},
		[]string{"kind"},
	)

	r.GraphPatients = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "conet_graph_patients",
			Help: "Distinct patients on colocalization edges",
		},
	)

	r.GraphAdjacencyNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "conet_graph_adjacency_nodes",
			Help: "Nodes with an adjacency entry",
		},
	)
}
