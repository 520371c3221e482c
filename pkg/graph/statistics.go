package graph

import "strconv"

// Statistics summarizes a graph and its adjacency index.
type Statistics struct {
	TotalNodes          int `json:"total_nodes"`
	TotalEdges          int `json:"total_edges"`
	ARGNodes            int `json:"arg_nodes"`
	MGENodes            int `json:"mge_nodes"`
	ColocalizationEdges int `json:"colocalization_edges"`
	TemporalEdges       int `json:"temporal_edges"`
	AdjacencyNodes      int `json:"adjacency_nodes"`
	Patients            int `json:"patients"`
}

// ComputeStatistics counts g. adj may be nil.
func ComputeStatistics(g *Graph, adj *Adjacency) Statistics {
	s := Statistics{
		TotalNodes: g.NodeCount(),
		TotalEdges: g.EdgeCount(),
		Patients:   len(g.Patients()),
	}
	for k := range g.nodes {
		if k.IsARG {
			s.ARGNodes++
		} else {
			s.MGENodes++
		}
	}
	for _, e := range g.edges {
		if e.IsColo {
			s.ColocalizationEdges++
		} else {
			s.TemporalEdges++
		}
	}
	if adj != nil {
		s.AdjacencyNodes = adj.Len()
	}
	return s
}

// Header and Row render the statistics as one CSV record.
func (s Statistics) Header() []string {
	return []string{"Total Nodes", "Total Edges", "Total ARGs", "Total MGEs",
		"Colocalization Edges", "Temporal Edges", "Nodes in Adjacency List", "Patients"}
}

func (s Statistics) Row() []string {
	return []string{itoa(s.TotalNodes), itoa(s.TotalEdges), itoa(s.ARGNodes), itoa(s.MGENodes),
		itoa(s.ColocalizationEdges), itoa(s.TemporalEdges), itoa(s.AdjacencyNodes), itoa(s.Patients)}
}

func itoa(n int) string { return strconv.Itoa(n) }
