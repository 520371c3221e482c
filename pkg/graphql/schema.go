// Package graphql answers read-only GraphQL queries over an analysed run:
// graph nodes and edges, per-patient timelines, presence patterns, dynamics
// classes and rankings.
package graphql

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/conet/pkg/catalog"
	"github.com/dd0wney/conet/pkg/graph"
	"github.com/dd0wney/conet/pkg/pipeline"
	"github.com/dd0wney/conet/pkg/traversal"
)

// Data is the run a schema answers from. It must not change once a schema
// has been built over it.
type Data struct {
	RunID      string
	Graph      *graph.Graph
	Adjacency  *graph.Adjacency
	Catalog    *catalog.Catalog
	Timeline   traversal.Timeline
	Cohorts    map[int]string
	Statistics graph.Statistics
}

// FromRun returns the query data of a loaded run.
func FromRun(run *pipeline.Run) *Data {
	return &Data{
		RunID:      run.ID,
		Graph:      run.Graph,
		Adjacency:  run.Adjacency,
		Catalog:    run.Catalog,
		Timeline:   run.Timeline,
		Cohorts:    run.Cohorts,
		Statistics: run.Statistics,
	}
}

// GenerateSchema builds the query schema over d. A nil limits uses
// DefaultLimits.
func GenerateSchema(d *Data, limits *LimitConfig) (graphql.Schema, error) {
	if d == nil || d.Graph == nil || d.Catalog == nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: graph and catalog are required")
	}
	if limits == nil {
		limits = DefaultLimits()
	}
	if err := ValidateLimitConfig(limits); err != nil {
		return graphql.Schema{}, err
	}

	r := newResolver(d, limits)
	t := newTypes(r)

	listArgs := func(extra graphql.FieldConfigArgument) graphql.FieldConfigArgument {
		args := graphql.FieldConfigArgument{
			"limit":  &graphql.ArgumentConfig{Type: graphql.Int},
			"offset": &graphql.ArgumentConfig{Type: graphql.Int},
		}
		for k, v := range extra {
			args[k] = v
		}
		return args
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(graphql.ResolveParams) (any, error) {
					return "ok", nil
				},
			},
			"statistics": &graphql.Field{
				Type:    t.statistics,
				Resolve: r.statistics,
			},
			"cohorts": &graphql.Field{
				Type:    graphql.NewList(t.cohort),
				Resolve: r.cohorts,
			},
			"nodes": &graphql.Field{
				Type: graphql.NewList(t.node),
				Args: listArgs(graphql.FieldConfigArgument{
					"kind":      &graphql.ArgumentConfig{Type: t.kind},
					"timepoint": &graphql.ArgumentConfig{Type: graphql.String},
					"name":      &graphql.ArgumentConfig{Type: graphql.String},
				}),
				Resolve: r.nodes,
			},
			"edges": &graphql.Field{
				Type: graphql.NewList(t.edge),
				Args: listArgs(graphql.FieldConfigArgument{
					"kind":    &graphql.ArgumentConfig{Type: t.edgeKind},
					"patient": &graphql.ArgumentConfig{Type: graphql.Int},
				}),
				Resolve: r.edges,
			},
			"timeline": &graphql.Field{
				Type: graphql.NewList(t.entry),
				Args: listArgs(graphql.FieldConfigArgument{
					"patient": &graphql.ArgumentConfig{Type: graphql.Int},
					"cohort":  &graphql.ArgumentConfig{Type: graphql.String},
					"pattern": &graphql.ArgumentConfig{Type: graphql.String},
					"arg":     &graphql.ArgumentConfig{Type: graphql.String},
					"mge":     &graphql.ArgumentConfig{Type: graphql.String},
					"donor":   &graphql.ArgumentConfig{Type: t.presence},
					"preFMT":  &graphql.ArgumentConfig{Type: t.presence},
					"postFMT": &graphql.ArgumentConfig{Type: t.presence},
				}),
				Resolve: r.timeline,
			},
			"pairTimeline": &graphql.Field{
				Type:        graphql.NewList(t.pairTimeline),
				Description: "timepoints reachable from each pair's earliest occurrence in any patient",
				Args: listArgs(graphql.FieldConfigArgument{
					"arg": &graphql.ArgumentConfig{Type: graphql.String},
					"mge": &graphql.ArgumentConfig{Type: graphql.String},
				}),
				Resolve: r.pairTimeline,
			},
			"dynamics": &graphql.Field{
				Type: graphql.NewList(t.entry),
				Args: listArgs(graphql.FieldConfigArgument{
					"class":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"cohort": &graphql.ArgumentConfig{Type: graphql.String},
				}),
				Resolve: r.dynamics,
			},
			"patterns": &graphql.Field{
				Type: graphql.NewList(t.pattern),
				Args: graphql.FieldConfigArgument{
					"cohort":  &graphql.ArgumentConfig{Type: graphql.String},
					"pattern": &graphql.ArgumentConfig{Type: graphql.String},
					"limit":   &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: r.patterns,
			},
			"topPairs": &graphql.Field{
				Type: graphql.NewList(t.pairCount),
				Args: graphql.FieldConfigArgument{
					"limit":        &graphql.ArgumentConfig{Type: graphql.Int},
					"excludeDonor": &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
				},
				Resolve: r.topPairs,
			},
			"topEntities": &graphql.Field{
				Type: graphql.NewList(t.entityCount),
				Args: graphql.FieldConfigArgument{
					"kind":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(t.kind)},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: r.topEntities,
			},
			"connectedARGs": &graphql.Field{
				Type: graphql.NewList(t.connectedARG),
				Args: graphql.FieldConfigArgument{
					"mge": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.connectedARGs,
			},
			"mgeGroups": &graphql.Field{
				Type: graphql.NewList(t.groupCount),
				Args: graphql.FieldConfigArgument{
					"cohort": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.mgeGroups,
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}
	return schema, nil
}
