package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/dd0wney/conet/pkg/query"
)

// Edge kind values as they appear in resolver maps.
const (
	edgeColocalization = "colocalization"
	edgeTemporal       = "temporal"
)

// Presence enum values, mapped to query presence requirements.
const (
	presencePresent = "present"
	presenceAbsent  = "absent"
	presenceAny     = "any"
)

var presenceValues = map[string]query.Presence{
	presencePresent: query.Present,
	presenceAbsent:  query.Absent,
	presenceAny:     query.Any,
}

// types holds the object types of the schema. Resolvers hand back
// map[string]any values, which the default field resolver reads by key.
type types struct {
	kind     *graphql.Enum
	edgeKind *graphql.Enum
	presence *graphql.Enum

	entity       *graphql.Object
	node         *graphql.Object
	edge         *graphql.Object
	entry        *graphql.Object
	pairTimeline *graphql.Object
	pairCount    *graphql.Object
	entityCount  *graphql.Object
	pattern      *graphql.Object
	connectedARG *graphql.Object
	groupCount   *graphql.Object
	cohort       *graphql.Object
	statistics   *graphql.Object
}

func newTypes(r *resolver) *types {
	t := &types{}

	t.kind = graphql.NewEnum(graphql.EnumConfig{
		Name: "Kind",
		Values: graphql.EnumValueConfigMap{
			"ARG": &graphql.EnumValueConfig{Value: "ARG", Description: "antibiotic resistance gene"},
			"MGE": &graphql.EnumValueConfig{Value: "MGE", Description: "mobile genetic element"},
		},
	})
	t.edgeKind = graphql.NewEnum(graphql.EnumConfig{
		Name: "EdgeKind",
		Values: graphql.EnumValueConfigMap{
			"COLOCALIZATION": &graphql.EnumValueConfig{Value: edgeColocalization},
			"TEMPORAL":       &graphql.EnumValueConfig{Value: edgeTemporal},
		},
	})
	t.presence = graphql.NewEnum(graphql.EnumConfig{
		Name: "Presence",
		Values: graphql.EnumValueConfigMap{
			"PRESENT": &graphql.EnumValueConfig{Value: presencePresent},
			"ABSENT":  &graphql.EnumValueConfig{Value: presenceAbsent},
			"ANY":     &graphql.EnumValueConfig{Value: presenceAny},
		},
	})

	t.entity = graphql.NewObject(graphql.ObjectConfig{
		Name: "Entity",
		Fields: graphql.Fields{
			"id":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"kind":  &graphql.Field{Type: graphql.NewNonNull(t.kind)},
			"name":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"group": &graphql.Field{Type: graphql.String},
			"class": &graphql.Field{Type: graphql.String, Description: "resistance class, ARGs only"},
			"label": &graphql.Field{Type: graphql.String, Description: "display label, MGEs only"},
		},
	})

	t.node = graphql.NewObject(graphql.ObjectConfig{
		Name: "Node",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"entity":    &graphql.Field{Type: t.entity},
			"timepoint": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"day":       &graphql.Field{Type: graphql.Int, Description: "days after transplant, post-FMT nodes only"},
			"patients": &graphql.Field{
				Type:    graphql.NewList(graphql.Int),
				Resolve: r.nodePatients,
			},
		},
	})

	t.edge = graphql.NewObject(graphql.ObjectConfig{
		Name: "Edge",
		Fields: graphql.Fields{
			"kind":     &graphql.Field{Type: graphql.NewNonNull(t.edgeKind)},
			"source":   &graphql.Field{Type: t.node},
			"target":   &graphql.Field{Type: t.node},
			"patients": &graphql.Field{Type: graphql.NewList(graphql.Int)},
			"weight":   &graphql.Field{Type: graphql.Int},
		},
	})

	t.entry = graphql.NewObject(graphql.ObjectConfig{
		Name: "TimelineEntry",
		Fields: graphql.Fields{
			"patient":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"cohort":     &graphql.Field{Type: graphql.String},
			"arg":        &graphql.Field{Type: t.entity},
			"mge":        &graphql.Field{Type: t.entity},
			"timepoints": &graphql.Field{Type: graphql.NewList(graphql.String)},
			"pattern":    &graphql.Field{Type: graphql.String},
			"dynamics":   &graphql.Field{Type: graphql.String},
		},
	})

	t.pairTimeline = graphql.NewObject(graphql.ObjectConfig{
		Name: "PairTimeline",
		Fields: graphql.Fields{
			"arg":        &graphql.Field{Type: t.entity},
			"mge":        &graphql.Field{Type: t.entity},
			"label":      &graphql.Field{Type: graphql.String},
			"timepoints": &graphql.Field{Type: graphql.NewList(graphql.String)},
			"pattern":    &graphql.Field{Type: graphql.String},
		},
	})

	t.pairCount = graphql.NewObject(graphql.ObjectConfig{
		Name: "PairCount",
		Fields: graphql.Fields{
			"arg":   &graphql.Field{Type: t.entity},
			"mge":   &graphql.Field{Type: t.entity},
			"label": &graphql.Field{Type: graphql.String},
			"count": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	t.entityCount = graphql.NewObject(graphql.ObjectConfig{
		Name: "EntityCount",
		Fields: graphql.Fields{
			"entity": &graphql.Field{Type: t.entity},
			"count":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	t.pattern = graphql.NewObject(graphql.ObjectConfig{
		Name: "PatternResult",
		Fields: graphql.Fields{
			"cohort":  &graphql.Field{Type: graphql.String},
			"pattern": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"slug":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"entries": &graphql.Field{Type: graphql.Int, Description: "timeline entries with exactly this pattern"},
			"pairs":   &graphql.Field{Type: graphql.NewList(t.pairCount)},
		},
	})

	t.connectedARG = graphql.NewObject(graphql.ObjectConfig{
		Name: "ConnectedARG",
		Fields: graphql.Fields{
			"arg":        &graphql.Field{Type: t.entity},
			"timepoints": &graphql.Field{Type: graphql.NewList(graphql.String)},
			"patients":   &graphql.Field{Type: graphql.Int},
		},
	})

	t.groupCount = graphql.NewObject(graphql.ObjectConfig{
		Name: "GroupCount",
		Fields: graphql.Fields{
			"group":    &graphql.Field{Type: graphql.String},
			"pairs":    &graphql.Field{Type: graphql.Int},
			"patients": &graphql.Field{Type: graphql.Int},
			"entries":  &graphql.Field{Type: graphql.Int},
		},
	})

	t.cohort = graphql.NewObject(graphql.ObjectConfig{
		Name: "Cohort",
		Fields: graphql.Fields{
			"label":    &graphql.Field{Type: graphql.String},
			"patients": &graphql.Field{Type: graphql.NewList(graphql.Int)},
			"entries":  &graphql.Field{Type: graphql.Int},
		},
	})

	statsFields := graphql.Fields{
		"runId": &graphql.Field{Type: graphql.String},
	}
	for _, name := range []string{
		"totalNodes", "totalEdges", "argNodes", "mgeNodes",
		"colocalizationEdges", "temporalEdges", "adjacencyNodes",
		"patients", "timelineEntries",
	} {
		statsFields[name] = &graphql.Field{Type: graphql.Int}
	}
	t.statistics = graphql.NewObject(graphql.ObjectConfig{
		Name:   "Statistics",
		Fields: statsFields,
	})

	return t
}
