package neo4j

import (
	"github.com/OFFIS-RIT/newsgraph/pkg/common"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

func getIntFromRecord(record *neo4j.Record, key string) int {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0
	}
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func getStringProp(props map[string]any, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

// toSubgraph flattens driver nodes and relationships. Relationship endpoints
// are resolved through the returned nodes; relationships pointing outside
// them are dropped.
func toSubgraph(nodesVal, relsVal any) *common.Subgraph {
	sg := common.EmptySubgraph()

	nodes, _ := nodesVal.([]any)
	names := make(map[string]string, len(nodes))
	for _, raw := range nodes {
		n, ok := raw.(neo4j.Node)
		if !ok {
			continue
		}
		name := getStringProp(n.Props, "name")
		if name == "" {
			continue
		}
		if _, dup := names[n.ElementId]; dup {
			continue
		}
		names[n.ElementId] = name
		sg.Nodes = append(sg.Nodes, common.Entity{
			Name: name,
			Type: common.EntityType(getStringProp(n.Props, "type")),
		})
	}

	rels, _ := relsVal.([]any)
	seen := make(map[string]struct{}, len(rels))
	for _, raw := range rels {
		r, ok := raw.(neo4j.Relationship)
		if !ok {
			continue
		}
		if _, dup := seen[r.ElementId]; dup {
			continue
		}
		subject, okS := names[r.StartElementId]
		object, okO := names[r.EndElementId]
		if !okS || !okO {
			continue
		}
		seen[r.ElementId] = struct{}{}
		sg.Relationships = append(sg.Relationships, common.Relationship{
			Subject:   subject,
			Predicate: getStringProp(r.Props, "predicate"),
			Object:    object,
		})
	}

	return sg
}
