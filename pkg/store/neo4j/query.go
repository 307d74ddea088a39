package neo4j

import (
	"fmt"

	"github.com/OFFIS-RIT/newsgraph/pkg/common"
)

const entityConstraintQuery = `
CREATE CONSTRAINT entity_name IF NOT EXISTS
FOR (e:Entity) REQUIRE e.name IS UNIQUE
`

const mergeEntitiesQuery = `
UNWIND $rows AS row
MERGE (e:Entity {name: row.name})
SET e.type = row.type
RETURN count(e) AS saved
`

// Auto-create: missing endpoints become untyped placeholder nodes.
const mergeRelationshipsAutoQuery = `
UNWIND $rows AS row
MERGE (s:Entity {name: row.subject})
MERGE (o:Entity {name: row.object})
MERGE (s)-[r:RELATED {predicate: row.predicate}]->(o)
RETURN count(r) AS saved
`

// Reject: rows whose endpoints are not both present produce no match.
const mergeRelationshipsMatchQuery = `
UNWIND $rows AS row
MATCH (s:Entity {name: row.subject})
MATCH (o:Entity {name: row.object})
MERGE (s)-[r:RELATED {predicate: row.predicate}]->(o)
RETURN count(r) AS saved
`

const subgraphAPOCQuery = `
MATCH (e:Entity {name: $name})
CALL apoc.path.subgraphAll(e, {maxLevel: $depth})
YIELD nodes, relationships
RETURN nodes, relationships
`

// Variable-length bounds cannot be parameters, so depth is formatted in.
const subgraphCypherQuery = `
MATCH (seed:Entity {name: $name})
MATCH (seed)-[:RELATED*0..%d]-(n:Entity)
WITH collect(DISTINCT n) AS nodes
OPTIONAL MATCH (a:Entity)-[r:RELATED]->(b:Entity)
WHERE a IN nodes AND b IN nodes
RETURN nodes, collect(DISTINCT r) AS relationships
`

func relationshipQuery(policy common.EndpointPolicy) string {
	if policy == common.RejectUnknownEndpoints {
		return mergeRelationshipsMatchQuery
	}
	return mergeRelationshipsAutoQuery
}

// subgraphQuery expects a depth already checked by store.ValidateDepth.
func subgraphQuery(depth int, apoc bool) string {
	if apoc {
		return subgraphAPOCQuery
	}
	return fmt.Sprintf(subgraphCypherQuery, depth)
}

func entityRows(entities []common.Entity) []map[string]any {
	rows := make([]map[string]any, 0, len(entities))
	for _, e := range entities {
		rows = append(rows, map[string]any{
			"name": e.Name,
			"type": string(e.Type),
		})
	}
	return rows
}

func relationshipRows(relations []common.Relationship) []map[string]any {
	rows := make([]map[string]any, 0, len(relations))
	for _, r := range relations {
		rows = append(rows, map[string]any{
			"subject":   r.Subject,
			"predicate": r.Predicate,
			"object":    r.Object,
		})
	}
	return rows
}
