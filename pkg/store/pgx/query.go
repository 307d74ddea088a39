package pgx

import (
	"github.com/OFFIS-RIT/newsgraph/pkg/common"
)

const upsertEntitiesQuery = `
INSERT INTO entities (name, type)
SELECT * FROM unnest($1::text[], $2::text[])
ON CONFLICT (name) DO UPDATE
SET type = EXCLUDED.type, updated_at = now()
`

const insertPlaceholdersQuery = `
INSERT INTO entities (name)
SELECT unnest($1::text[])
ON CONFLICT (name) DO NOTHING
`

// Rows without both endpoints drop out of the join and count as skipped.
const insertRelationshipsQuery = `
WITH input AS (
    SELECT * FROM unnest($1::text[], $2::text[], $3::text[]) AS r (subject, predicate, object)
),
matched AS (
    SELECT s.id AS subject_id, o.id AS object_id, input.predicate
    FROM input
    JOIN entities s ON s.name = input.subject
    JOIN entities o ON o.name = input.object
),
inserted AS (
    INSERT INTO relationships (subject_id, object_id, predicate)
    SELECT subject_id, object_id, predicate FROM matched
    ON CONFLICT (subject_id, object_id, predicate) DO NOTHING
)
SELECT count(*) FROM matched
`

const subgraphNodesQuery = `
WITH RECURSIVE edges AS (
    SELECT subject_id AS a, object_id AS b FROM relationships
    UNION ALL
    SELECT object_id AS a, subject_id AS b FROM relationships
),
walk (id, depth) AS (
    SELECT id, 0 FROM entities WHERE name = $1
    UNION
    SELECT edges.b, walk.depth + 1
    FROM walk
    JOIN edges ON edges.a = walk.id
    WHERE walk.depth < $2
)
SELECT e.name, e.type
FROM walk
JOIN entities e ON e.id = walk.id
GROUP BY e.id, e.name, e.type
ORDER BY min(walk.depth), e.id
`

const subgraphRelationshipsQuery = `
SELECT s.name, r.predicate, o.name
FROM relationships r
JOIN entities s ON s.id = r.subject_id
JOIN entities o ON o.id = r.object_id
WHERE s.name = ANY($1) AND o.name = ANY($1)
ORDER BY r.id
`

func entityColumns(entities []common.Entity) (names, types []string) {
	names = make([]string, len(entities))
	types = make([]string, len(entities))
	for i, e := range entities {
		names[i] = e.Name
		types[i] = string(e.Type)
	}
	return names, types
}

func relationshipColumns(relations []common.Relationship) (subjects, predicates, objects []string) {
	subjects = make([]string, len(relations))
	predicates = make([]string, len(relations))
	objects = make([]string, len(relations))
	for i, r := range relations {
		subjects[i] = r.Subject
		predicates[i] = r.Predicate
		objects[i] = r.Object
	}
	return subjects, predicates, objects
}

// endpointNames lists each subject and object once, in first-seen order.
func endpointNames(relations []common.Relationship) []string {
	seen := make(map[string]struct{}, len(relations)*2)
	out := make([]string, 0, len(relations)*2)
	for _, r := range relations {
		for _, n := range []string{r.Subject, r.Object} {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}
