package neo4j

import (
	"context"
	"fmt"

	"github.com/OFFIS-RIT/newsgraph/pkg/common"
	"github.com/OFFIS-RIT/newsgraph/pkg/store"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// SaveEntities upserts entities by name in a single write session.
func (s *GraphNeo4jStorage) SaveEntities(ctx context.Context, entities []common.Entity) (int, error) {
	entities = store.DedupeEntities(entities)
	if len(entities) == 0 {
		return 0, nil
	}

	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	saved := 0
	err := store.ChunkRange(len(entities), s.batchSize, func(start, end int) error {
		n, err := writeCount(ctx, session, mergeEntitiesQuery, entityRows(entities[start:end]))
		if err != nil {
			return fmt.Errorf("failed to merge entities: %w", err)
		}
		saved += n
		return nil
	})
	return saved, err
}

// SaveRelationships merges relationships in a single write session. Under
// common.RejectUnknownEndpoints rows with a missing endpoint are counted as
// skipped.
func (s *GraphNeo4jStorage) SaveRelationships(ctx context.Context, relations []common.Relationship) (store.RelationshipSaveResult, error) {
	var res store.RelationshipSaveResult
	relations = store.DedupeRelationships(relations)
	if len(relations) == 0 {
		return res, nil
	}

	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	query := relationshipQuery(s.policy)
	err := store.ChunkRange(len(relations), s.batchSize, func(start, end int) error {
		n, err := writeCount(ctx, session, query, relationshipRows(relations[start:end]))
		if err != nil {
			return fmt.Errorf("failed to merge relationships: %w", err)
		}
		res.Saved += n
		res.Skipped += (end - start) - n
		return nil
	})
	return res, err
}

func writeCount(ctx context.Context, session neo4j.SessionWithContext, query string, rows []map[string]any) (int, error) {
	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, map[string]any{"rows": rows})
		if err != nil {
			return 0, err
		}
		record, err := result.Single(ctx)
		if err != nil {
			return 0, err
		}
		return getIntFromRecord(record, "saved"), nil
	})
	if err != nil {
		return 0, err
	}
	return out.(int), nil
}

// GetSubgraph expands from the seed node up to maxDepth hops in any direction.
func (s *GraphNeo4jStorage) GetSubgraph(ctx context.Context, seed string, maxDepth int) (*common.Subgraph, error) {
	if err := store.ValidateDepth(maxDepth); err != nil {
		return nil, err
	}

	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.Run(ctx, subgraphQuery(maxDepth, s.useAPOC), map[string]any{
		"name":  seed,
		"depth": maxDepth,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query subgraph: %w", err)
	}

	sg := common.EmptySubgraph()
	if result.Next(ctx) {
		record := result.Record()
		nodes, _ := record.Get("nodes")
		rels, _ := record.Get("relationships")
		sg = toSubgraph(nodes, rels)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read subgraph: %w", err)
	}

	return sg, nil
}
