package pgx

import (
	"context"
	"fmt"

	"github.com/OFFIS-RIT/newsgraph/pkg/common"
	"github.com/OFFIS-RIT/newsgraph/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
)

// SaveEntities upserts entities by name.
func (s *GraphDBStorage) SaveEntities(ctx context.Context, entities []common.Entity) (int, error) {
	entities = store.DedupeEntities(entities)
	if len(entities) == 0 {
		return 0, nil
	}

	names, types := entityColumns(entities)
	tag, err := s.conn.Exec(ctx, upsertEntitiesQuery, names, types)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert entities: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// SaveRelationships stores relationships in one transaction. Placeholder
// endpoints are created first unless the policy rejects unknown endpoints.
func (s *GraphDBStorage) SaveRelationships(ctx context.Context, relations []common.Relationship) (store.RelationshipSaveResult, error) {
	var res store.RelationshipSaveResult
	relations = store.DedupeRelationships(relations)
	if len(relations) == 0 {
		return res, nil
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if s.policy != common.RejectUnknownEndpoints {
		if _, err := tx.Exec(ctx, insertPlaceholdersQuery, endpointNames(relations)); err != nil {
			return res, fmt.Errorf("failed to create endpoint placeholders: %w", err)
		}
	}

	subjects, predicates, objects := relationshipColumns(relations)
	var matched int64
	if err := tx.QueryRow(ctx, insertRelationshipsQuery, subjects, predicates, objects).Scan(&matched); err != nil {
		return res, fmt.Errorf("failed to insert relationships: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return res, fmt.Errorf("failed to commit relationships: %w", err)
	}

	res.Saved = int(matched)
	res.Skipped = len(relations) - res.Saved
	return res, nil
}

// GetSubgraph expands from the seed over relationships in both directions.
func (s *GraphDBStorage) GetSubgraph(ctx context.Context, seed string, maxDepth int) (*common.Subgraph, error) {
	if err := store.ValidateDepth(maxDepth); err != nil {
		return nil, err
	}

	sg := common.EmptySubgraph()

	rows, err := s.conn.Query(ctx, subgraphNodesQuery, seed, maxDepth)
	if err != nil {
		return nil, fmt.Errorf("failed to query subgraph nodes: %w", err)
	}
	sg.Nodes, err = pgxv5.CollectRows(rows, func(row pgxv5.CollectableRow) (common.Entity, error) {
		var e common.Entity
		err := row.Scan(&e.Name, &e.Type)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read subgraph nodes: %w", err)
	}
	if len(sg.Nodes) == 0 {
		return common.EmptySubgraph(), nil
	}

	names := make([]string, len(sg.Nodes))
	for i, n := range sg.Nodes {
		names[i] = n.Name
	}

	rows, err = s.conn.Query(ctx, subgraphRelationshipsQuery, names)
	if err != nil {
		return nil, fmt.Errorf("failed to query subgraph relationships: %w", err)
	}
	sg.Relationships, err = pgxv5.CollectRows(rows, func(row pgxv5.CollectableRow) (common.Relationship, error) {
		var r common.Relationship
		err := row.Scan(&r.Subject, &r.Predicate, &r.Object)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read subgraph relationships: %w", err)
	}
	if sg.Relationships == nil {
		sg.Relationships = []common.Relationship{}
	}

	return sg, nil
}
