package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/OFFIS-RIT/newsgraph/pkg/common"
)

// DefaultSubgraphDepth is the number of hops explored when the caller does
// not ask for a specific depth.
const DefaultSubgraphDepth = 2

// ErrInvalidDepth is returned for a negative subgraph depth.
var ErrInvalidDepth = errors.New("depth must be a non-negative integer")

// RelationshipSaveResult reports how many relationships were written and how
// many were skipped because an endpoint was unknown under
// common.RejectUnknownEndpoints.
type RelationshipSaveResult struct {
	Saved   int
	Skipped int
}

// GraphStorage defines the interface for persisting and querying the news graph.
//
// Entities are upserted by name. Relationships are upserted by
// (subject, predicate, object); how unknown endpoints are treated is fixed
// per store through a common.EndpointPolicy.
type GraphStorage interface {
	SaveEntities(ctx context.Context, entities []common.Entity) (int, error)
	SaveRelationships(ctx context.Context, relations []common.Relationship) (RelationshipSaveResult, error)

	// GetSubgraph returns every node reachable from seed within maxDepth
	// hops in either direction, together with the stored relationships
	// between those nodes. An unknown seed yields an empty subgraph.
	GetSubgraph(ctx context.Context, seed string, maxDepth int) (*common.Subgraph, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// ValidateDepth rejects negative depths.
func ValidateDepth(depth int) error {
	if depth < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDepth, depth)
	}
	return nil
}
