// Package memory provides an in-process GraphStorage used by tests, local
// runs of the server and as a fallback when no database is configured.
package memory

import (
	"context"
	"sync"

	"github.com/OFFIS-RIT/newsgraph/pkg/common"
	"github.com/OFFIS-RIT/newsgraph/pkg/store"
)

// GraphMemoryStorage keeps entities and directed relationships in maps. It is
// safe for concurrent use.
type GraphMemoryStorage struct {
	mu     sync.RWMutex
	policy common.EndpointPolicy

	order    []string
	entities map[string]common.Entity

	relations []common.Relationship
	relSeen   map[common.Relationship]struct{}
	adjacent  map[string][]int
}

// NewGraphMemoryStorage creates an empty store. An empty policy means
// common.AutoCreateEndpoints.
func NewGraphMemoryStorage(policy common.EndpointPolicy) *GraphMemoryStorage {
	if policy == "" {
		policy = common.AutoCreateEndpoints
	}
	return &GraphMemoryStorage{
		policy:   policy,
		entities: make(map[string]common.Entity),
		relSeen:  make(map[common.Relationship]struct{}),
		adjacent: make(map[string][]int),
	}
}

func (s *GraphMemoryStorage) SaveEntities(ctx context.Context, entities []common.Entity) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	entities = store.DedupeEntities(entities)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entities {
		s.upsertEntity(e)
	}
	return len(entities), nil
}

func (s *GraphMemoryStorage) upsertEntity(e common.Entity) {
	if _, ok := s.entities[e.Name]; !ok {
		s.order = append(s.order, e.Name)
	}
	s.entities[e.Name] = e
}

func (s *GraphMemoryStorage) SaveRelationships(ctx context.Context, relations []common.Relationship) (store.RelationshipSaveResult, error) {
	var res store.RelationshipSaveResult
	if err := ctx.Err(); err != nil {
		return res, err
	}
	relations = store.DedupeRelationships(relations)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range relations {
		_, subjectKnown := s.entities[r.Subject]
		_, objectKnown := s.entities[r.Object]
		if !subjectKnown || !objectKnown {
			if s.policy == common.RejectUnknownEndpoints {
				res.Skipped++
				continue
			}
			if !subjectKnown {
				s.upsertEntity(common.Entity{Name: r.Subject})
			}
			if !objectKnown {
				s.upsertEntity(common.Entity{Name: r.Object})
			}
		}

		if _, ok := s.relSeen[r]; ok {
			res.Saved++
			continue
		}
		s.relSeen[r] = struct{}{}
		idx := len(s.relations)
		s.relations = append(s.relations, r)
		s.adjacent[r.Subject] = append(s.adjacent[r.Subject], idx)
		if r.Object != r.Subject {
			s.adjacent[r.Object] = append(s.adjacent[r.Object], idx)
		}
		res.Saved++
	}
	return res, nil
}

// GetSubgraph walks relationships in both directions breadth first.
func (s *GraphMemoryStorage) GetSubgraph(ctx context.Context, seed string, maxDepth int) (*common.Subgraph, error) {
	if err := store.ValidateDepth(maxDepth); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := common.EmptySubgraph()
	root, ok := s.entities[seed]
	if !ok {
		return result, nil
	}

	visited := map[string]bool{seed: true}
	result.Nodes = append(result.Nodes, root)
	queue := []string{seed}

	for depth := 0; depth < maxDepth && len(queue) > 0; depth++ {
		var next []string
		for _, name := range queue {
			for _, idx := range s.adjacent[name] {
				r := s.relations[idx]
				neighbour := r.Object
				if neighbour == name {
					neighbour = r.Subject
				}
				if visited[neighbour] {
					continue
				}
				visited[neighbour] = true
				result.Nodes = append(result.Nodes, s.entities[neighbour])
				next = append(next, neighbour)
			}
		}
		queue = next
	}

	for _, r := range s.relations {
		if visited[r.Subject] && visited[r.Object] {
			result.Relationships = append(result.Relationships, r)
		}
	}

	return result, nil
}

func (s *GraphMemoryStorage) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *GraphMemoryStorage) Close(ctx context.Context) error {
	return nil
}
