package memory

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/OFFIS-RIT/newsgraph/pkg/common"
	"github.com/OFFIS-RIT/newsgraph/pkg/store"
)

var _ store.GraphStorage = (*GraphMemoryStorage)(nil)

func names(sg *common.Subgraph) []string {
	out := make([]string, 0, len(sg.Nodes))
	for _, n := range sg.Nodes {
		out = append(out, n.Name)
	}
	return out
}

// chain builds A - B - C - D plus an isolated node X.
func chain(t *testing.T, policy common.EndpointPolicy) *GraphMemoryStorage {
	t.Helper()
	ctx := context.Background()
	s := NewGraphMemoryStorage(policy)
	if _, err := s.SaveEntities(ctx, []common.Entity{
		{Name: "A", Type: common.EntityTypeOrganization},
		{Name: "B", Type: common.EntityTypePerson},
		{Name: "C", Type: common.EntityTypeLocation},
		{Name: "D", Type: common.EntityTypeTechnology},
		{Name: "X", Type: common.EntityTypeDate},
	}); err != nil {
		t.Fatalf("SaveEntities() error = %v", err)
	}
	if _, err := s.SaveRelationships(ctx, []common.Relationship{
		{Subject: "A", Predicate: "employs", Object: "B"},
		{Subject: "C", Predicate: "home of", Object: "B"},
		{Subject: "C", Predicate: "uses", Object: "D"},
	}); err != nil {
		t.Fatalf("SaveRelationships() error = %v", err)
	}
	return s
}

func TestGetSubgraphDepths(t *testing.T) {
	s := chain(t, common.AutoCreateEndpoints)

	tests := []struct {
		name      string
		seed      string
		depth     int
		wantNodes []string
		wantRels  int
	}{
		{name: "isolated node depth 0", seed: "X", depth: 0, wantNodes: []string{"X"}, wantRels: 0},
		{name: "seed alone at depth 0", seed: "B", depth: 0, wantNodes: []string{"B"}, wantRels: 0},
		{name: "depth 1 follows both directions", seed: "B", depth: 1, wantNodes: []string{"B", "A", "C"}, wantRels: 2},
		{name: "default depth", seed: "A", depth: store.DefaultSubgraphDepth, wantNodes: []string{"A", "B", "C"}, wantRels: 2},
		{name: "whole chain", seed: "A", depth: 5, wantNodes: []string{"A", "B", "C", "D"}, wantRels: 3},
		{name: "unknown seed", seed: "nonexistent", depth: 2, wantNodes: []string{}, wantRels: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sg, err := s.GetSubgraph(context.Background(), tt.seed, tt.depth)
			if err != nil {
				t.Fatalf("GetSubgraph() error = %v", err)
			}
			if sg.Nodes == nil || sg.Relationships == nil {
				t.Fatalf("expected non-nil slices")
			}
			if got := names(sg); !reflect.DeepEqual(got, tt.wantNodes) {
				t.Fatalf("nodes = %v, want %v", got, tt.wantNodes)
			}
			if len(sg.Relationships) != tt.wantRels {
				t.Fatalf("relationships = %v, want %d", sg.Relationships, tt.wantRels)
			}
		})
	}
}

func TestGetSubgraphNegativeDepth(t *testing.T) {
	s := chain(t, "")
	if _, err := s.GetSubgraph(context.Background(), "A", -1); !errors.Is(err, store.ErrInvalidDepth) {
		t.Fatalf("expected ErrInvalidDepth, got %v", err)
	}
}

func TestSaveEntitiesUpsertsByName(t *testing.T) {
	ctx := context.Background()
	s := NewGraphMemoryStorage("")
	for i := 0; i < 2; i++ {
		if _, err := s.SaveEntities(ctx, []common.Entity{{Name: "Apple", Type: common.EntityTypeOrganization}}); err != nil {
			t.Fatalf("SaveEntities() error = %v", err)
		}
	}
	sg, err := s.GetSubgraph(ctx, "Apple", 0)
	if err != nil {
		t.Fatalf("GetSubgraph() error = %v", err)
	}
	if len(sg.Nodes) != 1 || len(s.order) != 1 {
		t.Fatalf("expected a single Apple node, got %v", sg.Nodes)
	}
}

func TestSaveRelationshipsPolicies(t *testing.T) {
	ctx := context.Background()
	rel := common.Relationship{Subject: "Apple", Predicate: "partnered with", Object: "OpenAI"}

	t.Run("auto creates endpoints", func(t *testing.T) {
		s := NewGraphMemoryStorage(common.AutoCreateEndpoints)
		res, err := s.SaveRelationships(ctx, []common.Relationship{rel, rel})
		if err != nil {
			t.Fatalf("SaveRelationships() error = %v", err)
		}
		if res.Saved != 1 || res.Skipped != 0 {
			t.Fatalf("unexpected result %+v", res)
		}
		sg, _ := s.GetSubgraph(ctx, "OpenAI", 1)
		if len(sg.Nodes) != 2 || len(sg.Relationships) != 1 {
			t.Fatalf("unexpected subgraph %+v", sg)
		}
	})

	t.Run("reject skips unknown endpoints", func(t *testing.T) {
		s := NewGraphMemoryStorage(common.RejectUnknownEndpoints)
		if _, err := s.SaveEntities(ctx, []common.Entity{{Name: "Apple", Type: common.EntityTypeOrganization}}); err != nil {
			t.Fatalf("SaveEntities() error = %v", err)
		}
		res, err := s.SaveRelationships(ctx, []common.Relationship{rel})
		if err != nil {
			t.Fatalf("SaveRelationships() error = %v", err)
		}
		if res.Saved != 0 || res.Skipped != 1 {
			t.Fatalf("unexpected result %+v", res)
		}
		sg, _ := s.GetSubgraph(ctx, "OpenAI", 1)
		if len(sg.Nodes) != 0 {
			t.Fatalf("expected no placeholder node, got %v", sg.Nodes)
		}
	})
}

func TestCanceledContext(t *testing.T) {
	s := NewGraphMemoryStorage("")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.SaveEntities(ctx, []common.Entity{{Name: "A"}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
