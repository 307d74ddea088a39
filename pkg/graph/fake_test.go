package graph

import (
	"context"
	"strings"

	"github.com/OFFIS-RIT/newsgraph/pkg/ai"
	"github.com/OFFIS-RIT/newsgraph/pkg/common"
	"github.com/OFFIS-RIT/newsgraph/pkg/store"
)

type fakeAIClient struct {
	ai.MetricsTracker

	respond func(prompt string) (string, error)
	prompts []string
	options []ai.GenerateOptions
}

func (f *fakeAIClient) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.options = append(f.options, ai.ApplyOptions(ai.GenerateOptions{}, opts...))
	f.AddMetrics(ai.ModelMetrics{})
	return f.respond(prompt)
}

func isRelationshipPrompt(prompt string) bool {
	return strings.Contains(prompt, "# Entities")
}

// scripted answers entity prompts with entities and relationship prompts
// with relationships.
func scripted(entities, relationships string) *fakeAIClient {
	return &fakeAIClient{
		respond: func(prompt string) (string, error) {
			if isRelationshipPrompt(prompt) {
				return relationships, nil
			}
			return entities, nil
		},
	}
}

type fakeStorage struct {
	entities  []common.Entity
	relations []common.Relationship
	err       error
}

func (s *fakeStorage) SaveEntities(ctx context.Context, entities []common.Entity) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.entities = append(s.entities, entities...)
	return len(entities), nil
}

func (s *fakeStorage) SaveRelationships(ctx context.Context, relations []common.Relationship) (store.RelationshipSaveResult, error) {
	if s.err != nil {
		return store.RelationshipSaveResult{}, s.err
	}
	s.relations = append(s.relations, relations...)
	return store.RelationshipSaveResult{Saved: len(relations)}, nil
}

func (s *fakeStorage) GetSubgraph(ctx context.Context, seed string, maxDepth int) (*common.Subgraph, error) {
	return common.EmptySubgraph(), nil
}

func (s *fakeStorage) Ping(ctx context.Context) error { return nil }

func (s *fakeStorage) Close(ctx context.Context) error { return nil }
