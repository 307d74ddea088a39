package bootstrap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/OFFIS-RIT/newsgraph/internal/config"
	"github.com/OFFIS-RIT/newsgraph/pkg/ai"
	anthropicai "github.com/OFFIS-RIT/newsgraph/pkg/ai/anthropic"
	ollamaai "github.com/OFFIS-RIT/newsgraph/pkg/ai/ollama"
	openaiai "github.com/OFFIS-RIT/newsgraph/pkg/ai/openai"
	"github.com/OFFIS-RIT/newsgraph/pkg/common"
	"github.com/OFFIS-RIT/newsgraph/pkg/store/memory"
)

func TestNewAIClient(t *testing.T) {
	tests := []struct {
		adapter string
		check   func(ai.GraphAIClient) bool
	}{
		{config.AdapterOpenAI, func(c ai.GraphAIClient) bool { _, ok := c.(*openaiai.GraphOpenAIClient); return ok }},
		{config.AdapterGemini, func(c ai.GraphAIClient) bool { _, ok := c.(*openaiai.GraphOpenAIClient); return ok }},
		{config.AdapterOllama, func(c ai.GraphAIClient) bool { _, ok := c.(*ollamaai.GraphOllamaClient); return ok }},
		{config.AdapterAnthropic, func(c ai.GraphAIClient) bool { _, ok := c.(*anthropicai.GraphAnthropicClient); return ok }},
	}

	for _, tt := range tests {
		t.Run(tt.adapter, func(t *testing.T) {
			client, err := NewAIClient(config.AIConfig{
				Adapter:       tt.adapter,
				ExtractModel:  "m",
				ChatKey:       "k",
				MaxConcurrent: 1,
			})
			if err != nil {
				t.Fatalf("NewAIClient() error = %v", err)
			}
			if !tt.check(client) {
				t.Fatalf("unexpected client type %T", client)
			}
		})
	}

	if _, err := NewAIClient(config.AIConfig{Adapter: "bard"}); err == nil {
		t.Fatalf("expected error for unknown adapter")
	}
}

type slowClient struct {
	ai.MetricsTracker
}

func (c *slowClient) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestTimeoutClient(t *testing.T) {
	client := &timeoutClient{GraphAIClient: &slowClient{}, timeout: 10 * time.Millisecond}
	_, err := client.GenerateCompletion(context.Background(), "hi")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestNewGraphStorageMemory(t *testing.T) {
	s, err := NewGraphStorage(context.Background(), config.StoreConfig{
		Backend:        config.StoreMemory,
		EndpointPolicy: common.RejectUnknownEndpoints,
	})
	if err != nil {
		t.Fatalf("NewGraphStorage() error = %v", err)
	}
	if _, ok := s.(*memory.GraphMemoryStorage); !ok {
		t.Fatalf("unexpected store type %T", s)
	}

	if _, err := NewGraphStorage(context.Background(), config.StoreConfig{Backend: "sqlite"}); err == nil {
		t.Fatalf("expected error for unknown store")
	}
}
