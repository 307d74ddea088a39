package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/OFFIS-RIT/newsgraph/pkg/ai"
)

const completionResponse = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1729555200,
  "model": "gemini-2.5-flash",
  "choices": [
    {
      "index": 0,
      "message": {"role": "assistant", "content": "[{\"entity\":\"Apple\",\"type\":\"ORGANIZATION\"}]"},
      "finish_reason": "stop"
    }
  ],
  "usage": {"prompt_tokens": 12, "completion_tokens": 8, "total_tokens": 20}
}`

func TestGenerateCompletion(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Errorf("invalid request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionResponse))
	}))
	defer srv.Close()

	client := NewGraphOpenAIClient(NewGraphOpenAIClientParams{
		ExtractionModel: "gemini-2.5-flash",
		ChatURL:         srv.URL + "/",
		ChatKey:         "test-key",
		SendTopK:        true,
	})

	got, err := client.GenerateCompletion(
		context.Background(),
		"Extract entities",
		ai.WithTemperature(0.2),
		ai.WithTopP(0.95),
		ai.WithTopK(64),
		ai.WithMaxOutputTokens(1024),
	)
	if err != nil {
		t.Fatalf("GenerateCompletion() error = %v", err)
	}
	if got != `[{"entity":"Apple","type":"ORGANIZATION"}]` {
		t.Fatalf("unexpected completion %q", got)
	}

	if body["model"] != "gemini-2.5-flash" {
		t.Fatalf("unexpected model %v", body["model"])
	}
	if body["top_p"] != 0.95 {
		t.Fatalf("unexpected top_p %v", body["top_p"])
	}
	if body["top_k"] != float64(64) {
		t.Fatalf("unexpected top_k %v", body["top_k"])
	}
	if body["max_tokens"] != float64(1024) {
		t.Fatalf("unexpected max_tokens %v", body["max_tokens"])
	}

	metrics := client.GetMetrics()
	if metrics.Requests != 1 || metrics.TotalTokens != 20 {
		t.Fatalf("unexpected metrics %+v", metrics)
	}
}

func TestGenerateCompletionWithoutKey(t *testing.T) {
	client := NewGraphOpenAIClient(NewGraphOpenAIClientParams{ExtractionModel: "gpt-4o-mini"})
	if _, err := client.GenerateCompletion(context.Background(), "hi"); err == nil {
		t.Fatalf("expected error for client without API key")
	}
}

func TestBuildRequestOmitsTopKByDefault(t *testing.T) {
	client := NewGraphOpenAIClient(NewGraphOpenAIClientParams{ExtractionModel: "gpt-4o-mini", ChatKey: "k"})
	_, reqOpts := client.buildRequest("hi", ai.GenerateOptions{Model: "gpt-4o-mini", TopK: 64})
	if len(reqOpts) != 0 {
		t.Fatalf("expected no extra request options, got %d", len(reqOpts))
	}
}
