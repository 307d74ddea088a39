package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/OFFIS-RIT/newsgraph/pkg/ai"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultMaxTokens is used when no output ceiling is requested. The messages
// API requires one on every call.
const DefaultMaxTokens = 1024

// GraphAnthropicClient implements ai.GraphAIClient using the Anthropic
// messages API.
type GraphAnthropicClient struct {
	ai.MetricsTracker

	extractionModel string

	Client *anthropic.Client
}

// NewGraphAnthropicClientParams configures a GraphAnthropicClient. BaseURL is
// optional and defaults to the public API.
type NewGraphAnthropicClientParams struct {
	ExtractionModel string

	BaseURL string
	ApiKey  string
}

// NewGraphAnthropicClient creates a client for the given parameters.
func NewGraphAnthropicClient(params NewGraphAnthropicClientParams) *GraphAnthropicClient {
	model := params.ExtractionModel
	if model == "" {
		model = string(anthropic.ModelClaudeHaiku4_5)
	}

	opts := []option.RequestOption{option.WithAPIKey(params.ApiKey)}
	if params.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(params.BaseURL))
	}
	client := anthropic.NewClient(opts...)

	return &GraphAnthropicClient{
		extractionModel: model,
		Client:          &client,
	}
}

// GenerateCompletion sends a single-turn prompt and returns the text blocks
// of the reply joined together.
func (c *GraphAnthropicClient) GenerateCompletion(
	ctx context.Context,
	prompt string,
	opts ...ai.GenerateOption,
) (string, error) {
	options := ai.ApplyOptions(ai.GenerateOptions{
		Model:       c.extractionModel,
		Temperature: 0.2,
	}, opts...)

	start := time.Now()
	resp, err := c.Client.Messages.New(ctx, buildParams(prompt, options))
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	input := int(resp.Usage.InputTokens)
	output := int(resp.Usage.OutputTokens)
	c.AddMetrics(ai.ModelMetrics{
		InputTokens:  input,
		OutputTokens: output,
		TotalTokens:  input + output,
		DurationMs:   time.Since(start).Milliseconds(),
	})

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("no text content in response from anthropic")
	}

	return b.String(), nil
}

func buildParams(prompt string, options ai.GenerateOptions) anthropic.MessageNewParams {
	maxTokens := options.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(options.Model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	for _, sp := range options.SystemPrompts {
		params.System = append(params.System, anthropic.TextBlockParam{Text: sp})
	}
	// Current Claude models reject temperature and top_p together.
	// Temperature wins; top_p is only sent when temperature is zero.
	if options.Temperature == 0 && options.TopP > 0 {
		params.TopP = anthropic.Float(options.TopP)
	} else {
		params.Temperature = anthropic.Float(options.Temperature)
	}
	if options.TopK > 0 {
		params.TopK = anthropic.Int(int64(options.TopK))
	}

	return params
}
