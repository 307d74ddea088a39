package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/newsgraph/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// GenerateCompletion sends a single-turn prompt to the chat model and
// returns the generated completion as plain text.
//
// Example:
//
//	resp, err := client.GenerateCompletion(ctx, "Extract entities...",
//		ai.WithTemperature(0.2), ai.WithTopP(0.95), ai.WithMaxOutputTokens(1024))
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(resp)
func (c *GraphOpenAIClient) GenerateCompletion(
	ctx context.Context,
	prompt string,
	opts ...ai.GenerateOption,
) (string, error) {
	if c.ChatClient == nil {
		return "", errors.New("openai chat client is not configured (missing API key)")
	}

	options := ai.ApplyOptions(ai.GenerateOptions{
		Model:       c.extractionModel,
		Temperature: 0.2,
	}, opts...)

	body, reqOpts := c.buildRequest(prompt, options)

	start := time.Now()
	response, err := c.ChatClient.Chat.Completions.New(ctx, body, reqOpts...)
	if err != nil {
		return "", err
	}
	duration := time.Since(start).Milliseconds()

	c.AddMetrics(ai.ModelMetrics{
		InputTokens:  int(response.Usage.PromptTokens),
		OutputTokens: int(response.Usage.CompletionTokens),
		TotalTokens:  int(response.Usage.TotalTokens),
		DurationMs:   duration,
	})

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices in response from model")
	}

	return response.Choices[0].Message.Content, nil
}

func (c *GraphOpenAIClient) buildRequest(
	prompt string,
	options ai.GenerateOptions,
) (openai.ChatCompletionNewParams, []option.RequestOption) {
	msgs := []openai.ChatCompletionMessageParamUnion{}
	for _, sp := range options.SystemPrompts {
		msgs = append(msgs, openai.SystemMessage(sp))
	}
	msgs = append(msgs, openai.UserMessage(prompt))

	body := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(options.Model),
		Messages:    msgs,
		Temperature: openai.Float(options.Temperature),
	}
	if options.TopP > 0 {
		body.TopP = openai.Float(options.TopP)
	}
	if options.MaxOutputTokens > 0 {
		// Compatible endpoints only understand the legacy max_tokens field
		if c.chatURL == "" {
			body.MaxCompletionTokens = openai.Int(int64(options.MaxOutputTokens))
		} else {
			body.MaxTokens = openai.Int(int64(options.MaxOutputTokens))
		}
	}

	var reqOpts []option.RequestOption
	if c.sendTopK && options.TopK > 0 {
		reqOpts = append(reqOpts, option.WithJSONSet("top_k", options.TopK))
	}

	return body, reqOpts
}
