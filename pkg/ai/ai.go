package ai

import (
	"context"
	"errors"
)

// ErrMalformedResponse is returned when a model reply cannot be turned into
// the expected structure.
var ErrMalformedResponse = errors.New("malformed model response")

// GenerateOptions holds configuration for AI generation requests.
type GenerateOptions struct {
	Model           string   // Model identifier to use for generation
	SystemPrompts   []string // System prompts prepended to the request
	Temperature     float64  // Sampling temperature (0.0-2.0)
	TopP            float64  // Nucleus sampling threshold, 0 leaves the provider default
	TopK            int      // Top-k sampling cutoff, 0 leaves the provider default
	MaxOutputTokens int      // Output token ceiling, 0 leaves the provider default
	Schema          any      // Optional Go value describing the expected JSON shape
}

// ModelMetrics contains performance metrics from AI model operations.
type ModelMetrics struct {
	Requests       int     `json:"requests"`
	InputTokens    int     `json:"input_tokens"`
	OutputTokens   int     `json:"output_tokens"`
	TotalTokens    int     `json:"total_tokens"`
	DurationMs     int64   `json:"duration_ms"`
	TokenPerSecond float32 `json:"tokens_per_second"`
}

// GenerateOption is a functional option for configuring AI generation requests.
type GenerateOption func(*GenerateOptions)

// WithModel returns a GenerateOption that sets the model to use for generation.
func WithModel(model string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Model = model
	}
}

// WithSystemPrompts returns a GenerateOption that sets the system prompts
// to prepend to the generation request.
func WithSystemPrompts(prompts ...string) GenerateOption {
	return func(o *GenerateOptions) {
		o.SystemPrompts = prompts
	}
}

// WithTemperature returns a GenerateOption that sets the sampling temperature.
// Higher values (e.g., 1.0) produce more random outputs, while lower values
// (e.g., 0.2) make outputs more focused and deterministic.
func WithTemperature(temp float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = temp
	}
}

// WithTopP returns a GenerateOption that bounds nucleus sampling.
func WithTopP(p float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.TopP = p
	}
}

// WithTopK returns a GenerateOption that limits sampling to the k most likely tokens.
func WithTopK(k int) GenerateOption {
	return func(o *GenerateOptions) {
		o.TopK = k
	}
}

// WithMaxOutputTokens returns a GenerateOption that caps the reply length.
func WithMaxOutputTokens(n int) GenerateOption {
	return func(o *GenerateOptions) {
		o.MaxOutputTokens = n
	}
}

// WithSchema attaches the Go shape of the expected reply. Adapters that can
// constrain decoding to a JSON schema do so; the others ignore it.
func WithSchema(v any) GenerateOption {
	return func(o *GenerateOptions) {
		o.Schema = v
	}
}

// ApplyOptions folds opts over defaults.
func ApplyOptions(defaults GenerateOptions, opts ...GenerateOption) GenerateOptions {
	for _, o := range opts {
		if o == nil {
			continue
		}
		o(&defaults)
	}
	return defaults
}

// GraphAIClient defines the AI operations used to build the news graph.
// Implementations wrap a single text-generation provider.
type GraphAIClient interface {
	GenerateCompletion(
		ctx context.Context,
		prompt string,
		opts ...GenerateOption,
	) (string, error)

	ResetMetrics()
	GetMetrics() ModelMetrics
}
