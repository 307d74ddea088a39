package openai

import (
	"github.com/OFFIS-RIT/newsgraph/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// GeminiBaseURL is Google's OpenAI-compatible endpoint for Gemini models.
const GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// GraphOpenAIClient implements ai.GraphAIClient on top of the OpenAI chat
// completions API or any endpoint compatible with it.
//
// A GraphOpenAIClient should be created using NewGraphOpenAIClient.
type GraphOpenAIClient struct {
	ai.MetricsTracker

	extractionModel string
	chatURL         string
	sendTopK        bool

	ChatClient *openai.Client
}

// NewGraphOpenAIClientParams defines the configuration parameters for creating
// a new GraphOpenAIClient.
//
// ExtractionModel specifies the model used for entity and relationship extraction.
// ChatURL and ChatKey configure the chat/completion API endpoint; an empty
// ChatURL targets api.openai.com. SendTopK forwards the top_k sampling
// parameter, which only some compatible endpoints accept.
type NewGraphOpenAIClientParams struct {
	ExtractionModel string

	ChatURL  string
	ChatKey  string
	SendTopK bool
}

// NewGraphOpenAIClient creates and returns a new client configured with
// the provided parameters.
//
// Example:
//
//	client := openai.NewGraphOpenAIClient(openai.NewGraphOpenAIClientParams{
//		ExtractionModel: "gemini-2.5-flash",
//		ChatURL:         openai.GeminiBaseURL,
//		ChatKey:         os.Getenv("GEMINI_API_KEY"),
//		SendTopK:        true,
//	})
func NewGraphOpenAIClient(
	params NewGraphOpenAIClientParams,
) *GraphOpenAIClient {
	return &GraphOpenAIClient{
		extractionModel: params.ExtractionModel,
		chatURL:         params.ChatURL,
		sendTopK:        params.SendTopK,

		ChatClient: newOpenaiClient(params.ChatURL, params.ChatKey),
	}
}

func newOpenaiClient(
	baseURL string,
	apiKey string,
) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}
