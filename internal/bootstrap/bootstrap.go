// Package bootstrap turns a config.Config into the logger, AI client and
// graph store shared by the binaries.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/newsgraph/internal/config"
	"github.com/OFFIS-RIT/newsgraph/pkg/ai"
	anthropicai "github.com/OFFIS-RIT/newsgraph/pkg/ai/anthropic"
	ollamaai "github.com/OFFIS-RIT/newsgraph/pkg/ai/ollama"
	openaiai "github.com/OFFIS-RIT/newsgraph/pkg/ai/openai"
	"github.com/OFFIS-RIT/newsgraph/pkg/graph"
	"github.com/OFFIS-RIT/newsgraph/pkg/logger"
	"github.com/OFFIS-RIT/newsgraph/pkg/logger/console"
	"github.com/OFFIS-RIT/newsgraph/pkg/logger/file"
	"github.com/OFFIS-RIT/newsgraph/pkg/store"
	"github.com/OFFIS-RIT/newsgraph/pkg/store/memory"
	neo4jstore "github.com/OFFIS-RIT/newsgraph/pkg/store/neo4j"
	pgxstore "github.com/OFFIS-RIT/newsgraph/pkg/store/pgx"
)

// InitLogger installs the console logger and, when LOG_FILE is set, a
// rotating JSON file logger.
func InitLogger(cfg config.LogConfig, prefix string) {
	instances := []logger.LoggerInstance{
		console.NewConsoleLogger(console.ConsoleLoggerParams{
			Debug:  cfg.Debug,
			Prefix: prefix,
		}),
	}
	if cfg.File != "" {
		instances = append(instances, file.NewFileLogger(file.FileLoggerParams{
			Path:       cfg.File,
			MaxSizeMB:  cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAgeDays: cfg.MaxAgeDays,
			Debug:      cfg.Debug,
		}))
	}
	logger.Init(instances...)
}

// NewAIClient builds the client for cfg.Adapter.
func NewAIClient(cfg config.AIConfig) (ai.GraphAIClient, error) {
	var client ai.GraphAIClient

	switch cfg.Adapter {
	case config.AdapterOllama:
		c, err := ollamaai.NewGraphOllamaClient(ollamaai.NewGraphOllamaClientParams{
			ExtractionModel:       cfg.ExtractModel,
			BaseURL:               cfg.ChatURL,
			ApiKey:                cfg.ChatKey,
			MaxConcurrentRequests: int64(cfg.MaxConcurrent),
		})
		if err != nil {
			return nil, fmt.Errorf("could not create ollama client: %w", err)
		}
		client = c
	case config.AdapterAnthropic:
		key := cfg.AnthropicKey
		if key == "" {
			key = cfg.ChatKey
		}
		client = anthropicai.NewGraphAnthropicClient(anthropicai.NewGraphAnthropicClientParams{
			ExtractionModel: cfg.ExtractModel,
			BaseURL:         cfg.ChatURL,
			ApiKey:          key,
		})
	case config.AdapterGemini:
		key := cfg.GeminiKey
		if key == "" {
			key = cfg.ChatKey
		}
		url := cfg.ChatURL
		if url == "" {
			url = openaiai.GeminiBaseURL
		}
		client = openaiai.NewGraphOpenAIClient(openaiai.NewGraphOpenAIClientParams{
			ExtractionModel: cfg.ExtractModel,
			ChatURL:         url,
			ChatKey:         key,
			SendTopK:        true,
		})
	case config.AdapterOpenAI:
		client = openaiai.NewGraphOpenAIClient(openaiai.NewGraphOpenAIClientParams{
			ExtractionModel: cfg.ExtractModel,
			ChatURL:         cfg.ChatURL,
			ChatKey:         cfg.ChatKey,
		})
	default:
		return nil, fmt.Errorf("unknown AI adapter %q", cfg.Adapter)
	}

	if cfg.Timeout > 0 {
		client = &timeoutClient{GraphAIClient: client, timeout: cfg.Timeout}
	}
	return client, nil
}

// timeoutClient bounds every completion call.
type timeoutClient struct {
	ai.GraphAIClient
	timeout time.Duration
}

func (c *timeoutClient) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.GraphAIClient.GenerateCompletion(ctx, prompt, opts...)
}

// NewGraphStorage opens the configured store. Callers must Close it.
func NewGraphStorage(ctx context.Context, cfg config.StoreConfig) (store.GraphStorage, error) {
	switch cfg.Backend {
	case config.StoreNeo4j:
		s, err := neo4jstore.NewGraphNeo4jStorage(ctx, neo4jstore.NewGraphNeo4jStorageParams{
			URI:            cfg.Neo4jURI,
			User:           cfg.Neo4jUser,
			Password:       cfg.Neo4jPassword,
			Database:       cfg.Neo4jDatabase,
			Policy:         cfg.EndpointPolicy,
			UseAPOC:        cfg.Neo4jUseAPOC,
			ConnectRetries: cfg.ConnectRetries,
			BatchSize:      cfg.BatchSize,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StorePostgres:
		s, err := pgxstore.NewGraphDBStorage(ctx, cfg.DatabaseURL, cfg.ConnectRetries,
			pgxstore.WithEndpointPolicy(cfg.EndpointPolicy))
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StoreMemory:
		return memory.NewGraphMemoryStorage(cfg.EndpointPolicy), nil
	default:
		return nil, fmt.Errorf("unknown graph store %q", cfg.Backend)
	}
}

// Sampling converts the configured sampling settings.
func Sampling(cfg config.AIConfig) graph.Sampling {
	return graph.Sampling{
		Temperature:     cfg.Temperature,
		TopP:            cfg.TopP,
		TopK:            cfg.TopK,
		MaxOutputTokens: cfg.MaxOutputTokens,
	}
}

// NewGraphClient wires an AI client and optional storage into a pipeline.
func NewGraphClient(cfg *config.Config, aiClient ai.GraphAIClient, storage store.GraphStorage, recorder graph.Recorder, rawText bool) (*graph.GraphClient, error) {
	return graph.NewGraphClient(graph.NewGraphClientParams{
		AIClient:       aiClient,
		Storage:        storage,
		EndpointPolicy: cfg.Store.EndpointPolicy,
		Sampling:       Sampling(cfg.AI),
		LenientJSON:    cfg.AI.LenientJSON,
		TokenEncoder:   cfg.AI.TokenEncoder,
		MaxInputTokens: cfg.AI.MaxInputTokens,
		RawText:        rawText,
		Recorder:       recorder,
	})
}
