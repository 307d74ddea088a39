// Package config reads the process configuration from the environment once
// at startup.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/OFFIS-RIT/newsgraph/internal/util"
	"github.com/OFFIS-RIT/newsgraph/pkg/common"

	"github.com/go-playground/validator"
)

const (
	AdapterOpenAI    = "openai"
	AdapterGemini    = "gemini"
	AdapterOllama    = "ollama"
	AdapterAnthropic = "anthropic"

	StoreNeo4j    = "neo4j"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type AIConfig struct {
	Adapter         string `validate:"oneof=openai gemini ollama anthropic"`
	ChatURL         string
	ChatKey         string
	GeminiKey       string
	AnthropicKey    string
	ExtractModel    string  `validate:"required"`
	Temperature     float64 `validate:"gte=0,lte=2"`
	TopP            float64 `validate:"gte=0,lte=1"`
	TopK            int     `validate:"gte=0"`
	MaxOutputTokens int     `validate:"gt=0"`
	MaxInputTokens  int     `validate:"gte=0"`
	TokenEncoder    string
	Timeout         time.Duration
	MaxConcurrent   int `validate:"gte=1"`
	LenientJSON     bool
}

type NewsConfig struct {
	APIKey        string
	URL           string
	FetchFullText bool
}

type StoreConfig struct {
	Backend        string `validate:"oneof=neo4j postgres memory"`
	Neo4jURI       string
	Neo4jUser      string
	Neo4jPassword  string
	Neo4jDatabase  string
	Neo4jUseAPOC   bool
	DatabaseURL    string
	EndpointPolicy common.EndpointPolicy
	ConnectRetries int `validate:"gte=1"`
	BatchSize      int `validate:"gte=1"`
}

type ServerConfig struct {
	Port             string `validate:"required,numeric"`
	AuthURL          string
	MasterAPIKey     string
	MaxSubgraphDepth int `validate:"gte=0"`
	// MetricsPort serves /metrics from the worker. "0" disables it.
	MetricsPort string `validate:"omitempty,numeric"`
}

type RabbitMQConfig struct {
	User     string
	Password string
	Host     string
	Port     string
}

// URL returns the AMQP connection URL.
func (c RabbitMQConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", c.User, c.Password, c.Host, c.Port)
}

type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
}

// Enabled reports whether exports should be uploaded.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

type LogConfig struct {
	Debug      bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Config is the complete process configuration.
type Config struct {
	AI       AIConfig
	News     NewsConfig
	Store    StoreConfig
	Server   ServerConfig
	RabbitMQ RabbitMQConfig
	S3       S3Config
	Log      LogConfig
}

var validate = validator.New()

// Load reads the configuration from the environment (after .env has been
// loaded) and validates it.
func Load() (*Config, error) {
	adapter := strings.ToLower(util.GetEnvString("AI_ADAPTER", AdapterOpenAI))

	policy, err := common.ParseEndpointPolicy(util.GetEnv("EDGE_ENDPOINT_POLICY"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AI: AIConfig{
			Adapter:         adapter,
			ChatURL:         util.GetEnv("AI_CHAT_URL"),
			ChatKey:         util.GetEnv("AI_CHAT_KEY"),
			GeminiKey:       util.GetEnv("GEMINI_API_KEY"),
			AnthropicKey:    util.GetEnv("ANTHROPIC_API_KEY"),
			ExtractModel:    util.GetEnvString("AI_CHAT_EXTRACT_MODEL", defaultModel(adapter)),
			Temperature:     util.GetEnvNumeric("AI_TEMPERATURE", 0.2),
			TopP:            util.GetEnvNumeric("AI_TOP_P", 0.95),
			TopK:            util.GetEnvInt("AI_TOP_K", 64),
			MaxOutputTokens: util.GetEnvInt("AI_MAX_OUTPUT_TOKENS", 1024),
			MaxInputTokens:  util.GetEnvInt("AI_MAX_INPUT_TOKENS", 0),
			TokenEncoder:    util.GetEnvString("AI_TOKEN_ENCODER", "cl100k_base"),
			Timeout:         util.GetEnvSeconds("AI_TIMEOUT_SECONDS", 2*time.Minute),
			MaxConcurrent:   util.GetEnvInt("AI_MAX_CONCURRENT_REQUESTS", 1),
			LenientJSON:     util.GetEnvBool("EXTRACT_LENIENT_JSON", false),
		},
		News: NewsConfig{
			APIKey:        util.GetEnv("NEWS_API_KEY"),
			URL:           util.GetEnvString("NEWS_API_URL", "https://newsapi.org"),
			FetchFullText: util.GetEnvBool("NEWS_FETCH_FULL_TEXT", false),
		},
		Store: StoreConfig{
			Backend:        strings.ToLower(util.GetEnvString("GRAPH_STORE", StoreNeo4j)),
			Neo4jURI:       util.GetEnvString("NEO4J_URI", "neo4j://localhost:7687"),
			Neo4jUser:      util.GetEnvString("NEO4J_USER", "neo4j"),
			Neo4jPassword:  util.GetEnv("NEO4J_PASSWORD"),
			Neo4jDatabase:  util.GetEnv("NEO4J_DATABASE"),
			Neo4jUseAPOC:   util.GetEnvBool("NEO4J_USE_APOC", true),
			DatabaseURL:    util.GetEnv("DATABASE_URL"),
			EndpointPolicy: policy,
			ConnectRetries: util.GetEnvInt("STORE_CONNECT_RETRIES", 5),
			BatchSize:      util.GetEnvInt("STORE_BATCH_SIZE", 500),
		},
		Server: ServerConfig{
			Port:             util.GetEnvString("PORT", "8080"),
			AuthURL:          util.GetEnv("AUTH_URL"),
			MasterAPIKey:     util.GetEnv("MASTER_API_KEY"),
			MaxSubgraphDepth: util.GetEnvInt("MAX_SUBGRAPH_DEPTH", 5),
			MetricsPort:      util.GetEnvString("METRICS_PORT", "9090"),
		},
		RabbitMQ: RabbitMQConfig{
			User:     util.GetEnvString("RABBITMQ_USER", "guest"),
			Password: util.GetEnvString("RABBITMQ_PASSWORD", "guest"),
			Host:     util.GetEnvString("RABBITMQ_HOST", "localhost"),
			Port:     util.GetEnvString("RABBITMQ_PORT", "5672"),
		},
		S3: S3Config{
			Region:    util.GetEnvString("AWS_REGION", "us-east-1"),
			Endpoint:  util.GetEnv("AWS_ENDPOINT"),
			AccessKey: util.GetEnv("AWS_ACCESS_KEY"),
			SecretKey: util.GetEnv("AWS_SECRET_KEY"),
			Bucket:    util.GetEnv("AWS_BUCKET"),
			Prefix:    util.GetEnvString("AWS_EXPORT_PREFIX", "exports"),
		},
		Log: LogConfig{
			Debug:      util.GetEnvBool("DEBUG", false),
			File:       util.GetEnv("LOG_FILE"),
			MaxSizeMB:  util.GetEnvInt("LOG_FILE_MAX_SIZE_MB", 50),
			MaxBackups: util.GetEnvInt("LOG_FILE_MAX_BACKUPS", 3),
			MaxAgeDays: util.GetEnvInt("LOG_FILE_MAX_AGE_DAYS", 28),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field ranges and the settings each selected backend needs.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var errs []error
	switch c.AI.Adapter {
	case AdapterOpenAI:
		if c.AI.ChatKey == "" {
			errs = append(errs, errors.New("AI_CHAT_KEY is required for the openai adapter"))
		}
	case AdapterGemini:
		if c.AI.GeminiKey == "" && c.AI.ChatKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required for the gemini adapter"))
		}
	case AdapterAnthropic:
		if c.AI.AnthropicKey == "" && c.AI.ChatKey == "" {
			errs = append(errs, errors.New("ANTHROPIC_API_KEY is required for the anthropic adapter"))
		}
	}

	switch c.Store.Backend {
	case StoreNeo4j:
		if c.Store.Neo4jURI == "" {
			errs = append(errs, errors.New("NEO4J_URI is required for the neo4j store"))
		}
	case StorePostgres:
		if c.Store.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	}

	return errors.Join(errs...)
}

func defaultModel(adapter string) string {
	switch adapter {
	case AdapterGemini:
		return "gemini-2.5-flash"
	case AdapterOllama:
		return "llama3.1"
	case AdapterAnthropic:
		return "claude-haiku-4-5"
	default:
		return "gpt-4o-mini"
	}
}
