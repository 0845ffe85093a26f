// Package config loads service configuration from config.yaml with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for tripsight-engine.
// Configuration can come from YAML file (config.yaml) or environment
// variables. Environment variables always override YAML values. Secrets
// (passwords, API keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8090"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Qdrant vector store configuration
	Qdrant QdrantConfig `yaml:"qdrant"`

	// AI model configuration (completion + embedding)
	AI AIConfig `yaml:"ai"`

	// Semantic search tuning
	Search SearchConfig `yaml:"search"`

	// Reason index rebuild tuning
	Indexer IndexerConfig `yaml:"indexer"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"tripsight"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"tripsight"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	MigrationsPath string `yaml:"migrations_path" env:"PGMIGRATIONS_PATH" env-default:"migrations"`
}

// URL returns the connection string for pgx and database/sql.
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// QdrantConfig holds vector store connection settings.
type QdrantConfig struct {
	// Addr is the qdrant gRPC endpoint.
	Addr string `yaml:"addr" env:"QDRANT_ADDR" env-default:"localhost:6334"`
	// Collection is the fixed collection name for cancellation reasons.
	Collection string `yaml:"collection" env:"QDRANT_COLLECTION" env-default:"cancellation_reasons"`
}

// AIConfig holds completion and embedding model settings.
type AIConfig struct {
	// Provider selects the completion backend: "openai" (any
	// OpenAI-compatible endpoint) or "anthropic".
	Provider string `yaml:"provider" env:"AI_PROVIDER" env-default:"openai"`
	// Endpoint is the completion API base URL, e.g. "https://api.openai.com/v1".
	Endpoint string `yaml:"endpoint" env:"AI_ENDPOINT" env-default:"https://api.openai.com/v1"`
	// Model is the completion model used for SQL generation.
	Model string `yaml:"model" env:"AI_MODEL" env-default:"gpt-4o-mini"`
	// EmbeddingEndpoint is the embedding API base URL. Falls back to
	// Endpoint when empty.
	EmbeddingEndpoint string `yaml:"embedding_endpoint" env:"AI_EMBEDDING_ENDPOINT" env-default:""`
	// EmbeddingModel is the model used for reason embeddings.
	EmbeddingModel string `yaml:"embedding_model" env:"AI_EMBEDDING_MODEL" env-default:"text-embedding-3-small"`
	// EmbeddingDims must match the embedding model's output width.
	EmbeddingDims int `yaml:"embedding_dims" env:"AI_EMBEDDING_DIMS" env-default:"1536"`
	// APIKey authenticates against the completion/embedding endpoints.
	APIKey string `yaml:"-" env:"AI_API_KEY"` // Secret - not in YAML
	// RequestTimeout bounds a single completion or embedding call.
	RequestTimeout time.Duration `yaml:"request_timeout" env:"AI_REQUEST_TIMEOUT" env-default:"60s"`
}

// EffectiveEmbeddingEndpoint returns the embedding endpoint, falling back
// to the completion endpoint when none is configured.
func (c *AIConfig) EffectiveEmbeddingEndpoint() string {
	if c.EmbeddingEndpoint != "" {
		return c.EmbeddingEndpoint
	}
	return c.Endpoint
}

// SearchConfig holds semantic search thresholds.
type SearchConfig struct {
	// MinSimilarity is the minimum 1-distance score for a match to be
	// reported.
	MinSimilarity float64 `yaml:"min_similarity" env:"SEARCH_MIN_SIMILARITY" env-default:"0.40"`
	// HighTier and MediumTier are the quality tier boundaries.
	HighTier   float64 `yaml:"high_tier" env:"SEARCH_HIGH_TIER" env-default:"0.60"`
	MediumTier float64 `yaml:"medium_tier" env:"SEARCH_MEDIUM_TIER" env-default:"0.45"`
	// DefaultTopK is used when a request does not specify top_k.
	DefaultTopK int `yaml:"default_top_k" env:"SEARCH_DEFAULT_TOP_K" env-default:"5"`
	// DefaultExampleLimit bounds example rows fetched per matched reason.
	DefaultExampleLimit int `yaml:"default_example_limit" env:"SEARCH_DEFAULT_EXAMPLE_LIMIT" env-default:"3"`
}

// IndexerConfig holds reason index rebuild settings.
type IndexerConfig struct {
	// BatchSize is the upsert batch size. Any value >= 1 produces the
	// same final index state; this is a throughput knob only.
	BatchSize int `yaml:"batch_size" env:"INDEXER_BATCH_SIZE" env-default:"2000"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. When config.yaml does not exist, configuration comes from
// environment variables and defaults alone.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment config: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Search.MinSimilarity < 0 || c.Search.MinSimilarity > 1 {
		return fmt.Errorf("search.min_similarity must be in [0,1], got %v", c.Search.MinSimilarity)
	}
	if c.Search.MediumTier > c.Search.HighTier {
		return fmt.Errorf("search.medium_tier (%v) must not exceed search.high_tier (%v)",
			c.Search.MediumTier, c.Search.HighTier)
	}
	if c.Indexer.BatchSize < 1 {
		return fmt.Errorf("indexer.batch_size must be >= 1, got %d", c.Indexer.BatchSize)
	}
	switch c.AI.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("ai.provider must be \"openai\" or \"anthropic\", got %q", c.AI.Provider)
	}
	return nil
}
