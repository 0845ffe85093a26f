package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp switches to an empty directory so Load does not pick up a
// config.yaml from the repository root.
func chdirTemp(t *testing.T) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("test-version")
	require.NoError(t, err)

	assert.Equal(t, "test-version", cfg.Version)
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "cancellation_reasons", cfg.Qdrant.Collection)
	assert.Equal(t, 0.40, cfg.Search.MinSimilarity)
	assert.Equal(t, 0.60, cfg.Search.HighTier)
	assert.Equal(t, 0.45, cfg.Search.MediumTier)
	assert.Equal(t, 5, cfg.Search.DefaultTopK)
	assert.Equal(t, 2000, cfg.Indexer.BatchSize)
	assert.Equal(t, "openai", cfg.AI.Provider)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SEARCH_MIN_SIMILARITY", "0.55")
	t.Setenv("INDEXER_BATCH_SIZE", "100")
	t.Setenv("AI_PROVIDER", "anthropic")

	cfg, err := Load("dev")
	require.NoError(t, err)

	assert.Equal(t, 0.55, cfg.Search.MinSimilarity)
	assert.Equal(t, 100, cfg.Indexer.BatchSize)
	assert.Equal(t, "anthropic", cfg.AI.Provider)
}

func TestLoadYAMLFile(t *testing.T) {
	chdirTemp(t)

	yaml := []byte("port: \"9100\"\nsearch:\n  min_similarity: 0.5\n")
	dir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))

	cfg, err := Load("dev")
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, 0.5, cfg.Search.MinSimilarity)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"min similarity above one", "SEARCH_MIN_SIMILARITY", "1.5"},
		{"batch size below one", "INDEXER_BATCH_SIZE", "0"},
		{"unknown provider", "AI_PROVIDER", "groq"},
		{"tier ordering", "SEARCH_MEDIUM_TIER", "0.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load("dev")
			assert.Error(t, err)
		})
	}
}

func TestDatabaseURL(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db", Port: 5433, User: "u", Password: "p",
		Database: "trips", SSLMode: "disable",
	}
	assert.Equal(t, "postgres://u:p@db:5433/trips?sslmode=disable", cfg.URL())
}

func TestEffectiveEmbeddingEndpoint(t *testing.T) {
	ai := AIConfig{Endpoint: "https://api.example.com/v1"}
	assert.Equal(t, "https://api.example.com/v1", ai.EffectiveEmbeddingEndpoint())

	ai.EmbeddingEndpoint = "https://embed.example.com/v1"
	assert.Equal(t, "https://embed.example.com/v1", ai.EffectiveEmbeddingEndpoint())
}
