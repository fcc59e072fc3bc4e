package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.75, cfg.Matching.StrongThreshold)
	assert.Equal(t, 0.60, cfg.Matching.WeakThreshold)
	assert.Equal(t, 0.8, cfg.Dedupe.SimilarityThreshold)
	assert.Equal(t, 10, cfg.Embedding.BatchSize)
	assert.Equal(t, 30, cfg.Clustering.Threshold)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[llm]
provider = "openai"
model = "gpt-4o-mini"

[matching]
strong_threshold = 0.8

[embedding]
batch_size = 25
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 0.8, cfg.Matching.StrongThreshold)
	assert.Equal(t, 0.60, cfg.Matching.WeakThreshold)
	assert.Equal(t, 25, cfg.Embedding.BatchSize)
	assert.Equal(t, DefaultGapsPrompt, cfg.Prompts.Gaps)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[llm\nprovider="), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("LLM_API_KEY", "secret")
	t.Setenv("EMBEDDING_BATCH_SIZE", "32")
	t.Setenv("EMBEDDING_DIMENSIONS", "not-a-number")
	t.Setenv("PORT", "9090")
	t.Setenv("DEBUG", "true")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "secret", cfg.LLM.APIKey)
	assert.Equal(t, 32, cfg.Embedding.BatchSize)
	assert.Equal(t, 0, cfg.Embedding.Dimensions)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Debug)
}

func TestEmbeddingProvider_InheritsFromLLM(t *testing.T) {
	cfg := Default()
	cfg.LLM.Provider = "openai"
	cfg.LLM.APIKey = "k"
	cfg.Embedding.Model = ""
	cfg.LLM.EmbeddingModel = "text-embedding-3-small"

	p := cfg.EmbeddingProvider()
	assert.Equal(t, "openai", p.Provider)
	assert.Equal(t, "k", p.APIKey)
	assert.Equal(t, "text-embedding-3-small", p.EmbeddingModel)

	cfg.LLM.Provider = "claude"
	cfg.Embedding.Provider = "gemini"
	cfg.Embedding.APIKey = "g"
	p = cfg.EmbeddingProvider()
	assert.Equal(t, "gemini", p.Provider)
	assert.Equal(t, "g", p.APIKey)
}

func TestEmbeddingProvider_DefaultModelFollowsProvider(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "nomic-embed-text", cfg.EmbeddingProvider().EmbeddingModel)

	cfg.LLM.Provider = "OpenAI"
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingProvider().EmbeddingModel)

	cfg.Embedding.Provider = "gemini"
	assert.Equal(t, "text-embedding-004", cfg.EmbeddingProvider().EmbeddingModel)

	cfg.Embedding.Model = "custom-embedder"
	assert.Equal(t, "custom-embedder", cfg.EmbeddingProvider().EmbeddingModel)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"inverted thresholds": func(c *Config) { c.Matching.WeakThreshold = 0.9 },
		"strong above one":    func(c *Config) { c.Matching.StrongThreshold = 1.2 },
		"dedupe zero":         func(c *Config) { c.Dedupe.SimilarityThreshold = 0 },
		"batch size":          func(c *Config) { c.Embedding.BatchSize = 0 },
		"negative delay":      func(c *Config) { c.Embedding.BatchDelayMS = -1 },
		"normalize bounds":    func(c *Config) { c.Normalize.MaxLength = 2 },
		"cluster bounds":      func(c *Config) { c.Clustering.MaxClusters = 1 },
		"too many gaps":       func(c *Config) { c.Gaps.MaxGaps = 4 },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(cfg)
		assert.Error(t, cfg.Validate(), name)
	}
}
