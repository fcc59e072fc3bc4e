package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider       string  `toml:"provider"`
	Model          string  `toml:"model"`
	EmbeddingModel string  `toml:"embedding_model"`
	APIKey         string  `toml:"api_key"`
	BaseURL        string  `toml:"base_url"`
	Temperature    float32 `toml:"temperature"`
	MaxTokens      int     `toml:"max_tokens"`
}

// EmbeddingConfig controls how topic texts are turned into vectors. Provider,
// APIKey and BaseURL fall back to the [llm] table when empty, which lets a
// text-only provider (claude) be paired with a separate embedding provider.
type EmbeddingConfig struct {
	Provider     string `toml:"provider"`
	Model        string `toml:"model"`
	APIKey       string `toml:"api_key"`
	BaseURL      string `toml:"base_url"`
	Dimensions   int    `toml:"dimensions"`
	BatchSize    int    `toml:"batch_size"`
	BatchDelayMS int    `toml:"batch_delay_ms"`
	Cache        bool   `toml:"cache"`
}

type NormalizeConfig struct {
	MinLength int `toml:"min_length"`
	MaxLength int `toml:"max_length"`
}

type DedupeConfig struct {
	SimilarityThreshold float64 `toml:"similarity_threshold"`
}

type MatchingConfig struct {
	StrongThreshold float64 `toml:"strong_threshold"`
	WeakThreshold   float64 `toml:"weak_threshold"`
	MaxEvidence     int     `toml:"max_evidence"`
}

type GapsConfig struct {
	MaxGaps     int    `toml:"max_gaps"`
	Concurrency int    `toml:"concurrency"`
	MaxChars    int    `toml:"max_chars"`
	Placeholder string `toml:"placeholder"`
}

type ClusteringConfig struct {
	Threshold     int     `toml:"threshold"`
	MinClusters   int     `toml:"min_clusters"`
	MaxClusters   int     `toml:"max_clusters"`
	MaxTopicChars int     `toml:"max_topic_chars"`
	EdgeThreshold float64 `toml:"edge_threshold"`
}

// Prompts are fmt format strings. Empty values use the built-in defaults.
type Prompts struct {
	Gaps        string `toml:"gaps"`
	Clusters    string `toml:"clusters"`
	ClusterName string `toml:"cluster_name"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type ServerConfig struct {
	Port                  string `toml:"port"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

type Config struct {
	LLM        LLMConfig        `toml:"llm"`
	Embedding  EmbeddingConfig  `toml:"embedding"`
	Normalize  NormalizeConfig  `toml:"normalize"`
	Dedupe     DedupeConfig     `toml:"dedupe"`
	Matching   MatchingConfig   `toml:"matching"`
	Gaps       GapsConfig       `toml:"gaps"`
	Clustering ClusteringConfig `toml:"clustering"`
	Prompts    Prompts          `toml:"prompts"`
	Memgraph   MemgraphConfig   `toml:"memgraph"`
	Server     ServerConfig     `toml:"server"`
	Debug      bool             `toml:"debug"`
}

// Load reads a TOML file on top of Default(). Keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load but returns Default() when the file does
// not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// ApplyEnv overrides config values with environment variables when present.
func (c *Config) ApplyEnv() {
	setString(&c.LLM.Provider, "LLM_PROVIDER")
	setString(&c.LLM.Model, "LLM_MODEL")
	setString(&c.LLM.EmbeddingModel, "LLM_EMBEDDING_MODEL")
	setString(&c.LLM.APIKey, "LLM_API_KEY")
	setString(&c.LLM.BaseURL, "LLM_BASE_URL")

	setString(&c.Embedding.Provider, "EMBEDDING_PROVIDER")
	setString(&c.Embedding.Model, "EMBEDDING_MODEL")
	setString(&c.Embedding.APIKey, "EMBEDDING_API_KEY")
	setString(&c.Embedding.BaseURL, "EMBEDDING_BASE_URL")
	setInt(&c.Embedding.Dimensions, "EMBEDDING_DIMENSIONS")
	setInt(&c.Embedding.BatchSize, "EMBEDDING_BATCH_SIZE")

	setString(&c.Memgraph.URI, "MEMGRAPH_URI")
	setString(&c.Memgraph.User, "MEMGRAPH_USER")
	setString(&c.Memgraph.Password, "MEMGRAPH_PASSWORD")

	setString(&c.Server.Port, "PORT")

	if v := os.Getenv("DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
}

// EmbeddingProvider resolves the embedding connection settings, inheriting
// from the [llm] table where the [embedding] table is silent.
func (c *Config) EmbeddingProvider() LLMConfig {
	out := LLMConfig{
		Provider:       c.Embedding.Provider,
		EmbeddingModel: c.Embedding.Model,
		APIKey:         c.Embedding.APIKey,
		BaseURL:        c.Embedding.BaseURL,
	}
	if out.Provider == "" {
		out.Provider = c.LLM.Provider
		if out.APIKey == "" {
			out.APIKey = c.LLM.APIKey
		}
		if out.BaseURL == "" {
			out.BaseURL = c.LLM.BaseURL
		}
	}
	if out.EmbeddingModel == "" {
		out.EmbeddingModel = c.LLM.EmbeddingModel
	}
	if out.EmbeddingModel == "" {
		out.EmbeddingModel = defaultEmbeddingModels[strings.ToLower(out.Provider)]
	}
	return out
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
