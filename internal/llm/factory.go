package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/agenthands/syllabus/internal/config"
)

// NewClient builds the generative-text client for cfg.Provider.
func NewClient(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (LLMClient, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.EmbeddingModel, cfg.BaseURL, cfg.Temperature, cfg.MaxTokens), nil

	case "gemini":
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model, cfg.EmbeddingModel, cfg.Temperature)

	case "claude":
		return NewClaudeClient(cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.Temperature, cfg.MaxTokens), nil

	case "ollama":
		return newOllamaClient(cfg, logger), nil

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}

// NewEmbedder builds the embedding client for cfg.Provider.
func NewEmbedder(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (EmbedderClient, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.EmbeddingModel, cfg.BaseURL, 0, 0), nil

	case "gemini":
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model, cfg.EmbeddingModel, 0)

	case "claude":
		return nil, fmt.Errorf("llm provider %q has no embedding API; set [embedding] provider", provider)

	case "ollama":
		return newOllamaClient(cfg, logger), nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}

// Ollama is reached through its OpenAI-compatible API.
func newOllamaClient(cfg config.LLMConfig, logger *zap.Logger) *OpenAIClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if !strings.HasSuffix(baseURL, "/v1") {
		baseURL = fmt.Sprintf("%s/v1", strings.TrimRight(baseURL, "/"))
	}
	if logger != nil {
		logger.Debug("using ollama via openai-compatible api", zap.String("base_url", baseURL))
	}

	// Ollama ignores the key but the client requires one.
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = "ollama"
	}

	return NewOpenAIClient(apiKey, cfg.Model, cfg.EmbeddingModel, baseURL, cfg.Temperature, cfg.MaxTokens)
}
