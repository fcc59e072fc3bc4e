package config

import (
	"fmt"
)

const (
	DefaultGapsPrompt = `You compare a planned course topic with the closest topic found in the supporting material.
The match is only partial. List what the material is missing to fully cover the course topic.

Course topic: %s
Material topic: %s

Return a JSON object with key "gaps": a list of at most 3 short phrases (under 12 words each).
Return an empty list if nothing specific is missing.

Example JSON:
{"gaps": ["worked examples of one-sided limits", "formal epsilon-delta definition"]}`

	DefaultClustersPrompt = `Group the following numbered topics into between %d and %d thematic modules for a course.
Order the modules from beginner to advanced. Every topic index must appear in exactly one module.

Topics:
%s
Return a JSON object with key "clusters": a list of objects with "name" (short module title),
"level" (1 for the first module, increasing) and "indices" (list of topic indices).

Example JSON:
{"clusters": [{"name": "Foundations", "level": 1, "indices": [0, 3, 4]}]}`

	DefaultClusterNamePrompt = `Give a short title (at most 6 words) for a course module covering these topics:
%s
Return a JSON object: {"name": "..."}`

	DefaultGapPlaceholder = "Gap analysis unavailable; compare the course topic with the material manually."
)

// defaultEmbeddingModels is used when neither [embedding] model nor
// [llm] embedding_model is set.
var defaultEmbeddingModels = map[string]string{
	"ollama": "nomic-embed-text",
	"openai": "text-embedding-3-small",
	"gemini": "text-embedding-004",
}

// Default returns a fully populated configuration. The thresholds were chosen
// empirically and are exposed so deployments can tune them.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "ollama",
			Model:       "gpt-oss:latest",
			BaseURL:     "http://localhost:11434",
			Temperature: 0.1,
			MaxTokens:   1000,
		},
		Embedding: EmbeddingConfig{
			BatchSize:    10,
			BatchDelayMS: 200,
		},
		Normalize: NormalizeConfig{
			MinLength: 5,
			MaxLength: 200,
		},
		Dedupe: DedupeConfig{
			SimilarityThreshold: 0.8,
		},
		Matching: MatchingConfig{
			StrongThreshold: 0.75,
			WeakThreshold:   0.60,
			MaxEvidence:     5,
		},
		Gaps: GapsConfig{
			MaxGaps:     3,
			Concurrency: 4,
			MaxChars:    300,
			Placeholder: DefaultGapPlaceholder,
		},
		Clustering: ClusteringConfig{
			Threshold:     30,
			MinClusters:   3,
			MaxClusters:   8,
			MaxTopicChars: 80,
		},
		Prompts: Prompts{
			Gaps:        DefaultGapsPrompt,
			Clusters:    DefaultClustersPrompt,
			ClusterName: DefaultClusterNamePrompt,
		},
		Server: ServerConfig{
			Port:                  "8080",
			RequestTimeoutSeconds: 120,
		},
	}
}

// Validate checks the invariants the engine relies on.
func (c *Config) Validate() error {
	m := c.Matching
	if m.WeakThreshold < 0 || m.StrongThreshold > 1 || m.WeakThreshold > m.StrongThreshold {
		return fmt.Errorf("matching thresholds must satisfy 0 <= weak (%.2f) <= strong (%.2f) <= 1", m.WeakThreshold, m.StrongThreshold)
	}
	if t := c.Dedupe.SimilarityThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("dedupe.similarity_threshold must be in (0, 1], got %.2f", t)
	}
	if c.Embedding.BatchSize <= 0 {
		return fmt.Errorf("embedding.batch_size must be positive, got %d", c.Embedding.BatchSize)
	}
	if c.Embedding.BatchDelayMS < 0 {
		return fmt.Errorf("embedding.batch_delay_ms must not be negative, got %d", c.Embedding.BatchDelayMS)
	}
	if c.Normalize.MinLength <= 0 || c.Normalize.MaxLength < c.Normalize.MinLength {
		return fmt.Errorf("normalize bounds invalid: min %d, max %d", c.Normalize.MinLength, c.Normalize.MaxLength)
	}
	cl := c.Clustering
	if cl.MinClusters <= 0 || cl.MaxClusters < cl.MinClusters {
		return fmt.Errorf("clustering bounds invalid: min %d, max %d", cl.MinClusters, cl.MaxClusters)
	}
	if cl.Threshold < 0 {
		return fmt.Errorf("clustering.threshold must not be negative, got %d", cl.Threshold)
	}
	if c.Gaps.MaxGaps < 0 || c.Gaps.MaxGaps > 3 {
		return fmt.Errorf("gaps.max_gaps must be between 0 and 3, got %d", c.Gaps.MaxGaps)
	}
	return nil
}
