package llm

import (
	"context"
)

// LLMClient completes a single prompt. Callers parse structure out of the
// returned text themselves.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// EmbedderClient turns a batch of texts into vectors, one per text, in order.
type EmbedderClient interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
