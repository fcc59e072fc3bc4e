package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/agenthands/syllabus/internal/config"
	"github.com/agenthands/syllabus/internal/core/embed"
	"github.com/agenthands/syllabus/internal/driver"
	"github.com/agenthands/syllabus/internal/llm"
)

// NewFromConfig builds a Reconciler with real providers. The returned close
// function releases provider and database connections.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Reconciler, func(context.Context) error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var closers []func(context.Context) error
	closeAll := func(ctx context.Context) error {
		var first error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](ctx); err != nil && first == nil {
				first = err
			}
		}
		return first
	}

	llmClient, err := llm.NewClient(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize llm client: %w", err)
	}
	closers = append(closers, closerFor(llmClient))

	embeddingCfg := cfg.EmbeddingProvider()
	embedder, err := llm.NewEmbedder(ctx, embeddingCfg, logger)
	if err != nil {
		_ = closeAll(ctx)
		return nil, nil, fmt.Errorf("failed to initialize embedding client: %w", err)
	}
	closers = append(closers, closerFor(embedder))

	gateway := embed.NewGateway(embedder, embeddingCfg.EmbeddingModel,
		cfg.Embedding.BatchSize,
		time.Duration(cfg.Embedding.BatchDelayMS)*time.Millisecond,
		cfg.Embedding.Dimensions,
		logger)

	if cfg.Embedding.Cache && cfg.Memgraph.URI != "" {
		d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph, logger)
		if err != nil {
			// The cache is optional; run without it.
			logger.Warn("embedding cache disabled", zap.Error(err))
		} else {
			if err := d.BuildIndices(ctx); err != nil {
				logger.Warn("failed to build embedding indices", zap.Error(err))
			}
			gateway.Store = driver.NewEmbeddingStore(d)
			closers = append(closers, d.Close)
		}
	}

	rc, err := New(OptionsFromConfig(cfg), llmClient, gateway, logger)
	if err != nil {
		_ = closeAll(ctx)
		return nil, nil, err
	}
	return rc, closeAll, nil
}

func closerFor(client any) func(context.Context) error {
	if c, ok := client.(interface{ Close() error }); ok {
		return func(context.Context) error { return c.Close() }
	}
	return func(context.Context) error { return nil }
}
