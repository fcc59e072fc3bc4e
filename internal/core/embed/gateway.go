// Package embed turns topics into vectors through an embedding collaborator,
// in paced batches, with an all-or-nothing failure policy.
package embed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/agenthands/syllabus/internal/core/model"
	"github.com/agenthands/syllabus/internal/llm"
)

const (
	DefaultBatchSize  = 10
	DefaultBatchDelay = 200 * time.Millisecond

	// A failing batch is sent once more in full before the run is aborted.
	maxAttempts = 2
)

// Store holds vectors a caller chose to persist between runs. Keys are the
// exact topic texts.
type Store interface {
	Lookup(ctx context.Context, model string, texts []string) (map[string][]float32, error)
	Save(ctx context.Context, model string, vectors map[string][]float32) error
}

type Gateway struct {
	Client     llm.EmbedderClient
	Model      string
	BatchSize  int
	Delay      time.Duration // Pause between consecutive batches
	Dimensions int           // Expected vector size; 0 accepts whatever the first batch returns
	Store      Store
	Logger     *zap.Logger
}

func NewGateway(client llm.EmbedderClient, modelName string, batchSize int, delay time.Duration, dimensions int, logger *zap.Logger) *Gateway {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if delay < 0 {
		delay = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		Client:     client,
		Model:      modelName,
		BatchSize:  batchSize,
		Delay:      delay,
		Dimensions: dimensions,
		Logger:     logger,
	}
}

// Embed returns one embedding per topic, in order. Either every topic gets a
// vector or an error is returned; partial sets never escape.
func (g *Gateway) Embed(ctx context.Context, topics []model.Topic) ([]model.Embedding, error) {
	texts := make([]string, len(topics))
	for i, t := range topics {
		texts[i] = t.Text
	}

	vectors, err := g.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, err
	}

	out := make([]model.Embedding, len(topics))
	for i, t := range topics {
		out[i] = model.Embedding{TopicID: t.ID, Vector: vectors[i], Model: g.Model}
	}
	return out, nil
}

// EmbedTexts embeds texts in sequential batches of BatchSize, waiting Delay
// between batches.
func (g *Gateway) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if g.Client == nil {
		return nil, &model.CollaboratorError{Collaborator: "embedding", Op: "embed", Err: errors.New("no embedding client configured")}
	}
	out := make([][]float32, len(texts))
	if len(texts) == 0 {
		return out, nil
	}

	pending, dim := g.fillFromStore(ctx, texts, out)

	fresh := make(map[string][]float32)
	for start, batchNo := 0, 0; start < len(pending); start, batchNo = start+g.BatchSize, batchNo+1 {
		end := min(start+g.BatchSize, len(pending))
		idx := pending[start:end]

		if batchNo > 0 {
			if err := wait(ctx, g.Delay); err != nil {
				return nil, err
			}
		}

		batch := make([]string, len(idx))
		for i, j := range idx {
			batch[i] = texts[j]
		}

		vecs, err := g.embedBatch(ctx, batchNo, batch, &dim)
		if err != nil {
			return nil, err
		}
		for i, j := range idx {
			out[j] = vecs[i]
			fresh[texts[j]] = vecs[i]
		}
	}

	g.saveToStore(ctx, fresh)
	return out, nil
}

func (g *Gateway) embedBatch(ctx context.Context, batchNo int, batch []string, dim *int) ([][]float32, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := wait(ctx, g.Delay); err != nil {
				return nil, err
			}
		}

		vecs, err := g.Client.Embed(ctx, batch)
		if err == nil {
			err = checkBatch(vecs, len(batch), *dim)
		}
		if err == nil {
			*dim = len(vecs[0])
			g.Logger.Debug("embedded batch", zap.Int("batch", batchNo), zap.Int("size", len(batch)))
			return vecs, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = err
		g.Logger.Warn("embedding batch failed",
			zap.Int("batch", batchNo),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}

	return nil, &model.CollaboratorError{
		Collaborator: "embedding",
		Op:           fmt.Sprintf("embed batch %d", batchNo),
		Attempts:     maxAttempts,
		Err:          lastErr,
	}
}

// checkBatch rejects responses with the wrong count or inconsistent
// dimensionality. With dim 0 the first vector sets the expected size.
func checkBatch(vecs [][]float32, want int, dim int) error {
	if len(vecs) != want {
		return fmt.Errorf("expected %d vectors, got %d", want, len(vecs))
	}
	for i, v := range vecs {
		if len(v) == 0 {
			return fmt.Errorf("empty vector at position %d", i)
		}
		if dim == 0 {
			dim = len(v)
		}
		if len(v) != dim {
			return fmt.Errorf("vector %d has dimension %d, expected %d", i, len(v), dim)
		}
	}
	return nil
}

// fillFromStore copies cached vectors into out and returns the indices that
// still need embedding, plus the dimension the cached vectors settled on.
func (g *Gateway) fillFromStore(ctx context.Context, texts []string, out [][]float32) ([]int, int) {
	dim := g.Dimensions
	pending := make([]int, 0, len(texts))
	var cached map[string][]float32
	if g.Store != nil {
		var err error
		cached, err = g.Store.Lookup(ctx, g.Model, texts)
		if err != nil {
			g.Logger.Warn("embedding store lookup failed, embedding everything", zap.Error(err))
			cached = nil
		}
	}

	for i, t := range texts {
		v, ok := cached[t]
		if ok && len(v) > 0 && (dim == 0 || len(v) == dim) {
			dim = len(v)
			out[i] = v
			continue
		}
		pending = append(pending, i)
	}
	if hits := len(texts) - len(pending); hits > 0 {
		g.Logger.Debug("reused stored embeddings", zap.Int("hits", hits), zap.Int("misses", len(pending)))
	}
	return pending, dim
}

func (g *Gateway) saveToStore(ctx context.Context, fresh map[string][]float32) {
	if g.Store == nil || len(fresh) == 0 {
		return
	}
	if err := g.Store.Save(ctx, g.Model, fresh); err != nil {
		g.Logger.Warn("embedding store save failed", zap.Error(err))
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
