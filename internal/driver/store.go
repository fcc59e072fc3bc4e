package driver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// EmbeddingStore keeps topic vectors in the graph, keyed by embedding model
// and exact topic text, so repeated runs skip the embedding provider.
type EmbeddingStore struct {
	Driver GraphDriver
}

func NewEmbeddingStore(driver GraphDriver) *EmbeddingStore {
	return &EmbeddingStore{Driver: driver}
}

// Key identifies a vector. Different models never share keys.
func Key(model, text string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

// Lookup returns the stored vectors for the texts it knows, keyed by text.
func (s *EmbeddingStore) Lookup(ctx context.Context, model string, texts []string) (map[string][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	byKey := make(map[string]string, len(texts))
	keys := make([]string, 0, len(texts))
	for _, t := range texts {
		k := Key(model, t)
		if _, ok := byKey[k]; ok {
			continue
		}
		byKey[k] = t
		keys = append(keys, k)
	}

	result, err := s.Driver.ExecuteQuery(ctx, GetTopicEmbeddingsQuery, map[string]interface{}{"keys": keys})
	if err != nil {
		return nil, fmt.Errorf("failed to look up embeddings: %w", err)
	}

	found := make(map[string][]float32, len(result.Records))
	for _, record := range result.Records {
		k, _ := record.Get("key")
		key, _ := k.(string)
		text, ok := byKey[key]
		if !ok {
			continue
		}
		raw, _ := record.Get("vector")
		vec, err := toVector(raw)
		if err != nil {
			return nil, fmt.Errorf("stored embedding %s: %w", key, err)
		}
		found[text] = vec
	}
	return found, nil
}

// Save upserts vectors keyed by text.
func (s *EmbeddingStore) Save(ctx context.Context, model string, vectors map[string][]float32) error {
	if len(vectors) == 0 {
		return nil
	}

	now := time.Now().UTC()
	rows := make([]map[string]interface{}, 0, len(vectors))
	for text, vec := range vectors {
		values := make([]float64, len(vec))
		for i, v := range vec {
			values[i] = float64(v)
		}
		rows = append(rows, map[string]interface{}{
			"key":        Key(model, text),
			"model":      model,
			"text":       text,
			"vector":     values,
			"dimensions": len(vec),
			"updated_at": now,
		})
	}

	if _, err := s.Driver.ExecuteQuery(ctx, SaveTopicEmbeddingsQuery, map[string]interface{}{"rows": rows}); err != nil {
		return fmt.Errorf("failed to save embeddings: %w", err)
	}
	return nil
}

func toVector(raw any) ([]float32, error) {
	switch v := raw.(type) {
	case []float64:
		out := make([]float32, len(v))
		for i, x := range v {
			out[i] = float32(x)
		}
		return out, nil
	case []any:
		out := make([]float32, len(v))
		for i, x := range v {
			switch n := x.(type) {
			case float64:
				out[i] = float32(n)
			case int64:
				out[i] = float32(n)
			default:
				return nil, fmt.Errorf("unexpected element type %T", x)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unexpected vector type %T", raw)
	}
}
