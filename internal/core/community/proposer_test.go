package community

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/syllabus/internal/core/model"
)

type MockEmbedder struct {
	Vectors map[string][]float32
	Err     error
}

func (m *MockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.Vectors[t]
	}
	return out, nil
}

func topics(texts ...string) []model.Topic {
	out := make([]model.Topic, len(texts))
	for i, t := range texts {
		out[i] = model.Topic{ID: t, Text: t}
	}
	return out
}

func TestSimilarityProposer_GroupsByEmbedding(t *testing.T) {
	m := &MockEmbedder{Vectors: map[string][]float32{
		"Limites":           {1, 0, 0},
		"Derivadas":         {0, 1, 0},
		"Limites laterais":  {0.95, 0.05, 0},
		"Regra da cadeia":   {0.1, 0.9, 0},
		"Limites infinitos": {0.9, 0, 0.1},
		"Séries":            {0, 0, 1},
	}}
	p := NewSimilarityProposer(m, 0)

	proposals, err := p.Propose(context.Background(),
		topics("Limites", "Derivadas", "Limites laterais", "Regra da cadeia", "Limites infinitos", "Séries"), 2, 6)
	require.NoError(t, err)

	require.Len(t, proposals, 2)
	assert.Equal(t, []int{0, 2, 4}, proposals[0].Indices)
	assert.Equal(t, []int{1, 3}, proposals[1].Indices)
	assert.Empty(t, proposals[0].Name)
}

func TestSimilarityProposer_Errors(t *testing.T) {
	_, err := NewSimilarityProposer(nil, 0.5).Propose(context.Background(), topics("a"), 0, 0)
	assert.Error(t, err)

	boom := errors.New("down")
	_, err = NewSimilarityProposer(&MockEmbedder{Err: boom}, 0.5).Propose(context.Background(), topics("a"), 0, 0)
	assert.ErrorIs(t, err, boom)

	proposals, err := NewSimilarityProposer(nil, 0.5).Propose(context.Background(), nil, 0, 0)
	assert.NoError(t, err)
	assert.Empty(t, proposals)
}

func TestSimilarityGraph(t *testing.T) {
	edges := SimilarityGraph([][]float32{{1, 0}, {1, 0}, {0, 1}}, 0.6)

	require.Len(t, edges, 1)
	assert.Equal(t, 0, edges[0].From)
	assert.Equal(t, 1, edges[0].To)
	assert.InDelta(t, 1.0, edges[0].Weight, 1e-9)
}
