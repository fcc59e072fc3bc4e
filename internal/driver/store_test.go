package driver

import (
	"context"
	"errors"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/syllabus/internal/core/embed"
)

type MockDriver struct {
	QueryExecuted string
	QueryParams   map[string]interface{}
	MockResult    neo4j.EagerResult
	Err           error
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.QueryExecuted = query
	m.QueryParams = params
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	return m.MockResult, nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error {
	return nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}

var _ embed.Store = (*EmbeddingStore)(nil)

func record(key string, vector any) *neo4j.Record {
	return &neo4j.Record{Keys: []string{"key", "vector"}, Values: []any{key, vector}}
}

func TestEmbeddingStore_Lookup(t *testing.T) {
	d := &MockDriver{MockResult: neo4j.EagerResult{Records: []*neo4j.Record{
		record(Key("m", "Limites"), []any{1.0, 2.0}),
		record(Key("m", "Derivadas"), []float64{3, 4}),
		record("stranger", []any{9.0}),
	}}}
	s := NewEmbeddingStore(d)

	found, err := s.Lookup(context.Background(), "m", []string{"Limites", "Derivadas", "Séries", "Limites"})
	require.NoError(t, err)

	assert.Equal(t, GetTopicEmbeddingsQuery, d.QueryExecuted)
	assert.Len(t, d.QueryParams["keys"], 3)
	assert.Equal(t, map[string][]float32{
		"Limites":   {1, 2},
		"Derivadas": {3, 4},
	}, found)
}

func TestEmbeddingStore_LookupErrors(t *testing.T) {
	s := NewEmbeddingStore(&MockDriver{Err: errors.New("connection refused")})
	_, err := s.Lookup(context.Background(), "m", []string{"Limites"})
	assert.Error(t, err)

	s = NewEmbeddingStore(&MockDriver{MockResult: neo4j.EagerResult{Records: []*neo4j.Record{
		record(Key("m", "Limites"), "not a vector"),
	}}})
	_, err = s.Lookup(context.Background(), "m", []string{"Limites"})
	assert.Error(t, err)

	found, err := s.Lookup(context.Background(), "m", nil)
	assert.NoError(t, err)
	assert.Empty(t, found)
}

func TestEmbeddingStore_Save(t *testing.T) {
	d := &MockDriver{}
	s := NewEmbeddingStore(d)

	err := s.Save(context.Background(), "m", map[string][]float32{"Limites": {0.5, 1}})
	require.NoError(t, err)

	assert.Equal(t, SaveTopicEmbeddingsQuery, d.QueryExecuted)
	rows, ok := d.QueryParams["rows"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Equal(t, Key("m", "Limites"), rows[0]["key"])
	assert.Equal(t, []float64{0.5, 1}, rows[0]["vector"])
	assert.Equal(t, 2, rows[0]["dimensions"])

	d.QueryExecuted = ""
	require.NoError(t, s.Save(context.Background(), "m", nil))
	assert.Empty(t, d.QueryExecuted)
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("a", "b"), Key("a", "b"))
	assert.NotEqual(t, Key("a", "b"), Key("b", "b"))
	assert.NotEqual(t, Key("ab", "c"), Key("a", "bc"))
	assert.Len(t, Key("a", "b"), 64)
}
