package dedupe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/syllabus/internal/core/model"
)

func texts(topics []model.Topic) []string {
	out := make([]string, len(topics))
	for i, t := range topics {
		out[i] = t.Text
	}
	return out
}

func TestDedupe_AccentAndCaseInsensitive(t *testing.T) {
	d := NewDetector(0, nil)

	result := d.Dedupe([]string{"Introdução a Vetores", "Introducao a vetores", "Produto Escalar"})

	assert.Equal(t, []string{"Introdução a Vetores", "Produto Escalar"}, texts(result.UniqueTopics))
	assert.Equal(t, 1, result.DuplicatesRemoved)
	require.Len(t, result.Duplicates, 1)
	assert.Equal(t, "Introducao a vetores", result.Duplicates[0].Text)
	assert.Equal(t, "Introdução a Vetores", result.Duplicates[0].DuplicateOf)
	assert.Equal(t, model.DuplicateExact, result.Duplicates[0].Reason)
}

func TestDedupe_Substring(t *testing.T) {
	d := NewDetector(0, nil)

	result := d.Dedupe([]string{"Limites e Continuidade", "Limites", "Continuidade uniforme em intervalos"})

	assert.Equal(t, []string{"Limites e Continuidade", "Continuidade uniforme em intervalos"}, texts(result.UniqueTopics))
	require.Len(t, result.Duplicates, 1)
	assert.Equal(t, model.DuplicateSubstring, result.Duplicates[0].Reason)

	// The other direction: accepted topic is contained in the candidate.
	result = d.Dedupe([]string{"Derivadas", "Derivadas de ordem superior"})
	assert.Equal(t, []string{"Derivadas"}, texts(result.UniqueTopics))
}

func TestDedupe_EditDistance(t *testing.T) {
	d := NewDetector(0, nil)

	result := d.Dedupe([]string{"Produto Escalar", "Produto Escolar", "Produto Vetorial"})

	assert.Equal(t, []string{"Produto Escalar", "Produto Vetorial"}, texts(result.UniqueTopics))
	require.Len(t, result.Duplicates, 1)
	assert.Equal(t, model.DuplicateSimilar, result.Duplicates[0].Reason)
	assert.InDelta(t, 1-1.0/15.0, result.Duplicates[0].Similarity, 1e-9)
}

func TestDedupe_Empty(t *testing.T) {
	d := NewDetector(0, nil)

	result := d.Dedupe(nil)
	assert.Empty(t, result.UniqueTopics)
	assert.Zero(t, result.DuplicatesRemoved)
	assert.Empty(t, result.Duplicates)
}

func TestDedupe_PreservesTopicFields(t *testing.T) {
	d := NewDetector(0, nil)

	topics := []model.Topic{
		{ID: "a", Text: "Séries de Taylor", SourceType: model.SourceDocument, Metadata: map[string]string{"page": "3"}},
		{ID: "b", Text: "series de taylor", SourceType: model.SourceWeb},
	}
	result := d.DedupeTopics(topics)

	require.Len(t, result.UniqueTopics, 1)
	assert.Equal(t, topics[0], result.UniqueTopics[0])
}

func TestDedupe_OutputPairsAreDistinct(t *testing.T) {
	d := NewDetector(0, nil)

	input := []string{
		"Vetores no plano", "Vetores no espaço", "Vetores no Plano", "Produto escalar",
		"Produto vetorial", "Produto misto", "Retas no espaço", "Planos no espaço",
		"Distância entre retas", "Distancia entre retas reversas", "Cônicas", "Conicas",
		"Quádricas", "Mudança de coordenadas", "Mudanca de coordenada", "Matrizes",
		"Matriz inversa", "Determinantes", "Determinante", "Sistemas lineares",
	}
	result := d.Dedupe(input)

	unique := result.UniqueTopics
	assert.Equal(t, len(input), len(unique)+result.DuplicatesRemoved)
	for i := range unique {
		for j := i + 1; j < len(unique); j++ {
			a, b := Fold(unique[i].Text), Fold(unique[j].Text)
			assert.Less(t, Similarity(a, b), DefaultSimilarityThreshold, "%q vs %q", a, b)
			assert.False(t, strings.Contains(a, b) || strings.Contains(b, a), "%q vs %q", a, b)
		}
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 1.0, Similarity("Ação", "acao"))
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 1e-9)
	assert.InDelta(t, 0.75, Similarity("abcd", "abce"), 1e-9)
}

func TestFold(t *testing.T) {
	assert.Equal(t, "termodinamica avancada", Fold("  Termodinâmica   Avançada "))
	assert.Equal(t, "algebra basica", Fold("ÁLGEBRA BÁSICA"))
}
