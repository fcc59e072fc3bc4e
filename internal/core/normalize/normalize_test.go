package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/syllabus/internal/core/model"
)

func TestNormalize_StripsListMarkers(t *testing.T) {
	n := NewNormalizer(0, 0)

	cases := map[string]string{
		"1. Introdução a Vetores":      "Introdução a Vetores",
		"2) Produto Escalar":           "Produto Escalar",
		"(3) Produto Vetorial":         "Produto Vetorial",
		"- Limites laterais":           "Limites laterais",
		"• Derivadas parciais":         "Derivadas parciais",
		"* Integrais duplas":           "Integrais duplas",
		"a) Matrizes inversas":         "Matrizes inversas",
		"(b) Determinantes":            "Determinantes",
		"iv. Autovalores":              "Autovalores",
		"1.2.3 Espaços vetoriais":      "Espaços vetoriais",
		"4 - Transformações lineares":  "Transformações lineares",
		"  Séries   de    Fourier  ":   "Séries de Fourier",
		"1. - a) Equações diferenciais": "Equações diferenciais",
		"Teorema de Green:":            "Teorema de Green",
	}

	for in, want := range cases {
		got, reason := n.Clean(in)
		assert.Empty(t, reason, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}
}

func TestNormalize_KeepsLeadingDigitsThatAreContent(t *testing.T) {
	n := NewNormalizer(0, 0)

	got, reason := n.Clean("2D Transformations")
	assert.Empty(t, reason)
	assert.Equal(t, "2D Transformations", got)
}

func TestNormalize_Rejections(t *testing.T) {
	n := NewNormalizer(0, 0)

	cases := map[string]string{
		"":                              model.RejectEmptyInput,
		"   ":                           model.RejectEmptyInput,
		"Lim":                           model.RejectTooShort,
		"1. Lim":                        model.RejectTooShort,
		"12345678":                      model.RejectNoLetters,
		"!!! ??? ...":                   model.RejectNoLetters,
		"- 1.":                          model.RejectNoLetters,
		"See https://example.com/notes": model.RejectURL,
		"www.khanacademy.org calculus":  model.RejectURL,
		strings.Repeat("a", 201):        model.RejectTooLong,
	}

	for in, want := range cases {
		_, reason := n.Clean(in)
		assert.Equal(t, want, reason, "input %q", in)
	}
}

func TestNormalize_DropsRejected(t *testing.T) {
	n := NewNormalizer(0, 0)

	out := n.Normalize([]string{"1. Cálculo Diferencial", "???", "http://x.io", "- Álgebra Linear"})
	assert.Equal(t, []string{"Cálculo Diferencial", "Álgebra Linear"}, out)
}

func TestNormalize_Idempotent(t *testing.T) {
	n := NewNormalizer(0, 0)

	inputs := [][]string{
		{"1. 2. Nested numbering topic", "a) b) Lettered twice here", "- - Double bullet item"},
		{"  (1)   Spacing   everywhere  ", "iv. Roman item:", "1.2 Decimal outline"},
		{"Plain topic", "ok", "3.5 mm jack wiring", "Tópico com acentuação"},
		{"— dash lead", "• bullet lead;", "(c) paren letter", "10) Ten"},
		{"Vectors and matrices : ;", "Limits, ;", "Series ,: ; ,"},
	}

	for _, in := range inputs {
		once := n.Normalize(in)
		twice := n.Normalize(once)
		assert.Equal(t, once, twice)
	}
}

func TestClean_TrailingPunctuationRun(t *testing.T) {
	n := NewNormalizer(0, 0)

	for in, want := range map[string]string{
		"Limits, ;":                "Limits",
		"Vectors and matrices : ;": "Vectors and matrices",
		"Series ,: ; ,":            "Series",
	} {
		got, reason := n.Clean(in)
		assert.Empty(t, reason, in)
		assert.Equal(t, want, got, in)
	}
}

func TestNormalize_CustomBounds(t *testing.T) {
	n := NewNormalizer(2, 10)

	_, reason := n.Clean("Ab")
	assert.Empty(t, reason)

	_, reason = n.Clean("Much longer than ten")
	assert.Equal(t, model.RejectTooLong, reason)
}

func TestNormalizeTopics_KeepsMetadataAndReportsRejections(t *testing.T) {
	n := NewNormalizer(0, 0)

	topics := []model.Topic{
		{ID: "t1", Text: "1. Limites", SourceType: model.SourceWeb, Metadata: map[string]string{"url": "x"}},
		{ID: "t2", Text: "42", SourceType: model.SourceDocument},
	}

	kept, rejected := n.NormalizeTopics(topics)
	if assert.Len(t, kept, 1) {
		assert.Equal(t, "t1", kept[0].ID)
		assert.Equal(t, "Limites", kept[0].Text)
		assert.Equal(t, "x", kept[0].Metadata["url"])
	}
	if assert.Len(t, rejected, 1) {
		assert.Equal(t, "42", rejected[0].Text)
		assert.Equal(t, model.RejectNoLetters, rejected[0].Reason)
	}
	// Input is untouched.
	assert.Equal(t, "1. Limites", topics[0].Text)
}
