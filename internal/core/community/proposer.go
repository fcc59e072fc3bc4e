package community

import (
	"context"
	"fmt"

	"github.com/agenthands/syllabus/internal/core/match"
	"github.com/agenthands/syllabus/internal/core/model"
)

// TextEmbedder turns texts into vectors, one per text, in input order.
type TextEmbedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// SimilarityProposer groups topics without a generative collaborator: it
// links topics whose embeddings are at least MinSimilarity apart and runs
// label propagation over the resulting graph.
type SimilarityProposer struct {
	Embedder      TextEmbedder
	MinSimilarity float64
	Detector      *LabelPropagationDetector
}

func NewSimilarityProposer(embedder TextEmbedder, minSimilarity float64) *SimilarityProposer {
	if minSimilarity <= 0 {
		minSimilarity = match.DefaultWeakThreshold
	}
	return &SimilarityProposer{
		Embedder:      embedder,
		MinSimilarity: minSimilarity,
		Detector:      NewLabelPropagationDetector(),
	}
}

// Propose returns one unnamed proposal per detected community. Topics that
// end up alone are left out; cluster repair collects them afterwards. The
// community count follows the graph, so the count range is not enforced here.
func (p *SimilarityProposer) Propose(ctx context.Context, topics []model.Topic, _, _ int) ([]model.ClusterProposal, error) {
	if len(topics) == 0 {
		return nil, nil
	}
	if p.Embedder == nil {
		return nil, fmt.Errorf("similarity proposer has no embedder")
	}

	texts := make([]string, len(topics))
	for i, t := range topics {
		texts[i] = t.Text
	}
	vectors, err := p.Embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed topics for clustering: %w", err)
	}
	if len(vectors) != len(topics) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d topics", len(vectors), len(topics))
	}

	edges := SimilarityGraph(vectors, p.MinSimilarity)
	communities := p.Detector.Detect(len(topics), edges)

	proposals := make([]model.ClusterProposal, 0, len(communities))
	for _, members := range communities {
		proposals = append(proposals, model.ClusterProposal{Indices: members})
	}
	return proposals, nil
}

// SimilarityGraph links every pair of vectors whose cosine similarity is at
// least minSimilarity, weighted by that similarity.
func SimilarityGraph(vectors [][]float32, minSimilarity float64) []Edge {
	var edges []Edge
	for i := 0; i < len(vectors); i++ {
		for j := i + 1; j < len(vectors); j++ {
			sim := match.CosineSimilarity(vectors[i], vectors[j])
			if sim >= minSimilarity {
				edges = append(edges, Edge{From: i, To: j, Weight: sim})
			}
		}
	}
	return edges
}
