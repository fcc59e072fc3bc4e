package community

import (
	"math"
	"sort"
)

const tieEpsilon = 1e-9

// Edge is an undirected weighted link between two topic indices.
type Edge struct {
	From, To int
	Weight   float64
}

// LabelPropagationDetector implements community detection using Label Propagation Algorithm (LPA).
type LabelPropagationDetector struct {
	MaxIterations int
	MinSize       int // Communities smaller than this are not returned
}

func NewLabelPropagationDetector() *LabelPropagationDetector {
	return &LabelPropagationDetector{
		MaxIterations: 20,
		MinSize:       2,
	}
}

// Detect groups the nodes 0..n-1. Each community lists its members in
// ascending order, and communities are ordered by their smallest member.
// Nodes left in undersized communities are simply absent from the result.
func (d *LabelPropagationDetector) Detect(n int, edges []Edge) [][]int {
	if n <= 0 {
		return nil
	}

	adj := make([]map[int]float64, n) // node -> neighbor -> weight
	for i := range adj {
		adj[i] = make(map[int]float64)
	}
	for _, e := range edges {
		if e.From < 0 || e.From >= n || e.To < 0 || e.To >= n || e.From == e.To {
			continue
		}
		w := e.Weight
		if w <= 0 {
			w = 1
		}
		adj[e.From][e.To] += w
		adj[e.To][e.From] += w
	}

	// Neighbors are visited in index order so label weights are summed in the
	// same order on every run.
	order := make([][]int, n)
	for u, neighbors := range adj {
		for v := range neighbors {
			order[u] = append(order[u], v)
		}
		sort.Ints(order[u])
	}

	// Each node starts with its own label.
	labels := make([]int, n)
	for i := range labels {
		labels[i] = i
	}

	for iter := 0; iter < d.MaxIterations; iter++ {
		changeCount := 0

		for u := 0; u < n; u++ {
			if len(order[u]) == 0 {
				continue
			}

			labelWeights := make(map[int]float64)
			for _, v := range order[u] {
				labelWeights[labels[v]] += adj[u][v]
			}
			bestLabel := heaviestLabel(labelWeights)

			if labels[u] != bestLabel {
				labels[u] = bestLabel
				changeCount++
			}
		}

		if changeCount == 0 {
			break
		}
	}

	groups := make(map[int][]int)
	for node, label := range labels {
		groups[label] = append(groups[label], node)
	}

	minSize := d.MinSize
	if minSize <= 0 {
		minSize = 1
	}
	var communities [][]int
	for _, members := range groups {
		if len(members) >= minSize {
			sort.Ints(members)
			communities = append(communities, members)
		}
	}
	sort.Slice(communities, func(i, j int) bool {
		return communities[i][0] < communities[j][0]
	})
	return communities
}

// heaviestLabel returns the label with the largest weight. Ties, including
// weights within tieEpsilon of each other, go to the largest label.
func heaviestLabel(weights map[int]float64) int {
	labels := make([]int, 0, len(weights))
	for label := range weights {
		labels = append(labels, label)
	}
	sort.Ints(labels)

	best, bestWeight := -1, 0.0
	for _, label := range labels {
		w := weights[label]
		if best < 0 || w >= bestWeight-tieEpsilon {
			best = label
			bestWeight = math.Max(bestWeight, w)
		}
	}
	return best
}
