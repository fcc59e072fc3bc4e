package community

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangle(a, b, c int) []Edge {
	return []Edge{{From: a, To: b, Weight: 1}, {From: b, To: c, Weight: 1}, {From: c, To: a, Weight: 1}}
}

func TestLPA_DisconnectedComponents(t *testing.T) {
	// Graph: [0-1-2-0] ... [3-4-5-3]
	edges := append(triangle(0, 1, 2), triangle(3, 4, 5)...)

	communities := NewLabelPropagationDetector().Detect(6, edges)

	assert.Equal(t, [][]int{{0, 1, 2}, {3, 4, 5}}, communities)
}

func TestLPA_BridgeNode(t *testing.T) {
	// Two triangles connected by edge 2-3. Intra-cluster edges outweigh the bridge.
	edges := append(triangle(0, 1, 2), triangle(3, 4, 5)...)
	edges = append(edges, Edge{From: 2, To: 3, Weight: 1})

	communities := NewLabelPropagationDetector().Detect(6, edges)

	assert.Equal(t, [][]int{{0, 1, 2}, {3, 4, 5}}, communities)
}

func TestLPA_LargeClique(t *testing.T) {
	var edges []Edge
	for i := 0; i < 5; i++ {
		for j := i + 1; j < 5; j++ {
			edges = append(edges, Edge{From: i, To: j, Weight: 1})
		}
	}

	communities := NewLabelPropagationDetector().Detect(5, edges)

	assert.Len(t, communities, 1)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, communities[0])
}

func TestLPA_IsolatedNodesDropped(t *testing.T) {
	edges := []Edge{{From: 1, To: 2, Weight: 0.9}, {From: 7, To: 1, Weight: 0.5}}

	communities := NewLabelPropagationDetector().Detect(4, edges)

	// 0 and 3 have no neighbors, the out-of-range edge is ignored.
	assert.Equal(t, [][]int{{1, 2}}, communities)
}

func TestLPA_Deterministic(t *testing.T) {
	edges := append(triangle(0, 1, 2), triangle(2, 3, 4)...)
	edges = append(edges, triangle(5, 6, 7)...)

	d := NewLabelPropagationDetector()
	first := d.Detect(8, edges)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, d.Detect(8, edges))
	}
}

func TestHeaviestLabel(t *testing.T) {
	// a+b and 0.3 differ in the last bit but count as a tie.
	a, b := 0.1, 0.2
	require.NotEqual(t, 0.3, a+b)
	assert.Equal(t, 7, heaviestLabel(map[int]float64{4: a + b, 7: 0.3}))
	assert.Equal(t, 7, heaviestLabel(map[int]float64{7: a + b, 4: 0.3}))
	assert.Equal(t, 2, heaviestLabel(map[int]float64{2: 0.5, 9: 0.4, 1: 0.5}))
	assert.Equal(t, 3, heaviestLabel(map[int]float64{3: 1}))
}

func TestLPA_Empty(t *testing.T) {
	assert.Nil(t, NewLabelPropagationDetector().Detect(0, nil))
}
