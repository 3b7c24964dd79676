package genome

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildSimpleGenome(t *testing.T) *GenomeDef {
	t.Helper()
	g := NewGenomeDef()
	in := g.AddLayer(2, []Activation{Linear})
	hidden := g.AddLayer(2, []Activation{ReLU})
	out := g.AddFixedLayer([]Activation{Linear})

	require.NoError(t, g.ConnectFull(in, hidden))
	require.NoError(t, g.ConnectFull(hidden, out))
	return g
}

func TestLayerMajorNodeNumbering(t *testing.T) {
	g := buildSimpleGenome(t)
	require.Equal(t, 5, len(g.NodeDefs))

	inputIDs := g.LayerNodeIDs(0)
	require.Equal(t, []int{0, 1}, inputIDs)

	hiddenIDs := g.LayerNodeIDs(1)
	require.Equal(t, []int{2, 3}, hiddenIDs)

	outIDs := g.LayerNodeIDs(2)
	require.Equal(t, []int{4}, outIDs)
}

func TestConnectFullRejectsBackwardEdge(t *testing.T) {
	g := buildSimpleGenome(t)
	err := g.ConnectFull(2, 0)
	require.Error(t, err)
}

func TestConnectFullCreatesAllPairs(t *testing.T) {
	g := buildSimpleGenome(t)
	// 2 inputs -> 2 hidden = 4 links; 2 hidden -> 1 output = 2 links.
	require.Equal(t, 6, len(g.LinkDefs))
	require.Equal(t, 6, len(g.WeightDefs))
}

func TestFixedLayerSingleAllowedActivation(t *testing.T) {
	g := buildSimpleGenome(t)
	outNode := g.NodeDefs[4]
	require.Len(t, outNode.AllowedActivations, 1)
	require.Equal(t, Linear, outNode.AllowedActivations[0])
}

func TestMaxInDegree(t *testing.T) {
	g := buildSimpleGenome(t)
	g.SetMaxInDegree(1, 2)
	require.Equal(t, 2, *g.Layers[1].MaxInDegree)
}
