package topology

import (
	"math/rand"
	"testing"

	"github.com/gekko3d-research/xpbdevo/genome"
	"github.com/stretchr/testify/require"
)

func buildNetwork(t *testing.T) *genome.SpeciesDef {
	t.Helper()
	g := genome.NewGenomeDef()
	in := g.AddLayer(2, []genome.Activation{genome.Linear})
	hidden := g.AddLayer(2, []genome.Activation{genome.ReLU})
	out := g.AddFixedLayer([]genome.Activation{genome.Linear})
	require.NoError(t, g.ConnectFull(in, hidden))
	require.NoError(t, g.ConnectFull(hidden, out))
	return genome.NewSpeciesDef(g)
}

func TestExecutionOrderIsTopological(t *testing.T) {
	species := buildNetwork(t)
	topo, err := Compile(species)
	require.NoError(t, err)

	require.Len(t, topo.ExecutionOrder, 5)

	position := make(map[int]int, len(topo.ExecutionOrder))
	for i, n := range topo.ExecutionOrder {
		position[n] = i
	}
	for _, l := range species.Genome.LinkDefs {
		if !species.ActiveLinks[l.ID] {
			continue
		}
		require.Less(t, position[l.SourceNodeIndex], position[l.TargetNodeIndex])
	}
}

func TestBuildRejectsCycle(t *testing.T) {
	g := genome.NewGenomeDef()
	row0 := g.AddLayer(1, []genome.Activation{genome.Linear})
	row1 := g.AddLayer(1, []genome.Activation{genome.Linear})
	require.NoError(t, g.ConnectFull(row0, row1))
	species := genome.NewSpeciesDef(g)

	// Force a cycle directly against the species' active link set: a
	// link whose target row precedes its source row in the base genome
	// cannot be created via ConnectFull, so append it by hand.
	g.LinkDefs = append(g.LinkDefs, genome.LinkDef{
		ID:              len(g.LinkDefs),
		SourceNodeIndex: g.LayerNodeIDs(row1)[0],
		TargetNodeIndex: g.LayerNodeIDs(row0)[0],
	})
	g.WeightDefs = append(g.WeightDefs, genome.WeightDef{ID: len(g.WeightDefs), LinkID: g.LinkDefs[len(g.LinkDefs)-1].ID})
	species.ActiveLinks[g.LinkDefs[len(g.LinkDefs)-1].ID] = true
	species.ActiveWeights[g.WeightDefs[len(g.WeightDefs)-1].ID] = true

	_, err := Compile(species)
	require.Error(t, err)
}

func TestForwardPassLinearReLUNetwork(t *testing.T) {
	species := buildNetwork(t)
	topo, err := Compile(species)
	require.NoError(t, err)

	batch := NewExecutableBatch(topo, 1)

	// All weights = 1, all biases = 0, activations already set from the
	// single-element allowed sets picked at genome-build time for the
	// fixed output layer; hidden layer uses ReLU (its only allowed kind).
	ind := genome.NewIndividual(species, rand.New(rand.NewSource(1)), genome.GlorotUniform)
	for wid := range ind.Weights {
		ind.Weights[wid] = 1
	}
	for bid := range ind.Biases {
		ind.Biases[bid] = 0
	}
	for nodeID := range ind.Nodes {
		nd := species.Genome.NodeDefs[nodeID]
		ind.Nodes[nodeID] = nd.AllowedActivations[0]
	}
	batch.LoadIndividual(0, ind)

	// Inputs (1, -1): hidden pre-activation = 1 + (-1) = 0 for both hidden
	// nodes (fan-in from both inputs, weight 1 each) -> ReLU(0) = 0 each.
	// Output pre-activation = 0*1 + 0*1 + bias 0 = 0 -> linear -> 0.
	out := batch.Forward([]float64{1, -1})
	require.Len(t, out, 1)
	require.InDelta(t, 0.0, out[0], 1e-9)
}

func TestForwardPassPositiveInputs(t *testing.T) {
	species := buildNetwork(t)
	topo, err := Compile(species)
	require.NoError(t, err)
	batch := NewExecutableBatch(topo, 1)

	ind := genome.NewIndividual(species, rand.New(rand.NewSource(2)), genome.GlorotUniform)
	for wid := range ind.Weights {
		ind.Weights[wid] = 1
	}
	for bid := range ind.Biases {
		ind.Biases[bid] = 0
	}
	for nodeID := range ind.Nodes {
		nd := species.Genome.NodeDefs[nodeID]
		ind.Nodes[nodeID] = nd.AllowedActivations[0]
	}
	batch.LoadIndividual(0, ind)

	// Inputs (1, 1): each hidden node sums both inputs via weight 1 -> 2,
	// ReLU(2)=2. Output sums both hidden nodes via weight 1 -> 4, linear -> 4.
	out := batch.Forward([]float64{1, 1})
	require.InDelta(t, 4.0, out[0], 1e-9)
}

func TestBatchOfTwoIndividualsAreIndependent(t *testing.T) {
	species := buildNetwork(t)
	topo, err := Compile(species)
	require.NoError(t, err)
	batch := NewExecutableBatch(topo, 2)

	indA := genome.NewIndividual(species, rand.New(rand.NewSource(3)), genome.GlorotUniform)
	indB := genome.NewIndividual(species, rand.New(rand.NewSource(4)), genome.GlorotUniform)
	for wid := range indA.Weights {
		indA.Weights[wid] = 1
		indB.Weights[wid] = 0
	}
	for bid := range indA.Biases {
		indA.Biases[bid] = 0
		indB.Biases[bid] = 5
	}
	for nodeID := range indA.Nodes {
		nd := species.Genome.NodeDefs[nodeID]
		indA.Nodes[nodeID] = nd.AllowedActivations[0]
		indB.Nodes[nodeID] = nd.AllowedActivations[0]
	}
	batch.LoadIndividual(0, indA)
	batch.LoadIndividual(1, indB)

	out := batch.Forward([]float64{1, 1, 1, 1})
	// Slot 0 (weights=1, biases=0): same as TestForwardPassPositiveInputs -> 4.
	require.InDelta(t, 4.0, out[0], 1e-9)
	// Slot 1 (weights=0, biases=5): hidden = ReLU(0+5)=5, output = 0*5+0*5+5 = 5.
	require.InDelta(t, 5.0, out[1], 1e-9)
}
