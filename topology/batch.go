package topology

import "github.com/gekko3d-research/xpbdevo/genome"

// ExecutableBatch evaluates batchSize independent individuals sharing one
// ExecutableTopology in a flat, stride-regular layout suitable for direct
// GPU buffer upload (SPEC_FULL.md §4.8). Every per-individual array is
// indexed batchIdx*stride+itemIdx.
type ExecutableBatch struct {
	Topology  *ExecutableTopology
	BatchSize int

	Weights     []float64           // [batch*numWeights+weightId]
	Biases      []float64           // [batch*numBiases+biasId]
	Activations []genome.Activation // [batch*numNodes+nodeId]
	NodeValues  []float64           // [batch*numNodes+nodeId]
}

// NewExecutableBatch allocates a batch buffer for topology sized batchSize.
func NewExecutableBatch(topology *ExecutableTopology, batchSize int) *ExecutableBatch {
	return &ExecutableBatch{
		Topology:    topology,
		BatchSize:   batchSize,
		Weights:     make([]float64, batchSize*topology.NumWeights),
		Biases:      make([]float64, batchSize*topology.NumBiases),
		Activations: make([]genome.Activation, batchSize*topology.NumNodes),
		NodeValues:  make([]float64, batchSize*topology.NumNodes),
	}
}

// LoadIndividual copies one individual's weights/biases/activations into
// batch slot batchIdx. The individual must share topology's species.
func (b *ExecutableBatch) LoadIndividual(batchIdx int, ind *genome.Individual) {
	t := b.Topology
	wBase := batchIdx * t.NumWeights
	for wid, v := range ind.Weights {
		b.Weights[wBase+wid] = v
	}
	bBase := batchIdx * t.NumBiases
	for bid, v := range ind.Biases {
		b.Biases[bBase+bid] = v
	}
	nBase := batchIdx * t.NumNodes
	for nodeID, act := range ind.Nodes {
		b.Activations[nBase+nodeID] = act
	}
}

// Forward runs one forward pass for every batch slot. inputs must have
// length BatchSize*Topology.NumInputs, laid out [batch*numInputs+inputIdx].
// Outputs are returned as a freshly allocated [BatchSize*NumOutputs] slice,
// the last NumOutputs entries of each slot's nodeValues.
func (b *ExecutableBatch) Forward(inputs []float64) []float64 {
	t := b.Topology
	outputs := make([]float64, b.BatchSize*t.NumOutputs)

	for batchIdx := 0; batchIdx < b.BatchSize; batchIdx++ {
		nBase := batchIdx * t.NumNodes
		wBase := batchIdx * t.NumWeights
		bBase := batchIdx * t.NumBiases
		inBase := batchIdx * t.NumInputs

		for i := 0; i < t.NumInputs; i++ {
			b.NodeValues[nBase+i] = inputs[inBase+i]
		}
		for n := t.NumInputs; n < t.NumNodes; n++ {
			b.NodeValues[nBase+n] = 0
		}

		for _, n := range t.ExecutionOrder {
			if n < t.NumInputs {
				continue
			}
			sum := 0.0
			for k := 0; k < t.NodeInDegrees[n]; k++ {
				idx := n*t.MaxInDegree + k
				src := t.ConnectionSources[idx]
				wid := t.ConnectionWeightIds[idx]
				sum += b.NodeValues[nBase+src] * b.Weights[wBase+wid]
			}
			if bid := t.NodeBiasIds[n]; bid != -1 {
				sum += b.Biases[bBase+bid]
			}
			act := b.Activations[nBase+n]
			b.NodeValues[nBase+n] = genome.Apply(act, sum)
		}

		outStart := t.NumNodes - t.NumOutputs
		for i := 0; i < t.NumOutputs; i++ {
			outputs[batchIdx*t.NumOutputs+i] = b.NodeValues[nBase+outStart+i]
		}
	}

	return outputs
}
