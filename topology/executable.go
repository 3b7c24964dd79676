// Package topology compiles a genome.SpeciesDef into the flat, blittable
// layout the batched forward-pass evaluator walks (SPEC_FULL.md §4.8).
package topology

import (
	"github.com/gekko3d-research/xpbdevo/genome"
	"github.com/gekko3d-research/xpbdevo/xerrors"
)

// ExecutableTopology is the compiled, GPU-blittable connection layout for
// one species. It never changes once built: structural mutation of the
// owning SpeciesDef requires rebuilding a new ExecutableTopology.
type ExecutableTopology struct {
	Species *genome.SpeciesDef // originating def; lets callers rebuild/inspect

	NumNodes    int
	NumWeights  int
	NumBiases   int
	NumInputs   int
	NumOutputs  int
	MaxInDegree int

	NodeInDegrees       []int // [node]
	ConnectionSources   []int // [node*MaxInDegree+k], -1 past in-degree
	ConnectionWeightIds []int // [node*MaxInDegree+k], -1 past in-degree
	NodeBiasIds         []int // [node], -1 if none
	NodeActivations     []genome.Activation

	ExecutionOrder []int // topological order, every reachable node once
}

// Compile builds species into an ExecutableTopology. It fails only when the
// active link set contains a cycle — every other condition (isolated nodes,
// zero in-degree, duplicate edges) is accepted silently (SPEC_FULL.md §7).
func Compile(species *genome.SpeciesDef) (*ExecutableTopology, error) {
	g := species.Genome
	numNodes := len(g.NodeDefs)

	adjacency := make([][]int, numNodes)   // node -> active targets
	incomingSrc := make([][]int, numNodes) // node -> active sources
	incomingWid := make([][]int, numNodes) // node -> weight id per source

	weightIDByLink := make(map[int]int, len(g.WeightDefs))
	for _, w := range g.WeightDefs {
		weightIDByLink[w.LinkID] = w.ID
	}

	for _, l := range g.LinkDefs {
		if !species.ActiveLinks[l.ID] {
			continue
		}
		adjacency[l.SourceNodeIndex] = append(adjacency[l.SourceNodeIndex], l.TargetNodeIndex)
		incomingSrc[l.TargetNodeIndex] = append(incomingSrc[l.TargetNodeIndex], l.SourceNodeIndex)
		incomingWid[l.TargetNodeIndex] = append(incomingWid[l.TargetNodeIndex], weightIDByLink[l.ID])
	}

	maxInDegree := 0
	nodeInDegrees := make([]int, numNodes)
	for n := 0; n < numNodes; n++ {
		nodeInDegrees[n] = len(incomingSrc[n])
		if nodeInDegrees[n] > maxInDegree {
			maxInDegree = nodeInDegrees[n]
		}
	}
	if maxInDegree == 0 {
		maxInDegree = 1
	}

	connSources := make([]int, numNodes*maxInDegree)
	connWeights := make([]int, numNodes*maxInDegree)
	for i := range connSources {
		connSources[i] = -1
		connWeights[i] = -1
	}
	for n := 0; n < numNodes; n++ {
		for k, src := range incomingSrc[n] {
			connSources[n*maxInDegree+k] = src
			connWeights[n*maxInDegree+k] = incomingWid[n][k]
		}
	}

	nodeBiasIds := make([]int, numNodes)
	for i := range nodeBiasIds {
		nodeBiasIds[i] = -1
	}
	for _, bd := range g.BiasDefs {
		nodeBiasIds[bd.NodeDefID] = bd.ID
	}

	activations := make([]genome.Activation, numNodes)
	for _, nd := range g.NodeDefs {
		if len(nd.AllowedActivations) > 0 {
			activations[nd.ID] = nd.AllowedActivations[0]
		}
	}

	order, err := topologicalOrder(numNodes, adjacency)
	if err != nil {
		return nil, err
	}

	return &ExecutableTopology{
		Species:             species,
		NumNodes:            numNodes,
		NumWeights:          len(g.WeightDefs),
		NumBiases:           len(g.BiasDefs),
		NumInputs:           g.NumInputs(),
		NumOutputs:          g.NumOutputs(),
		MaxInDegree:         maxInDegree,
		NodeInDegrees:       nodeInDegrees,
		ConnectionSources:   connSources,
		ConnectionWeightIds: connWeights,
		NodeBiasIds:         nodeBiasIds,
		NodeActivations:     activations,
		ExecutionOrder:      order,
	}, nil
}

// topologicalOrder performs depth-first post-order traversal from every
// node, accumulating into a shared visited set, per SPEC_FULL.md §4.8. A
// node still on the current DFS stack when revisited indicates a cycle.
func topologicalOrder(numNodes int, adjacency [][]int) ([]int, error) {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	state := make([]int, numNodes)
	order := make([]int, 0, numNodes)

	var visit func(n int) error
	visit = func(n int) error {
		state[n] = gray
		for _, next := range adjacency[n] {
			switch state[next] {
			case white:
				if err := visit(next); err != nil {
					return err
				}
			case gray:
				return xerrors.NewTopologyError(next, "cycle detected in active link set")
			}
		}
		state[n] = black
		order = append(order, n)
		return nil
	}

	for n := 0; n < numNodes; n++ {
		if state[n] == white {
			if err := visit(n); err != nil {
				return nil, err
			}
		}
	}

	// Post-order accumulation yields targets-before-sources; reverse so the
	// order is sources-before-targets (a valid forward topological order).
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}
