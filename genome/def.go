// Package genome implements the symbolic layered-DAG network model: defs
// are immutable shared descriptors owned by a GenomeDef arena; individuals
// hold the mutable per-parameter records (spec.md §3, §4.7, §9).
package genome

import "github.com/gekko3d-research/xpbdevo/xerrors"

// NodeDef is an immutable node descriptor. AllowedActivations has exactly
// one element for nodes in a fixed-activation layer (spec.md §9's open
// question: the single-element allowed set is what's enforced, the layer's
// FixedActivationsPerNode flag is otherwise redundant and ignored).
type NodeDef struct {
	ID                 int
	RowID              int
	ColID              int
	AllowedActivations []Activation
}

// BiasDef is an immutable one-per-node bias descriptor.
type BiasDef struct {
	ID        int
	NodeDefID int
}

// LinkDef is an immutable forward edge: SourceNodeIndex's row must be less
// than TargetNodeIndex's row (spec.md §3).
type LinkDef struct {
	ID                               int
	SourceNodeIndex, TargetNodeIndex int
}

// WeightDef is 1:1 with a LinkDef in the base genome definition. It stores
// the link's id rather than a back-reference to the LinkDef itself
// (spec.md §9): resolve via GenomeDef.LinkDefs[LinkID].
type WeightDef struct {
	ID     int
	LinkID int
}

// LayerDef describes one row of nodes. Exactly one of AllowedActivations or
// FixedActivationsPerNode is meaningful: a "fixed" layer is modeled by
// giving every node in it a single-element allowed set at construction
// time (see AddFixedLayer), so downstream code only ever needs to check
// len(NodeDef.AllowedActivations) == 1.
type LayerDef struct {
	RowID                   int
	NodeCount               int
	AllowedActivations      []Activation
	FixedActivationsPerNode []Activation // len == NodeCount when fixed, else nil
	MaxInDegree             *int
}

// GenomeDef is the ordered-layer, immutable shared network descriptor.
// Node defs are numbered in layer-major, column-major order: a layer's
// start index is the sum of previous layers' node counts.
type GenomeDef struct {
	Layers     []LayerDef
	NodeDefs   []NodeDef
	BiasDefs   []BiasDef
	LinkDefs   []LinkDef
	WeightDefs []WeightDef

	layerStart map[int]int // rowID -> first NodeDef index
}

// NewGenomeDef returns an empty genome definition ready for layers to be added.
func NewGenomeDef() *GenomeDef {
	return &GenomeDef{layerStart: make(map[int]int)}
}

// AddLayer appends a variable-activation layer: every node in it may
// independently choose from allowedActivations.
func (g *GenomeDef) AddLayer(nodeCount int, allowedActivations []Activation) int {
	rowID := len(g.Layers)
	start := len(g.NodeDefs)
	g.layerStart[rowID] = start

	for col := 0; col < nodeCount; col++ {
		nodeID := len(g.NodeDefs)
		g.NodeDefs = append(g.NodeDefs, NodeDef{
			ID:                 nodeID,
			RowID:              rowID,
			ColID:              col,
			AllowedActivations: allowedActivations,
		})
		g.BiasDefs = append(g.BiasDefs, BiasDef{ID: len(g.BiasDefs), NodeDefID: nodeID})
	}

	g.Layers = append(g.Layers, LayerDef{RowID: rowID, NodeCount: nodeCount, AllowedActivations: allowedActivations})
	return rowID
}

// AddFixedLayer appends a layer whose nodes each have exactly one allowed
// activation (fixedActivations[col] for node col), e.g. a linear output
// layer. Per spec.md §9, the single-element allowed set is what mutation
// code actually enforces; the layer's fixed flag is kept only for
// introspection.
func (g *GenomeDef) AddFixedLayer(fixedActivations []Activation) int {
	nodeCount := len(fixedActivations)
	rowID := len(g.Layers)
	start := len(g.NodeDefs)
	g.layerStart[rowID] = start

	for col := 0; col < nodeCount; col++ {
		nodeID := len(g.NodeDefs)
		allowed := []Activation{fixedActivations[col]}
		g.NodeDefs = append(g.NodeDefs, NodeDef{
			ID:                 nodeID,
			RowID:              rowID,
			ColID:              col,
			AllowedActivations: allowed,
		})
		g.BiasDefs = append(g.BiasDefs, BiasDef{ID: len(g.BiasDefs), NodeDefID: nodeID})
	}

	g.Layers = append(g.Layers, LayerDef{
		RowID:                   rowID,
		NodeCount:               nodeCount,
		FixedActivationsPerNode: fixedActivations,
	})
	return rowID
}

// SetMaxInDegree bounds the active incoming links per node for layer rowID.
func (g *GenomeDef) SetMaxInDegree(rowID, maxInDegree int) {
	g.Layers[rowID].MaxInDegree = &maxInDegree
}

// LayerNodeIDs returns the node def ids belonging to layer rowID, in
// column order.
func (g *GenomeDef) LayerNodeIDs(rowID int) []int {
	start := g.layerStart[rowID]
	count := g.Layers[rowID].NodeCount
	ids := make([]int, count)
	for i := 0; i < count; i++ {
		ids[i] = start + i
	}
	return ids
}

// ConnectFull adds a LinkDef+WeightDef for every (source, target) pair
// between two layers. sourceRow must be strictly less than targetRow
// (spec.md §3: edges are strictly forward).
func (g *GenomeDef) ConnectFull(sourceRow, targetRow int) error {
	if sourceRow >= targetRow {
		return xerrors.NewTopologyError(sourceRow, "ConnectFull requires sourceRow < targetRow")
	}
	sources := g.LayerNodeIDs(sourceRow)
	targets := g.LayerNodeIDs(targetRow)
	for _, s := range sources {
		for _, t := range targets {
			g.addLink(s, t)
		}
	}
	return nil
}

func (g *GenomeDef) addLink(source, target int) int {
	linkID := len(g.LinkDefs)
	g.LinkDefs = append(g.LinkDefs, LinkDef{ID: linkID, SourceNodeIndex: source, TargetNodeIndex: target})
	g.WeightDefs = append(g.WeightDefs, WeightDef{ID: len(g.WeightDefs), LinkID: linkID})
	return linkID
}

// InDegree returns the number of LinkDefs targeting nodeID across the whole
// genome (not species-filtered).
func (g *GenomeDef) InDegree(nodeID int) int {
	count := 0
	for _, l := range g.LinkDefs {
		if l.TargetNodeIndex == nodeID {
			count++
		}
	}
	return count
}

// NumInputs/NumOutputs return the node counts of the first and last layers,
// the network's input and output rows by convention.
func (g *GenomeDef) NumInputs() int  { return g.Layers[0].NodeCount }
func (g *GenomeDef) NumOutputs() int { return g.Layers[len(g.Layers)-1].NodeCount }
