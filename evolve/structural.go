package evolve

import (
	"math/rand"

	"github.com/gekko3d-research/xpbdevo/genome"
)

// MutateStructure applies the topology-changing (edge) mutation passes to
// def's active link set, in EdgeMutationRates' field order: add, delete,
// split, redirect, swap, then optional weak-edge pruning. Every
// pass is a single trial per call (the caller loops if repeated structural
// drift is wanted), and every failure mode (no candidate edge, no viable
// intermediate node) is a silent no-op rather than an error.
func MutateStructure(def *genome.SpeciesDef, rng *rand.Rand, rates EdgeMutationRates, refWeights map[int]float64) {
	if rng.Float64() < rates.EdgeAdd {
		edgeAdd(def, rng)
	}
	if rng.Float64() < rates.EdgeDeleteRandom {
		edgeDeleteRandom(def, rng)
	}
	if rng.Float64() < rates.EdgeSplit {
		edgeSplit(def, rng)
	}
	if rng.Float64() < rates.EdgeRedirect {
		edgeRedirect(def, rng)
	}
	if rng.Float64() < rates.EdgeSwap {
		edgeSwap(def, rng)
	}
	if rates.WeakEdgePruning.Enabled {
		weakEdgePrune(def, rng, rates.WeakEdgePruning, refWeights)
	}
}

func activeLinkIDs(def *genome.SpeciesDef) []int {
	return def.ActiveLinkIDs()
}

func inactiveLinkIDs(def *genome.SpeciesDef) []int {
	ids := make([]int, 0)
	for _, l := range def.Genome.LinkDefs {
		if !def.ActiveLinks[l.ID] {
			ids = append(ids, l.ID)
		}
	}
	return ids
}

// canActivate reports whether activating linkID would honor its target
// node's maxInDegree bound (spec.md §3, §4.7). An already-active link is
// always safe to "activate" again (no-op). A node with no bound set
// (MaxInDegreeForNode returns -1) accepts any number of active inputs.
func canActivate(def *genome.SpeciesDef, linkID int) bool {
	if def.ActiveLinks[linkID] {
		return true
	}
	target := def.Genome.LinkDefs[linkID].TargetNodeIndex
	max := def.MaxInDegreeForNode(target)
	if max < 0 {
		return true
	}
	return def.ActiveInDegree(target) < max
}

// edgeAdd reactivates a randomly chosen currently-inactive link, skipping
// candidates that would push their target over its maxInDegree bound.
func edgeAdd(def *genome.SpeciesDef, rng *rand.Rand) {
	var candidates []int
	for _, id := range inactiveLinkIDs(def) {
		if canActivate(def, id) {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return
	}
	def.AddLink(candidates[rng.Intn(len(candidates))])
}

// edgeDeleteRandom deactivates a randomly chosen active link, never
// dropping a node below zero active inputs that would leave it permanently
// silent (a node keeps at least one active incoming link if it has any).
func edgeDeleteRandom(def *genome.SpeciesDef, rng *rand.Rand) {
	candidates := activeLinkIDs(def)
	if len(candidates) == 0 {
		return
	}
	linkID := candidates[rng.Intn(len(candidates))]
	target := def.Genome.LinkDefs[linkID].TargetNodeIndex
	if def.ActiveInDegree(target) <= 1 {
		return
	}
	def.RemoveLink(linkID)
}

// edgeSwap exchanges the active/inactive status of one active and one
// inactive link, holding the total active count constant. The active
// link's removal is applied first so a swap whose inactive link shares the
// removed link's target can use the capacity that removal frees.
func edgeSwap(def *genome.SpeciesDef, rng *rand.Rand) {
	active := activeLinkIDs(def)
	inactive := inactiveLinkIDs(def)
	if len(active) == 0 || len(inactive) == 0 {
		return
	}
	a := active[rng.Intn(len(active))]
	b := inactive[rng.Intn(len(inactive))]
	def.RemoveLink(a)
	if !canActivate(def, b) {
		def.AddLink(a) // b would overflow its target's maxInDegree; revert
		return
	}
	def.AddLink(b)
}

// edgeRedirect picks an active link and retargets it to an inactive link
// sharing the same source node, if one exists and honors the new target's
// maxInDegree bound.
func edgeRedirect(def *genome.SpeciesDef, rng *rand.Rand) {
	active := activeLinkIDs(def)
	if len(active) == 0 {
		return
	}
	origin := active[rng.Intn(len(active))]
	source := def.Genome.LinkDefs[origin].SourceNodeIndex

	def.RemoveLink(origin)

	var candidates []int
	for _, l := range def.Genome.LinkDefs {
		if l.SourceNodeIndex == source && !def.ActiveLinks[l.ID] && l.ID != origin && canActivate(def, l.ID) {
			candidates = append(candidates, l.ID)
		}
	}
	if len(candidates) == 0 {
		def.AddLink(origin) // no viable redirect target; revert
		return
	}
	def.AddLink(candidates[rng.Intn(len(candidates))])
}

// edgeSplit replaces an active direct link with a two-hop path through an
// intermediate node, when the base genome already contains both hops (a
// skip-connection split). No-op when no such intermediate exists: fixed
// topology neuroevolution never introduces new nodes.
func edgeSplit(def *genome.SpeciesDef, rng *rand.Rand) {
	active := activeLinkIDs(def)
	if len(active) == 0 {
		return
	}
	linkID := active[rng.Intn(len(active))]
	link := def.Genome.LinkDefs[linkID]

	var firstHops, secondHops []int
	for _, l := range def.Genome.LinkDefs {
		if l.SourceNodeIndex == link.SourceNodeIndex {
			firstHops = append(firstHops, l.ID)
		}
	}
	for _, firstID := range firstHops {
		mid := def.Genome.LinkDefs[firstID].TargetNodeIndex
		if mid == link.TargetNodeIndex {
			continue
		}
		for _, l := range def.Genome.LinkDefs {
			if l.SourceNodeIndex == mid && l.TargetNodeIndex == link.TargetNodeIndex {
				secondHops = append(secondHops, firstID, l.ID)
			}
		}
	}
	if len(secondHops) == 0 {
		return
	}

	def.RemoveLink(linkID)

	// Try hop pairs in a deterministic-per-seed random order, taking the
	// first one whose two legs both honor their targets' maxInDegree bound.
	numPairs := len(secondHops) / 2
	for _, pick := range rng.Perm(numPairs) {
		firstID, secondID := secondHops[pick*2], secondHops[pick*2+1]
		if canActivate(def, firstID) && canActivate(def, secondID) {
			def.AddLink(firstID)
			def.AddLink(secondID)
			return
		}
	}
	def.AddLink(linkID) // no hop pair honors maxInDegree; revert
}

// weakEdgePrune deactivates active links whose reference weight magnitude
// falls below threshold, each with independent probability baseRate.
// refWeights is keyed by link id; links absent from it are never pruned.
func weakEdgePrune(def *genome.SpeciesDef, rng *rand.Rand, cfg WeakEdgePruningConfig, refWeights map[int]float64) {
	if refWeights == nil {
		return
	}
	for _, linkID := range activeLinkIDs(def) {
		w, ok := refWeights[linkID]
		if !ok {
			continue
		}
		mag := w
		if mag < 0 {
			mag = -mag
		}
		if mag < cfg.Threshold && rng.Float64() < cfg.BaseRate {
			if def.ActiveInDegree(def.Genome.LinkDefs[linkID].TargetNodeIndex) > 1 {
				def.RemoveLink(linkID)
			}
		}
	}
}
