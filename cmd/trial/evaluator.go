package main

import (
	"github.com/gekko3d-research/xpbdevo/internal/xrand"
	"github.com/gekko3d-research/xpbdevo/topology"
)

// quadraticBowlEvaluator is a placeholder fitness function standing in for
// a real task/environment: it rewards networks whose weights sum close to
// a fixed target, a smooth single-optimum landscape that's cheap to
// evaluate and exercises the full evolve/topology pipeline without a real
// simulation loop. Task wiring is an external collaborator (SPEC_FULL.md
// §4.13's non-goal).
type quadraticBowlEvaluator struct{}

const bowlTarget = 2.5

func (quadraticBowlEvaluator) Evaluate(batch *topology.ExecutableBatch, seed int64) []float64 {
	t := batch.Topology
	out := make([]float64, batch.BatchSize)
	for b := 0; b < batch.BatchSize; b++ {
		sum := 0.0
		base := b * t.NumWeights
		for w := 0; w < t.NumWeights; w++ {
			sum += batch.Weights[base+w]
		}
		noise := xrand.New(xrand.Derive(seed, b)).Float64() * 1e-6
		diff := sum - bowlTarget
		out[b] = -diff*diff + noise
	}
	return out
}
