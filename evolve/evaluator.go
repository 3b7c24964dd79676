package evolve

import "github.com/gekko3d-research/xpbdevo/topology"

// Evaluator is the seam task/environment code plugs into: score every
// individual currently loaded into batch for one seed, returning one
// fitness value per batch slot. StepGeneration calls Evaluate
// SeedsPerIndividual times per species and aggregates each individual's
// samples via the configured FitnessAggregation.
type Evaluator interface {
	Evaluate(batch *topology.ExecutableBatch, seed int64) []float64
}
