package genome

import (
	"math"
	"math/rand"

	"github.com/google/uuid"
)

// MutationRates bundles the per-mutation-kind probabilities and magnitudes
// applied to an Individual's parameters (spec.md §4.7). Edge (structural)
// mutation rates live in evolve.EvolutionConfig since they operate on a
// SpeciesDef, not an Individual.
type MutationRates struct {
	WeightJitter    float64 // probability per weight
	WeightReset     float64 // probability per weight
	WeightL1Shrink  float64 // probability per weight
	ActivationSwap  float64 // probability per node
	BiasJitter      float64 // probability per bias
	NodeParamJitter float64 // probability per node, low rate; reserved for future node params

	JitterStddevFactor float64 // sigma = JitterStddevFactor * |weight| for weight jitter
	L1ShrinkFactor     float64 // multiply weight by this on an L1-shrink hit
}

// Individual holds one species member's mutable parameters: per-node
// activation choice, per-link active flag, per-weight value, per-bias
// value, plus fitness bookkeeping. ID is a surrogate lineage/logging key
// only (SPEC_FULL.md §3) — addressing within a species is always by def id.
type Individual struct {
	ID      uuid.UUID
	Species *SpeciesDef

	LinkActive map[int]bool
	Weights    map[int]float64
	Nodes      map[int]Activation
	Biases     map[int]float64

	FitnessSamples []float64
	Fitness        float64
	FitnessValid   bool
}

// NewIndividual builds an individual for species with weights/biases drawn
// per init, and activations sampled uniformly from each node's allowed set.
func NewIndividual(species *SpeciesDef, rng *rand.Rand, init WeightInit) *Individual {
	ind := &Individual{
		ID:         uuid.New(),
		Species:    species,
		LinkActive: make(map[int]bool, len(species.ActiveLinks)),
		Weights:    make(map[int]float64, len(species.ActiveWeights)),
		Nodes:      make(map[int]Activation, len(species.Genome.NodeDefs)),
		Biases:     make(map[int]float64, len(species.Genome.BiasDefs)),
	}

	for _, l := range species.Genome.LinkDefs {
		ind.LinkActive[l.ID] = species.ActiveLinks[l.ID]
	}

	fanInByTarget := make(map[int]int)
	if init == GlorotUniform {
		for _, l := range species.Genome.LinkDefs {
			if species.ActiveLinks[l.ID] {
				fanInByTarget[l.TargetNodeIndex]++
			}
		}
	}

	// Iterate WeightDefs in id order, not the ActiveWeights map: map
	// iteration order is randomized per process, which would assign the
	// same rng draws to different weight ids across runs of the same seed.
	for _, wd := range species.Genome.WeightDefs {
		if !species.ActiveWeights[wd.ID] {
			continue
		}
		link := species.Genome.LinkDefs[wd.LinkID]
		ind.Weights[wd.ID] = initWeight(init, rng, fanInByTarget[link.TargetNodeIndex])
	}

	for _, nd := range species.Genome.NodeDefs {
		allowed := nd.AllowedActivations
		ind.Nodes[nd.ID] = allowed[rng.Intn(len(allowed))]
	}

	for _, bd := range species.Genome.BiasDefs {
		ind.Biases[bd.ID] = 0
	}

	return ind
}

// WeightInit enumerates initial-weight sampling strategies.
type WeightInit int

const (
	GlorotUniform WeightInit = iota
)

func initWeight(init WeightInit, rng *rand.Rand, fanIn int) float64 {
	switch init {
	case GlorotUniform:
		fan := fanIn
		if fan < 1 {
			fan = 1
		}
		limit := math.Sqrt(6.0 / float64(fan+1))
		return (rng.Float64()*2 - 1) * limit
	default:
		return rng.Float64()*2 - 1
	}
}

// Clone deep-copies an individual's mutable state, assigning a fresh ID —
// used to produce offspring from a tournament-selected parent.
func (ind *Individual) Clone() *Individual {
	clone := &Individual{
		ID:         uuid.New(),
		Species:    ind.Species,
		LinkActive: make(map[int]bool, len(ind.LinkActive)),
		Weights:    make(map[int]float64, len(ind.Weights)),
		Nodes:      make(map[int]Activation, len(ind.Nodes)),
		Biases:     make(map[int]float64, len(ind.Biases)),
	}
	for k, v := range ind.LinkActive {
		clone.LinkActive[k] = v
	}
	for k, v := range ind.Weights {
		clone.Weights[k] = v
	}
	for k, v := range ind.Nodes {
		clone.Nodes[k] = v
	}
	for k, v := range ind.Biases {
		clone.Biases[k] = v
	}
	return clone
}

// CloneBitwise returns a deep copy that preserves the source ID — used to
// keep elite individuals "bitwise copies of the previous top Elites"
// (spec.md §8).
func (ind *Individual) CloneBitwise() *Individual {
	clone := ind.Clone()
	clone.ID = ind.ID
	clone.Fitness = ind.Fitness
	clone.FitnessValid = ind.FitnessValid
	clone.FitnessSamples = append([]float64(nil), ind.FitnessSamples...)
	return clone
}

// Mutate applies the per-parameter mutation passes described in
// spec.md §4.7, in order: weight jitter, weight reset, L1 shrink,
// activation swap, bias jitter. NodeParamJitter is reserved (no per-node
// continuous parameters exist in this model beyond activation choice and
// bias, both already covered).
func (ind *Individual) Mutate(rng *rand.Rand, rates MutationRates) {
	// Every pass below walks a GenomeDef slice (already in id order) rather
	// than the corresponding Individual map: map iteration order is
	// randomized per process, and these passes draw from rng on each
	// element, so map order would make the rng stream land on different
	// parameters across runs of the same seed.
	for _, l := range ind.Species.Genome.LinkDefs {
		if !ind.LinkActive[l.ID] {
			continue
		}
		wid := ind.Species.weightIDForLink(l.ID)
		if wid == -1 {
			continue
		}
		value := ind.Weights[wid]

		if rng.Float64() < rates.WeightJitter {
			sigma := rates.JitterStddevFactor * math.Abs(value)
			value += rng.NormFloat64() * sigma
		}
		if rng.Float64() < rates.WeightReset {
			value = rng.Float64()*2 - 1
		}
		if rng.Float64() < rates.WeightL1Shrink {
			factor := rates.L1ShrinkFactor
			if factor == 0 {
				factor = 1
			}
			value *= factor
		}
		ind.Weights[wid] = value
	}

	for _, nd := range ind.Species.Genome.NodeDefs {
		if rng.Float64() < rates.ActivationSwap {
			allowed := nd.AllowedActivations
			if len(allowed) > 1 {
				ind.Nodes[nd.ID] = allowed[rng.Intn(len(allowed))]
			}
		}
	}

	for _, bd := range ind.Species.Genome.BiasDefs {
		if rng.Float64() < rates.BiasJitter {
			value := ind.Biases[bd.ID]
			sigma := rates.JitterStddevFactor * math.Max(math.Abs(value), 1e-3)
			ind.Biases[bd.ID] = value + rng.NormFloat64()*sigma
		}
	}
}
