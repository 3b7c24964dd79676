package genome

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildTestSpecies(t *testing.T) *SpeciesDef {
	t.Helper()
	g := buildSimpleGenome(t)
	return NewSpeciesDef(g)
}

func TestNewIndividualPopulatesEveryParameter(t *testing.T) {
	species := buildTestSpecies(t)
	rng := rand.New(rand.NewSource(1))
	ind := NewIndividual(species, rng, GlorotUniform)

	require.Len(t, ind.Weights, len(species.ActiveWeights))
	require.Len(t, ind.Nodes, len(species.Genome.NodeDefs))
	require.Len(t, ind.Biases, len(species.Genome.BiasDefs))
	require.Len(t, ind.LinkActive, len(species.ActiveLinks))

	for _, b := range ind.Biases {
		require.Equal(t, 0.0, b)
	}

	outNode := species.Genome.NodeDefs[4]
	require.Equal(t, Linear, ind.Nodes[outNode.ID])
}

func TestCloneBitwisePreservesIDAndFitness(t *testing.T) {
	species := buildTestSpecies(t)
	rng := rand.New(rand.NewSource(2))
	ind := NewIndividual(species, rng, GlorotUniform)
	ind.Fitness = 3.5
	ind.FitnessValid = true
	ind.FitnessSamples = []float64{1, 2, 3}

	clone := ind.CloneBitwise()
	require.Equal(t, ind.ID, clone.ID)
	require.Equal(t, ind.Fitness, clone.Fitness)
	require.True(t, clone.FitnessValid)
	require.Equal(t, ind.FitnessSamples, clone.FitnessSamples)

	for wid, v := range ind.Weights {
		require.Equal(t, v, clone.Weights[wid])
	}

	// Mutating the clone must not affect the source (deep copy).
	for wid := range clone.Weights {
		clone.Weights[wid] = 999
		break
	}
	for wid, v := range clone.Weights {
		if v == 999 {
			require.NotEqual(t, 999.0, ind.Weights[wid])
			break
		}
	}
}

func TestCloneAssignsFreshID(t *testing.T) {
	species := buildTestSpecies(t)
	rng := rand.New(rand.NewSource(3))
	ind := NewIndividual(species, rng, GlorotUniform)
	clone := ind.Clone()
	require.NotEqual(t, ind.ID, clone.ID)
}

func TestMutateWeightResetAlwaysChangesWeights(t *testing.T) {
	species := buildTestSpecies(t)
	rng := rand.New(rand.NewSource(4))
	ind := NewIndividual(species, rng, GlorotUniform)
	before := make(map[int]float64, len(ind.Weights))
	for wid, v := range ind.Weights {
		before[wid] = v
	}

	rates := MutationRates{WeightReset: 1.0}
	ind.Mutate(rng, rates)

	changed := false
	for wid, v := range ind.Weights {
		if v != before[wid] {
			changed = true
			break
		}
	}
	require.True(t, changed)
}

func TestMutateZeroRatesIsNoOp(t *testing.T) {
	species := buildTestSpecies(t)
	rng := rand.New(rand.NewSource(5))
	ind := NewIndividual(species, rng, GlorotUniform)
	before := make(map[int]float64, len(ind.Weights))
	for wid, v := range ind.Weights {
		before[wid] = v
	}
	beforeBias := make(map[int]float64, len(ind.Biases))
	for bid, v := range ind.Biases {
		beforeBias[bid] = v
	}

	ind.Mutate(rng, MutationRates{})

	for wid, v := range ind.Weights {
		require.Equal(t, before[wid], v)
	}
	for bid, v := range ind.Biases {
		require.Equal(t, beforeBias[bid], v)
	}
}

func TestNewIndividualIsDeterministicForAFixedSeed(t *testing.T) {
	species := buildTestSpecies(t)

	a := NewIndividual(species, rand.New(rand.NewSource(42)), GlorotUniform)
	b := NewIndividual(species, rand.New(rand.NewSource(42)), GlorotUniform)

	require.Equal(t, a.Weights, b.Weights)
	require.Equal(t, a.Nodes, b.Nodes)
	require.Equal(t, a.Biases, b.Biases)
}

func TestMutateIsDeterministicForAFixedSeed(t *testing.T) {
	species := buildTestSpecies(t)
	rates := MutationRates{
		WeightJitter: 0.5, WeightReset: 0.2, WeightL1Shrink: 0.2,
		ActivationSwap: 0.5, BiasJitter: 0.5, JitterStddevFactor: 0.1,
	}

	a := NewIndividual(species, rand.New(rand.NewSource(7)), GlorotUniform)
	b := NewIndividual(species, rand.New(rand.NewSource(7)), GlorotUniform)
	a.Mutate(rand.New(rand.NewSource(99)), rates)
	b.Mutate(rand.New(rand.NewSource(99)), rates)

	require.Equal(t, a.Weights, b.Weights)
	require.Equal(t, a.Nodes, b.Nodes)
	require.Equal(t, a.Biases, b.Biases)
}

func TestMutateOnlyTouchesActiveWeights(t *testing.T) {
	species := buildTestSpecies(t)
	rng := rand.New(rand.NewSource(6))
	ind := NewIndividual(species, rng, GlorotUniform)

	var removedLink int
	for id := range species.ActiveLinks {
		removedLink = id
		break
	}
	species.RemoveLink(removedLink)
	ind.LinkActive[removedLink] = false

	wid := species.weightIDForLink(removedLink)
	before := ind.Weights[wid]

	ind.Mutate(rng, MutationRates{WeightReset: 1.0})

	require.Equal(t, before, ind.Weights[wid])
}
