// Package evolve implements the generational evolutionary loop over
// fixed-topology genomes: population initialization, fitness aggregation,
// culling, tournament-selection reproduction, and reseeding
// (SPEC_FULL.md §4.9).
package evolve

import (
	"github.com/gekko3d-research/xpbdevo/genome"
	"github.com/gekko3d-research/xpbdevo/xerrors"
)

// FitnessAggregation selects how per-seed fitness samples collapse into a
// single scalar used for selection.
type FitnessAggregation int

const (
	Mean FitnessAggregation = iota
	CVaR50
)

// WeakEdgePruningConfig governs optional removal of near-zero-weight links
// during structural mutation.
type WeakEdgePruningConfig struct {
	Enabled         bool    `yaml:"enabled"`
	Threshold       float64 `yaml:"threshold"`
	BaseRate        float64 `yaml:"base_rate"`
	OnBirth         bool    `yaml:"on_birth"`
	DuringEvolution bool    `yaml:"during_evolution"`
}

// EdgeMutationRates bundles the structural (topology-changing) mutation
// probabilities applied to a SpeciesDef during reseeding.
type EdgeMutationRates struct {
	EdgeAdd          float64               `yaml:"edge_add"`
	EdgeDeleteRandom float64               `yaml:"edge_delete_random"`
	EdgeSplit        float64               `yaml:"edge_split"`
	EdgeRedirect     float64               `yaml:"edge_redirect"`
	EdgeSwap         float64               `yaml:"edge_swap"`
	WeakEdgePruning  WeakEdgePruningConfig `yaml:"weak_edge_pruning"`
}

// EvolutionConfig enumerates every tunable knob of the generational loop
// (SPEC_FULL.md §6). yaml tags mirror the field names an Optuna-style trial
// CLI would pass as key=value pairs.
type EvolutionConfig struct {
	SpeciesCount          int `yaml:"species_count"`
	MinSpeciesCount       int `yaml:"min_species_count"`
	IndividualsPerSpecies int `yaml:"individuals_per_species"`
	Elites                int `yaml:"elites"`
	TournamentSize        int `yaml:"tournament_size"`

	ParentPoolPercentage float64 `yaml:"parent_pool_percentage"`
	GraceGenerations     int     `yaml:"grace_generations"`

	StagnationThreshold          int     `yaml:"stagnation_threshold"`
	SpeciesDiversityThreshold    float64 `yaml:"species_diversity_threshold"`
	RelativePerformanceThreshold float64 `yaml:"relative_performance_threshold"`

	SeedsPerIndividual   int                `yaml:"seeds_per_individual"`
	FitnessAggregation   FitnessAggregation `yaml:"fitness_aggregation"`
	WeightInitialization genome.WeightInit  `yaml:"weight_initialization"`

	MutationRates genome.MutationRates `yaml:"mutation_rates"`
	EdgeMutations EdgeMutationRates    `yaml:"edge_mutations"`
}

// DefaultEvolutionConfig returns a config with every field set to a fixed
// default, a reasonable starting point for an Optuna search space or a
// smoke test.
func DefaultEvolutionConfig() EvolutionConfig {
	return EvolutionConfig{
		SpeciesCount:          16,
		MinSpeciesCount:       6,
		IndividualsPerSpecies: 96,
		Elites:                4,
		TournamentSize:        8,

		ParentPoolPercentage: 0.75,
		GraceGenerations:     2,

		StagnationThreshold:          10,
		SpeciesDiversityThreshold:    0.1,
		RelativePerformanceThreshold: 0.7,

		SeedsPerIndividual:   5,
		FitnessAggregation:   Mean,
		WeightInitialization: genome.GlorotUniform,

		MutationRates: genome.MutationRates{
			WeightJitter:       0.2,
			WeightReset:        0.02,
			WeightL1Shrink:     0.02,
			ActivationSwap:     0.01,
			BiasJitter:         0.2,
			JitterStddevFactor: 0.2,
			L1ShrinkFactor:     0.9,
		},
		EdgeMutations: EdgeMutationRates{
			EdgeAdd:          0.03,
			EdgeDeleteRandom: 0.03,
			EdgeSplit:        0.01,
			EdgeRedirect:     0.01,
			EdgeSwap:         0.01,
		},
	}
}

// Validate rejects configurations SPEC_FULL.md §7 treats as a hard
// construction-time error rather than a silent clamp: MinSpeciesCount may
// never exceed SpeciesCount. Call before Clamp; Clamp handles every other
// out-of-range field by normalizing instead of failing.
func (c *EvolutionConfig) Validate() error {
	if c.MinSpeciesCount > c.SpeciesCount {
		return xerrors.NewConfigError("MinSpeciesCount", "must not exceed SpeciesCount")
	}
	return nil
}

// Clamp normalizes every remaining degenerate field in place (SPEC_FULL.md
// §7): these never fail, they clamp. Elites is bounded to
// IndividualsPerSpecies-1 (at least one tournament-bred slot remains per
// species).
func (c *EvolutionConfig) Clamp() {
	if c.SpeciesCount < 1 {
		c.SpeciesCount = 1
	}
	if c.MinSpeciesCount > c.SpeciesCount {
		c.MinSpeciesCount = c.SpeciesCount
	}
	if c.MinSpeciesCount < 1 {
		c.MinSpeciesCount = 1
	}
	if c.IndividualsPerSpecies < 1 {
		c.IndividualsPerSpecies = 1
	}
	if c.Elites >= c.IndividualsPerSpecies {
		c.Elites = c.IndividualsPerSpecies - 1
	}
	if c.Elites < 0 {
		c.Elites = 0
	}
	if c.TournamentSize < 1 {
		c.TournamentSize = 1
	}
	if c.ParentPoolPercentage <= 0 || c.ParentPoolPercentage > 1 {
		c.ParentPoolPercentage = 1
	}
	if c.SeedsPerIndividual < 1 {
		c.SeedsPerIndividual = 1
	}
}
