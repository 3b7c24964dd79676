// Command trial is a minimal Optuna-style CLI entry point: it parses
// key=value arguments into an evolve.EvolutionConfig, runs a fixed number
// of generations against a placeholder fitness function, and prints the
// best fitness reached (SPEC_FULL.md §4.13). Wiring a real task/environment
// evaluator is an external collaborator's job; this binary only proves the
// config/evolve/topology plumbing runs end to end.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/gekko3d-research/xpbdevo/evolve"
	"github.com/gekko3d-research/xpbdevo/genome"
	"github.com/gekko3d-research/xpbdevo/internal/xrand"
	"github.com/gekko3d-research/xpbdevo/topology"
)

const generationCount = 50

func main() {
	cfg := evolve.DefaultEvolutionConfig()
	parseArgs(os.Args[1:], &cfg)

	g := genome.NewGenomeDef()
	in := g.AddLayer(4, genome.AllActivations)
	hidden := g.AddLayer(6, genome.AllActivations)
	out := g.AddFixedLayer([]genome.Activation{genome.Linear})
	if err := g.ConnectFull(in, hidden); err != nil {
		fmt.Fprintln(os.Stderr, "trial: topology setup:", err)
		os.Exit(1)
	}
	if err := g.ConnectFull(hidden, out); err != nil {
		fmt.Fprintln(os.Stderr, "trial: topology setup:", err)
		os.Exit(1)
	}

	topo, err := topology.Compile(genome.NewSpeciesDef(g))
	if err != nil {
		fmt.Fprintln(os.Stderr, "trial: compile:", err)
		os.Exit(1)
	}

	rng := newSeededRand()
	pop, err := evolve.InitializePopulation(cfg, topo, rng)
	if err != nil {
		fmt.Fprintln(os.Stderr, "trial: init population:", err)
		os.Exit(1)
	}

	evolver := evolve.NewEvolver(cfg, quadraticBowlEvaluator{}, rngSeed, nil)
	for i := 0; i < generationCount; i++ {
		if err := evolver.StepGeneration(pop); err != nil {
			fmt.Fprintln(os.Stderr, "trial: step generation:", err)
			os.Exit(1)
		}
	}

	best := pop.Statistics().BestFitness
	fmt.Printf("%.6f\n", best)
}

const rngSeed int64 = 1

func newSeededRand() *rand.Rand { return xrand.New(rngSeed) }

// parseArgs matches SPEC_FULL.md §4.13 / spec.md §7's CLI parse-failure
// policy: unknown keys and malformed values are silently ignored rather
// than rejected, leaving cfg's defaults in place.
func parseArgs(args []string, cfg *evolve.EvolutionConfig) {
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			continue
		}
		switch key {
		case "species_count":
			setInt(&cfg.SpeciesCount, value)
		case "min_species_count":
			setInt(&cfg.MinSpeciesCount, value)
		case "individuals_per_species":
			setInt(&cfg.IndividualsPerSpecies, value)
		case "elites":
			setInt(&cfg.Elites, value)
		case "tournament_size":
			setInt(&cfg.TournamentSize, value)
		case "parent_pool_percentage":
			setFloat(&cfg.ParentPoolPercentage, value)
		case "grace_generations":
			setInt(&cfg.GraceGenerations, value)
		case "stagnation_threshold":
			setInt(&cfg.StagnationThreshold, value)
		case "species_diversity_threshold":
			setFloat(&cfg.SpeciesDiversityThreshold, value)
		case "relative_performance_threshold":
			setFloat(&cfg.RelativePerformanceThreshold, value)
		case "seeds_per_individual":
			setInt(&cfg.SeedsPerIndividual, value)
		case "fitness_aggregation":
			setAggregation(&cfg.FitnessAggregation, value)
		}
	}
}

func setInt(dst *int, raw string) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return
	}
	*dst = v
}

func setFloat(dst *float64, raw string) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return
	}
	*dst = v
}

func setAggregation(dst *evolve.FitnessAggregation, raw string) {
	switch strings.ToLower(raw) {
	case "mean":
		*dst = evolve.Mean
	case "cvar50":
		*dst = evolve.CVaR50
	}
}
