package evolve

import (
	"math/rand"
	"sort"

	"github.com/gekko3d-research/xpbdevo/genome"
	"github.com/gekko3d-research/xpbdevo/internal/xrand"
	"github.com/gekko3d-research/xpbdevo/topology"
	"github.com/gekko3d-research/xpbdevo/xlog"
)

// Evolver runs the generational loop over a Population: evaluation,
// culling, tournament-selection reproduction, and reseeding
// (SPEC_FULL.md §4.9). All per-run randomness is drawn from its own seeded
// *rand.Rand, matching the teacher's "seed threaded explicitly, never the
// global source" practice (SPEC_FULL.md §5).
type Evolver struct {
	Config    EvolutionConfig
	Evaluator Evaluator
	Logger    xlog.Logger

	rng *rand.Rand
}

// NewEvolver binds an Evolver to a clamped config, an Evaluator, and a
// seed. Logger defaults to a no-op if nil.
func NewEvolver(cfg EvolutionConfig, evaluator Evaluator, seed int64, logger xlog.Logger) *Evolver {
	cfg.Clamp()
	if logger == nil {
		logger = xlog.NewNop()
	}
	return &Evolver{
		Config:    cfg,
		Evaluator: evaluator,
		Logger:    logger,
		rng:       xrand.New(seed),
	}
}

// ensureFitness fills FitnessSamples/Fitness for every individual that
// doesn't already carry valid fitness. Per species it builds one batch
// sized to the species' individual count, loads every individual once,
// then calls the Evaluator SeedsPerIndividual times, accumulating one
// sample per call (SPEC_FULL.md §4.9 step 1).
func (e *Evolver) ensureFitness(pop *Population) {
	for _, sp := range pop.Species {
		pending := false
		for _, ind := range sp.Individuals {
			if !ind.FitnessValid {
				pending = true
				break
			}
		}
		if !pending {
			continue
		}

		batch := topology.NewExecutableBatch(sp.Topology, len(sp.Individuals))
		for i, ind := range sp.Individuals {
			batch.LoadIndividual(i, ind)
		}

		samples := make([][]float64, len(sp.Individuals))
		for i := range samples {
			samples[i] = make([]float64, 0, e.Config.SeedsPerIndividual)
		}
		for s := 0; s < e.Config.SeedsPerIndividual; s++ {
			seed := xrand.Derive(e.rng.Int63(), s)
			fits := e.Evaluator.Evaluate(batch, seed)
			for i := range sp.Individuals {
				if i < len(fits) {
					samples[i] = append(samples[i], fits[i])
				}
			}
		}
		for i, ind := range sp.Individuals {
			if ind.FitnessValid {
				continue
			}
			ind.FitnessSamples = samples[i]
			ind.Fitness = Aggregate(e.Config.FitnessAggregation, samples[i])
			ind.FitnessValid = true
		}
	}
}

// updateStagnation refreshes each species' best-ever/stagnation bookkeeping
// from its current best fitness.
func updateStagnation(pop *Population) {
	for _, sp := range pop.Species {
		if len(sp.Individuals) == 0 {
			continue
		}
		best, _, _ := speciesStats(sp)
		if best > sp.BestFitnessEver || sp.Age == 0 {
			sp.BestFitnessEver = best
			sp.GenerationsSinceImprovement = 0
		} else {
			sp.GenerationsSinceImprovement++
		}
	}
}

// cull removes species eligible for culling (SPEC_FULL.md §4.9 step 3),
// stopping once MinSpeciesCount would be violated. Eligibility requires
// age beyond the grace period and at least one of: stagnation, low
// fitness-variance diversity, or under-performance relative to the best
// species' median.
func (e *Evolver) cull(pop *Population) []*Species {
	cfg := e.Config
	bestMedian := 0.0
	first := true
	for _, sp := range pop.Species {
		_, median, _ := speciesStats(sp)
		if first || median > bestMedian {
			bestMedian = median
			first = false
		}
	}

	type scored struct {
		sp       *Species
		median   float64
		eligible bool
	}
	candidates := make([]scored, 0, len(pop.Species))
	for _, sp := range pop.Species {
		if sp.Age <= cfg.GraceGenerations {
			candidates = append(candidates, scored{sp, 0, false})
			continue
		}
		_, median, variance := speciesStats(sp)
		eligible := sp.GenerationsSinceImprovement >= cfg.StagnationThreshold ||
			variance < cfg.SpeciesDiversityThreshold ||
			median < cfg.RelativePerformanceThreshold*bestMedian
		candidates = append(candidates, scored{sp, median, eligible})
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].median < candidates[j].median })

	survivorCount := len(pop.Species)
	culled := make([]*Species, 0)
	survivors := make([]*Species, 0, len(pop.Species))
	for _, c := range candidates {
		if c.eligible && survivorCount > cfg.MinSpeciesCount {
			culled = append(culled, c.sp)
			survivorCount--
			continue
		}
		survivors = append(survivors, c.sp)
	}
	pop.Species = survivors
	return culled
}

// tournamentSelect samples TournamentSize individuals from the top
// ParentPoolPercentage of sp by fitness and returns the best of the sample.
func (e *Evolver) tournamentSelect(sp *Species, rng *rand.Rand) *genome.Individual {
	ranked := append([]*genome.Individual(nil), sp.Individuals...)
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Fitness > ranked[j].Fitness })

	poolSize := int(float64(len(ranked)) * e.Config.ParentPoolPercentage)
	if poolSize < 1 {
		poolSize = 1
	}
	if poolSize > len(ranked) {
		poolSize = len(ranked)
	}
	pool := ranked[:poolSize]

	best := pool[rng.Intn(len(pool))]
	for i := 1; i < e.Config.TournamentSize; i++ {
		candidate := pool[rng.Intn(len(pool))]
		if candidate.Fitness > best.Fitness {
			best = candidate
		}
	}
	return best
}

// reproduceSpecies keeps the top Elites individuals as bitwise copies and
// replaces the rest with mutated tournament-selected offspring
// (SPEC_FULL.md §4.9 step 4, §8 elitism invariant).
func (e *Evolver) reproduceSpecies(sp *Species, rng *rand.Rand) []*genome.Individual {
	ranked := append([]*genome.Individual(nil), sp.Individuals...)
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Fitness > ranked[j].Fitness })

	elites := e.Config.Elites
	if elites > len(ranked) {
		elites = len(ranked)
	}

	next := make([]*genome.Individual, 0, len(sp.Individuals))
	for i := 0; i < elites; i++ {
		next = append(next, ranked[i].CloneBitwise())
	}
	for len(next) < len(sp.Individuals) {
		parent := e.tournamentSelect(sp, rng)
		offspring := parent.Clone()
		offspring.Mutate(rng, e.Config.MutationRates)
		offspring.FitnessValid = false
		offspring.FitnessSamples = nil
		next = append(next, offspring)
	}
	return next
}

// reseed builds a replacement species for a culled slot by structurally
// mutating a clone of the best surviving species' def, recompiling its
// executable topology, then populating it with parameter-mutated clones of
// that species' strongest individual (SPEC_FULL.md §4.9 step 5). Edge
// mutations over a strictly-layered genome can never introduce a cycle, so
// recompilation failure here would indicate a bug upstream rather than a
// reachable runtime condition; the defensive fallback keeps the
// pre-mutation (guaranteed-acyclic) def and topology rather than
// propagating an error out of a function the rest of the package treats as
// infallible.
func (e *Evolver) reseed(pop *Population, rng *rand.Rand) *Species {
	if len(pop.Species) == 0 {
		def := genome.NewSpeciesDef(pop.BaseGenome)
		topo, err := topology.Compile(def)
		if err != nil {
			return &Species{Def: def}
		}
		individuals := make([]*genome.Individual, e.Config.IndividualsPerSpecies)
		for i := range individuals {
			individuals[i] = genome.NewIndividual(def, rng, e.Config.WeightInitialization)
		}
		return &Species{Def: def, Topology: topo, Individuals: individuals}
	}

	var source *Species
	bestFitness := -1.0
	first := true
	for _, sp := range pop.Species {
		best, _, _ := speciesStats(sp)
		if first || best > bestFitness {
			bestFitness = best
			source = sp
			first = false
		}
	}

	ranked := append([]*genome.Individual(nil), source.Individuals...)
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Fitness > ranked[j].Fitness })
	strongParent := ranked[0]

	refWeights := make(map[int]float64, len(strongParent.Weights))
	for _, w := range source.Def.Genome.WeightDefs {
		if v, ok := strongParent.Weights[w.ID]; ok {
			refWeights[w.LinkID] = v
		}
	}

	newDef := source.Def.Clone()
	MutateStructure(newDef, rng, e.Config.EdgeMutations, refWeights)

	newTopo, err := topology.Compile(newDef)
	if err != nil {
		newDef = source.Def.Clone()
		newTopo = source.Topology
	}

	individuals := make([]*genome.Individual, len(source.Individuals))
	for i := range individuals {
		offspring := strongParent.Clone()
		offspring.Species = newDef
		offspring.Mutate(rng, e.Config.MutationRates)
		offspring.FitnessValid = false
		offspring.FitnessSamples = nil
		individuals[i] = offspring
	}
	return &Species{Def: newDef, Topology: newTopo, Individuals: individuals}
}

// StepGeneration advances pop by one generation: fitness refresh, stats,
// culling, reproduction, reseeding, and age increment (SPEC_FULL.md §4.9).
// It never fails; it returns an error only for interface symmetry with the
// construction-boundary errors described in §7 — evolutionary operations
// themselves are infallible by design.
func (e *Evolver) StepGeneration(pop *Population) error {
	e.ensureFitness(pop)
	updateStagnation(pop)

	culled := e.cull(pop)

	for _, sp := range pop.Species {
		sp.Individuals = e.reproduceSpecies(sp, e.rng)
	}

	for range culled {
		pop.Species = append(pop.Species, e.reseed(pop, e.rng))
	}

	for _, sp := range pop.Species {
		sp.Age++
	}
	pop.Generation++

	if e.Logger.DebugEnabled() {
		stats := pop.Statistics()
		e.Logger.Debugf("generation %d: species=%d best=%.6f mean=%.6f",
			pop.Generation, len(pop.Species), stats.BestFitness, stats.MeanFitness)
	}
	return nil
}
