package evolve

import (
	"math"
	"math/rand"
	"sort"

	"github.com/gekko3d-research/xpbdevo/genome"
	"github.com/gekko3d-research/xpbdevo/topology"
)

// Species is the runtime record for one population member-group: a shared
// topology (genome.SpeciesDef), its compiled executable layout, its
// individuals, and the age/stagnation bookkeeping the culling pass reads
// (SPEC_FULL.md §4.9).
type Species struct {
	Def         *genome.SpeciesDef
	Topology    *topology.ExecutableTopology
	Individuals []*genome.Individual

	Age                         int
	BestFitnessEver             float64
	GenerationsSinceImprovement int
}

// Population is the full evolutionary state: one generation's worth of
// species, each with its individuals.
type Population struct {
	Config     EvolutionConfig
	BaseGenome *genome.GenomeDef
	Species    []*Species
	Generation int
}

// InitializePopulation builds SpeciesCount species sharing topo's
// originating genome, each seeded with IndividualsPerSpecies freshly
// initialized individuals (SPEC_FULL.md §4.9). cfg is validated (hard
// construction errors) then clamped (soft defaults) before use; topo only
// supplies the genome: every species, species 0 included, gets its own
// SpeciesDef instance with the full active set and its own freshly
// compiled topology.
func InitializePopulation(cfg EvolutionConfig, topo *topology.ExecutableTopology, rng *rand.Rand) (*Population, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Clamp()

	baseGenome := topo.Species.Genome
	pop := &Population{Config: cfg, BaseGenome: baseGenome}
	for s := 0; s < cfg.SpeciesCount; s++ {
		def := genome.NewSpeciesDef(baseGenome)
		speciesTopo, err := topology.Compile(def)
		if err != nil {
			return nil, err
		}
		individuals := make([]*genome.Individual, cfg.IndividualsPerSpecies)
		for i := range individuals {
			individuals[i] = genome.NewIndividual(def, rng, cfg.WeightInitialization)
		}
		pop.Species = append(pop.Species, &Species{Def: def, Topology: speciesTopo, Individuals: individuals})
	}
	return pop, nil
}

// speciesStats reports a species' best, median and variance fitness. All
// individuals must have FitnessValid set; an empty species reports zeros.
func speciesStats(sp *Species) (best, median, variance float64) {
	if len(sp.Individuals) == 0 {
		return 0, 0, 0
	}
	values := make([]float64, len(sp.Individuals))
	for i, ind := range sp.Individuals {
		values[i] = ind.Fitness
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	best = sorted[len(sorted)-1]
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		median = sorted[mid]
	} else {
		median = (sorted[mid-1] + sorted[mid]) / 2
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	sq := 0.0
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	variance = sq / float64(len(values))
	return best, median, variance
}

// Statistics summarizes a population's current fitness landscape.
type Statistics struct {
	BestFitness float64
	MeanFitness float64
	PerSpecies  []SpeciesStatistics
}

// SpeciesStatistics is one species' fitness summary.
type SpeciesStatistics struct {
	Best, Median, Variance      float64
	Age                         int
	GenerationsSinceImprovement int
}

// Statistics reports the population's current fitness landscape.
// BestFitness and MeanFitness cover only individuals with valid fitness
// (both are 0 when there are none); PerSpecies entries are computed over
// every individual's current Fitness value, so a species without valid
// fitness yet contributes zeros there.
func (pop *Population) Statistics() Statistics {
	stats := Statistics{BestFitness: math.Inf(-1)}
	sumMean := 0.0
	count := 0
	for _, sp := range pop.Species {
		best, median, variance := speciesStats(sp)
		stats.PerSpecies = append(stats.PerSpecies, SpeciesStatistics{
			Best:                        best,
			Median:                      median,
			Variance:                    variance,
			Age:                         sp.Age,
			GenerationsSinceImprovement: sp.GenerationsSinceImprovement,
		})
		for _, ind := range sp.Individuals {
			if !ind.FitnessValid {
				continue
			}
			if ind.Fitness > stats.BestFitness {
				stats.BestFitness = ind.Fitness
			}
			sumMean += ind.Fitness
			count++
		}
	}
	if count > 0 {
		stats.MeanFitness = sumMean / float64(count)
	} else {
		stats.BestFitness = 0
	}
	return stats
}
