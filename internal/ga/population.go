// ABOUTME: Population construction and the generational evolution loop with elitism
// ABOUTME: evolve replaces the owned chromosome set atomically, per generation

package ga

import (
	"math/rand/v2"
	"sort"

	"github.com/stojg/ga-assign/internal/model"
)

// Params carries the evolution loop's tunable knobs (spec.md §4.4's
// defaults: PopulationSize=120, Generations=200, CrossoverRate=1.0,
// MutationRate=0.28, Elitism=6).
type Params struct {
	PopulationSize int
	Generations    int
	CrossoverRate  float64
	MutationRate   float64
	Elitism        int
}

// DefaultParams matches the constants named in spec.md §4.4.
func DefaultParams() Params {
	return Params{
		PopulationSize: 120,
		Generations:    200,
		CrossoverRate:  1.0,
		MutationRate:   0.28,
		Elitism:        6,
	}
}

// Population owns a set of chromosomes exclusively; evolve replaces that
// set atomically so nothing is shared across concurrent GA runs
// (spec.md §3, "Ownership/lifecycle").
type Population struct {
	problem     *model.ProblemInput
	params      Params
	individuals []Chromosome
}

// NewPopulation builds params.PopulationSize independent chromosomes via
// feasibility-aware seeding and evaluates all of them (spec.md §4.4).
func NewPopulation(problem *model.ProblemInput, params Params) *Population {
	individuals := make([]Chromosome, params.PopulationSize)
	for i := range individuals {
		individuals[i] = RandomInitialization(problem)
		EvaluateFitness(&individuals[i], problem)
	}
	return &Population{problem: problem, params: params, individuals: individuals}
}

// Best returns the lowest-fitness chromosome currently in the population.
func (p *Population) Best() Chromosome {
	best := p.individuals[0]
	for _, ind := range p.individuals[1:] {
		if ind.Fitness < best.Fitness {
			best = ind
		}
	}
	return best
}

// Len reports the current population size.
func (p *Population) Len() int { return len(p.individuals) }

// Evolve runs one generation: sort by fitness, seed the next generation
// with independent copies of the top `elitism` individuals, then fill the
// rest via tournament selection, (probabilistic) uniform crossover, and
// swap mutation, replacing the owned set atomically and evaluating all
// members including the elites (spec.md §4.4).
func (p *Population) Evolve() {
	sort.SliceStable(p.individuals, func(i, j int) bool {
		return p.individuals[i].Fitness < p.individuals[j].Fitness
	})

	elitism := p.params.Elitism
	if elitism > len(p.individuals) {
		elitism = len(p.individuals)
	}

	next := make([]Chromosome, 0, len(p.individuals))
	for i := 0; i < elitism; i++ {
		next = append(next, p.individuals[i].Copy())
	}

	for len(next) < len(p.individuals) {
		parent1 := TournamentSelection(p.individuals)
		parent2 := TournamentSelection(p.individuals)

		var child Chromosome
		if rand.Float64() < p.params.CrossoverRate {
			child = UniformCrossover(parent1, parent2)
		} else {
			child = parent1.Copy()
		}

		child = SwapMutation(child, p.problem, p.params.MutationRate)
		next = append(next, child)
	}

	p.individuals = next
	for i := range p.individuals {
		EvaluateFitness(&p.individuals[i], p.problem)
	}
}
