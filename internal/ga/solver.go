// ABOUTME: Solver driver — multi-run orchestration, best-of-N selection, stats assembly
// ABOUTME: Each run is a fresh, independent Population; runs execute sequentially

package ga

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/stojg/ga-assign/internal/model"
	"github.com/stojg/ga-assign/internal/progress"
)

// DefaultRuns is the solver driver's default run count (spec.md §4.5).
const DefaultRuns = 5

// SolveOptions configures one call to Solve.
type SolveOptions struct {
	Runs    int
	Params  Params
	Tracker *progress.Tracker // optional; nil disables progress reporting
}

// Solve runs Runs independent GA instances sequentially (spec.md §5: the
// core is single-threaded and synchronous, and independent runs use
// independent RNG streams), keeps the overall best chromosome with strict
// "<" on fitness (first run wins ties), and derives the assignment list
// and stats report.
//
// Runs is floored to 1. ctx is checked between generations so a caller
// (e.g. the HTTP dispatcher) can cancel a long-running solve; a cancelled
// solve returns its best-so-far result rather than an error, matching
// spec.md §7's "never raises" treatment of infeasibility.
func Solve(ctx context.Context, problem *model.ProblemInput, opts SolveOptions) (model.ProblemOutput, error) {
	runs := opts.Runs
	if runs < 1 {
		runs = 1
	}
	params := opts.Params
	if params.PopulationSize == 0 {
		params = DefaultParams()
	}

	var bestOverall *Chromosome
	var bestInitialFitness float64

	for run := 0; run < runs; run++ {
		final, initialFitness := runSingle(ctx, problem, params, run, opts.Tracker)
		if bestOverall == nil || final.Fitness < bestOverall.Fitness {
			c := final
			bestOverall = &c
			bestInitialFitness = initialFitness
		}
		if ctx.Err() != nil {
			break
		}
	}

	assignments := make([]model.AssignmentResult, 0, len(bestOverall.Genes))
	for sid, gid := range bestOverall.Genes {
		assignments = append(assignments, model.AssignmentResult{StudentID: sid, GroupID: gid})
	}
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].StudentID < assignments[j].StudentID })

	status := fmt.Sprintf("FITNESS: %s; INITIAL FITNESS: %s; ",
		strconv.FormatFloat(bestOverall.Fitness, 'f', -1, 64),
		strconv.FormatFloat(bestInitialFitness, 'f', -1, 64))

	return model.ProblemOutput{
		Assignments: assignments,
		Status:      status,
		Stats:       computeStats(problem, assignments),
	}, nil
}

// runSingle evolves one fresh Population for params.Generations
// generations (or until ctx is cancelled) and returns its final best
// chromosome plus the population's generation-0 best fitness.
func runSingle(ctx context.Context, problem *model.ProblemInput, params Params, run int, tracker *progress.Tracker) (Chromosome, float64) {
	pop := NewPopulation(problem, params)
	initialFitness := pop.Best().Fitness
	runningBest := math.Inf(1)

	for gen := 0; gen < params.Generations; gen++ {
		if ctx.Err() != nil {
			break
		}

		best := pop.Best()
		improved := best.Fitness < runningBest
		if improved {
			runningBest = best.Fitness
		}
		tracker.SendUpdate(run, gen, best.Fitness, improved)

		pop.Evolve()
	}

	return pop.Best(), initialFitness
}
