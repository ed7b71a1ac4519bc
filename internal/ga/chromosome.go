// ABOUTME: Chromosome representation and feasibility-aware random seeding
// ABOUTME: A chromosome is a student id -> group id assignment plus its cached fitness

package ga

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/stojg/ga-assign/internal/model"
)

// Chromosome is one candidate assignment: a complete mapping from student
// id to group id, plus its cached fitness (lower is better).
type Chromosome struct {
	Genes   map[int]int
	Fitness float64
}

// NewChromosome wraps a gene map with an unevaluated (+Inf) fitness.
func NewChromosome(genes map[int]int) Chromosome {
	return Chromosome{Genes: genes, Fitness: math.Inf(1)}
}

// Copy returns an independent chromosome with the same genes and fitness.
func (c Chromosome) Copy() Chromosome {
	genes := make(map[int]int, len(c.Genes))
	for k, v := range c.Genes {
		genes[k] = v
	}
	return Chromosome{Genes: genes, Fitness: c.Fitness}
}

// RandomInitialization produces one chromosome that attempts to
// simultaneously respect each student's possible_groups and each group's
// size target (spec.md §4.1).
//
// Students are shuffled uniformly at random, then stably sorted by
// ascending length of possible_groups (most-constrained-first), so that
// tightly constrained students are placed before capacity runs out. For
// each student, the feasible group with the most remaining capacity is
// chosen (ties broken uniformly at random); if no group in
// possible_groups has remaining capacity, a uniformly random choice from
// possible_groups is made instead. A student with empty possible_groups
// falls back to the id of the first group in the problem, without
// touching any capacity counter.
func RandomInitialization(problem *model.ProblemInput) Chromosome {
	remaining := make(map[int]int, len(problem.Groups))
	for _, g := range problem.Groups {
		remaining[g.ID] = g.Size
	}

	studentByID := make(map[int]*model.Student, len(problem.Students))
	ids := make([]int, len(problem.Students))
	for i := range problem.Students {
		s := &problem.Students[i]
		studentByID[s.ID] = s
		ids[i] = s.ID
	}

	rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	sort.SliceStable(ids, func(i, j int) bool {
		return len(studentByID[ids[i]].PossibleGroups) < len(studentByID[ids[j]].PossibleGroups)
	})

	var fallback int
	if len(problem.Groups) > 0 {
		fallback = problem.Groups[0].ID
	}

	genes := make(map[int]int, len(ids))
	for _, sid := range ids {
		student := studentByID[sid]
		if len(student.PossibleGroups) == 0 {
			genes[sid] = fallback
			continue
		}

		var feasible []int
		maxRemaining := -1
		for _, gid := range student.PossibleGroups {
			if r, ok := remaining[gid]; ok && r > 0 {
				feasible = append(feasible, gid)
				if r > maxRemaining {
					maxRemaining = r
				}
			}
		}

		var chosen int
		if len(feasible) > 0 {
			var best []int
			for _, gid := range feasible {
				if remaining[gid] == maxRemaining {
					best = append(best, gid)
				}
			}
			chosen = best[rand.IntN(len(best))]
		} else {
			chosen = student.PossibleGroups[rand.IntN(len(student.PossibleGroups))]
		}

		genes[sid] = chosen
		if _, ok := remaining[chosen]; ok {
			remaining[chosen]--
		}
	}

	return NewChromosome(genes)
}
