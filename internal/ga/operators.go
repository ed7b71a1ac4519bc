// ABOUTME: Genetic operators — tournament selection, uniform crossover, swap/random mutation
// ABOUTME: random mutation is retained as an alternate operator but unused by the default pipeline

package ga

import (
	"math/rand/v2"

	"github.com/stojg/ga-assign/internal/model"
)

// tournamentSize is k in spec.md §4.3's tournament selection.
const tournamentSize = 3

// TournamentSelection samples k individuals uniformly without replacement
// from the population and returns the one with the lowest fitness, ties
// broken by first occurrence (spec.md §4.3).
func TournamentSelection(population []Chromosome) Chromosome {
	n := len(population)
	k := tournamentSize
	if k > n {
		k = n
	}

	idx := rand.Perm(n)[:k]
	best := population[idx[0]]
	for _, i := range idx[1:] {
		if population[i].Fitness < best.Fitness {
			best = population[i]
		}
	}
	return best
}

// UniformCrossover builds a child with the same key set as parent1: for
// each student id, independently with probability 1/2 the gene is copied
// from parent1, else from parent2 (spec.md §4.3).
func UniformCrossover(parent1, parent2 Chromosome) Chromosome {
	child := make(map[int]int, len(parent1.Genes))
	for sid, gid := range parent1.Genes {
		if rand.IntN(2) == 0 {
			child[sid] = gid
		} else {
			child[sid] = parent2.Genes[sid]
		}
	}
	return NewChromosome(child)
}

// SwapMutation attempts, with probability mutationRate, to swap the group
// assignments of two distinct students. The swap is applied only when
// their current groups differ and each other's group is in the opposite
// student's possible_groups, so group sizes are always preserved exactly
// (spec.md §4.3). A swap is made on a copy; when no swap is made, c is
// returned as given. The input is never mutated.
func SwapMutation(c Chromosome, problem *model.ProblemInput, mutationRate float64) Chromosome {
	if rand.Float64() > mutationRate {
		return c
	}

	studentIDs := make([]int, 0, len(c.Genes))
	for sid := range c.Genes {
		studentIDs = append(studentIDs, sid)
	}
	if len(studentIDs) < 2 {
		return c
	}

	i, j := rand.IntN(len(studentIDs)), rand.IntN(len(studentIDs)-1)
	if j >= i {
		j++
	}
	s1, s2 := studentIDs[i], studentIDs[j]

	g1, g2 := c.Genes[s1], c.Genes[s2]
	if g1 == g2 {
		return c
	}

	studentByID := make(map[int]*model.Student, len(problem.Students))
	for k := range problem.Students {
		studentByID[problem.Students[k].ID] = &problem.Students[k]
	}

	if !contains(studentByID[s1].PossibleGroups, g2) || !contains(studentByID[s2].PossibleGroups, g1) {
		return c
	}

	child := c.Copy()
	child.Genes[s1], child.Genes[s2] = g2, g1
	child.Fitness = c.Fitness
	return child
}

// RandomMutation picks one random student and reassigns it uniformly at
// random from its possible_groups. Defined but unused by the default
// evolution loop; retained as an alternate operator (spec.md §4.3, §9).
func RandomMutation(c Chromosome, problem *model.ProblemInput, mutationRate float64) Chromosome {
	if rand.Float64() > mutationRate {
		return c
	}

	studentIDs := make([]int, 0, len(c.Genes))
	for sid := range c.Genes {
		studentIDs = append(studentIDs, sid)
	}
	if len(studentIDs) == 0 {
		return c
	}
	sid := studentIDs[rand.IntN(len(studentIDs))]

	var possible []int
	for i := range problem.Students {
		if problem.Students[i].ID == sid {
			possible = problem.Students[i].PossibleGroups
			break
		}
	}
	if len(possible) == 0 {
		return c
	}

	child := c.Copy()
	child.Genes[sid] = possible[rand.IntN(len(possible))]
	return child
}

func contains(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
