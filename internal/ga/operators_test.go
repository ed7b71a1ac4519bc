// ABOUTME: Tests for tournament selection, uniform crossover, and swap/random mutation

package ga

import (
	"testing"

	"github.com/stojg/ga-assign/internal/model"
)

func TestTournamentSelection_ReturnsLowestFitnessMember(t *testing.T) {
	population := []Chromosome{
		{Genes: map[int]int{1: 1}, Fitness: 5},
		{Genes: map[int]int{1: 2}, Fitness: 1},
		{Genes: map[int]int{1: 3}, Fitness: 9},
	}

	for i := 0; i < 20; i++ {
		got := TournamentSelection(population)
		if got.Fitness != 1 {
			t.Fatalf("tournament returned fitness %v, want lowest fitness 1", got.Fitness)
		}
	}
}

func TestUniformCrossover_ChildKeysMatchParent1(t *testing.T) {
	p1 := NewChromosome(map[int]int{1: 10, 2: 20, 3: 30})
	p2 := NewChromosome(map[int]int{1: 11, 2: 21, 3: 31})

	child := UniformCrossover(p1, p2)

	if len(child.Genes) != len(p1.Genes) {
		t.Fatalf("got %d keys, want %d", len(child.Genes), len(p1.Genes))
	}
	for sid, gid := range child.Genes {
		if gid != p1.Genes[sid] && gid != p2.Genes[sid] {
			t.Errorf("student %d gene %d not from either parent", sid, gid)
		}
	}
}

func TestUniformCrossover_IdenticalParentsYieldSameGenes(t *testing.T) {
	p := NewChromosome(map[int]int{1: 10, 2: 20})

	child := UniformCrossover(p, p)

	for sid, gid := range p.Genes {
		if child.Genes[sid] != gid {
			t.Errorf("student %d: got %d, want %d", sid, child.Genes[sid], gid)
		}
	}
}

func TestSwapMutation_PreservesMultisetOfGroups(t *testing.T) {
	problem := &model.ProblemInput{
		Students: []model.Student{
			{ID: 1, PossibleGroups: []int{10, 20}},
			{ID: 2, PossibleGroups: []int{10, 20}},
		},
	}
	c := NewChromosome(map[int]int{1: 10, 2: 20})

	for i := 0; i < 50; i++ {
		mutated := SwapMutation(c, problem, 1.0)
		counts := map[int]int{}
		for _, gid := range mutated.Genes {
			counts[gid]++
		}
		original := map[int]int{}
		for _, gid := range c.Genes {
			original[gid]++
		}
		for gid, n := range original {
			if counts[gid] != n {
				t.Fatalf("group %d count changed: got %d, want %d", gid, counts[gid], n)
			}
		}
	}
}

func TestSwapMutation_RefusesWhenGroupsNotMutuallyPossible(t *testing.T) {
	problem := &model.ProblemInput{
		Students: []model.Student{
			{ID: 1, PossibleGroups: []int{10}},
			{ID: 2, PossibleGroups: []int{20}},
		},
	}
	c := NewChromosome(map[int]int{1: 10, 2: 20})

	for i := 0; i < 50; i++ {
		mutated := SwapMutation(c, problem, 1.0)
		if mutated.Genes[1] != 10 || mutated.Genes[2] != 20 {
			t.Fatalf("swap applied despite infeasibility: %v", mutated.Genes)
		}
	}
}

func TestRandomMutation_AssignsFromPossibleGroups(t *testing.T) {
	problem := &model.ProblemInput{
		Students: []model.Student{{ID: 1, PossibleGroups: []int{10, 20, 30}}},
	}
	c := NewChromosome(map[int]int{1: 10})

	for i := 0; i < 50; i++ {
		mutated := RandomMutation(c, problem, 1.0)
		gid := mutated.Genes[1]
		if gid != 10 && gid != 20 && gid != 30 {
			t.Fatalf("got gene %d outside possible_groups", gid)
		}
	}
}
