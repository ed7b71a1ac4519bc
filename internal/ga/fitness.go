// ABOUTME: Penalty-method fitness evaluator — the GA's performance-critical hotspot
// ABOUTME: Deterministic and pure: same chromosome + problem always yields the same score

package ga

import (
	"github.com/stojg/ga-assign/internal/model"
)

// HardConstraintPenalty encodes "this must be satisfied" (spec.md §4.2).
// 64-bit floating point holds this and the additive soft-penalty mass
// below it without loss (spec.md §9, "Mixing penalty scales").
const HardConstraintPenalty = 1e12

// ScalingFactor converts [0,1] criterion values to the integer domain so
// the fitness arithmetic stays exact (spec.md §4.2).
const ScalingFactor = 10000

// maxRankingPercentage is the clamp applied before computing ranking_weight
// (spec.md §4.2.d, §8 "ranking_percentage >= 100 is clamped to 99.99").
const maxRankingPercentage = 99.99

// EvaluateFitness computes and caches the total penalty for one chromosome
// against one problem instance, and returns that value. Lower is better;
// zero iff every hard and soft penalty term is zero (spec.md §4.2, §8).
func EvaluateFitness(c *Chromosome, problem *model.ProblemInput) float64 {
	studentByID := make(map[int]*model.Student, len(problem.Students))
	for i := range problem.Students {
		studentByID[problem.Students[i].ID] = &problem.Students[i]
	}

	total := 0.0
	total += groupSizePenalty(c, problem)
	total += exclusionPenalty(c, problem)
	total += criteriaPenalty(c, problem, studentByID)
	total += rankingsPenalty(c, problem, studentByID)

	c.Fitness = total
	return total
}

func groupSizePenalty(c *Chromosome, problem *model.ProblemInput) float64 {
	counts := make(map[int]int, len(problem.Groups))
	for _, gid := range c.Genes {
		counts[gid]++
	}

	penalty := 0.0
	for _, g := range problem.Groups {
		diff := counts[g.ID] - g.Size
		if diff < 0 {
			diff = -diff
		}
		penalty += float64(diff) * HardConstraintPenalty
	}
	return penalty
}

func exclusionPenalty(c *Chromosome, problem *model.ProblemInput) float64 {
	penalty := 0.0
	for _, pair := range problem.Exclude {
		if len(pair) < 2 {
			continue
		}
		g1, ok1 := c.Genes[pair[0]]
		g2, ok2 := c.Genes[pair[1]]
		if ok1 && ok2 && g1 == g2 {
			penalty += HardConstraintPenalty
		}
	}
	return penalty
}

// criteriaPenalty sums the MINIMIZE / PULL / PREREQUISITE contributions of
// every criterion attached to every group (spec.md §4.2.c).
func criteriaPenalty(c *Chromosome, problem *model.ProblemInput, studentByID map[int]*model.Student) float64 {
	groupMembers := make(map[int][]int, len(problem.Groups))
	for sid, gid := range c.Genes {
		groupMembers[gid] = append(groupMembers[gid], sid)
	}

	globalMean := func(name string) float64 {
		if len(problem.Students) == 0 {
			return 0
		}
		sum := 0.0
		for i := range problem.Students {
			sum += problem.Students[i].Values[name]
		}
		return sum / float64(len(problem.Students))
	}
	means := make(map[string]float64)

	penalty := 0.0
	for _, g := range problem.Groups {
		members := groupMembers[g.ID]
		if len(members) == 0 {
			continue
		}

		for name, configs := range g.Criteria {
			groupSum := 0
			for _, sid := range members {
				groupSum += int(ScalingFactor * studentByID[sid].Values[name])
			}

			for _, cfg := range configs {
				switch cfg.Type {
				case model.Minimize:
					mean, ok := means[name]
					if !ok {
						mean = globalMean(name)
						means[name] = mean
					}
					targetSum := int(mean * float64(g.Size) * ScalingFactor)
					diff := groupSum - targetSum
					if diff < 0 {
						diff = -diff
					}
					penalty += float64(diff)

				case model.Pull:
					groupMax := 0
					for _, sid := range members {
						v := int(ScalingFactor * studentByID[sid].Values[name])
						if v > groupMax {
							groupMax = v
						}
					}
					penalty += float64(groupMax*g.Size - groupSum)

				case model.Prerequisite:
					if cfg.MinRatio == nil {
						continue
					}
					threshold := int(*cfg.MinRatio * ScalingFactor)
					for _, sid := range members {
						v := int(ScalingFactor * studentByID[sid].Values[name])
						if v < threshold {
							penalty += HardConstraintPenalty
							break
						}
					}
				}
			}
		}
	}
	return penalty
}

// rankingsPenalty applies spec.md §4.2.d, active only when at least one
// student has a non-empty rankings map.
func rankingsPenalty(c *Chromosome, problem *model.ProblemInput, studentByID map[int]*model.Student) float64 {
	anyRankings := false
	for i := range problem.Students {
		if problem.Students[i].HasRankings() {
			anyRankings = true
			break
		}
	}
	if !anyRankings {
		return 0
	}

	k := 0
	for _, g := range problem.Groups {
		for _, configs := range g.Criteria {
			for _, cfg := range configs {
				if cfg.Type == model.Minimize || cfg.Type == model.Pull {
					k++
				}
			}
		}
	}

	p := problem.RankingPercentage
	if p > maxRankingPercentage {
		p = maxRankingPercentage
	}

	rankingWeight := 1.0
	if k > 0 {
		rankingWeight = (p * float64(k)) / (100 - p)
	}
	w := int(ScalingFactor * rankingWeight)

	rankingSum := 0
	for sid, gid := range c.Genes {
		rankingSum += int(studentByID[sid].Rankings[gid] * float64(w))
	}

	return float64(w*len(problem.Students) - rankingSum)
}
