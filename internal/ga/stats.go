// ABOUTME: Derives the optional post-solution ProblemStats report from a winning assignment
// ABOUTME: Grounded on the original solver's _compute_stats (spec.md §4, SPEC_FULL §4)

package ga

import (
	"github.com/stojg/ga-assign/internal/model"
)

// computeStats derives rankings / minimize / prerequisites_met stats for
// the given assignment, or nil if none of the three sections apply.
func computeStats(problem *model.ProblemInput, assignments []model.AssignmentResult) *model.ProblemStats {
	studentByID := make(map[int]*model.Student, len(problem.Students))
	for i := range problem.Students {
		studentByID[problem.Students[i].ID] = &problem.Students[i]
	}

	groupStudents := make(map[int][]int, len(problem.Groups))
	for _, g := range problem.Groups {
		groupStudents[g.ID] = nil
	}
	for _, a := range assignments {
		groupStudents[a.GroupID] = append(groupStudents[a.GroupID], a.StudentID)
	}

	rankingsStats := computeRankingsStats(assignments, studentByID)
	minimizeStats := computeMinimizeStats(problem, studentByID, groupStudents)
	prereqMet := computePrerequisitesMet(problem, studentByID, groupStudents)

	if rankingsStats == nil && minimizeStats == nil && prereqMet == nil {
		return nil
	}
	return &model.ProblemStats{
		Rankings:         rankingsStats,
		Minimize:         minimizeStats,
		PrerequisitesMet: prereqMet,
	}
}

func computeRankingsStats(assignments []model.AssignmentResult, studentByID map[int]*model.Student) *model.RankingsStats {
	anyRankings := false
	for _, s := range studentByID {
		if s.HasRankings() {
			anyRankings = true
			break
		}
	}
	if !anyRankings {
		return nil
	}

	var values []float64
	for _, a := range assignments {
		student, ok := studentByID[a.StudentID]
		if !ok || !student.HasRankings() {
			continue
		}
		values = append(values, student.Rankings[a.GroupID])
	}
	if len(values) == 0 {
		return nil
	}

	sum, min := 0.0, values[0]
	for _, v := range values {
		sum += v
		if v < min {
			min = v
		}
	}
	return &model.RankingsStats{AvgRank: sum / float64(len(values)), MinRank: min}
}

func computeMinimizeStats(problem *model.ProblemInput, studentByID map[int]*model.Student, groupStudents map[int][]int) map[string]model.MinimizeCriterionStats {
	minimizeGroups := make(map[string][]int)
	for _, g := range problem.Groups {
		for name, configs := range g.Criteria {
			for _, c := range configs {
				if c.Type == model.Minimize {
					minimizeGroups[name] = append(minimizeGroups[name], g.ID)
					break
				}
			}
		}
	}
	if len(minimizeGroups) == 0 {
		return nil
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

	result := make(map[string]model.MinimizeCriterionStats, len(minimizeGroups))
	for name, groupIDs := range minimizeGroups {
		mean := globalMean(name)

		var groupAvgs []float64
		for _, gid := range groupIDs {
			ids := groupStudents[gid]
			if len(ids) == 0 {
				continue
			}
			total := 0.0
			for _, sid := range ids {
				total += studentByID[sid].Values[name]
			}
			groupAvgs = append(groupAvgs, total/float64(len(ids)))
		}

		maxGroupAvgDiff := 0.0
		if len(groupAvgs) >= 2 {
			min, max := groupAvgs[0], groupAvgs[0]
			for _, v := range groupAvgs {
				if v < min {
					min = v
				}
				if v > max {
					max = v
				}
			}
			maxGroupAvgDiff = max - min
		}

		maxGroupGlobalDiff := 0.0
		for _, v := range groupAvgs {
			d := v - mean
			if d < 0 {
				d = -d
			}
			if d > maxGroupGlobalDiff {
				maxGroupGlobalDiff = d
			}
		}

		result[name] = model.MinimizeCriterionStats{
			MaxGroupAvgDiff:    maxGroupAvgDiff,
			MaxGroupGlobalDiff: maxGroupGlobalDiff,
		}
	}
	return result
}

func computePrerequisitesMet(problem *model.ProblemInput, studentByID map[int]*model.Student, groupStudents map[int][]int) *bool {
	hasPrereq := false
	ok := true

	for _, g := range problem.Groups {
		for name, configs := range g.Criteria {
			for _, c := range configs {
				if c.Type != model.Prerequisite || c.MinRatio == nil {
					continue
				}
				hasPrereq = true
				for _, sid := range groupStudents[g.ID] {
					if studentByID[sid].Values[name] < *c.MinRatio {
						ok = false
					}
				}
			}
		}
	}

	if !hasPrereq {
		return nil
	}
	return &ok
}
