// ABOUTME: Problem/result data model for the assignment solver
// ABOUTME: Validation and single-to-list criteria normalization live here

package model

import (
	"encoding/json"
	"fmt"
)

// CriterionType is the tagged variant over the kinds of per-criterion
// objective a group can attach to a criterion name.
type CriterionType string

const (
	Minimize     CriterionType = "minimize"
	Prerequisite CriterionType = "prerequisite"
	Pull         CriterionType = "pull"
)

// legacy tag set, accepted on input and mapped onto the current vocabulary
// (see spec.md §9, "Schema evolution — legacy criterion tags").
const (
	legacyMinimize   = "minimize"
	legacyConstraint = "constraint"
	legacyBestMin    = "best_min"
	legacyWorstMin   = "worst_min"
)

func normalizeCriterionType(raw string) (CriterionType, error) {
	switch raw {
	case string(Minimize): // legacyMinimize is the same tag
		return Minimize, nil
	case string(Prerequisite), legacyConstraint:
		return Prerequisite, nil
	case string(Pull), legacyBestMin, legacyWorstMin:
		return Pull, nil
	default:
		return "", fmt.Errorf("unknown criterion type %q", raw)
	}
}

// CriterionConfig is one objective attached to a criterion name on a group.
type CriterionConfig struct {
	Type     CriterionType `json:"type"`
	MinRatio *float64      `json:"min_ratio,omitempty"`
	// Target is parsed but never read by the fitness evaluator (spec.md §9,
	// "Open questions" — preserved for forward compatibility only).
	Target *float64 `json:"target,omitempty"`
}

// Group is a fixed-size destination students are assigned into.
type Group struct {
	ID       int                          `json:"id"`
	Size     int                          `json:"size"`
	Criteria map[string][]CriterionConfig `json:"criteria"`
}

// UnmarshalJSON decodes a Group, normalizing a criterion value that is a
// single config object (rather than a list) into a one-element list
// (spec.md §3: "A single config value is normalized to a one-element
// sequence on input.").
func (g *Group) UnmarshalJSON(data []byte) error {
	type alias Group
	aux := struct {
		Criteria map[string]json.RawMessage `json:"criteria"`
		*alias
	}{alias: (*alias)(g)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	g.Criteria = make(map[string][]CriterionConfig, len(aux.Criteria))
	for name, raw := range aux.Criteria {
		var list []CriterionConfig
		if err := json.Unmarshal(raw, &list); err == nil {
			g.Criteria[name] = list
			continue
		}
		var single CriterionConfig
		if err := json.Unmarshal(raw, &single); err != nil {
			return fmt.Errorf("criteria %q: %w", name, err)
		}
		g.Criteria[name] = []CriterionConfig{single}
	}
	return nil
}

// Student carries eligibility, criterion values and optional group rankings.
type Student struct {
	ID             int                `json:"id"`
	PossibleGroups []int              `json:"possible_groups"`
	Values         map[string]float64 `json:"values"`
	Rankings       map[int]float64    `json:"rankings,omitempty"`
}

// HasRankings reports whether the student carries a non-empty rankings map.
func (s Student) HasRankings() bool {
	return len(s.Rankings) > 0
}

// ProblemInput is the validated, read-only view of one solve request.
type ProblemInput struct {
	NumStudents       int       `json:"num_students"`
	NumGroups         int       `json:"num_groups"`
	Groups            []Group   `json:"groups"`
	Students          []Student `json:"students"`
	Exclude           [][]int   `json:"exclude"`
	RankingPercentage float64   `json:"ranking_percentage"`
}

// DefaultRankingPercentage matches spec.md §3's documented default.
const DefaultRankingPercentage = 50.0

// UnmarshalJSON decodes a ProblemInput, defaulting ranking_percentage to
// DefaultRankingPercentage when the key is absent from the payload (a
// literal 0 in the payload is honored as an explicit value).
func (p *ProblemInput) UnmarshalJSON(data []byte) error {
	type alias ProblemInput
	aux := struct {
		RankingPercentage *float64 `json:"ranking_percentage"`
		*alias
	}{alias: (*alias)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.RankingPercentage != nil {
		p.RankingPercentage = *aux.RankingPercentage
	} else {
		p.RankingPercentage = DefaultRankingPercentage
	}
	return nil
}

// Validate checks the structural invariants spec.md §3 requires of a
// ProblemInput, and rewrites legacy criterion type tags onto the current
// vocabulary in place. Wrapping a single config into a one-element list
// happens earlier, in Group.UnmarshalJSON.
func (p *ProblemInput) Validate() error {
	if p.NumStudents < 0 {
		return fmt.Errorf("num_students must be >= 0, got %d", p.NumStudents)
	}
	if p.NumGroups < 0 {
		return fmt.Errorf("num_groups must be >= 0, got %d", p.NumGroups)
	}

	seenGroups := make(map[int]bool, len(p.Groups))
	for i := range p.Groups {
		g := &p.Groups[i]
		if seenGroups[g.ID] {
			return fmt.Errorf("duplicate group id %d", g.ID)
		}
		seenGroups[g.ID] = true
		if g.Size < 0 {
			return fmt.Errorf("group %d: size must be >= 0, got %d", g.ID, g.Size)
		}
		for name, configs := range g.Criteria {
			for ci, c := range configs {
				if c.Type == "" {
					return fmt.Errorf("group %d criterion %q: missing type", g.ID, name)
				}
				norm, err := normalizeCriterionType(string(c.Type))
				if err != nil {
					return fmt.Errorf("group %d criterion %q: %w", g.ID, name, err)
				}
				configs[ci].Type = norm
				if norm == Prerequisite && c.MinRatio != nil {
					if *c.MinRatio < 0 || *c.MinRatio > 1 {
						return fmt.Errorf("group %d criterion %q: min_ratio must be in [0,1], got %v", g.ID, name, *c.MinRatio)
					}
				}
			}
		}
	}

	seenStudents := make(map[int]bool, len(p.Students))
	for i := range p.Students {
		s := &p.Students[i]
		if seenStudents[s.ID] {
			return fmt.Errorf("duplicate student id %d", s.ID)
		}
		seenStudents[s.ID] = true
		if len(s.PossibleGroups) == 0 {
			return fmt.Errorf("student %d: possible_groups must be non-empty", s.ID)
		}
		for name, v := range s.Values {
			if v < 0 || v > 1 {
				return fmt.Errorf("student %d value %q: must be in [0,1], got %v", s.ID, name, v)
			}
		}
		for gid, r := range s.Rankings {
			if r < 0 || r > 1 {
				return fmt.Errorf("student %d ranking for group %d: must be in [0,1], got %v", s.ID, gid, r)
			}
		}
	}

	for _, pair := range p.Exclude {
		if len(pair) < 2 {
			continue
		}
		if !seenStudents[pair[0]] || !seenStudents[pair[1]] {
			// spec.md §4.2.b: a missing student id contributes 0 penalty,
			// not a validation error — these pairs are simply inert.
			continue
		}
	}

	return nil
}

// AssignmentResult is one (student, group) pairing in a ProblemOutput.
type AssignmentResult struct {
	StudentID int `json:"student_id"`
	GroupID   int `json:"group_id"`
}

// RankingsStats summarizes how well students' stated preferences were honored.
type RankingsStats struct {
	AvgRank float64 `json:"avg_rank"`
	MinRank float64 `json:"min_rank"`
}

// MinimizeCriterionStats summarizes balance for one MINIMIZE criterion.
type MinimizeCriterionStats struct {
	MaxGroupAvgDiff    float64 `json:"max_group_avg_diff"`
	MaxGroupGlobalDiff float64 `json:"max_group_global_diff"`
}

// ProblemStats is the optional derived report attached to a ProblemOutput.
type ProblemStats struct {
	Rankings         *RankingsStats                    `json:"rankings,omitempty"`
	Minimize         map[string]MinimizeCriterionStats `json:"minimize,omitempty"`
	PrerequisitesMet *bool                              `json:"prerequisites_met,omitempty"`
}

// ProblemOutput is the solver's final result.
type ProblemOutput struct {
	Assignments []AssignmentResult `json:"assignments"`
	Status      string             `json:"status"`
	Stats       *ProblemStats      `json:"stats,omitempty"`
}
