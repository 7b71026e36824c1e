package skillgraph

import "sort"

// Tube is an ordered progression of skills of one competence, easiest first.
type Tube struct {
	Name         string
	CompetenceID string
	Skills       []Skill
}

// Hardest returns the most difficult skill of the tube.
func (t Tube) Hardest() Skill {
	if len(t.Skills) == 0 {
		return Skill{}
	}
	return t.Skills[len(t.Skills)-1]
}

// EasierThan returns the skills whose difficulty is at most the given
// skill's, the skill itself included.
func (t Tube) EasierThan(s Skill) []Skill {
	var out []Skill
	for _, sk := range t.Skills {
		if sk.Difficulty <= s.Difficulty {
			out = append(out, sk)
		}
	}
	return out
}

// HarderThan returns the skills whose difficulty is at least the given
// skill's, the skill itself included.
func (t Tube) HarderThan(s Skill) []Skill {
	var out []Skill
	for _, sk := range t.Skills {
		if sk.Difficulty >= s.Difficulty {
			out = append(out, sk)
		}
	}
	return out
}

// HasSkillUpTo reports whether the tube holds a skill of difficulty maxLevel
// or below.
func (t Tube) HasSkillUpTo(maxLevel int) bool {
	for _, s := range t.Skills {
		if s.Difficulty <= maxLevel {
			return true
		}
	}
	return false
}

// GroupByTube groups skills into tubes. Tubes appear in the order their first
// skill appears in the input; skills inside a tube are sorted by ascending
// difficulty. Duplicate skill IDs are kept once.
func GroupByTube(skills []Skill) []Tube {
	var tubes []Tube
	index := make(map[string]int)
	seen := make(map[string]bool, len(skills))

	for _, s := range skills {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true

		i, ok := index[s.TubeName]
		if !ok {
			i = len(tubes)
			index[s.TubeName] = i
			tubes = append(tubes, Tube{Name: s.TubeName, CompetenceID: s.CompetenceID})
		}
		tubes[i].Skills = append(tubes[i].Skills, s)
	}

	for i := range tubes {
		sort.SliceStable(tubes[i].Skills, func(a, b int) bool {
			return tubes[i].Skills[a].Difficulty < tubes[i].Skills[b].Difficulty
		})
	}
	return tubes
}
