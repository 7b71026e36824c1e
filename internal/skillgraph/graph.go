package skillgraph

import (
	"fmt"
	"slices"
	"sort"
)

// Graph holds the referential (areas, competences, skills) with precomputed indices.
type Graph struct {
	areas        []Area
	skills       []Skill
	byID         map[string]*Skill
	byCompetence map[string][]Skill
	competences  map[string]Competence
	tubes        []Tube
	tubeIndex    map[string]int
}

// Build validates the referential and constructs its indices.
func Build(areas []Area, skills []Skill) (*Graph, error) {
	if err := validateReferential(areas, skills); err != nil {
		return nil, err
	}
	return buildGraph(areas, skills), nil
}

func buildGraph(areas []Area, skills []Skill) *Graph {
	gr := &Graph{
		areas:        slices.Clone(areas),
		skills:       slices.Clone(skills),
		byID:         make(map[string]*Skill, len(skills)),
		byCompetence: make(map[string][]Skill),
		competences:  make(map[string]Competence),
		tubeIndex:    make(map[string]int),
	}

	for _, a := range gr.areas {
		for _, c := range a.Competences {
			if c.AreaCode == "" {
				c.AreaCode = a.Code
			}
			gr.competences[c.ID] = c
		}
	}

	for i := range gr.skills {
		gr.byID[gr.skills[i].ID] = &gr.skills[i]
	}

	// Group by competence, sorted by tube then difficulty.
	for _, s := range gr.skills {
		gr.byCompetence[s.CompetenceID] = append(gr.byCompetence[s.CompetenceID], s)
	}
	for id, group := range gr.byCompetence {
		sorted := slices.Clone(group)
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].TubeName != sorted[j].TubeName {
				return sorted[i].TubeName < sorted[j].TubeName
			}
			return sorted[i].Difficulty < sorted[j].Difficulty
		})
		gr.byCompetence[id] = sorted
	}

	gr.tubes = GroupByTube(gr.skills)
	for i, t := range gr.tubes {
		gr.tubeIndex[t.Name] = i
	}

	return gr
}

// Skill returns a skill by ID, or error if not found.
func (g *Graph) Skill(id string) (Skill, error) {
	s, ok := g.byID[id]
	if !ok {
		return Skill{}, fmt.Errorf("skill not found: %q", id)
	}
	return *s, nil
}

// AllSkills returns all skills in the referential.
func (g *Graph) AllSkills() []Skill {
	return slices.Clone(g.skills)
}

// Areas returns all areas in declaration order.
func (g *Graph) Areas() []Area {
	return slices.Clone(g.areas)
}

// Competence returns a competence by ID.
func (g *Graph) Competence(id string) (Competence, bool) {
	c, ok := g.competences[id]
	return c, ok
}

// ByCompetence returns the skills of a competence, ordered by tube then difficulty.
func (g *Graph) ByCompetence(competenceID string) []Skill {
	return slices.Clone(g.byCompetence[competenceID])
}

// Tubes returns every tube of the referential.
func (g *Graph) Tubes() []Tube {
	return slices.Clone(g.tubes)
}

// Tube returns a tube by name.
func (g *Graph) Tube(name string) (Tube, bool) {
	i, ok := g.tubeIndex[name]
	if !ok {
		return Tube{}, false
	}
	return g.tubes[i], true
}

// TargetProfile resolves skill IDs into a target profile. An empty ID list
// selects the whole referential.
func (g *Graph) TargetProfile(id string, skillIDs []string) (TargetProfile, error) {
	if len(skillIDs) == 0 {
		return TargetProfile{ID: id, Skills: g.AllSkills()}, nil
	}
	tp := TargetProfile{ID: id, Skills: make([]Skill, 0, len(skillIDs))}
	for _, sid := range skillIDs {
		s, err := g.Skill(sid)
		if err != nil {
			return TargetProfile{}, fmt.Errorf("target profile %q: %w", id, err)
		}
		tp.Skills = append(tp.Skills, s)
	}
	return tp, nil
}
