package smartrandom

import (
	"github.com/abhisek/pixengine/internal/assessment"
	"github.com/abhisek/pixengine/internal/skillgraph"
)

// Course is the set of tubes an assessment can draw challenges from.
type Course struct {
	Tubes []skillgraph.Tube
}

// BuildCourse groups the target skills into tubes, keeping only skills that
// at least one non-archived challenge tests.
func BuildCourse(targetSkills []skillgraph.Skill, challenges []assessment.Challenge) Course {
	playable := make(map[string]bool)
	for _, c := range challenges {
		if c.IsArchived() {
			continue
		}
		for _, s := range c.Skills {
			playable[s.ID] = true
		}
	}

	kept := make([]skillgraph.Skill, 0, len(targetSkills))
	for _, s := range targetSkills {
		if playable[s.ID] {
			kept = append(kept, s)
		}
	}
	return Course{Tubes: skillgraph.GroupByTube(kept)}
}

// Skills returns every skill of the course in tube order.
func (c Course) Skills() []skillgraph.Skill {
	var out []skillgraph.Skill
	for _, t := range c.Tubes {
		out = append(out, t.Skills...)
	}
	return out
}

// Tube returns the tube with the given name.
func (c Course) Tube(name string) (skillgraph.Tube, bool) {
	for _, t := range c.Tubes {
		if t.Name == name {
			return t, true
		}
	}
	return skillgraph.Tube{}, false
}
