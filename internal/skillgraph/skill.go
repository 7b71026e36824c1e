package skillgraph

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	MinDifficulty = 1
	MaxDifficulty = 8
)

// Skill is a single assessable skill. Its name encodes the tube it belongs to
// and its difficulty, e.g. "@web3" is level 3 of tube "@web".
type Skill struct {
	ID           string
	Name         string
	TubeName     string
	Difficulty   int
	CompetenceID string
}

// ParseSkillName splits a skill name of the form "@<tube><level>" into its
// tube name and difficulty.
func ParseSkillName(name string) (tube string, difficulty int, err error) {
	if !strings.HasPrefix(name, "@") {
		return "", 0, fmt.Errorf("skill name %q: missing @ prefix", name)
	}
	i := len(name)
	for i > 1 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i == len(name) || i == 1 {
		return "", 0, fmt.Errorf("skill name %q: expected @<tube><level>", name)
	}
	difficulty, err = strconv.Atoi(name[i:])
	if err != nil {
		return "", 0, fmt.Errorf("skill name %q: %w", name, err)
	}
	return name[:i], difficulty, nil
}

// NewSkill builds a Skill from its name, deriving tube and difficulty.
func NewSkill(id, name, competenceID string) (Skill, error) {
	tube, difficulty, err := ParseSkillName(name)
	if err != nil {
		return Skill{}, err
	}
	return Skill{
		ID:           id,
		Name:         name,
		TubeName:     tube,
		Difficulty:   difficulty,
		CompetenceID: competenceID,
	}, nil
}

// Competence groups tubes inside an area, e.g. "1.1 Mener une recherche".
type Competence struct {
	ID       string
	Index    string
	Name     string
	AreaCode string
}

// Area is the top level of the referential.
type Area struct {
	Code        string
	Title       string
	Competences []Competence
}

// TargetProfile is the set of skills in scope for an assessment.
type TargetProfile struct {
	ID     string
	Skills []Skill
}

// SkillIDs returns the IDs of the profile's skills in profile order.
func (tp TargetProfile) SkillIDs() []string {
	ids := make([]string, len(tp.Skills))
	for i, s := range tp.Skills {
		ids[i] = s.ID
	}
	return ids
}
