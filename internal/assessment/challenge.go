package assessment

import (
	"github.com/abhisek/pixengine/internal/skillgraph"
)

// ChallengeStatus is the lifecycle status of a challenge in the item bank.
type ChallengeStatus string

const (
	StatusActive   ChallengeStatus = "active"
	StatusArchived ChallengeStatus = "archived"
)

// Challenge types that affect certification scoring.
const (
	TypeQCM      = "QCM"
	TypeQROC     = "QROC"
	TypeQROCMInd = "QROCM-ind"
	TypeQROCMDep = "QROCM-dep"
)

// Challenge is an item of the bank. It tests one or more skills and carries
// the 2PL parameters used by the flash method.
type Challenge struct {
	ID           string
	Skills       []skillgraph.Skill
	Type         string
	Status       ChallengeStatus
	Timer        int // seconds; 0 means not timed
	Discriminant float64
	Difficulty   float64
}

// IsArchived reports whether the challenge must no longer be offered.
func (c Challenge) IsArchived() bool {
	return c.Status == StatusArchived
}

// IsTimed reports whether the challenge has a timer.
func (c Challenge) IsTimed() bool {
	return c.Timer > 0
}

// HasSkill reports whether the challenge tests the given skill.
func (c Challenge) HasSkill(skillID string) bool {
	for _, s := range c.Skills {
		if s.ID == skillID {
			return true
		}
	}
	return false
}

// SkillIDs returns the IDs of the tested skills.
func (c Challenge) SkillIDs() []string {
	ids := make([]string, len(c.Skills))
	for i, s := range c.Skills {
		ids[i] = s.ID
	}
	return ids
}

// MaxDifficulty returns the highest difficulty among the tested skills.
func (c Challenge) MaxDifficulty() int {
	hardest := 0
	for _, s := range c.Skills {
		hardest = max(hardest, s.Difficulty)
	}
	return hardest
}

// IndexChallenges maps challenges by ID. The first challenge wins on duplicates.
func IndexChallenges(challenges []Challenge) map[string]Challenge {
	idx := make(map[string]Challenge, len(challenges))
	for _, c := range challenges {
		if _, ok := idx[c.ID]; !ok {
			idx[c.ID] = c
		}
	}
	return idx
}

// Active returns the challenges that are not archived, preserving order.
func Active(challenges []Challenge) []Challenge {
	out := make([]Challenge, 0, len(challenges))
	for _, c := range challenges {
		if !c.IsArchived() {
			out = append(out, c)
		}
	}
	return out
}
