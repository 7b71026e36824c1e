package smartrandom

import (
	"math"

	"github.com/abhisek/pixengine/internal/assessment"
)

const (
	levelStep   = 0.5
	levelSteps  = 15 // 0.5 to 7.5
	maxJump     = 2
	easyTubeMax = 3

	// The sentinels anchor the estimate: everyone masters level 0 and
	// nobody masters level 7.
	floorLevel   = 0
	ceilingLevel = 7
)

type evidence struct {
	difficulty int
	outcome    float64
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// successProbability is the chance a user at level masters a skill of the
// given difficulty.
func successProbability(level float64, difficulty int) float64 {
	return sigmoid(level - float64(difficulty))
}

// predictedLevel returns the grid level whose expected successes best match
// the observed direct evidence. The first best level wins.
func predictedLevel(answers []assessment.Answer, index map[string]assessment.Challenge, supplied []assessment.KnowledgeElement, course Course) float64 {
	ev := make([]evidence, 0, len(answers)+len(supplied)+2)
	answered := assessment.AnsweredSkillIDs(answers, index)
	for _, a := range answers {
		c, ok := index[a.ChallengeID]
		if !ok {
			continue
		}
		ev = append(ev, evidence{difficulty: c.MaxDifficulty(), outcome: outcome(a.IsOK())})
	}

	difficulties := make(map[string]int)
	for _, s := range course.Skills() {
		difficulties[s.ID] = s.Difficulty
	}
	for _, ke := range supplied {
		d, ok := difficulties[ke.SkillID]
		if !ok || !ke.IsDirect() || answered[ke.SkillID] {
			continue
		}
		ev = append(ev, evidence{difficulty: d, outcome: outcome(ke.IsValidated())})
	}
	ev = append(ev, evidence{floorLevel, 1}, evidence{ceilingLevel, 0})

	best, bestScore := 0.0, math.Inf(-1)
	for i := 1; i <= levelSteps; i++ {
		level := float64(i) * levelStep
		var diff float64
		for _, e := range ev {
			diff += e.outcome - successProbability(level, e.difficulty)
		}
		if score := -math.Abs(diff); score > bestScore {
			best, bestScore = level, score
		}
	}
	return best
}

func outcome(ok bool) float64 {
	if ok {
		return 1
	}
	return 0
}
