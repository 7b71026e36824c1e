// Package flash implements the IRT-based next-challenge selection: every
// remaining challenge is ranked by its Fisher information at the current
// ability estimate.
package flash

import (
	"fmt"

	"github.com/abhisek/pixengine/internal/assessment"
	"github.com/abhisek/pixengine/internal/irt"
)

// Config holds flash selection settings.
type Config struct {
	// MaxChallenges is the number of answers after which the assessment
	// ends (numberOfChallengesForFlashMethod). Zero or less means no limit.
	MaxChallenges int

	// Estimator selects how the ability level is estimated.
	Estimator irt.Method
}

// DefaultConfig returns sensible defaults for flash selection.
func DefaultConfig() Config {
	return Config{
		MaxChallenges: 20,
		Estimator:     irt.MethodEAP,
	}
}

// Result is the outcome of a flash selection step.
type Result struct {
	HasAssessmentEnded bool
	PossibleChallenges []assessment.Challenge
	EstimatedLevel     float64
}

// NonAnsweredChallenges returns the challenges sharing no skill with an
// already answered challenge, in input order.
func NonAnsweredChallenges(answers []assessment.Answer, challenges []assessment.Challenge) []assessment.Challenge {
	answered := assessment.AnsweredSkillIDs(answers, assessment.IndexChallenges(challenges))

	out := make([]assessment.Challenge, 0, len(challenges))
	for _, c := range challenges {
		if !sharesSkill(c, answered) {
			out = append(out, c)
		}
	}
	return out
}

func sharesSkill(c assessment.Challenge, skills map[string]bool) bool {
	for _, s := range c.Skills {
		if skills[s.ID] {
			return true
		}
	}
	return false
}

// PossibleNextChallenges returns the unanswered, non-archived challenges
// tied for maximum information at the current ability estimate. The
// assessment ends when no challenge remains or the answer budget is spent.
func PossibleNextChallenges(answers []assessment.Answer, challenges []assessment.Challenge, cfg Config) (Result, error) {
	remaining := assessment.Active(NonAnsweredChallenges(answers, challenges))
	if len(remaining) == 0 || (cfg.MaxChallenges > 0 && len(answers) >= cfg.MaxChallenges) {
		return Result{HasAssessmentEnded: true, PossibleChallenges: []assessment.Challenge{}}, nil
	}

	level, err := cfg.Estimator.Level(answers, challenges)
	if err != nil {
		return Result{}, fmt.Errorf("estimate level: %w", err)
	}

	infos := make([]float64, len(remaining))
	best := -1.0
	for i, c := range remaining {
		if err := irt.ValidateItem(c); err != nil {
			return Result{}, err
		}
		infos[i] = irt.Information(level, c.Discriminant, c.Difficulty)
		best = max(best, infos[i])
	}

	var possible []assessment.Challenge
	for i, c := range remaining {
		if infos[i] == best {
			possible = append(possible, c)
		}
	}

	return Result{
		HasAssessmentEnded: false,
		PossibleChallenges: possible,
		EstimatedLevel:     level,
	}, nil
}
