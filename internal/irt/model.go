package irt

import (
	"math"

	"github.com/abhisek/pixengine/internal/assessment"
)

// Probability returns the 2PL probability of a correct answer at the given
// ability level.
func Probability(level, discriminant, difficulty float64) float64 {
	return 1 / (1 + math.Exp(discriminant*(difficulty-level)))
}

// Information returns the Fisher information of an item at the given
// ability level.
func Information(level, discriminant, difficulty float64) float64 {
	p := Probability(level, discriminant, difficulty)
	return discriminant * discriminant * p * (1 - p)
}

func validItem(discriminant, difficulty float64) bool {
	if discriminant == 0 || math.IsNaN(discriminant) || math.IsInf(discriminant, 0) {
		return false
	}
	return !math.IsNaN(difficulty) && !math.IsInf(difficulty, 0)
}

// ValidateItem checks that a challenge's 2PL parameters are usable.
func ValidateItem(c assessment.Challenge) error {
	if !validItem(c.Discriminant, c.Difficulty) {
		return &ErrInvalidItem{ChallengeID: c.ID, Discriminant: c.Discriminant, Difficulty: c.Difficulty}
	}
	return nil
}
