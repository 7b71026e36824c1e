package irt

import (
	"errors"
	"fmt"
)

var (
	// ErrNoConvergence indicates the likelihood maximisation did not settle.
	// It usually means the answer pattern carries no finite optimum
	// (all answers correct or all incorrect).
	ErrNoConvergence = errors.New("ability estimate did not converge")

	// ErrDegeneratePosterior indicates the posterior mass vanished, which
	// only happens with corrupt item parameters.
	ErrDegeneratePosterior = errors.New("degenerate ability posterior")
)

// ErrUnknownChallenge is returned when an answer references a challenge
// that is not part of the pool.
type ErrUnknownChallenge struct {
	ChallengeID string
}

func (e *ErrUnknownChallenge) Error() string {
	return fmt.Sprintf("answer references unknown challenge %q", e.ChallengeID)
}

// ErrInvalidItem indicates a challenge whose 2PL parameters cannot be used.
type ErrInvalidItem struct {
	ChallengeID  string
	Discriminant float64
	Difficulty   float64
}

func (e *ErrInvalidItem) Error() string {
	return fmt.Sprintf("challenge %q has invalid item parameters (discriminant=%g, difficulty=%g)",
		e.ChallengeID, e.Discriminant, e.Difficulty)
}
