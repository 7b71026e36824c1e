// Package certification turns the answers of a certification test into
// certified competence levels and a Pix score.
package certification

import (
	"fmt"

	"github.com/abhisek/pixengine/internal/assessment"
)

const (
	// UncertifiedLevel marks a competence that was not certified.
	UncertifiedLevel = -1

	// PixPerLevel is the score carried by one competence level.
	PixPerLevel = 8

	minimumReproducibilityRate   = 50.0
	trustedReproducibilityRate   = 80.0
	minimumCorrectAnswers        = 2
	correctAnswersForDowngrading = 2
)

// Challenge is a certification challenge: the item asked and the competence
// it certifies.
type Challenge struct {
	ChallengeID  string
	CompetenceID string
	Type         string
}

// TestedCompetence is a competence positioned before the certification test,
// with the level and score the user reached.
type TestedCompetence struct {
	ID             string
	Index          string
	Name           string
	AreaCode       string
	EstimatedLevel int
	PixScore       int
}

// CompetenceMark is the certified outcome of one competence.
type CompetenceMark struct {
	CompetenceID string
	Index        string
	Name         string
	AreaCode     string
	Level        int
	Score        int
}

// Result is the outcome of scoring a certification test.
type Result struct {
	CompetencesWithMark      []CompetenceMark
	TotalScore               int
	PercentageCorrectAnswers float64
}

// Options tunes scoring.
type Options struct {
	// Strict rejects a test in which a competence has fewer answers than
	// certification challenges.
	Strict bool
}

// ErrNotEnoughAnswers is returned in strict mode when a competence was not
// fully answered.
type ErrNotEnoughAnswers struct {
	CompetenceID string
	Answers      int
	Challenges   int
}

func (e *ErrNotEnoughAnswers) Error() string {
	return fmt.Sprintf("competence %q: %d answers for %d challenges", e.CompetenceID, e.Answers, e.Challenges)
}

// ReproducibilityRate returns the percentage of correct answers. A QROCM-dep
// challenge is worth two on both sides of the ratio: a correct answer scores
// two out of two and a partial one scores one out of two. Answers to
// challenges absent from challenges weigh one.
func ReproducibilityRate(answers []assessment.Answer, challenges []Challenge) float64 {
	byID := make(map[string]Challenge, len(challenges))
	for _, c := range challenges {
		byID[c.ChallengeID] = c
	}

	var correct, total int
	for _, a := range answers {
		c := byID[a.ChallengeID]
		correct += answerWeight(a, c)
		total += challengeWeight(c)
	}
	if total == 0 {
		return 0
	}
	return 100 * float64(correct) / float64(total)
}

func challengeWeight(c Challenge) int {
	if c.Type == assessment.TypeQROCMDep {
		return 2
	}
	return 1
}

// answerWeight is the number of correct answers a is worth.
func answerWeight(a assessment.Answer, c Challenge) int {
	switch {
	case c.Type == assessment.TypeQROCMDep && a.IsOK():
		return 2
	case c.Type == assessment.TypeQROCMDep && a.IsPartially():
		return 1
	case a.IsOK():
		return 1
	}
	return 0
}

// correctAnswers counts the correct answers given to a competence's
// challenges, weighted like the reproducibility rate.
func correctAnswers(answers []assessment.Answer, challenges map[string]Challenge) int {
	var n int
	for _, a := range answers {
		if c, ok := challenges[a.ChallengeID]; ok {
			n += answerWeight(a, c)
		}
	}
	return n
}

// Score computes the certified level and score of every tested competence.
func Score(answers []assessment.Answer, challenges []Challenge, competences []TestedCompetence, opts Options) (Result, error) {
	byCompetence := make(map[string]map[string]Challenge)
	for _, c := range challenges {
		if byCompetence[c.CompetenceID] == nil {
			byCompetence[c.CompetenceID] = make(map[string]Challenge)
		}
		byCompetence[c.CompetenceID][c.ChallengeID] = c
	}

	rate := ReproducibilityRate(answers, challenges)
	res := Result{
		CompetencesWithMark:      make([]CompetenceMark, 0, len(competences)),
		PercentageCorrectAnswers: rate,
	}

	for _, comp := range competences {
		own := byCompetence[comp.ID]
		answered := answersFor(answers, own)
		if opts.Strict && len(answered) < len(own) {
			return Result{}, &ErrNotEnoughAnswers{CompetenceID: comp.ID, Answers: len(answered), Challenges: len(own)}
		}

		mark := CompetenceMark{
			CompetenceID: comp.ID,
			Index:        comp.Index,
			Name:         comp.Name,
			AreaCode:     comp.AreaCode,
			Level:        UncertifiedLevel,
		}

		correct := correctAnswers(answered, own)
		switch {
		case rate < minimumReproducibilityRate, correct < minimumCorrectAnswers:
			// uncertified
		case correct == correctAnswersForDowngrading && rate < trustedReproducibilityRate:
			mark.Level = comp.EstimatedLevel - 1
			mark.Score = comp.PixScore - PixPerLevel
		default:
			mark.Level = comp.EstimatedLevel
			mark.Score = comp.PixScore
		}

		res.TotalScore += mark.Score
		res.CompetencesWithMark = append(res.CompetencesWithMark, mark)
	}
	return res, nil
}

func answersFor(answers []assessment.Answer, challenges map[string]Challenge) []assessment.Answer {
	var out []assessment.Answer
	for _, a := range answers {
		if _, ok := challenges[a.ChallengeID]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Status is the verdict of a certification.
type Status string

const (
	StatusValidated Status = "validated"
	StatusRejected  Status = "rejected"
)

// StatusOf returns validated when the certification earned a positive score.
func StatusOf(r Result) Status {
	if r.TotalScore > 0 {
		return StatusValidated
	}
	return StatusRejected
}
