package irt

import (
	"fmt"
	"math"

	"github.com/abhisek/pixengine/internal/assessment"
)

const (
	// DefaultEstimatedLevel is the ability assumed before any answer.
	DefaultEstimatedLevel = 0.0
	// DefaultErrorRate is the uncertainty reported before any answer.
	DefaultErrorRate = 5.0

	priorVariance = 1.5
	samplesStart  = -9.0
	samplesCount  = 81
	samplesStep   = 18.0 / 80

	mleTolerance     = 1e-12
	mleMaxIterations = 100
	mleMaxAbsLevel   = 20.0
)

// samples is the ability grid the posterior is evaluated on, and prior the
// normalised N(0, 1.5) weight of each sample.
var samples, prior = buildGrid()

func buildGrid() ([]float64, []float64) {
	s := make([]float64, samplesCount)
	p := make([]float64, samplesCount)
	var total float64
	for i := range s {
		s[i] = samplesStart + float64(i)*samplesStep
		p[i] = math.Exp(s[i] * s[i] / (-2 * priorVariance))
		total += p[i]
	}
	for i := range p {
		p[i] /= total
	}
	return s, p
}

// Method selects how the ability level is estimated.
type Method string

const (
	// MethodEAP is the expected a-posteriori estimate under a Gaussian prior.
	MethodEAP Method = "eap"
	// MethodMLE is the maximum-likelihood estimate found by Newton-Raphson.
	MethodMLE Method = "mle"
)

// Level estimates the ability level with the given method.
func (m Method) Level(answers []assessment.Answer, challenges []assessment.Challenge) (float64, error) {
	switch m {
	case MethodEAP, "":
		return EstimatedLevel(answers, challenges)
	case MethodMLE:
		return MaximumLikelihood(answers, challenges)
	default:
		return 0, fmt.Errorf("unknown estimation method %q", m)
	}
}

// Estimation is an ability estimate with its uncertainty.
type Estimation struct {
	Level     float64
	ErrorRate float64 // posterior standard deviation
}

type observation struct {
	discriminant float64
	difficulty   float64
	correct      bool
}

// observations resolves answers against the challenge pool in answer order.
func observations(answers []assessment.Answer, challenges []assessment.Challenge) ([]observation, error) {
	index := assessment.IndexChallenges(challenges)
	obs := make([]observation, 0, len(answers))
	for _, a := range answers {
		c, ok := index[a.ChallengeID]
		if !ok {
			return nil, &ErrUnknownChallenge{ChallengeID: a.ChallengeID}
		}
		if err := ValidateItem(c); err != nil {
			return nil, err
		}
		obs = append(obs, observation{
			discriminant: c.Discriminant,
			difficulty:   c.Difficulty,
			correct:      a.IsOK(),
		})
	}
	return obs, nil
}

// EstimatedLevel returns the ability estimate for the answer sequence.
// Zero answers yield DefaultEstimatedLevel.
func EstimatedLevel(answers []assessment.Answer, challenges []assessment.Challenge) (float64, error) {
	est, err := Estimate(answers, challenges)
	if err != nil {
		return 0, err
	}
	return est.Level, nil
}

// Estimate computes the expected a-posteriori ability and its error rate.
// Answers are folded in order; only ResultOK counts as correct.
func Estimate(answers []assessment.Answer, challenges []assessment.Challenge) (Estimation, error) {
	if len(answers) == 0 {
		return Estimation{Level: DefaultEstimatedLevel, ErrorRate: DefaultErrorRate}, nil
	}

	obs, err := observations(answers, challenges)
	if err != nil {
		return Estimation{}, err
	}

	weights := make([]float64, samplesCount)
	copy(weights, prior)

	for n, o := range obs {
		var total float64
		for i, s := range samples {
			p := Probability(s, o.discriminant, o.difficulty)
			if !o.correct {
				p = 1 - p
			}
			weights[i] *= p
			total += weights[i]
		}
		if total == 0 || math.IsNaN(total) {
			return Estimation{}, fmt.Errorf("%w after answer %d", ErrDegeneratePosterior, n+1)
		}
		for i := range weights {
			weights[i] /= total
		}
	}

	var level float64
	for i, w := range weights {
		level += w * samples[i]
	}
	var variance float64
	for i, w := range weights {
		d := samples[i] - level
		variance += w * d * d
	}

	return Estimation{Level: level, ErrorRate: math.Sqrt(variance)}, nil
}

// MaximumLikelihood returns the ability maximising the 2PL likelihood of the
// answer pattern, found by Newton-Raphson on the score function. Patterns
// without a finite optimum yield ErrNoConvergence.
func MaximumLikelihood(answers []assessment.Answer, challenges []assessment.Challenge) (float64, error) {
	if len(answers) == 0 {
		return DefaultEstimatedLevel, nil
	}

	obs, err := observations(answers, challenges)
	if err != nil {
		return 0, err
	}

	level := DefaultEstimatedLevel
	for iter := 1; iter <= mleMaxIterations; iter++ {
		var score, curvature float64
		for _, o := range obs {
			p := Probability(level, o.discriminant, o.difficulty)
			u := 0.0
			if o.correct {
				u = 1
			}
			score += o.discriminant * (u - p)
			curvature -= o.discriminant * o.discriminant * p * (1 - p)
		}
		if curvature == 0 || math.IsNaN(curvature) {
			return 0, fmt.Errorf("%w: flat likelihood at level %g", ErrNoConvergence, level)
		}

		step := score / curvature
		level -= step
		if math.IsNaN(level) || math.Abs(level) > mleMaxAbsLevel {
			return 0, fmt.Errorf("%w: diverged after %d iterations", ErrNoConvergence, iter)
		}
		if math.Abs(step) < mleTolerance {
			return level, nil
		}
	}
	return 0, fmt.Errorf("%w after %d iterations", ErrNoConvergence, mleMaxIterations)
}
