// Package selector exposes the challenge selection algorithms behind one
// interchangeable strategy, chosen by configuration.
package selector

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/abhisek/pixengine/internal/assessment"
	"github.com/abhisek/pixengine/internal/flash"
	"github.com/abhisek/pixengine/internal/skillgraph"
	"github.com/abhisek/pixengine/internal/smartrandom"
)

// Method names a selection algorithm.
type Method string

const (
	MethodFlash       Method = "flash"
	MethodSmartRandom Method = "smart-random"
)

// ErrUnknownMethod is returned for a method name that has no strategy.
var ErrUnknownMethod = errors.New("unknown selection method")

// ParseMethod converts a string into a Method.
func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case MethodFlash, MethodSmartRandom:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

// Config selects and tunes a strategy.
type Config struct {
	Method Method
	Flash  flash.Config

	// Picker breaks ties between equally good challenges. Nil picks the
	// first one.
	Picker smartrandom.Picker
}

// DefaultConfig returns the flash strategy with its default settings.
func DefaultConfig() Config {
	return Config{
		Method: MethodFlash,
		Flash:  flash.DefaultConfig(),
	}
}

// Input is the state of an assessment. TargetSkills are only used by the
// smart-random strategy.
type Input struct {
	TargetSkills      []skillgraph.Skill
	Challenges        []assessment.Challenge
	Answers           []assessment.Answer
	KnowledgeElements []assessment.KnowledgeElement
}

// Decision is the outcome of one selection step.
type Decision struct {
	Challenge          *assessment.Challenge
	HasAssessmentEnded bool

	// Candidates are the challenges the choice was made among.
	Candidates []assessment.Challenge

	// EstimatedLevel is the ability estimate (flash) or predicted level
	// (smart-random) the choice was based on.
	EstimatedLevel float64
}

// Strategy picks the next challenge of an assessment.
type Strategy interface {
	Method() Method
	Next(in Input) (Decision, error)

	strategy()
}

// New returns the strategy configured by cfg.
func New(cfg Config) (Strategy, error) {
	picker := cfg.Picker
	if picker == nil {
		picker = smartrandom.FirstPicker{}
	}

	switch cfg.Method {
	case MethodFlash:
		return &flashStrategy{cfg: cfg.Flash, picker: picker}, nil
	case MethodSmartRandom:
		return &smartRandomStrategy{picker: picker}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, cfg.Method)
	}
}

type flashStrategy struct {
	cfg    flash.Config
	picker smartrandom.Picker
}

func (*flashStrategy) Method() Method { return MethodFlash }
func (*flashStrategy) strategy()      {}

func (s *flashStrategy) Next(in Input) (Decision, error) {
	res, err := flash.PossibleNextChallenges(in.Answers, in.Challenges, s.cfg)
	if err != nil {
		return Decision{}, err
	}

	d := Decision{
		HasAssessmentEnded: res.HasAssessmentEnded,
		Candidates:         res.PossibleChallenges,
		EstimatedLevel:     res.EstimatedLevel,
	}
	if n := len(res.PossibleChallenges); n > 0 {
		i := s.picker.Pick(n)
		if i < 0 || i >= n {
			i = 0
		}
		c := res.PossibleChallenges[i]
		d.Challenge = &c
	}
	return d, nil
}

type smartRandomStrategy struct {
	picker smartrandom.Picker
}

func (*smartRandomStrategy) Method() Method { return MethodSmartRandom }
func (*smartRandomStrategy) strategy()      {}

func (s *smartRandomStrategy) Next(in Input) (Decision, error) {
	sel, err := smartrandom.New(smartrandom.Input{
		TargetSkills:      in.TargetSkills,
		Challenges:        in.Challenges,
		Answers:           in.Answers,
		KnowledgeElements: in.KnowledgeElements,
	}, smartrandom.WithPicker(s.picker)).Select()
	if err != nil {
		return Decision{}, err
	}

	return Decision{
		Challenge:          sel.Challenge,
		HasAssessmentEnded: sel.Challenge == nil,
		Candidates:         sel.Challenges,
		EstimatedLevel:     sel.PredictedLevel,
	}, nil
}

// RandomPicker breaks ties uniformly at random.
type RandomPicker struct {
	rng *rand.Rand
}

// NewRandomPicker returns a picker whose choices are reproducible for a
// given seed.
func NewRandomPicker(seed uint64) *RandomPicker {
	return &RandomPicker{rng: rand.New(rand.NewPCG(seed, seed))}
}

func (p *RandomPicker) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	return p.rng.IntN(n)
}
