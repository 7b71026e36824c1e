// Package smartrandom implements the tube-based next-challenge selection used
// for placement assessments. Every call re-derives the course, the known
// skills and the predicted level from its inputs.
package smartrandom

import (
	"errors"
	"fmt"

	"github.com/abhisek/pixengine/internal/assessment"
	"github.com/abhisek/pixengine/internal/skillgraph"
)

// ErrUnknownChallenge is returned when an answer references a challenge that
// is not part of the pool.
var ErrUnknownChallenge = errors.New("answer references an unknown challenge")

// firstLevels is the order in which skill levels are tried for the first
// question of an assessment.
var firstLevels = []int{2, 1, 3, 4, 5, 6, 7, 8}

// Picker chooses among n equally preferable options and returns the index of
// the chosen one.
type Picker interface {
	Pick(n int) int
}

// FirstPicker always picks the first option.
type FirstPicker struct{}

func (FirstPicker) Pick(int) int { return 0 }

// Input is everything a selection is computed from.
type Input struct {
	TargetSkills      []skillgraph.Skill
	Challenges        []assessment.Challenge
	Answers           []assessment.Answer // in the order they were given
	KnowledgeElements []assessment.KnowledgeElement
}

// Option configures a SmartRandom.
type Option func(*SmartRandom)

// WithPicker sets the tie-breaking policy.
func WithPicker(p Picker) Option {
	return func(s *SmartRandom) {
		if p != nil {
			s.picker = p
		}
	}
}

// SmartRandom selects the next challenge of a placement assessment.
type SmartRandom struct {
	input  Input
	picker Picker
}

// New creates a selector over the given input.
func New(in Input, opts ...Option) *SmartRandom {
	s := &SmartRandom{input: in, picker: FirstPicker{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Selection is the outcome of a selection step. Challenge is nil when no
// remaining challenge brings new information.
type Selection struct {
	Challenge *assessment.Challenge
	Skill     skillgraph.Skill

	// PredictedLevel is the level the choice was based on. It is zero for
	// the first question.
	PredictedLevel float64

	// Candidates are the skills tied for the choice, in course order.
	Candidates []skillgraph.Skill

	// Challenges are the eligible challenges of the candidate skills.
	Challenges []assessment.Challenge
}

type candidate struct {
	skill      skillgraph.Skill
	challenges []assessment.Challenge
}

// NextChallenge returns the next challenge to ask, or nil when the
// assessment should end.
func (s *SmartRandom) NextChallenge() (*assessment.Challenge, error) {
	sel, err := s.Select()
	if err != nil {
		return nil, err
	}
	return sel.Challenge, nil
}

// Select runs the selection and reports how the choice was made.
func (s *SmartRandom) Select() (Selection, error) {
	in := s.input
	index := assessment.IndexChallenges(in.Challenges)
	for _, a := range in.Answers {
		if _, ok := index[a.ChallengeID]; !ok {
			return Selection{}, fmt.Errorf("%w: %q", ErrUnknownChallenge, a.ChallengeID)
		}
	}

	course := BuildCourse(in.TargetSkills, in.Challenges)
	known := mergeKnowledge(in.KnowledgeElements, in.Answers, index, course)
	unknown := unknownByTube(course, known)
	cands := candidates(course, in.Challenges, known)

	if len(in.Answers) == 0 {
		return s.pick(firstQuestion(cands), 0), nil
	}

	level := predictedLevel(in.Answers, index, in.KnowledgeElements, course)
	cands = withinReach(cands, level)
	cands = preferEasyTubes(cands, unknown, answeredTubes(in.Answers, index))
	if last := index[in.Answers[len(in.Answers)-1].ChallengeID]; last.IsTimed() {
		cands = preferUntimed(cands)
	}
	cands = mostRewarding(cands, level, unknown)

	return s.pick(cands, level), nil
}

func (s *SmartRandom) pick(cands []candidate, level float64) Selection {
	sel := Selection{PredictedLevel: level}
	if len(cands) == 0 {
		return sel
	}
	for _, c := range cands {
		sel.Candidates = append(sel.Candidates, c.skill)
		sel.Challenges = append(sel.Challenges, c.challenges...)
	}

	chosen := cands[clamp(s.picker.Pick(len(cands)), len(cands))]
	ch := chosen.challenges[clamp(s.picker.Pick(len(chosen.challenges)), len(chosen.challenges))]
	sel.Challenge = &ch
	sel.Skill = chosen.skill
	return sel
}

func clamp(i, n int) int {
	if i < 0 || i >= n {
		return 0
	}
	return i
}

// unknownByTube lists, per tube, the skills no knowledge element covers yet.
func unknownByTube(course Course, known knowledge) map[string][]skillgraph.Skill {
	out := make(map[string][]skillgraph.Skill, len(course.Tubes))
	for _, t := range course.Tubes {
		for _, s := range t.Skills {
			if !known.known(s.ID) {
				out[t.Name] = append(out[t.Name], s)
			}
		}
	}
	return out
}

// candidates returns the unknown skills of the course with the active
// challenges that test no known skill.
func candidates(course Course, challenges []assessment.Challenge, known knowledge) []candidate {
	var out []candidate
	for _, s := range course.Skills() {
		if known.known(s.ID) {
			continue
		}
		var eligible []assessment.Challenge
		for _, c := range challenges {
			if c.IsArchived() || !c.HasSkill(s.ID) || testsKnownSkill(c, known) {
				continue
			}
			eligible = append(eligible, c)
		}
		if len(eligible) > 0 {
			out = append(out, candidate{skill: s, challenges: eligible})
		}
	}
	return out
}

func testsKnownSkill(c assessment.Challenge, known knowledge) bool {
	for _, s := range c.Skills {
		if known.known(s.ID) {
			return true
		}
	}
	return false
}

// firstQuestion prefers untimed challenges at level 2, then 1, then the
// lowest level above. Without any untimed challenge it falls back to the
// lowest level available.
func firstQuestion(cands []candidate) []candidate {
	untimed := untimedOnly(cands)
	for _, level := range firstLevels {
		if at := atLevel(untimed, level); len(at) > 0 {
			return at
		}
	}

	lowest := skillgraph.MaxDifficulty + 1
	for _, c := range cands {
		lowest = min(lowest, c.skill.Difficulty)
	}
	return atLevel(cands, lowest)
}

func atLevel(cands []candidate, level int) []candidate {
	var out []candidate
	for _, c := range cands {
		if c.skill.Difficulty == level {
			out = append(out, c)
		}
	}
	return out
}

// withinReach drops skills more than maxJump levels above the prediction.
func withinReach(cands []candidate, level float64) []candidate {
	var out []candidate
	for _, c := range cands {
		if float64(c.skill.Difficulty)-level <= maxJump {
			out = append(out, c)
		}
	}
	return out
}

// answeredTubes lists the tubes a challenge of the assessment was asked in.
func answeredTubes(answers []assessment.Answer, index map[string]assessment.Challenge) map[string]bool {
	out := make(map[string]bool)
	for _, a := range answers {
		for _, s := range index[a.ChallengeID].Skills {
			out[s.TubeName] = true
		}
	}
	return out
}

// preferEasyTubes keeps the candidates of unexplored easy tubes: tubes no
// answer was given in that still hold an untried skill of level easyTubeMax
// or below. Without such a candidate every tube stays eligible.
func preferEasyTubes(cands []candidate, unknown map[string][]skillgraph.Skill, answered map[string]bool) []candidate {
	var easy []candidate
	for _, c := range cands {
		name := c.skill.TubeName
		if answered[name] {
			continue
		}
		if t := (skillgraph.Tube{Name: name, Skills: unknown[name]}); t.HasSkillUpTo(easyTubeMax) {
			easy = append(easy, c)
		}
	}
	if len(easy) == 0 {
		return cands
	}
	return easy
}

// preferUntimed restricts candidates to their untimed challenges, when any
// candidate has one.
func preferUntimed(cands []candidate) []candidate {
	if untimed := untimedOnly(cands); len(untimed) > 0 {
		return untimed
	}
	return cands
}

func untimedOnly(cands []candidate) []candidate {
	var out []candidate
	for _, c := range cands {
		var untimed []assessment.Challenge
		for _, ch := range c.challenges {
			if !ch.IsTimed() {
				untimed = append(untimed, ch)
			}
		}
		if len(untimed) > 0 {
			out = append(out, candidate{skill: c.skill, challenges: untimed})
		}
	}
	return out
}

// reward is the expected number of tube skills resolved by asking s: on
// success every unknown easier skill, on failure every unknown harder one.
func reward(s skillgraph.Skill, level float64, tubeUnknown []skillgraph.Skill) float64 {
	var easier, harder int
	for _, u := range tubeUnknown {
		if u.Difficulty <= s.Difficulty {
			easier++
		}
		if u.Difficulty >= s.Difficulty {
			harder++
		}
	}
	p := successProbability(level, s.Difficulty)
	return p*float64(easier) + (1-p)*float64(harder)
}

// mostRewarding keeps the candidates tied for the highest reward.
func mostRewarding(cands []candidate, level float64, unknown map[string][]skillgraph.Skill) []candidate {
	if len(cands) == 0 {
		return nil
	}
	rewards := make([]float64, len(cands))
	best := 0.0
	for i, c := range cands {
		rewards[i] = reward(c.skill, level, unknown[c.skill.TubeName])
		best = max(best, rewards[i])
	}

	var out []candidate
	for i, c := range cands {
		if rewards[i] == best {
			out = append(out, c)
		}
	}
	return out
}
