// Package session runs assessments: it ties the item bank, the persisted
// answers and the configured selection strategy together.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/pixengine/internal/assessment"
	"github.com/abhisek/pixengine/internal/bank"
	"github.com/abhisek/pixengine/internal/certification"
	"github.com/abhisek/pixengine/internal/irt"
	"github.com/abhisek/pixengine/internal/logger"
	"github.com/abhisek/pixengine/internal/selector"
	"github.com/abhisek/pixengine/internal/skillgraph"
	"github.com/abhisek/pixengine/internal/smartrandom"
	"github.com/abhisek/pixengine/internal/store"
)

var (
	// ErrAssessmentCompleted is returned when answering a completed assessment.
	ErrAssessmentCompleted = errors.New("assessment already completed")

	// ErrChallengeNotInPool is returned when answering a challenge outside
	// the assessment's target profile.
	ErrChallengeNotInPool = errors.New("challenge is not part of the assessment")

	// ErrSkillAlreadyAnswered is returned when a challenge tests a skill an
	// earlier answer of the assessment already covers.
	ErrSkillAlreadyAnswered = errors.New("skill already answered in this assessment")
)

// Service orchestrates assessments.
type Service struct {
	banks       store.BankRepo
	assessments store.AssessmentRepo
	results     store.ResultRepo
	strategy    selector.Strategy
	log         *logger.Logger

	now   func() time.Time
	newID func() string
}

// NewService creates a Service. A nil logger discards logs.
func NewService(banks store.BankRepo, assessments store.AssessmentRepo, results store.ResultRepo, strategy selector.Strategy, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		banks:       banks,
		assessments: assessments,
		results:     results,
		strategy:    strategy,
		log:         log,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// StartInput describes the assessment to start. SkillIDs, when set, take
// precedence over TargetProfileID; neither selects the whole bank.
type StartInput struct {
	UserID          string
	Bank            string
	TargetProfileID string
	SkillIDs        []string
}

// Step is the outcome of asking for the next challenge.
type Step struct {
	Challenge      *assessment.Challenge
	Ended          bool
	EstimatedLevel float64
	Answered       int
}

// pool is the material an assessment draws from.
type pool struct {
	bank       *bank.Bank
	profile    skillgraph.TargetProfile
	challenges []assessment.Challenge
}

// Start creates a new assessment.
func (s *Service) Start(ctx context.Context, in StartInput) (*store.Assessment, error) {
	b, err := s.banks.LoadBank(ctx, in.Bank)
	if err != nil {
		return nil, err
	}

	var tp skillgraph.TargetProfile
	if len(in.SkillIDs) > 0 {
		tp, err = b.Graph().TargetProfile(in.TargetProfileID, in.SkillIDs)
	} else {
		tp, err = b.TargetProfile(in.TargetProfileID)
	}
	if err != nil {
		return nil, err
	}

	a := &store.Assessment{
		ID:              s.newID(),
		UserID:          in.UserID,
		Bank:            in.Bank,
		Method:          string(s.strategy.Method()),
		TargetProfileID: tp.ID,
		SkillIDs:        tp.SkillIDs(),
		State:           store.StateStarted,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.assessments.Create(ctx, a); err != nil {
		return nil, err
	}

	s.log.Info("assessment started",
		"assessment", a.ID, "user", a.UserID, "method", a.Method, "skills", len(a.SkillIDs))
	return a, nil
}

func (s *Service) load(ctx context.Context, id string) (*store.Assessment, *pool, error) {
	a, err := s.assessments.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	b, err := s.banks.LoadBank(ctx, a.Bank)
	if err != nil {
		return nil, nil, err
	}
	tp, err := b.Graph().TargetProfile(a.TargetProfileID, a.SkillIDs)
	if err != nil {
		return nil, nil, err
	}
	return a, &pool{bank: b, profile: tp, challenges: b.ChallengesFor(tp)}, nil
}

// Next returns the next challenge of the assessment. When the strategy has
// nothing left to ask, the assessment is marked completed.
func (s *Service) Next(ctx context.Context, id string) (Step, error) {
	a, p, err := s.load(ctx, id)
	if err != nil {
		return Step{}, err
	}
	answers, err := s.assessments.Answers(ctx, id)
	if err != nil {
		return Step{}, err
	}
	if a.State == store.StateCompleted {
		return Step{Ended: true, Answered: len(answers)}, nil
	}
	kes, err := s.assessments.KnowledgeElements(ctx, id)
	if err != nil {
		return Step{}, err
	}

	d, err := s.strategy.Next(selector.Input{
		TargetSkills:      p.profile.Skills,
		Challenges:        p.challenges,
		Answers:           answers,
		KnowledgeElements: kes,
	})
	if err != nil {
		s.log.Error("challenge selection failed", "assessment", id, "error", err)
		return Step{}, fmt.Errorf("select next challenge: %w", err)
	}

	step := Step{
		Challenge:      d.Challenge,
		Ended:          d.HasAssessmentEnded || d.Challenge == nil,
		EstimatedLevel: d.EstimatedLevel,
		Answered:       len(answers),
	}
	if step.Ended {
		step.Challenge = nil
		if err := s.assessments.Complete(ctx, id, s.now()); err != nil {
			return Step{}, err
		}
		s.log.Info("assessment completed", "assessment", id, "answers", len(answers))
		return step, nil
	}

	s.log.Debug("challenge selected",
		"assessment", id, "challenge", d.Challenge.ID, "candidates", len(d.Candidates), "level", d.EstimatedLevel)
	return step, nil
}

// Answer records the result of a challenge along with the knowledge
// elements it implies, and returns the newly recorded elements.
func (s *Service) Answer(ctx context.Context, id, challengeID string, result assessment.Result) ([]assessment.KnowledgeElement, error) {
	a, p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.State == store.StateCompleted {
		return nil, fmt.Errorf("assessment %q: %w", id, ErrAssessmentCompleted)
	}

	index := assessment.IndexChallenges(p.challenges)
	c, ok := index[challengeID]
	if !ok {
		return nil, fmt.Errorf("challenge %q: %w", challengeID, ErrChallengeNotInPool)
	}

	answers, err := s.assessments.Answers(ctx, id)
	if err != nil {
		return nil, err
	}
	answered := assessment.AnsweredSkillIDs(answers, index)
	for _, a := range answers {
		if a.ChallengeID == challengeID {
			return nil, fmt.Errorf("challenge %q: %w", challengeID, store.ErrAnswerExists)
		}
	}
	for _, sk := range c.Skills {
		if answered[sk.ID] {
			return nil, fmt.Errorf("challenge %q, skill %q: %w", challengeID, sk.ID, ErrSkillAlreadyAnswered)
		}
	}

	existing, err := s.assessments.KnowledgeElements(ctx, id)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(existing))
	for _, ke := range existing {
		known[ke.SkillID] = true
	}

	ans := assessment.Answer{ChallengeID: challengeID, Result: result}
	course := smartrandom.BuildCourse(p.profile.Skills, p.challenges)
	var fresh []assessment.KnowledgeElement
	for _, ke := range smartrandom.KnowledgeFromAnswer(ans, c, course) {
		if known[ke.SkillID] {
			continue
		}
		known[ke.SkillID] = true
		fresh = append(fresh, ke)
	}
	if _, err := s.assessments.RecordAnswer(ctx, id, ans, fresh); err != nil {
		return nil, err
	}

	s.log.Debug("answer recorded",
		"assessment", id, "challenge", challengeID, "result", result, "knowledge_elements", len(fresh))
	return fresh, nil
}

// Estimate returns the ability estimate of the assessment so far.
func (s *Service) Estimate(ctx context.Context, id string) (irt.Estimation, error) {
	_, p, err := s.load(ctx, id)
	if err != nil {
		return irt.Estimation{}, err
	}
	answers, err := s.assessments.Answers(ctx, id)
	if err != nil {
		return irt.Estimation{}, err
	}
	return irt.Estimate(answers, p.challenges)
}

// Certify scores the assessment as a certification test, using the
// pre-computed positioning of each tested competence, and stores the result.
func (s *Service) Certify(ctx context.Context, id string, competences []certification.TestedCompetence, opts certification.Options) (certification.Result, error) {
	_, p, err := s.load(ctx, id)
	if err != nil {
		return certification.Result{}, err
	}
	answers, err := s.assessments.Answers(ctx, id)
	if err != nil {
		return certification.Result{}, err
	}

	res, err := certification.Score(answers, certificationChallenges(p.challenges), competences, opts)
	if err != nil {
		return certification.Result{}, fmt.Errorf("score certification: %w", err)
	}
	if err := s.results.SaveCertificationResult(ctx, id, res); err != nil {
		return certification.Result{}, err
	}

	s.log.Info("certification scored",
		"assessment", id, "total_score", res.TotalScore, "status", certification.StatusOf(res))
	return res, nil
}

// certificationChallenges maps each challenge to the competence of its first
// skill.
func certificationChallenges(challenges []assessment.Challenge) []certification.Challenge {
	out := make([]certification.Challenge, 0, len(challenges))
	for _, c := range challenges {
		if len(c.Skills) == 0 {
			continue
		}
		out = append(out, certification.Challenge{
			ChallengeID:  c.ID,
			CompetenceID: c.Skills[0].CompetenceID,
			Type:         c.Type,
		})
	}
	return out
}
