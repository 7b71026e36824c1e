package session

import (
	"context"
	"time"

	"github.com/abhisek/pixengine/internal/assessment"
	"github.com/abhisek/pixengine/internal/store"
)

// SkillResult is the outcome recorded for one skill of the profile.
type SkillResult struct {
	SkillID   string
	SkillName string
	Status    assessment.KnowledgeStatus // empty until a knowledge element exists
	Source    assessment.KnowledgeSource
}

// Summary holds what is displayed about an assessment.
type Summary struct {
	Assessment     store.Assessment
	Duration       time.Duration
	TotalQuestions int
	TotalCorrect   int
	Accuracy       float64
	Answers        []assessment.Answer
	SkillResults   []SkillResult
}

// Show summarises the assessment: its answers and the knowledge elements
// recorded for each skill of its profile.
func (s *Service) Show(ctx context.Context, id string) (*Summary, error) {
	a, p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	answers, err := s.assessments.Answers(ctx, id)
	if err != nil {
		return nil, err
	}
	kes, err := s.assessments.KnowledgeElements(ctx, id)
	if err != nil {
		return nil, err
	}

	byskill := make(map[string]assessment.KnowledgeElement, len(kes))
	for _, ke := range kes {
		if _, seen := byskill[ke.SkillID]; !seen {
			byskill[ke.SkillID] = ke
		}
	}

	sum := &Summary{
		Assessment:     *a,
		TotalQuestions: len(answers),
		Answers:        answers,
	}
	for _, ans := range answers {
		if ans.IsOK() {
			sum.TotalCorrect++
		}
	}
	if sum.TotalQuestions > 0 {
		sum.Accuracy = float64(sum.TotalCorrect) / float64(sum.TotalQuestions)
	}
	if !a.CompletedAt.IsZero() {
		sum.Duration = a.CompletedAt.Sub(a.CreatedAt)
	}

	for _, sk := range p.profile.Skills {
		r := SkillResult{SkillID: sk.ID, SkillName: sk.Name}
		if ke, ok := byskill[sk.ID]; ok {
			r.Status = ke.Status
			r.Source = ke.Source
		}
		sum.SkillResults = append(sum.SkillResults, r)
	}
	return sum, nil
}
