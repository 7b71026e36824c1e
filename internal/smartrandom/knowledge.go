package smartrandom

import "github.com/abhisek/pixengine/internal/assessment"

// KnowledgeFromAnswer derives the knowledge elements implied by one answer.
// A correct answer validates the tested skills and, indirectly, every easier
// skill of their tubes. Any other result invalidates the tested skills and
// every harder skill of their tubes.
func KnowledgeFromAnswer(a assessment.Answer, c assessment.Challenge, course Course) []assessment.KnowledgeElement {
	status := assessment.KnowledgeInvalidated
	if a.IsOK() {
		status = assessment.KnowledgeValidated
	}

	var out []assessment.KnowledgeElement
	for _, s := range c.Skills {
		out = append(out, assessment.KnowledgeElement{
			SkillID:     s.ID,
			Status:      status,
			Source:      assessment.SourceDirect,
			ChallengeID: c.ID,
		})

		t, ok := course.Tube(s.TubeName)
		if !ok {
			continue
		}
		related := t.HarderThan(s)
		if a.IsOK() {
			related = t.EasierThan(s)
		}
		for _, r := range related {
			if r.ID == s.ID {
				continue
			}
			out = append(out, assessment.KnowledgeElement{
				SkillID:     r.ID,
				Status:      status,
				Source:      assessment.SourceIndirect,
				ChallengeID: c.ID,
			})
		}
	}
	return out
}

// knowledge indexes the verdict known for each skill.
type knowledge map[string]assessment.KnowledgeElement

// add records ke unless a verdict already exists. A direct verdict replaces
// an indirect one.
func (k knowledge) add(ke assessment.KnowledgeElement) {
	prev, ok := k[ke.SkillID]
	if !ok || (ke.IsDirect() && !prev.IsDirect()) {
		k[ke.SkillID] = ke
	}
}

func (k knowledge) known(skillID string) bool {
	_, ok := k[skillID]
	return ok
}

// mergeKnowledge combines the supplied knowledge elements with the facts
// derived from the answers of the current assessment.
func mergeKnowledge(supplied []assessment.KnowledgeElement, answers []assessment.Answer, index map[string]assessment.Challenge, course Course) knowledge {
	k := make(knowledge, len(supplied))
	for _, ke := range supplied {
		k.add(ke)
	}
	for _, a := range answers {
		c, ok := index[a.ChallengeID]
		if !ok {
			continue
		}
		for _, ke := range KnowledgeFromAnswer(a, c, course) {
			k.add(ke)
		}
	}
	return k
}
