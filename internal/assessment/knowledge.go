package assessment

// KnowledgeStatus is the verdict a knowledge element carries about a skill.
type KnowledgeStatus string

const (
	KnowledgeValidated   KnowledgeStatus = "validated"
	KnowledgeInvalidated KnowledgeStatus = "invalidated"
)

// KnowledgeSource tells whether a verdict comes from answering the skill's
// challenge or was inferred from a sibling skill of the same tube.
type KnowledgeSource string

const (
	SourceDirect   KnowledgeSource = "direct"
	SourceIndirect KnowledgeSource = "indirect"
)

// KnowledgeElement is a derived verdict about a user's mastery of a skill.
type KnowledgeElement struct {
	SkillID     string
	Status      KnowledgeStatus
	Source      KnowledgeSource
	ChallengeID string // challenge whose answer produced the verdict, if any
}

// IsValidated reports whether the skill is considered acquired.
func (ke KnowledgeElement) IsValidated() bool {
	return ke.Status == KnowledgeValidated
}

// IsDirect reports whether the verdict comes from a direct answer.
func (ke KnowledgeElement) IsDirect() bool {
	return ke.Source == SourceDirect
}
