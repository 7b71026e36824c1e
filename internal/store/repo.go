package store

import (
	"context"
	"time"

	"github.com/abhisek/pixengine/internal/assessment"
	"github.com/abhisek/pixengine/internal/bank"
	"github.com/abhisek/pixengine/internal/certification"
)

// BankInfo describes an imported bank.
type BankInfo struct {
	Name       string
	Version    string
	ImportedAt time.Time
}

// BankRepo stores item banks by name.
type BankRepo interface {
	// SaveBank stores the bank under name, replacing any previous import.
	SaveBank(ctx context.Context, name string, b *bank.Bank) error

	// LoadBank returns the bank imported under name, or ErrNotFound.
	LoadBank(ctx context.Context, name string) (*bank.Bank, error)

	// ListBanks returns the imported banks ordered by name.
	ListBanks(ctx context.Context) ([]BankInfo, error)
}

// AssessmentState tracks the lifecycle of an assessment.
type AssessmentState string

const (
	StateStarted   AssessmentState = "started"
	StateCompleted AssessmentState = "completed"
)

// Assessment is a persisted assessment run.
type Assessment struct {
	ID              string
	UserID          string
	Bank            string
	Method          string
	TargetProfileID string
	SkillIDs        []string
	State           AssessmentState
	CreatedAt       time.Time
	CompletedAt     time.Time // zero while started
}

// AssessmentRepo stores assessments with their answers and knowledge
// elements. Answers and knowledge elements are append-only.
type AssessmentRepo interface {
	Create(ctx context.Context, a *Assessment) error

	// Get returns the assessment, or ErrNotFound.
	Get(ctx context.Context, id string) (*Assessment, error)

	// AppendAnswer records an answer and returns its sequence number.
	// Answering the same challenge twice yields ErrAnswerExists.
	AppendAnswer(ctx context.Context, assessmentID string, a assessment.Answer) (int64, error)

	// Answers returns the answers in the order they were given.
	Answers(ctx context.Context, assessmentID string) ([]assessment.Answer, error)

	AppendKnowledgeElements(ctx context.Context, assessmentID string, kes []assessment.KnowledgeElement) error

	// RecordAnswer stores an answer and the knowledge elements it implies
	// in one transaction: either both are kept or neither is.
	RecordAnswer(ctx context.Context, assessmentID string, a assessment.Answer, kes []assessment.KnowledgeElement) (int64, error)

	// KnowledgeElements returns the knowledge elements in insertion order.
	KnowledgeElements(ctx context.Context, assessmentID string) ([]assessment.KnowledgeElement, error)

	// Complete marks the assessment completed. Completing twice is a no-op.
	Complete(ctx context.Context, assessmentID string, at time.Time) error
}

// CertificationRecord is a stored certification result.
type CertificationRecord struct {
	Sequence     int64
	AssessmentID string
	Result       certification.Result
	Status       certification.Status
	CreatedAt    time.Time
}

// ResultRepo stores certification results.
type ResultRepo interface {
	SaveCertificationResult(ctx context.Context, assessmentID string, r certification.Result) error

	// LatestCertificationResult returns the most recent result of the
	// assessment, or nil if none exist.
	LatestCertificationResult(ctx context.Context, assessmentID string) (*CertificationRecord, error)
}
