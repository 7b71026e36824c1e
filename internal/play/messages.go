package play

import (
	"github.com/abhisek/pixengine/internal/assessment"
	"github.com/abhisek/pixengine/internal/session"
)

// stepMsg carries the challenge chosen by the engine.
type stepMsg struct {
	Step session.Step
	Err  error
}

// answeredMsg is sent once an answer has been recorded.
type answeredMsg struct {
	KnowledgeElements []assessment.KnowledgeElement
	Err               error
}

// summaryMsg carries the summary shown when the assessment ends.
type summaryMsg struct {
	Summary *session.Summary
	Err     error
}
