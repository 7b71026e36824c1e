// Package play is an interactive terminal run of an assessment: the engine
// picks each challenge and the operator records how it was answered.
package play

import (
	"context"
	"fmt"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pixengine/internal/assessment"
	"github.com/abhisek/pixengine/internal/session"
)

// Runner is the part of the session service the run needs.
type Runner interface {
	Next(ctx context.Context, id string) (session.Step, error)
	Answer(ctx context.Context, id, challengeID string, result assessment.Result) ([]assessment.KnowledgeElement, error)
	Show(ctx context.Context, id string) (*session.Summary, error)
}

// Model is the Bubble Tea model of an assessment run.
type Model struct {
	ctx          context.Context
	runner       Runner
	assessmentID string
	method       string
	keys         keyMap

	step    session.Step
	last    []assessment.KnowledgeElement
	summary *session.Summary
	err     error
	busy    bool

	width  int
	height int
}

// New creates a run of an already started assessment.
func New(ctx context.Context, runner Runner, assessmentID, method string) Model {
	keys := defaultKeyMap()
	keys.setAnswering(false)
	return Model{
		ctx:          ctx,
		runner:       runner,
		assessmentID: assessmentID,
		method:       method,
		keys:         keys,
		busy:         true,
	}
}

func (m Model) Init() tea.Cmd {
	return m.fetchNext()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case stepMsg:
		m.busy = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.step = msg.Step
		if msg.Step.Ended {
			m.keys.setAnswering(false)
			m.busy = true
			return m, m.fetchSummary()
		}
		m.keys.setAnswering(true)
		return m, nil

	case answeredMsg:
		if msg.Err != nil {
			m.busy = false
			m.err = msg.Err
			return m, nil
		}
		m.last = msg.KnowledgeElements
		return m, m.fetchNext()

	case summaryMsg:
		m.busy = false
		m.summary = msg.Summary
		m.err = msg.Err
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.busy || m.step.Challenge == nil {
		return m, nil
	}

	var result assessment.Result
	switch {
	case key.Matches(msg, m.keys.OK):
		result = assessment.ResultOK
	case key.Matches(msg, m.keys.KO):
		result = assessment.ResultKO
	case key.Matches(msg, m.keys.Partially):
		result = assessment.ResultPartially
	case key.Matches(msg, m.keys.Skip):
		result = assessment.ResultSkipped
	default:
		return m, nil
	}

	m.busy = true
	m.keys.setAnswering(false)
	return m, m.answer(m.step.Challenge.ID, result)
}

func (m Model) fetchNext() tea.Cmd {
	return func() tea.Msg {
		step, err := m.runner.Next(m.ctx, m.assessmentID)
		return stepMsg{Step: step, Err: err}
	}
}

func (m Model) answer(challengeID string, result assessment.Result) tea.Cmd {
	return func() tea.Msg {
		kes, err := m.runner.Answer(m.ctx, m.assessmentID, challengeID, result)
		return answeredMsg{KnowledgeElements: kes, Err: err}
	}
}

func (m Model) fetchSummary() tea.Cmd {
	return func() tea.Msg {
		sum, err := m.runner.Show(m.ctx, m.assessmentID)
		return summaryMsg{Summary: sum, Err: err}
	}
}

// Summary returns the final summary, or nil while the run is in progress.
func (m Model) Summary() *session.Summary {
	return m.summary
}

// Run plays the assessment in the terminal until it ends or the user quits.
func Run(ctx context.Context, runner Runner, assessmentID, method string) error {
	p := tea.NewProgram(New(ctx, runner, assessmentID, method))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("run assessment: %w", err)
	}
	if m, ok := final.(Model); ok && m.err != nil {
		return m.err
	}
	return nil
}
