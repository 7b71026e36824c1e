package play

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pixengine/internal/assessment"
	"github.com/abhisek/pixengine/internal/ui/layout"
	"github.com/abhisek/pixengine/internal/ui/theme"
)

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	header := layout.RenderHeader(m.title(), fmt.Sprintf("%s · %d answered", m.method, m.step.Answered), m.width)
	footer := layout.RenderFooter(m.keys.bindings(), m.width)
	v.SetContent(layout.RenderFrame(header, m.content(), footer, m.width, m.height))
	return v
}

func (m Model) title() string {
	if m.summary != nil {
		return "Results"
	}
	return "Assessment " + shortID(m.assessmentID)
}

func (m Model) content() string {
	switch {
	case m.err != nil:
		return theme.Invalidated.Render("Error: " + m.err.Error())
	case m.summary != nil:
		return m.renderSummary()
	case m.busy || m.step.Challenge == nil:
		return theme.Hint.Render("Selecting the next challenge...")
	}
	return m.renderChallenge()
}

func (m Model) renderChallenge() string {
	c := m.step.Challenge

	var b strings.Builder
	b.WriteString(theme.Title.Render("Challenge "+c.ID) + "\n\n")

	names := make([]string, len(c.Skills))
	for i, s := range c.Skills {
		names[i] = s.Name
	}
	fmt.Fprintf(&b, "Skills  %s\n", strings.Join(names, ", "))
	if c.Type != "" {
		fmt.Fprintf(&b, "Type    %s\n", c.Type)
	}
	if c.IsTimed() {
		fmt.Fprintf(&b, "Timer   %ds\n", c.Timer)
	}
	fmt.Fprintf(&b, "Level   %.2f\n", m.step.EstimatedLevel)

	if len(m.last) > 0 {
		b.WriteString("\n" + theme.Hint.Render("Previous answer:") + "\n")
		for _, ke := range m.last {
			b.WriteString("  " + renderKnowledge(ke) + "\n")
		}
	}
	return theme.Card.Width(min(m.width-4, 72)).Render(b.String())
}

func (m Model) renderSummary() string {
	s := m.summary

	var b strings.Builder
	b.WriteString(theme.Title.Render("Assessment complete") + "\n\n")
	fmt.Fprintf(&b, "%d of %d correct\n", s.TotalCorrect, s.TotalQuestions)
	b.WriteString(layout.RenderProgress(s.TotalCorrect, s.TotalQuestions, 30) +
		fmt.Sprintf(" %3.0f%%\n\n", s.Accuracy*100))

	rows := make([]string, 0, len(s.SkillResults))
	for _, r := range s.SkillResults {
		status := theme.Unknown.Render("not assessed")
		switch r.Status {
		case assessment.KnowledgeValidated:
			status = theme.Validated.Render("validated")
		case assessment.KnowledgeInvalidated:
			status = theme.Invalidated.Render("invalidated")
		}
		if r.Source == assessment.SourceIndirect {
			status += theme.Hint.Render(" (inferred)")
		}
		rows = append(rows, fmt.Sprintf("%-12s %s", r.SkillName, status))
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return theme.Card.Width(min(m.width-4, 72)).Render(b.String())
}

func renderKnowledge(ke assessment.KnowledgeElement) string {
	style := theme.Invalidated
	if ke.IsValidated() {
		style = theme.Validated
	}
	line := style.Render(string(ke.Status)) + " " + ke.SkillID
	if !ke.IsDirect() {
		line += theme.Hint.Render(" (inferred)")
	}
	return line
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
