package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizzy/internal/session"
	"github.com/abhisek/quizzy/internal/ui/components"
	"github.com/abhisek/quizzy/internal/ui/layout"
	"github.com/abhisek/quizzy/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	switch s.snap.Phase {
	case session.PhaseNotStarted:
		return s.renderIntro(width, height)
	case session.PhaseFinished:
		return s.renderFinished(width, height)
	case session.PhaseReviewing:
		return s.renderReview(width, height)
	default:
		return s.renderQuestion(width)
	}
}

func (s *Screen) renderIntro(width, height int) string {
	sn := s.snap
	cfg := sn.Config

	var b strings.Builder
	b.WriteString(theme.Title.Render("Ready?"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%d questions, %d seconds each.\n", sn.Total, cfg.TimerSeconds)
	if cfg.ShuffleOptionsPerQuestion {
		b.WriteString("Options are shuffled.\n")
	}
	if !cfg.AllowRevisit {
		b.WriteString("Answered questions cannot be revisited.\n")
	}
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("Press Enter to start"))

	cw := components.ContentWidth(width)
	return components.Frame(components.Card(lipgloss.NewStyle().Align(lipgloss.Center).Width(cw-6).Render(b.String()), cw), width, height)
}

func (s *Screen) renderQuestion(width int) string {
	sn := s.snap
	q := sn.Question
	if q == nil {
		return ""
	}
	cw := components.ContentWidth(width)

	var sections []string

	label := fmt.Sprintf("Question %d/%d", sn.Index+1, sn.Total)
	sections = append(sections, components.NewProgressBar(label, sn.Progress, true, cw).View())

	if sn.Phase == session.PhaseInProgress {
		sections = append(sections, theme.Timer(sn.TimeLeft).Render(fmt.Sprintf("⏱ %ds left", sn.TimeLeft)))
	} else if rec := sn.Record; rec != nil {
		sections = append(sections, verdict(*rec))
	}

	sections = append(sections,
		theme.Body.Bold(true).Width(cw).Render(q.Question),
		s.options.View(),
	)

	if sn.Phase == session.PhaseExplaining && q.Explanation != "" {
		sections = append(sections, theme.Explanation.Width(cw-2).Render(q.Explanation))
	}

	if s.prompt != nil {
		sections = append(sections, s.prompt.View())
	}

	sections = append(sections, components.StatusStrip{
		Statuses: sn.Statuses,
		Current:  sn.Index,
		Width:    cw,
	}.View())

	nav := []string{}
	if !sn.CanPrevious {
		nav = append(nav, "first question")
	}
	if !sn.CanNext {
		nav = append(nav, "last question: next finishes")
	}
	if len(nav) > 0 {
		sections = append(sections, theme.Hint.Render(strings.Join(nav, " · ")))
	}

	body := lipgloss.NewStyle().Width(cw).Render(strings.Join(sections, "\n\n"))
	return layout.Center("\n"+body, width)
}

func verdict(rec session.AnswerRecord) string {
	switch {
	case rec.Correct:
		return theme.Correct.Render("Correct!")
	case rec.None:
		return theme.Incorrect.Render("Time's up")
	default:
		return theme.Incorrect.Render("Not quite")
	}
}

func (s *Screen) renderFinished(width, height int) string {
	sn := s.snap

	var b strings.Builder
	b.WriteString(theme.Title.Render("Quiz complete!"))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Bold(true).Render(fmt.Sprintf("Score: %d/%d", sn.Score, sn.Total)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Mistakes: %d\n", sn.Mistakes)
	if skipped := sn.Total - sn.Answered; skipped > 0 {
		fmt.Fprintf(&b, "Not answered: %d\n", skipped)
	}
	b.WriteString("\n")
	if sn.Mistakes > 0 {
		b.WriteString(theme.Hint.Render("Press V to review your mistakes, R to play again"))
	} else if sn.Total > 0 {
		b.WriteString(theme.Correct.Render("Flawless!"))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Press R to play again"))
	} else {
		b.WriteString(theme.Hint.Render("The question bank is empty"))
	}

	cw := components.ContentWidth(width)
	return components.Frame(components.Card(lipgloss.NewStyle().Align(lipgloss.Center).Width(cw-6).Render(b.String()), cw), width, height)
}

func (s *Screen) renderReview(width, height int) string {
	cw := components.ContentWidth(width)

	blocks := make([]components.Mistake, 0, len(s.mistakes))
	for _, m := range s.mistakes {
		blocks = append(blocks, components.Mistake{
			Question:    m.Item.Question,
			Selected:    m.Record.Selected,
			TimedOut:    m.Record.None,
			Answer:      m.Item.Answer,
			Explanation: m.Item.Explanation,
		})
	}

	title := theme.Title.Width(cw).Render(fmt.Sprintf("Mistakes (%d)", len(blocks)))
	list := components.MistakeList(blocks, s.reviewCursor, cw, height-2)
	return layout.Center(title+"\n\n"+list, width)
}
