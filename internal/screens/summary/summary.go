// Package summary shows one stored run with its mistakes.
package summary

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizzy/internal/router"
	"github.com/abhisek/quizzy/internal/screen"
	"github.com/abhisek/quizzy/internal/store"
	"github.com/abhisek/quizzy/internal/ui/components"
	"github.com/abhisek/quizzy/internal/ui/layout"
	"github.com/abhisek/quizzy/internal/ui/theme"
)

type runLoadedMsg struct {
	Run *store.RunRecord
	Err error
}

// SummaryScreen displays a past run.
type SummaryScreen struct {
	runs   store.RunRepo
	runID  string
	run    *store.RunRecord
	offset int
	errMsg string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen that loads runID from runs.
func New(runs store.RunRepo, runID string) *SummaryScreen {
	return &SummaryScreen{runs: runs, runID: runID}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		run, err := s.runs.GetRun(context.Background(), s.runID)
		return runLoadedMsg{Run: run, Err: err}
	}
}

func (s *SummaryScreen) Title() string {
	return "Run Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case runLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.run = msg.Run
		}
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc", "enter":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			if s.offset < len(mistakes(s.run))-1 {
				s.offset++
			}
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	run := s.run
	if run == nil {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading run...")
	}

	cw := components.ContentWidth(width)
	center := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render(run.FinishedAt.Local().Format("Jan 02, 2006 15:04")))
	b.WriteString("\n\n")

	answered := run.Score + run.Mistakes
	accuracy := 0.0
	if answered > 0 {
		accuracy = float64(run.Score) / float64(answered) * 100
	}
	b.WriteString(center.Foreground(theme.Text).Render(fmt.Sprintf(
		"Score: %d/%d    Mistakes: %d    Unanswered: %d    Accuracy: %.0f%%",
		run.Score, run.Total, run.Mistakes, run.Unanswered, accuracy)))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render(fmt.Sprintf(
		"Duration %s · %ds per question · %s",
		formatDuration(run.Duration), run.TimerSeconds, run.Source)))
	b.WriteString("\n\n")

	list := mistakes(run)
	if len(list) == 0 {
		b.WriteString(center.Foreground(theme.Success).Render("No mistakes in this run."))
		return layout.Center(b.String(), width)
	}

	b.WriteString(center.Foreground(theme.TextDim).Render("Mistakes"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw)))
	b.WriteString("\n\n")
	b.WriteString(components.MistakeList(list, s.offset, cw, height-lipgloss.Height(b.String())))

	return layout.Center(b.String(), width)
}

// mistakes returns the wrong answers of run in the order they happened.
func mistakes(run *store.RunRecord) []components.Mistake {
	if run == nil {
		return nil
	}
	var rows []store.AnswerRow
	for _, a := range run.Answers {
		if !a.Correct {
			rows = append(rows, a)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].MistakeOrder < rows[j].MistakeOrder
	})

	out := make([]components.Mistake, 0, len(rows))
	for _, a := range rows {
		out = append(out, components.Mistake{
			Question:    a.Question,
			Selected:    a.Selected,
			TimedOut:    a.TimedOut,
			Answer:      a.Answer,
			Explanation: a.Explanation,
		})
	}
	return out
}

func formatDuration(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
