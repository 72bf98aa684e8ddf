// Package history lists stored runs.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizzy/internal/router"
	"github.com/abhisek/quizzy/internal/screen"
	"github.com/abhisek/quizzy/internal/screens/summary"
	"github.com/abhisek/quizzy/internal/store"
	"github.com/abhisek/quizzy/internal/ui/layout"
	"github.com/abhisek/quizzy/internal/ui/theme"
)

// listLimit caps how many runs the screen loads.
const listLimit = 50

type historyLoadedMsg struct {
	Runs  []store.RunRecord
	Stats store.RunStats
	Err   error
}

// HistoryScreen displays past runs, newest first.
type HistoryScreen struct {
	runs     store.RunRepo
	list     []store.RunRecord
	stats    store.RunStats
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)
var _ screen.StatusProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(runs store.RunRepo) *HistoryScreen {
	return &HistoryScreen{runs: runs}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		list, err := s.runs.ListRuns(ctx, store.QueryOpts{Limit: listLimit})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		stats, err := s.runs.Stats(ctx)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		return historyLoadedMsg{Runs: list, Stats: stats}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) Status() string {
	if !s.loaded || s.stats.Runs == 0 {
		return ""
	}
	return fmt.Sprintf("%d runs · %.0f%% accuracy", s.stats.Runs, s.stats.Accuracy()*100)
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.list = msg.Runs
			s.stats = msg.Stats
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.list)-1 {
				s.selected++
			}
		case "enter":
			if s.selected < len(s.list) {
				next := summary.New(s.runs, s.list[s.selected].RunID)
				return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	center := func(text string, style lipgloss.Style) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(text))
	}

	switch {
	case s.errMsg != "":
		return "\n\n" + center("Error: "+s.errMsg, lipgloss.NewStyle().Foreground(theme.Error))
	case !s.loaded:
		return "\n\n" + center("Loading history...", theme.Disabled)
	case len(s.list) == 0:
		return "\n\n" + center("No runs yet. Finish a quiz to see it here!", theme.Hint)
	}

	lines := []string{""}
	if s.stats.BestTotal > 0 {
		lines = append(lines, center(fmt.Sprintf("Best %d/%d · %d questions answered across %d runs",
			s.stats.BestScore, s.stats.BestTotal, s.stats.Correct+s.stats.Mistakes, s.stats.Runs), theme.Hint), "")
	}

	from, to := window(s.selected, len(s.list), max(height-4, 1))
	for i := from; i < to; i++ {
		style, marker := theme.Unselected, "  "
		if i == s.selected {
			style, marker = theme.Selected, "> "
		}
		lines = append(lines, center(marker+runLine(s.list[i]), style))
	}
	return strings.Join(lines, "\n")
}

// window returns the [from, to) slice of n rows that fits in size rows
// and keeps selected in view.
func window(selected, n, size int) (from, to int) {
	if selected >= size {
		from = selected - size + 1
	}
	return from, min(from+size, n)
}

func runLine(r store.RunRecord) string {
	secs := int(r.Duration.Seconds())
	return fmt.Sprintf("%s  %d:%02d  %d/%d correct  %d mistakes",
		r.FinishedAt.Local().Format("Jan 02, 2006 15:04"), secs/60, secs%60, r.Score, r.Total, r.Mistakes)
}
