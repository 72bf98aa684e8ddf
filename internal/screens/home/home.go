// Package home is the main menu.
package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizzy/internal/router"
	"github.com/abhisek/quizzy/internal/screen"
	"github.com/abhisek/quizzy/internal/screens/history"
	quizscreen "github.com/abhisek/quizzy/internal/screens/quiz"
	"github.com/abhisek/quizzy/internal/session"
	"github.com/abhisek/quizzy/internal/store"
	"github.com/abhisek/quizzy/internal/ui/components"
	"github.com/abhisek/quizzy/internal/ui/layout"
)

const (
	itemPlay = iota
	itemHistory
	itemQuit
)

// HomeScreen is the main menu: play, history and quit.
type HomeScreen struct {
	session *session.Store
	runs    store.RunRepo
	source  string
	menu    components.Menu
	stats   store.RunStats
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a HomeScreen. runs may be nil, which disables history.
func New(sess *session.Store, runs store.RunRepo, source string) *HomeScreen {
	h := &HomeScreen{session: sess, runs: runs, source: source}

	items := []components.MenuItem{
		{Label: "Start quiz", Key: "s", Action: h.play, Disabled: sess.Len() == 0},
		{Label: "History", Key: "h", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(runs)}
			}
		}, Disabled: runs == nil},
		{Label: "Quit", Key: "q", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	return h
}

// play opens the quiz screen. A finished session is restarted first so
// the menu always leads to a playable quiz.
func (h *HomeScreen) play() tea.Cmd {
	switch h.session.Phase() {
	case session.PhaseFinished, session.PhaseReviewing:
		h.session.Restart()
	}
	next := quizscreen.New(h.session)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	}
}

type statsLoadedMsg struct {
	Stats store.RunStats
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) loadStats() tea.Cmd {
	if h.runs == nil {
		return nil
	}
	runs := h.runs
	return func() tea.Msg {
		st, err := runs.Stats(context.Background())
		if err != nil {
			return nil
		}
		return statsLoadedMsg{Stats: st}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(statsLoadedMsg); ok {
		h.stats = m.Stats
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// playLabel names the first menu item after the session's phase.
func (h *HomeScreen) playLabel() string {
	switch h.session.Phase() {
	case session.PhaseInProgress, session.PhaseExplaining:
		return "Resume quiz"
	case session.PhaseFinished, session.PhaseReviewing:
		return "New quiz"
	default:
		return "Start quiz"
	}
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header and footer.
	compact := height+8 < 30 || width < 70
	cw := contentWidth(width)

	h.menu.Items[itemPlay].Label = h.playLabel()

	labels := make([]string, len(h.menu.Items))
	disabled := make(map[int]bool)
	for i, item := range h.menu.Items {
		labels[i] = item.Label
		disabled[i] = item.Disabled
	}

	cfg := h.session.Config()
	var sections []string
	sections = append(sections, renderTitle(cw))
	sections = append(sections, renderStatsBar(statsBar{
		Questions: h.session.Len(),
		Source:    h.source,
		Runs:      h.stats.Runs,
		BestScore: h.stats.BestScore,
		BestTotal: h.stats.BestTotal,
	}, cw, compact))
	sections = append(sections, renderPolicies(cfg.TimerSeconds, cfg.ShuffleOptionsPerQuestion, cfg.AllowRevisit, cw))
	if h.session.Len() == 0 {
		sections = append(sections, renderNotice("The question bank is empty (see quizzy play --help)", cw))
	}
	sections = append(sections, renderMenu(labels, h.menu.Selected, disabled, cw, compact))

	return renderCabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "s/h/q", Description: "Start/History/Quit"},
	}
}
