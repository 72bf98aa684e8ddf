// Package app wires the screens into the Bubble Tea program.
package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/quizzy/internal/router"
	"github.com/abhisek/quizzy/internal/screen"
	"github.com/abhisek/quizzy/internal/screens/home"
	"github.com/abhisek/quizzy/internal/screens/welcome"
	"github.com/abhisek/quizzy/internal/session"
	"github.com/abhisek/quizzy/internal/store"
	"github.com/abhisek/quizzy/internal/ui/layout"
)

// Options configures the program.
type Options struct {
	Session *session.Store

	// Runs backs the history screen. Nil disables it.
	Runs store.RunRepo

	// Source names where the bank came from.
	Source string

	// SkipSplash starts on the home screen.
	SkipSplash bool

	Logger zerolog.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates an AppModel starting on the splash, or on the home
// screen when the splash is skipped.
func newAppModel(opts Options) AppModel {
	newHome := func() screen.Screen {
		return home.New(opts.Session, opts.Runs, opts.Source)
	}

	var first screen.Screen
	if opts.SkipSplash {
		first = newHome()
	} else {
		tagline := fmt.Sprintf("%d questions ready", opts.Session.Len())
		first = welcome.New(newHome, tagline)
	}
	return AppModel{
		router: router.New(first),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		// Esc is left to screens: the quiz screen uses it to leave review.
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	v.SetContent(m.render())
	return v
}

// render draws the frame: header with the active screen's status, the
// screen itself and its key hints.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	var hints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		hints = kp.KeyHints()
	} else if m.router.Depth() > 1 {
		hints = []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	} else {
		hints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
		}
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// Run starts the Bubble Tea program and blocks until it exits. Screens
// still on the stack are closed on the way out.
func Run(opts Options) error {
	m := newAppModel(opts)
	defer m.router.CloseAll()

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		opts.Logger.Error().Err(err).Msg("tui exited with error")
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
