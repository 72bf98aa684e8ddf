// Package welcome is the splash shown before the home screen.
package welcome

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizzy/internal/router"
	"github.com/abhisek/quizzy/internal/screen"
	"github.com/abhisek/quizzy/internal/ui/theme"
)

const frame = 100 * time.Millisecond

// stage is how much of the splash is revealed.
type stage int

const (
	stageDim stage = iota
	stageBanner
	stageTagline
)

// Stage boundaries, in frames.
const (
	bannerAt  = 5
	taglineAt = 15
	lastFrame = 30
)

type frameMsg struct{}

// WelcomeScreen fades in the banner and hands over to the home screen on
// the first key press.
type WelcomeScreen struct {
	next    func() screen.Screen
	tagline string
	frames  int
	done    bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a splash that replaces itself with next() on a key press.
func New(next func() screen.Screen, tagline string) *WelcomeScreen {
	return &WelcomeScreen{next: next, tagline: tagline}
}

func (w *WelcomeScreen) Title() string { return "" }

func (w *WelcomeScreen) Init() tea.Cmd { return nextFrame() }

func nextFrame() tea.Cmd {
	return tea.Tick(frame, func(time.Time) tea.Msg { return frameMsg{} })
}

func (w *WelcomeScreen) stage() stage {
	switch {
	case w.frames >= taglineAt:
		return stageTagline
	case w.frames >= bannerAt:
		return stageBanner
	default:
		return stageDim
	}
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case frameMsg:
		if w.done || w.frames >= lastFrame {
			return w, nil
		}
		w.frames++
		return w, nextFrame()
	case tea.KeyPressMsg:
		if w.done {
			return w, nil
		}
		w.done = true
		home := w.next()
		return w, func() tea.Msg { return router.ReplaceScreenMsg{Screen: home} }
	}
	return w, nil
}

func (w *WelcomeScreen) View(width, height int) string {
	st := w.stage()

	color := theme.TextDim
	if st >= stageBanner {
		color = theme.Primary
	}
	parts := []string{RenderBanner(width, color)}

	if st == stageTagline {
		if w.tagline != "" {
			parts = append(parts, "", theme.Body.Bold(true).Render(w.tagline))
		}
		parts = append(parts, "", theme.Hint.Render("press any key to continue"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, parts...))
}
