// Package quiz is the interactive quiz screen.
package quiz

import (
	"fmt"
	"strconv"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizzy/internal/router"
	"github.com/abhisek/quizzy/internal/screen"
	"github.com/abhisek/quizzy/internal/session"
	"github.com/abhisek/quizzy/internal/ui/components"
	"github.com/abhisek/quizzy/internal/ui/layout"
)

// changedMsg reports that the session changed.
type changedMsg struct{}

// Screen drives one session.Store. It never keeps quiz state of its own
// beyond cursors: every render reads a fresh snapshot.
type Screen struct {
	store *session.Store
	keys  keyMap

	changes     <-chan struct{}
	unsubscribe func()

	snap     session.Snapshot
	options  components.OptionList
	shownKey string

	prompt *components.NumberPrompt

	mistakes     []session.Mistake
	reviewCursor int
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.StatusProvider = (*Screen)(nil)
var _ screen.Closer = (*Screen)(nil)

// New creates a quiz screen over store and subscribes to its changes.
func New(store *session.Store) *Screen {
	changes, unsubscribe := store.Subscribe()
	s := &Screen{
		store:       store,
		keys:        defaultKeyMap(),
		changes:     changes,
		unsubscribe: unsubscribe,
	}
	s.refresh()
	return s
}

func (s *Screen) Init() tea.Cmd {
	return waitForChange(s.changes)
}

func (s *Screen) Title() string {
	return "Quiz"
}

// Close stops listening to the session. The session itself keeps running.
func (s *Screen) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changedMsg{}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		s.refresh()
		return s, waitForChange(s.changes)

	case tea.KeyPressMsg:
		if s.prompt != nil {
			return s.updatePrompt(msg)
		}
		cmd := s.handleKey(msg)
		s.refresh()
		return s, cmd
	}

	if s.prompt != nil {
		p, cmd := s.prompt.Update(msg)
		s.prompt = &p
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	k := s.keys
	switch s.snap.Phase {
	case session.PhaseNotStarted:
		switch {
		case key.Matches(msg, k.Start):
			s.store.Start()
		case key.Matches(msg, k.Back):
			return popCmd
		}

	case session.PhaseInProgress, session.PhaseExplaining:
		switch {
		case key.Matches(msg, k.Option):
			n, _ := strconv.Atoi(msg.String())
			s.store.SelectOptionAt(n - 1)
		case key.Matches(msg, k.Choose):
			if s.snap.Phase == session.PhaseExplaining {
				s.store.Next()
			} else if opt, ok := s.options.Current(); ok {
				s.store.SelectAnswer(opt)
			}
		case key.Matches(msg, k.Up), key.Matches(msg, k.Down):
			s.options, _ = s.options.Update(msg)
		case key.Matches(msg, k.Next):
			s.store.Next()
		case key.Matches(msg, k.Previous):
			s.store.Previous()
		case key.Matches(msg, k.Finish):
			s.store.Finish()
		case key.Matches(msg, k.GoTo):
			p := components.NewNumberPrompt("Go to question: ", fmt.Sprintf("1-%d", s.snap.Total), len(strconv.Itoa(s.snap.Total+1)))
			s.prompt = &p
			return p.Model.Focus()
		}

	case session.PhaseFinished:
		switch {
		case key.Matches(msg, k.Review):
			s.store.EnterReview()
			s.reviewCursor = 0
		case key.Matches(msg, k.Restart):
			s.store.Restart()
		case key.Matches(msg, k.Back):
			return popCmd
		}

	case session.PhaseReviewing:
		switch {
		case key.Matches(msg, k.Up):
			if s.reviewCursor > 0 {
				s.reviewCursor--
			}
		case key.Matches(msg, k.Down):
			if s.reviewCursor < len(s.mistakes)-1 {
				s.reviewCursor++
			}
		case key.Matches(msg, k.Restart):
			s.store.Restart()
		case key.Matches(msg, k.Back):
			s.store.ExitReview()
		}
	}
	return nil
}

// updatePrompt handles keys while the go-to prompt is open. Enter jumps
// to the typed question number; past the end means finish.
func (s *Screen) updatePrompt(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.prompt = nil
		return s, nil
	case "enter":
		if n, ok := s.prompt.Value(); ok {
			s.store.GoTo(n - 1)
		}
		s.prompt = nil
		s.refresh()
		return s, nil
	}
	p, cmd := s.prompt.Update(msg)
	s.prompt = &p
	return s, cmd
}

// refresh re-reads the session. The option cursor survives re-renders of
// the same question and resets when another question is shown.
func (s *Screen) refresh() {
	s.snap = s.store.Snapshot()

	if q := s.snap.Question; q != nil {
		shown := fmt.Sprintf("%s/%d", s.snap.RunID, s.snap.Index)
		if shown != s.shownKey {
			s.options = components.NewOptionList(q.Options, q.Answer)
			s.shownKey = shown
		}
		s.options.Options = q.Options
		if rec := s.snap.Record; rec != nil {
			s.options = s.options.Reveal(rec.Selected, rec.None)
		}
	} else {
		s.shownKey = ""
	}

	if s.snap.Phase == session.PhaseReviewing {
		s.mistakes = s.store.MistakeList()
		if s.reviewCursor >= len(s.mistakes) {
			s.reviewCursor = max(len(s.mistakes)-1, 0)
		}
	} else {
		s.mistakes = nil
	}
	if s.snap.Phase != session.PhaseInProgress && s.snap.Phase != session.PhaseExplaining {
		s.prompt = nil
	}
}

func popCmd() tea.Msg { return router.PopScreenMsg{} }

// Status is the header summary: score, mistakes and the countdown.
func (s *Screen) Status() string {
	sn := s.snap
	switch sn.Phase {
	case session.PhaseNotStarted:
		return fmt.Sprintf("%d questions", sn.Total)
	case session.PhaseInProgress:
		return fmt.Sprintf("✔ %d  ✘ %d  ⏱ %ds", sn.Score, sn.Mistakes, sn.TimeLeft)
	default:
		return fmt.Sprintf("✔ %d  ✘ %d", sn.Score, sn.Mistakes)
	}
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.prompt != nil {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Go"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	k := s.keys
	var bindings []key.Binding
	switch s.snap.Phase {
	case session.PhaseNotStarted:
		bindings = []key.Binding{k.Start, k.Back}
	case session.PhaseInProgress:
		bindings = []key.Binding{k.Option, k.Choose, k.Previous, k.Next, k.GoTo, k.Finish}
	case session.PhaseExplaining:
		bindings = []key.Binding{k.Previous, k.Next, k.GoTo, k.Finish}
	case session.PhaseFinished:
		if s.snap.Mistakes > 0 {
			bindings = append(bindings, k.Review)
		}
		bindings = append(bindings, k.Restart, k.Back)
	case session.PhaseReviewing:
		bindings = []key.Binding{k.Up, k.Down, k.Restart, k.Back}
	}

	hints := make([]layout.KeyHint, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if s.snap.Phase == session.PhaseExplaining && b.Help().Desc == "Next" {
			h.Key = "Enter/→"
		}
		hints = append(hints, layout.KeyHint{Key: h.Key, Description: h.Desc})
	}
	return hints
}
