package quiz

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizzy/internal/clock"
	"github.com/abhisek/quizzy/internal/quiz"
	"github.com/abhisek/quizzy/internal/router"
	"github.com/abhisek/quizzy/internal/session"
)

func testItems() []quiz.Item {
	return []quiz.Item{
		{Question: "Question A?", Options: []string{"A1", "A2", "A3"}, Answer: "A1", Explanation: "Because A1."},
		{Question: "Question B?", Options: []string{"B1", "B2", "B3"}, Answer: "B1", Explanation: "Because B1."},
		{Question: "Question C?", Options: []string{"C1", "C2", "C3"}, Answer: "C1", Explanation: "Because C1."},
	}
}

func newTestScreen(t *testing.T) (*Screen, *session.Store, *clock.Fake) {
	t.Helper()
	fc := clock.NewFake(time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC))
	store := session.New(testItems(), session.DefaultConfig(), session.WithClock(fc), session.WithSeed(7))
	t.Cleanup(store.Close)

	s := New(store)
	t.Cleanup(s.Close)
	return s, store, fc
}

func press(s *Screen, text string) tea.Cmd {
	var msg tea.KeyPressMsg
	switch text {
	case "enter":
		msg = tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		msg = tea.KeyPressMsg{Code: tea.KeyEscape}
	case "down":
		msg = tea.KeyPressMsg{Code: tea.KeyDown}
	default:
		r := []rune(text)[0]
		msg = tea.KeyPressMsg{Code: r, Text: text}
	}
	_, cmd := s.Update(msg)
	return cmd
}

func TestQuizScreen_Title(t *testing.T) {
	s, _, _ := newTestScreen(t)
	if s.Title() != "Quiz" {
		t.Errorf("Title = %q, want %q", s.Title(), "Quiz")
	}
}

func TestQuizScreen_IntroShowsPolicies(t *testing.T) {
	s, _, _ := newTestScreen(t)
	view := s.View(80, 24)
	if !strings.Contains(view, "3 questions, 20 seconds each.") {
		t.Errorf("intro view missing bank size and timer:\n%s", view)
	}
	if s.Status() != "3 questions" {
		t.Errorf("Status = %q", s.Status())
	}
}

func TestQuizScreen_AnswerAndAdvance(t *testing.T) {
	s, store, _ := newTestScreen(t)

	press(s, "enter")
	if store.Phase() != session.PhaseInProgress {
		t.Fatalf("phase = %s, want in_progress", store.Phase())
	}
	view := s.View(80, 24)
	if !strings.Contains(view, "Question 1/3") || !strings.Contains(view, "Question A?") {
		t.Errorf("question view missing header or text:\n%s", view)
	}
	if !strings.Contains(s.Status(), "⏱ 20s") {
		t.Errorf("Status = %q, want countdown", s.Status())
	}

	press(s, "1")
	if store.Phase() != session.PhaseExplaining {
		t.Fatalf("phase = %s, want explaining", store.Phase())
	}
	view = s.View(80, 24)
	if !strings.Contains(view, "Correct!") || !strings.Contains(view, "Because A1.") {
		t.Errorf("explanation view missing verdict or explanation:\n%s", view)
	}

	// A second pick on an answered question changes nothing.
	press(s, "2")
	if sn := store.Snapshot(); sn.Score != 1 || sn.Mistakes != 0 {
		t.Errorf("score/mistakes = %d/%d after repeated pick", sn.Score, sn.Mistakes)
	}

	press(s, "enter")
	if sn := store.Snapshot(); sn.Phase != session.PhaseInProgress || sn.Index != 1 {
		t.Fatalf("after enter got %s/%d, want in_progress/1", sn.Phase, sn.Index)
	}
}

func TestQuizScreen_CursorSelect(t *testing.T) {
	s, store, _ := newTestScreen(t)
	press(s, "enter")
	press(s, "down")
	press(s, "enter")

	rec, ok := store.Answer(0)
	if !ok {
		t.Fatal("expected an answer at index 0")
	}
	if rec.Selected != "A2" || rec.Correct {
		t.Errorf("record = %+v, want wrong pick A2", rec)
	}
}

func TestQuizScreen_TimeoutRendersTimesUp(t *testing.T) {
	s, store, fc := newTestScreen(t)
	press(s, "enter")

	fc.Advance(20 * time.Second)
	s.Update(changedMsg{})

	if store.Phase() != session.PhaseExplaining {
		t.Fatalf("phase = %s, want explaining", store.Phase())
	}
	if view := s.View(80, 24); !strings.Contains(view, "Time's up") {
		t.Errorf("expected timeout verdict:\n%s", view)
	}
}

func TestQuizScreen_GoToPrompt(t *testing.T) {
	s, store, _ := newTestScreen(t)
	press(s, "enter")

	press(s, "g")
	if s.prompt == nil {
		t.Fatal("expected go-to prompt to open")
	}
	press(s, "3")
	press(s, "enter")
	if s.prompt != nil {
		t.Error("prompt should close after enter")
	}
	if sn := store.Snapshot(); sn.Index != 2 {
		t.Errorf("index = %d, want 2", sn.Index)
	}

	press(s, "g")
	press(s, "esc")
	if s.prompt != nil {
		t.Error("esc should cancel the prompt")
	}
	if store.Phase() != session.PhaseInProgress {
		t.Errorf("esc in prompt changed phase to %s", store.Phase())
	}
}

func TestQuizScreen_FinishReviewRestart(t *testing.T) {
	s, store, fc := newTestScreen(t)
	press(s, "enter")
	press(s, "2") // wrong
	press(s, "n")
	fc.Advance(20 * time.Second) // timed out
	s.Update(changedMsg{})
	press(s, "f")

	if store.Phase() != session.PhaseFinished {
		t.Fatalf("phase = %s, want finished", store.Phase())
	}
	view := s.View(80, 24)
	if !strings.Contains(view, "Score: 0/3") || !strings.Contains(view, "Mistakes: 2") {
		t.Errorf("finished view missing totals:\n%s", view)
	}
	if !hasHint(s, "Review mistakes") {
		t.Error("expected review hint when there are mistakes")
	}

	press(s, "v")
	if store.Phase() != session.PhaseReviewing {
		t.Fatalf("phase = %s, want reviewing", store.Phase())
	}
	view = s.View(80, 40)
	for _, want := range []string{"Mistakes (2)", "You: A2", "✔ A1", "You: None", "✔ B1", "Because B1."} {
		if !strings.Contains(view, want) {
			t.Errorf("review view missing %q:\n%s", want, view)
		}
	}

	press(s, "esc")
	if store.Phase() != session.PhaseFinished {
		t.Errorf("esc in review: phase = %s, want finished", store.Phase())
	}

	press(s, "r")
	if sn := store.Snapshot(); sn.Phase != session.PhaseNotStarted || sn.Answered != 0 {
		t.Errorf("after restart got %s with %d answered", sn.Phase, sn.Answered)
	}
}

func TestQuizScreen_NoReviewWithoutMistakes(t *testing.T) {
	s, store, _ := newTestScreen(t)
	press(s, "enter")
	press(s, "1")
	press(s, "f")

	if hasHint(s, "Review mistakes") {
		t.Error("review hint shown without mistakes")
	}
	press(s, "v")
	if store.Phase() != session.PhaseFinished {
		t.Errorf("review entered without mistakes: phase = %s", store.Phase())
	}
}

func TestQuizScreen_EscPopsOnlyWhenIdle(t *testing.T) {
	s, _, _ := newTestScreen(t)

	cmd := press(s, "esc")
	if cmd == nil {
		t.Fatal("expected pop command before start")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}

	press(s, "enter")
	if cmd := press(s, "esc"); cmd != nil {
		t.Error("esc should not leave a running quiz")
	}
}

func TestQuizScreen_CloseUnsubscribes(t *testing.T) {
	s, _, _ := newTestScreen(t)
	s.Close()
	if msg := s.Init()(); msg != nil {
		t.Errorf("expected nil msg after close, got %T", msg)
	}
}

func hasHint(s *Screen, desc string) bool {
	for _, h := range s.KeyHints() {
		if h.Description == desc {
			return true
		}
	}
	return false
}
