package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/quizzy/internal/quiz"
	"github.com/abhisek/quizzy/internal/router"
	quizscreen "github.com/abhisek/quizzy/internal/screens/quiz"
	"github.com/abhisek/quizzy/internal/session"
)

func testOptions(t *testing.T) Options {
	t.Helper()
	sess := session.New([]quiz.Item{
		{Question: "Pick a", Options: []string{"a", "b"}, Answer: "a"},
	}, session.DefaultConfig())
	t.Cleanup(sess.Close)
	return Options{Session: sess, Source: "embedded", Logger: zerolog.Nop()}
}

func sized(m AppModel) AppModel {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(AppModel)
}

func TestAppModel_StartsOnSplash(t *testing.T) {
	m := sized(newAppModel(testOptions(t)))
	if got := m.router.Active().Title(); got != "" {
		t.Errorf("expected splash first, got %q", got)
	}
}

func TestAppModel_SkipSplash(t *testing.T) {
	opts := testOptions(t)
	opts.SkipSplash = true
	m := sized(newAppModel(opts))
	if got := m.router.Active().Title(); got != "Home" {
		t.Errorf("Title = %q, want Home", got)
	}
}

func TestAppModel_CtrlCQuits(t *testing.T) {
	m := newAppModel(testOptions(t))
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}
}

func TestAppModel_HeaderShowsQuizStatus(t *testing.T) {
	opts := testOptions(t)
	opts.SkipSplash = true
	m := sized(newAppModel(opts))
	defer m.router.CloseAll()

	m.Update(router.PushScreenMsg{Screen: quizscreen.New(opts.Session)})
	opts.Session.Start()
	m.Update(tea.KeyPressMsg{Code: 'x', Text: "x"}) // any key refreshes the snapshot

	content := m.render()
	if !strings.Contains(content, "⏱ 20s") {
		t.Errorf("header should show the countdown:\n%s", content)
	}
	if !strings.Contains(content, "Finish") {
		t.Errorf("footer should show quiz key hints:\n%s", content)
	}
}

func TestAppModel_TooSmall(t *testing.T) {
	m := newAppModel(testOptions(t))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if !strings.Contains(next.(AppModel).render(), "Terminal too small") {
		t.Error("expected min size message")
	}
}
