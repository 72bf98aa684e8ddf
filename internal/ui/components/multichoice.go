package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizzy/internal/ui/theme"
)

// OptionList renders the options of one question and tracks the cursor.
// Once Revealed, the answer is marked and the cursor is hidden.
type OptionList struct {
	Options []string
	Answer  string
	Cursor  int

	Revealed bool
	Chosen   string
	TimedOut bool
}

// NewOptionList creates an open option list with the cursor on the first
// option.
func NewOptionList(options []string, answer string) OptionList {
	return OptionList{Options: options, Answer: answer}
}

// Reveal marks the list as answered with chosen, or as timed out.
func (m OptionList) Reveal(chosen string, timedOut bool) OptionList {
	m.Revealed = true
	m.Chosen = chosen
	m.TimedOut = timedOut
	return m
}

// Update moves the cursor. Selection is left to the owner, which knows
// when answering is allowed.
func (m OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	if m.Revealed {
		return m, nil
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	}
	return m, nil
}

// Current returns the option under the cursor.
func (m OptionList) Current() (string, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Options) {
		return "", false
	}
	return m.Options[m.Cursor], true
}

// View renders one numbered line per option.
func (m OptionList) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if !m.Revealed && i == m.Cursor {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		switch {
		case m.Revealed && opt == m.Answer:
			line = theme.Correct.Render(line + "  ✔")
		case m.Revealed && !m.TimedOut && opt == m.Chosen:
			line = theme.Incorrect.Render(line + "  ✘")
		case m.Revealed:
			line = theme.Disabled.Render(line)
		case i == m.Cursor:
			line = theme.Selected.Render(line)
		default:
			line = theme.Unselected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
