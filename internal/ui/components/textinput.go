package components

import (
	"strconv"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// NumberPrompt wraps bubbles/textinput to accept digits only.
type NumberPrompt struct {
	Model textinput.Model
}

// NewNumberPrompt creates a focused prompt with the given placeholder.
func NewNumberPrompt(prompt, placeholder string, maxDigits int) NumberPrompt {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	if maxDigits > 0 {
		ti.CharLimit = maxDigits
	}
	ti.Focus()
	return NumberPrompt{Model: ti}
}

// Update drops non-digit key presses and forwards everything else.
func (p NumberPrompt) Update(msg tea.Msg) (NumberPrompt, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		if t := kmsg.Text; t != "" {
			for _, r := range t {
				if r < '0' || r > '9' {
					return p, nil
				}
			}
		}
	}

	var cmd tea.Cmd
	p.Model, cmd = p.Model.Update(msg)
	return p, cmd
}

// View renders the prompt.
func (p NumberPrompt) View() string {
	return p.Model.View()
}

// Value returns the typed number. ok is false while the input is empty.
func (p NumberPrompt) Value() (n int, ok bool) {
	n, err := strconv.Atoi(p.Model.Value())
	return n, err == nil
}
