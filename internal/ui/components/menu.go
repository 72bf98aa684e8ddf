package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizzy/internal/ui/theme"
)

// MenuItem is one entry of a Menu. Key, when set, activates the item
// directly from any selection.
type MenuItem struct {
	Label    string
	Key      string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list of actions. Selection wraps around and never
// rests on a disabled item.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.move(1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

// move steps the selection by dir (+1 or -1) to the next enabled item.
func (m *Menu) move(dir int) {
	n := len(m.Items)
	for step := 1; step <= n; step++ {
		i := ((m.Selected+dir*step)%n + n) % n
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

func (m Menu) activate(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) {
		return nil
	}
	it := m.Items[i]
	if it.Disabled || it.Action == nil {
		return nil
	}
	return it.Action()
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		m.move(-1)
	case "down", "j", "tab":
		m.move(1)
	case "enter":
		return m, m.activate(m.Selected)
	default:
		for i, it := range m.Items {
			if it.Key != "" && it.Key == key && !it.Disabled {
				m.Selected = i
				return m, m.activate(i)
			}
		}
	}
	return m, nil
}

func (m Menu) View() string {
	lines := make([]string, len(m.Items))
	for i, it := range m.Items {
		label := it.Label
		if it.Key != "" {
			label += theme.Hint.Render("  " + it.Key)
		}
		switch {
		case it.Disabled:
			lines[i] = theme.Disabled.Render("    " + it.Label)
		case i == m.Selected:
			lines[i] = theme.Selected.Render("  ▸ ") + theme.Selected.Render(label)
		default:
			lines[i] = "    " + theme.Unselected.Render(label)
		}
	}
	return strings.Join(lines, "\n")
}
