package quiz

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Start    key.Binding
	Up       key.Binding
	Down     key.Binding
	Choose   key.Binding
	Option   key.Binding
	Next     key.Binding
	Previous key.Binding
	Finish   key.Binding
	GoTo     key.Binding
	Review   key.Binding
	Restart  key.Binding
	Back     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Start:    key.NewBinding(key.WithKeys("enter", "s"), key.WithHelp("Enter", "Start")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "Up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "Down")),
		Choose:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Answer")),
		Option:   key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "Pick")),
		Next:     key.NewBinding(key.WithKeys("n", "right", "l"), key.WithHelp("→", "Next")),
		Previous: key.NewBinding(key.WithKeys("p", "left", "h"), key.WithHelp("←", "Previous")),
		Finish:   key.NewBinding(key.WithKeys("f"), key.WithHelp("F", "Finish")),
		GoTo:     key.NewBinding(key.WithKeys("g"), key.WithHelp("G", "Go to")),
		Review:   key.NewBinding(key.WithKeys("v"), key.WithHelp("V", "Review mistakes")),
		Restart:  key.NewBinding(key.WithKeys("r"), key.WithHelp("R", "Restart")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Back")),
	}
}
