package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizzy/internal/ui/theme"
)

// ContentWidth is the width cards use inside a screen of the given width.
func ContentWidth(width int) int {
	return max(min(width-4, 72), 20)
}

// Card wraps content in a rounded-border card of outer width w.
func Card(content string, w int) string {
	return theme.Card.
		Width(w).
		Render(content)
}

// Frame centers content within the given dimensions.
func Frame(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
