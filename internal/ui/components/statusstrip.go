package components

import (
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizzy/internal/session"
	"github.com/abhisek/quizzy/internal/ui/theme"
)

// StatusStrip renders one cell per question: its number, colored by
// outcome, with the current question bracketed.
type StatusStrip struct {
	Statuses []session.QuestionStatus
	Current  int
	Width    int
}

// View renders the strip, wrapping to Width.
func (s StatusStrip) View() string {
	var (
		lines []string
		line  strings.Builder
	)
	lineWidth := 0
	for i, st := range s.Statuses {
		cell := cellText(i, i == s.Current)
		w := lipgloss.Width(cell) + 1
		if s.Width > 0 && lineWidth+w > s.Width && lineWidth > 0 {
			lines = append(lines, strings.TrimRight(line.String(), " "))
			line.Reset()
			lineWidth = 0
		}
		line.WriteString(cellStyle(st, i == s.Current).Render(cell))
		line.WriteString(" ")
		lineWidth += w
	}
	if line.Len() > 0 {
		lines = append(lines, strings.TrimRight(line.String(), " "))
	}
	return strings.Join(lines, "\n")
}

func cellText(i int, current bool) string {
	n := strconv.Itoa(i + 1)
	if current {
		return "[" + n + "]"
	}
	return " " + n + " "
}

func cellStyle(st session.QuestionStatus, current bool) lipgloss.Style {
	var style lipgloss.Style
	switch st {
	case session.StatusCorrect:
		style = theme.Correct
	case session.StatusWrong:
		style = theme.Incorrect
	default:
		style = theme.Disabled
	}
	if current {
		style = style.Underline(true)
	}
	return style
}
