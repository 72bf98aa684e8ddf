package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizzy/internal/ui/theme"
)

// Mistake is one reviewed answer: what was picked against what was right.
type Mistake struct {
	Question    string
	Selected    string
	TimedOut    bool
	Answer      string
	Explanation string
}

// MistakeBlock renders the question, a "You: … | ✔ …" line and the
// explanation. A timed-out answer shows as None.
func MistakeBlock(m Mistake, width int) string {
	selected := m.Selected
	if m.TimedOut {
		selected = "None"
	}
	lines := []string{
		theme.Body.Bold(true).Width(width).Render(m.Question),
		theme.Incorrect.UnsetBold().Render("You: "+selected) + " | " + theme.Correct.Render("✔ "+m.Answer),
	}
	if m.Explanation != "" {
		lines = append(lines, theme.Explanation.Width(width-2).Render(m.Explanation))
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

// MistakeList renders blocks from offset on until height runs out, then
// a "… n more" line.
func MistakeList(mistakes []Mistake, offset, width, height int) string {
	var b strings.Builder
	used := 0
	for i := offset; i < len(mistakes); i++ {
		block := MistakeBlock(mistakes[i], width)
		h := lipgloss.Height(block) + 1
		if used+h > height && i > offset {
			b.WriteString(theme.Hint.Render(fmt.Sprintf("… %d more", len(mistakes)-i)))
			return b.String()
		}
		b.WriteString(block)
		b.WriteString("\n\n")
		used += h
	}
	return strings.TrimRight(b.String(), "\n")
}
