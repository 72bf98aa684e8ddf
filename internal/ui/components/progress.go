package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizzy/internal/ui/theme"
)

// ProgressBar draws how far through the quiz the player is. Percent is
// a fraction; the bar is clamped to [0, 1] but the label shows the raw
// value.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{Label: label, Percent: percent, ShowPercent: showPercent, Width: width}
}

func (p ProgressBar) View() string {
	var prefix, suffix string
	if p.Label != "" {
		prefix = theme.Body.Render(p.Label) + "  "
	}
	if p.ShowPercent {
		suffix = theme.Disabled.Render(fmt.Sprintf("  %d%%", int(p.Percent*100)))
	}

	track := max(p.Width-lipgloss.Width(prefix)-lipgloss.Width(suffix), 4)
	fill := int(float64(track) * min(max(p.Percent, 0), 1))

	bar := theme.ProgressFilled.Render(strings.Repeat(" ", fill)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", track-fill))
	return prefix + bar + suffix
}
