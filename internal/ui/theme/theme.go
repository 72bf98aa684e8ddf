// Package theme holds the palette and lipgloss styles shared by every
// screen.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

var (
	Primary   = lipgloss.Color("#0D9488") // teal
	Secondary = lipgloss.Color("#38BDF8")
	Accent    = lipgloss.Color("#FBBF24")
	Success   = lipgloss.Color("#4ADE80")
	Error     = lipgloss.Color("#F87171")
	Text      = lipgloss.Color("#E2E8F0")
	TextDim   = lipgloss.Color("#8B95A7")
	BgCard    = lipgloss.Color("#172033")
	Border    = lipgloss.Color("#2F3B52")
)

func fg(c color.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

var (
	Title    = fg(Primary).Bold(true).Align(lipgloss.Center)
	Subtitle = fg(TextDim).Align(lipgloss.Center)
	Body     = fg(Text)
	Hint     = fg(TextDim).Italic(true)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	// Explanation is a left-ruled block under a revealed answer.
	Explanation = fg(Text).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(Secondary).
			PaddingLeft(1)

	Selected   = fg(Primary).Bold(true)
	Unselected = fg(Text)
	Disabled   = fg(TextDim)
	Correct    = fg(Success).Bold(true)
	Incorrect  = fg(Error).Bold(true)

	TimerNormal = fg(Accent)
	TimerLow    = fg(Error).Bold(true)

	ProgressFilled = lipgloss.NewStyle().Background(Secondary)
	ProgressEmpty  = lipgloss.NewStyle().Background(Border)
)

// LowTimeSeconds is where the countdown switches to TimerLow.
const LowTimeSeconds = 5

// Timer returns the countdown style for the given seconds left.
func Timer(remaining int) lipgloss.Style {
	if remaining <= LowTimeSeconds {
		return TimerLow
	}
	return TimerNormal
}
