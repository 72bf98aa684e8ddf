package home

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizzy/internal/screens/welcome"
	"github.com/abhisek/quizzy/internal/ui/theme"
)

// contentWidth returns the uniform inner width used for all sections so
// the boxes line up.
func contentWidth(frameWidth int) int {
	return max(min(frameWidth-6, 60), 20)
}

func renderTitle(cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(welcome.RenderBanner(cw, theme.Primary))
}

// statsBar is the one-line dashboard above the menu.
type statsBar struct {
	Questions int
	Source    string
	Runs      int
	BestScore int
	BestTotal int
}

func renderStatsBar(s statsBar, cw int, compact bool) string {
	bankStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	runStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	best := dimStyle.Render("no runs yet")
	if s.BestTotal > 0 {
		best = runStyle.Render(fmt.Sprintf("best %d/%d", s.BestScore, s.BestTotal))
	}

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s",
			bankStyle.Render(fmt.Sprintf("?%d", s.Questions)),
			best,
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			bankStyle.Render(fmt.Sprintf("%d QUESTIONS", s.Questions)),
			dimStyle.Render(s.Source),
			best,
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// renderPolicies lists the session policies in one dim line.
func renderPolicies(timerSeconds int, shuffle, revisit bool, cw int) string {
	parts := []string{fmt.Sprintf("%ds per question", timerSeconds)}
	if shuffle {
		parts = append(parts, "shuffled options")
	}
	if !revisit {
		parts = append(parts, "no revisits")
	}
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(parts, " · "))
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// renderMenu renders each menu item as a fixed-width button, or as plain
// lines when compact.
func renderMenu(labels []string, selected int, disabled map[int]bool, cw int, compact bool) string {
	selectedBtn := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.BgCard).
		Background(theme.Accent)
	normalBtn := lipgloss.NewStyle().Foreground(theme.Text)
	disabledBtn := lipgloss.NewStyle().Foreground(theme.TextDim)

	if !compact {
		box := func(s lipgloss.Style, border color.Color) lipgloss.Style {
			return s.Width(buttonWidth).
				Align(lipgloss.Center).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(border).
				Padding(0, 1)
		}
		selectedBtn = box(selectedBtn, theme.Accent)
		normalBtn = box(normalBtn, theme.Border)
		disabledBtn = box(disabledBtn, theme.Border)
	}

	var buttons []string
	for i, label := range labels {
		switch {
		case disabled[i]:
			buttons = append(buttons, disabledBtn.Render("  "+label))
		case i == selected:
			buttons = append(buttons, selectedBtn.Render("▸ "+label))
		default:
			buttons = append(buttons, normalBtn.Render("  "+label))
		}
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderNotice renders a warning line, used when the bank is empty.
func renderNotice(text string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ " + text)
}

// renderCabinetFrame wraps content in a double-border frame, centered
// within the given dimensions.
func renderCabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
