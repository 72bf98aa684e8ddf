// Package layout composes the header, content area and footer that
// frame every screen.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizzy/internal/ui/theme"
)

const (
	MinWidth  = 60
	MinHeight = 20
)

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Body.Render(msg))
}

// bar is the rounded card used for both header and footer.
func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// spread lays out left, center and right across inner columns, keeping
// center in the middle when there is room and at least one space between
// neighbours otherwise.
func spread(left, center, right string, inner int) string {
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	gapL := max((inner-cw)/2-lw, 1)
	gapR := max(inner-lw-gapL-cw-rw, 1)
	return left + strings.Repeat(" ", gapL) + center + strings.Repeat(" ", gapR) + right
}

// RenderHeader shows the app name, the screen title and a status such as
// the score or time left.
func RenderHeader(title, status string, width int) string {
	inner := max(width-4, 0)
	return bar(spread(
		theme.Selected.Render("  Quizzy"),
		theme.Body.Render(title),
		lipgloss.NewStyle().Foreground(theme.Accent).Render(status),
		inner,
	), width)
}

func RenderFooter(hints []KeyHint, width int) string {
	key := theme.Body.Bold(true)
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + theme.Disabled.Render(h.Description)
	}
	return bar("  "+strings.Join(parts, "   "), width)
}

// RenderFrame stacks header, content and footer, giving the content
// whatever height is left.
func RenderFrame(header, content, footer string, width, height int) string {
	rest := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(rest).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// Center places each line of s in the middle of width.
func Center(s string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}
