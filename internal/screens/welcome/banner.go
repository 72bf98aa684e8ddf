package welcome

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

const bannerArt = `
  ██████╗ ██╗   ██╗██╗███████╗███████╗██╗   ██╗
 ██╔═══██╗██║   ██║██║╚══███╔╝╚══███╔╝╚██╗ ██╔╝
 ██║   ██║██║   ██║██║  ███╔╝   ███╔╝  ╚████╔╝
 ██║▄▄ ██║██║   ██║██║ ███╔╝   ███╔╝    ╚██╔╝
 ╚██████╔╝╚██████╔╝██║███████╗███████╗   ██║
  ╚══▀▀═╝  ╚═════╝ ╚═╝╚══════╝╚══════╝   ╚═╝`

const bannerCompact = "Q U I Z Z Y"

// RenderBanner returns the QUIZZY banner in c. Terminals narrower than
// the art get the compact form.
func RenderBanner(width int, c color.Color) string {
	style := lipgloss.NewStyle().
		Foreground(c).
		Bold(true)

	if width < lipgloss.Width(bannerArt)+2 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
