package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gachadeck/internal/ui/theme"
)

const bannerArt = `
  ██████╗  █████╗  ██████╗██╗  ██╗ █████╗ ██████╗ ███████╗ ██████╗██╗  ██╗
 ██╔════╝ ██╔══██╗██╔════╝██║  ██║██╔══██╗██╔══██╗██╔════╝██╔════╝██║ ██╔╝
 ██║  ███╗███████║██║     ███████║███████║██║  ██║█████╗  ██║     █████╔╝
 ██║   ██║██╔══██║██║     ██╔══██║██╔══██║██║  ██║██╔══╝  ██║     ██╔═██╗
 ╚██████╔╝██║  ██║╚██████╗██║  ██║██║  ██║██████╔╝███████╗╚██████╗██║  ██╗
  ╚═════╝ ╚═╝  ╚═╝ ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝╚═════╝ ╚══════╝ ╚═════╝╚═╝  ╚═╝`

const bannerCompact = "G A C H A D E C K"

// BannerWidth is the narrowest terminal the full banner fits in.
const BannerWidth = 76

// RenderBanner returns the GACHADECK banner styled in the primary color,
// or a one-line fallback on narrow terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < BannerWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
