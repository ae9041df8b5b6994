package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursewiz/internal/ui/theme"
)

const bannerArt = `
  ___ ___  _   _ ___  ___ _____      _____ ____
 / __/ _ \| | | | _ \/ __| __\ \    / /_ _|_  /
| (_| (_) | |_| |   /\__ \ _| \ \/\/ / | | / /
 \___\___/ \___/|_|_\|___/___| \_/\_/ |___/___|`

const bannerCompact = "C O U R S E W I Z"

// RenderBanner returns the banner styled in the primary color. Terminals
// narrower than 52 columns get the compact form.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 52 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
