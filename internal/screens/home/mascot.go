package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gachadeck/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // Default purple
	MascotCelebrating                      // Gold, star eyes: deck complete or hot streak
	MascotAlert                            // Orange, exclamation: streak just broke
)

const mascotIdle = `╭─────╮
│ ◉ ◉ │
│  ▽  │
│ ▤▤▤ │
╰─────╯`

const mascotCelebrating = `╭─────╮
│ ★ ★ │
│  ▿  │
│ ▤▤▤ │
╰─╥═╥─╯
  ╚═╝`

const mascotAlert = `╭─────╮
│ ◉ ◉ │ !
│  ▽  │
│ ▤▤▤ │
╰─────╯`

// RenderMascot returns the mascot ASCII art for the given variant.
func RenderMascot(variant MascotVariant) string {
	art := mascotIdle
	fg := theme.Primary

	switch variant {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.ArcadeYellow
	case MascotAlert:
		art = mascotAlert
		fg = theme.Accent
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
