package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gachadeck/internal/router"
	"github.com/abhisek/gachadeck/internal/screen"
	"github.com/abhisek/gachadeck/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 4500 * time.Millisecond
)

const Tagline = "Draw a card. Learn it for good."

// capsuleFrames rock the capsule machine left and right.
var capsuleFrames = []string{
	`   ╭─────────╮
   │ ◐ ◑ ◒ ◓ │
   │ ◓ ◐ ◑ ◒ │
   ├─────────┤
   │  ╭───╮  │
   │  │ ⟳ │  │
   ╰──┴───┴──╯`,
	`   ╭─────────╮
   │ ◑ ◒ ◓ ◐ │
   │ ◐ ◑ ◒ ◓ │
   ├─────────┤
   │  ╭───╮  │
   │  │ ⟲ │  │
   ╰──┴───┴──╯`,
}

var sparkleFrames = []string{"★", "✦"}

type tickMsg time.Time

// WelcomeScreen plays a short splash and then hands over to the home
// screen. Any key skips ahead.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by homeFactory.
func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	art := capsuleFrames[0]
	if w.elapsed >= phase1End {
		art = capsuleFrames[(w.tickCount/3)%len(capsuleFrames)]
	}
	rendered := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Render(art)

	if w.elapsed >= phase1End {
		sparkle := sparkleFrames[w.tickCount%len(sparkleFrames)]
		s1 := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Render(sparkle)
		s2 := lipgloss.NewStyle().Foreground(theme.Accent).Render(sparkle)

		lines := strings.Split(rendered, "\n")
		for i, pair := range [][2]string{{s1, s2}, {s2, s1}, {s1, s2}} {
			row := i * 3
			if row < len(lines) {
				lines[row] = pair[0] + "  " + lines[row] + "  " + pair[1]
			}
		}
		rendered = strings.Join(lines, "\n")
	}

	sections = append(sections, rendered)

	if w.elapsed >= phase2End {
		sections = append(sections, "", RenderBanner(width), "")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render(Tagline))
		sections = append(sections, "", lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to continue"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n"))
}
