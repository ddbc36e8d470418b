package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/gachadeck/internal/session"
	"github.com/abhisek/gachadeck/internal/ui/components"
	"github.com/abhisek/gachadeck/internal/ui/theme"
)

// Two-line block title sized to fit inside the cabinet.
const arcadeTitleFull = ` ▄▀▀ ▄▀▄ ▄▀▀ █ █ ▄▀▄ █▀▄ ██▀ ▄▀▀ █▄▀
 ▀▄█ █▀█ ▀▄▄ █▀█ █▀█ █▄▀ █▄▄ ▀▄▄ █ █`

const arcadeTitleCompact = "G · A · C · H · A · D · E · C · K"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	title := arcadeTitleFull
	if compact {
		title = arcadeTitleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

// renderStatsBar renders level, XP, score, streak and the mastered count
// in a bordered box matching content width.
func renderStatsBar(st *session.State, total, cw int, compact bool) string {
	levelStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	scoreStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	streakStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	streak := streakStyle
	if st.Streak == 0 {
		streak = dimStyle
	}

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s %s",
			levelStyle.Render(fmt.Sprintf("Lv%d", st.Level())),
			scoreStyle.Render(fmt.Sprintf("★%d", st.Score)),
			streak.Render(fmt.Sprintf("🔥%d", st.Streak)),
			dimStyle.Render(fmt.Sprintf("%d/%d", st.MasteredCount(), total)),
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s  %s",
			levelStyle.Render(fmt.Sprintf("LV %d", st.Level())),
			scoreStyle.Render(fmt.Sprintf("★ %d", st.Score)),
			streak.Render(fmt.Sprintf("🔥 %d STREAK", st.Streak)),
			dimStyle.Render(fmt.Sprintf("%d/%d MASTERED", st.MasteredCount(), total)),
		)
		bar := components.NewXPBar(st.Level(), st.LevelProgress(), cw-8)
		stats += "\n" + bar.View()
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2). // account for border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// renderArcadeMenu renders each menu item as a fixed-width button.
func renderArcadeMenu(menu components.Menu, cw int) string {
	disabledBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	var buttons []string
	for i, item := range menu.Items {
		if item.Disabled {
			buttons = append(buttons, disabledBtn.Render(item.Label))
			continue
		}
		buttons = append(buttons, components.ArcadeButton(item.Label, i == menu.Selected, buttonWidth))
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderArcadeMenuCompact renders menu items as simple text lines (no borders)
// for very small terminals where bordered buttons would overflow.
func renderArcadeMenuCompact(menu components.Menu, cw int) string {
	var lines []string
	for i, item := range menu.Items {
		var line string
		switch {
		case item.Disabled:
			line = lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Render("   " + item.Label)
		case i == menu.Selected:
			line = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.ArcadeYellow).
				Bold(true).
				Render(" ▸ " + item.Label + " ")
		default:
			line = lipgloss.NewStyle().
				Foreground(theme.Text).
				Render("   " + item.Label)
		}
		lines = append(lines, line)
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

// renderResetConfirm asks before wiping progress.
func renderResetConfirm(selected, cw int) string {
	question := lipgloss.NewStyle().Foreground(theme.Error).Bold(true).
		Render("Reset all progress?")
	detail := theme.Hint.Render("Score, level, streak and mastered cards are cleared.\nAnswer history is kept.")
	buttons := components.ArcadeButtonRow([]string{"CANCEL", "RESET"}, selected, 12)
	return components.ArcadeCard(question+"\n\n"+detail+"\n\n"+buttons, cw)
}

func renderNotice(text string, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(theme.Notice.Render(text))
}

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
