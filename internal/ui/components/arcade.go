package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gachadeck/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for arcade sections.
// All boxes are rendered at this width so they visually align.
func ContentWidth(frameWidth int) int {
	// Leave room for cabinet border (2) + inner padding (4)
	return min(max(frameWidth-6, 20), 60)
}

// CabinetFrame wraps content in a double-border cabinet frame,
// centering vertically and horizontally within the given dimensions.
func CabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// ArcadeCard wraps content in a rounded-border card at the given content width.
func ArcadeCard(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// ArcadeButton renders a fixed-width bordered button.
func ArcadeButton(label string, selected bool, width int) string {
	style := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	if selected {
		return style.
			Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			BorderForeground(theme.ArcadeYellow).
			Render("▸ " + label)
	}
	return style.
		Foreground(theme.Text).
		BorderForeground(theme.Border).
		Render(label)
}

// ArcadeButtonRow lays buttons side by side with the selected one lit.
func ArcadeButtonRow(labels []string, selected int, width int) string {
	var parts []string
	for i, l := range labels {
		if i > 0 {
			parts = append(parts, "  ")
		}
		parts = append(parts, ArcadeButton(l, i == selected, width))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
