package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gachadeck/internal/ui/theme"
)

// MenuItem represents a single item in a navigation menu.
type MenuItem struct {
	Label string
	// Hotkey activates the item directly when pressed. Optional.
	Hotkey   string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical navigation menu.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a new menu with the given items.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	m.Selected = m.nextEnabled(-1, 1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

// Init returns nil (no initial command).
func (m Menu) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation. Up and down wrap around.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch k := kmsg.String(); k {
	case "up", "k":
		if i := m.nextEnabled(m.Selected, -1); i >= 0 {
			m.Selected = i
		}
	case "down", "j":
		if i := m.nextEnabled(m.Selected, 1); i >= 0 {
			m.Selected = i
		}
	case "enter":
		return m, m.activate(m.Selected)
	default:
		for i, item := range m.Items {
			if item.Hotkey != "" && item.Hotkey == k && !item.Disabled {
				m.Selected = i
				return m, m.activate(i)
			}
		}
	}

	return m, nil
}

func (m Menu) activate(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) {
		return nil
	}
	item := m.Items[i]
	if item.Action == nil || item.Disabled {
		return nil
	}
	return item.Action()
}

// nextEnabled walks from i in direction d, wrapping, and returns the first
// enabled index or -1.
func (m Menu) nextEnabled(i, d int) int {
	n := len(m.Items)
	for step := 1; step <= n; step++ {
		j := ((i+d*step)%n + n) % n
		if !m.Items[j].Disabled {
			return j
		}
	}
	return -1
}

// Labels returns the item labels in order.
func (m Menu) Labels() []string {
	labels := make([]string, len(m.Items))
	for i, item := range m.Items {
		labels[i] = item.Label
	}
	return labels
}

// View renders the menu as plain lines.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		switch {
		case item.Disabled:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("    " + item.Label))
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("  ▸ " + item.Label))
		default:
			b.WriteString(theme.Unselected.Render("    " + item.Label))
		}
		b.WriteString("\n")
	}
	return b.String()
}
