package album

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	game "github.com/abhisek/gachadeck/internal/gacha"
	"github.com/abhisek/gachadeck/internal/router"
	"github.com/abhisek/gachadeck/internal/screen"
	"github.com/abhisek/gachadeck/internal/ui/layout"
	"github.com/abhisek/gachadeck/internal/ui/theme"
)

// AlbumScreen lists every card in the deck, mastered ones in their rarity
// color and the rest locked.
type AlbumScreen struct {
	entries      []game.AlbumEntry
	selectedTab  int // 0 is all rarities, then AllRarities in order
	scrollOffset int
}

var _ screen.Screen = (*AlbumScreen)(nil)
var _ screen.KeyHintProvider = (*AlbumScreen)(nil)

// New creates an AlbumScreen over entries, usually (*gacha.Game).Album().
func New(entries []game.AlbumEntry) *AlbumScreen {
	return &AlbumScreen{entries: entries}
}

func (s *AlbumScreen) Init() tea.Cmd {
	return nil
}

func (s *AlbumScreen) Title() string {
	return "Album"
}

func (s *AlbumScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Switch rarity"},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *AlbumScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	tabs := len(game.AllRarities()) + 1
	switch kmsg.String() {
	case "esc", "q":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "tab", "right", "l":
		s.selectedTab = (s.selectedTab + 1) % tabs
		s.scrollOffset = 0
	case "shift+tab", "left", "h":
		s.selectedTab = (s.selectedTab - 1 + tabs) % tabs
		s.scrollOffset = 0
	case "up", "k":
		if s.scrollOffset > 0 {
			s.scrollOffset--
		}
	case "down", "j":
		if s.scrollOffset < len(s.filtered())-1 {
			s.scrollOffset++
		}
	}
	return s, nil
}

// Rarity returns the selected tab's rarity, or "" for all.
func (s *AlbumScreen) Rarity() game.Rarity {
	if s.selectedTab == 0 {
		return ""
	}
	return game.AllRarities()[s.selectedTab-1]
}

func (s *AlbumScreen) View(width, height int) string {
	var b strings.Builder

	mastered, _ := count(s.entries, "")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Text).
		Render(fmt.Sprintf("\nCollected: %d / %d cards\n", mastered, len(s.entries))))
	b.WriteString("\n")

	var tabs []string
	for i := 0; i <= len(game.AllRarities()); i++ {
		var r game.Rarity
		label := "All"
		if i > 0 {
			r = game.AllRarities()[i-1]
			label = string(r)
		}
		got, total := count(s.entries, r)
		label = fmt.Sprintf("%s (%d/%d)", label, got, total)
		if i == s.selectedTab {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(label))
		} else {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.TextDim).Render(label))
		}
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(tabs, "   ")))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	filtered := s.filtered()
	if len(filtered) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("No cards of this rarity"))
		return b.String()
	}

	maxVisible := max(height-10, 3)
	start := s.scrollOffset
	end := min(start+maxVisible, len(filtered))

	for _, e := range filtered[start:end] {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderEntry(e)))
		b.WriteString("\n")
	}

	if end < len(filtered) {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render(fmt.Sprintf("... %d more", len(filtered)-end)))
	}

	return b.String()
}

func renderEntry(e game.AlbumEntry) string {
	if !e.Mastered {
		line := fmt.Sprintf("  🔒  %-4s %-32s %s", e.Rarity, e.Card.Term, "locked")
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render(line)
	}
	line := fmt.Sprintf("  %s  %-4s %-32s %s", e.Icon, e.Rarity, e.Card.Term, "✓ mastered")
	return lipgloss.NewStyle().Foreground(theme.Hex(e.Rarity.Color())).Bold(true).Render(line)
}

func (s *AlbumScreen) filtered() []game.AlbumEntry {
	r := s.Rarity()
	if r == "" {
		return s.entries
	}
	var out []game.AlbumEntry
	for _, e := range s.entries {
		if e.Rarity == r {
			out = append(out, e)
		}
	}
	return out
}

// count returns how many entries of rarity r are mastered, and how many
// there are. An empty r counts every entry.
func count(entries []game.AlbumEntry, r game.Rarity) (mastered, total int) {
	for _, e := range entries {
		if r != "" && e.Rarity != r {
			continue
		}
		total++
		if e.Mastered {
			mastered++
		}
	}
	return mastered, total
}
