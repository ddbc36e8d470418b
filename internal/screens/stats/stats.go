package stats

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/gachadeck/internal/router"
	"github.com/abhisek/gachadeck/internal/screen"
	"github.com/abhisek/gachadeck/internal/session"
	"github.com/abhisek/gachadeck/internal/store"
	"github.com/abhisek/gachadeck/internal/ui/layout"
	"github.com/abhisek/gachadeck/internal/ui/theme"
)

// RecentLimit is how many answers the screen loads.
const RecentLimit = 50

type statsLoadedMsg struct {
	Modes  []store.ModeStats
	Recent []store.AnswerEventData
	Err    error
}

// StatsScreen shows per-mode totals and the latest answers.
type StatsScreen struct {
	eventRepo store.EventRepo
	names     map[string]string
	modes     []store.ModeStats
	recent    []store.AnswerEventData
	offset    int
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*StatsScreen)(nil)
var _ screen.KeyHintProvider = (*StatsScreen)(nil)

// New creates a StatsScreen. names maps item ids to display text; ids not
// in it are shown as they are.
func New(eventRepo store.EventRepo, names map[string]string) *StatsScreen {
	return &StatsScreen{
		eventRepo: eventRepo,
		names:     names,
	}
}

func (s *StatsScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		modes, err := s.eventRepo.AnswerStats(ctx)
		if err != nil {
			return statsLoadedMsg{Err: err}
		}
		recent, err := s.eventRepo.RecentAnswers(ctx, RecentLimit)
		if err != nil {
			return statsLoadedMsg{Modes: modes}
		}
		return statsLoadedMsg{Modes: modes, Recent: recent}
	}
}

func (s *StatsScreen) Title() string {
	return "Stats"
}

func (s *StatsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.modes = msg.Modes
			s.recent = msg.Recent
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			if s.offset < len(s.recent)-1 {
				s.offset++
			}
		}
	}
	return s, nil
}

func (s *StatsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading stats...")
	}
	if len(s.modes) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No answers yet. Draw a card or take a quiz!")
	}

	center := func(style lipgloss.Style, text string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(text))
	}

	var b strings.Builder
	b.WriteString("\n")

	head := lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true)
	b.WriteString(center(head, fmt.Sprintf("%-12s %8s %8s %9s %8s  %s",
		"MODE", "ANSWERS", "CORRECT", "ACCURACY", "POINTS", "LAST PLAYED")))
	b.WriteString("\n")
	for _, m := range s.modes {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), FormatModeRow(m)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	b.WriteString(center(head, "RECENT ANSWERS"))
	b.WriteString("\n")

	maxVisible := max(height-len(s.modes)-10, 3)
	end := min(s.offset+maxVisible, len(s.recent))
	for _, ev := range s.recent[s.offset:end] {
		style := theme.Incorrect.Bold(false)
		mark := "✗"
		if ev.Correct {
			style = theme.Correct.Bold(false)
			mark = "✓"
		}
		line := fmt.Sprintf("%s  %s  %-5s  %-36s %+5d", mark,
			ev.Timestamp.Format("Jan 02 15:04"), ev.Mode, truncate(s.name(ev.ItemID), 36), ev.Delta)
		b.WriteString(center(style, line))
		b.WriteString("\n")
	}
	if end < len(s.recent) {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim),
			fmt.Sprintf("... %d more", len(s.recent)-end)))
	}

	return b.String()
}

func (s *StatsScreen) name(id string) string {
	if n, ok := s.names[id]; ok {
		return n
	}
	return id
}

// FormatModeRow renders one line of the per-mode table. The stats command
// prints the same rows.
func FormatModeRow(m store.ModeStats) string {
	last := "-"
	if !m.LastAt.IsZero() {
		last = m.LastAt.Format("Jan 02, 2006")
	}
	return fmt.Sprintf("%-12s %8d %8d %8.0f%% %8d  %s",
		modeLabel(m.Mode), m.Answers, m.Correct, m.Accuracy()*100, m.Points, last)
}

func modeLabel(mode string) string {
	switch session.Mode(mode) {
	case session.ModeGacha:
		return "Card draw"
	case session.ModeQuiz:
		return "Quiz"
	default:
		return mode
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
