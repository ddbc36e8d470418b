package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gachadeck/internal/router"
	"github.com/abhisek/gachadeck/internal/screen"
	"github.com/abhisek/gachadeck/internal/session"
	"github.com/abhisek/gachadeck/internal/ui/components"
	"github.com/abhisek/gachadeck/internal/ui/layout"
	"github.com/abhisek/gachadeck/internal/ui/theme"
)

// SummaryScreen shows what a play run achieved.
type SummaryScreen struct {
	mode    session.Mode
	summary session.Summary
	state   *session.State
	total   int
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen. total is the number of cards in the deck,
// used for the mastered count.
func New(mode session.Mode, summary session.Summary, state *session.State, total int) *SummaryScreen {
	return &SummaryScreen{mode: mode, summary: summary, state: state, total: total}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Run Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder

	title := "Draw run complete!"
	if s.mode == session.ModeQuiz {
		title = "Quiz run complete!"
	}
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), title))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim),
		fmt.Sprintf("Duration: %d:%02d", mins, secs)))
	b.WriteString("\n\n")

	label := "Answers"
	if s.mode == session.ModeGacha {
		label = "Cards rated"
	}
	statsLine := fmt.Sprintf("%s: %d        Correct: %d        Accuracy: %.0f%%",
		label, sum.Answers, sum.Correct, sum.Accuracy()*100)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), statsLine))
	b.WriteString("\n\n")

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true),
		fmt.Sprintf("+%d points", sum.PointsGained)))
	b.WriteString("\n\n")

	if s.state != nil {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
			strings.Repeat("─", min(width-8, 60)))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n\n")

		bar := components.NewXPBar(s.state.Level(), s.state.LevelProgress(), min(width-8, 50))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
		b.WriteString("\n\n")

		line := fmt.Sprintf("Score %d    Streak %d", s.state.Score, s.state.Streak)
		if s.total > 0 {
			line += fmt.Sprintf("    Mastered %d/%d", s.state.MasteredCount(), s.total)
		}
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), line))
	}

	return b.String()
}
