// Package review lists every question with its answer hidden until asked.
package review

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gachadeck/internal/bank"
	"github.com/abhisek/gachadeck/internal/quiz"
	"github.com/abhisek/gachadeck/internal/router"
	"github.com/abhisek/gachadeck/internal/screen"
	"github.com/abhisek/gachadeck/internal/ui/layout"
	"github.com/abhisek/gachadeck/internal/ui/theme"
)

// ReviewScreen shows the question list. Gesture input is off here.
type ReviewScreen struct {
	questions *bank.QuestionBank
	filters   []bank.QuestionType
	filter    int
	entries   []quiz.ReviewEntry

	selected int
	revealed map[int]bool
	showAll  bool
}

var _ screen.Screen = (*ReviewScreen)(nil)
var _ screen.KeyHintProvider = (*ReviewScreen)(nil)

// New creates a ReviewScreen starting on filter. An empty filter lists all
// questions.
func New(questions *bank.QuestionBank, filter bank.QuestionType) *ReviewScreen {
	s := &ReviewScreen{
		questions: questions,
		filters:   quiz.ReviewFilters(),
	}
	for i, f := range s.filters {
		if f == filter {
			s.filter = i
		}
	}
	s.load()
	return s
}

func (s *ReviewScreen) load() {
	s.entries = quiz.Review(s.questions, s.filters[s.filter])
	s.selected = 0
	s.revealed = make(map[int]bool)
}

func (s *ReviewScreen) Init() tea.Cmd {
	return nil
}

func (s *ReviewScreen) Title() string {
	return "Question Review"
}

func (s *ReviewScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Filter"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Show answer"},
		{Key: "a", Description: "Show all"},
		{Key: "Esc", Description: "Back"},
	}
}

// Filter returns the active question type filter.
func (s *ReviewScreen) Filter() bank.QuestionType {
	return s.filters[s.filter]
}

// Visible reports whether the answer of entry i is shown.
func (s *ReviewScreen) Visible(i int) bool {
	return s.showAll || s.revealed[i]
}

func (s *ReviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "esc", "q":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "tab":
		s.filter = (s.filter + 1) % len(s.filters)
		s.load()
	case "shift+tab":
		s.filter = (s.filter - 1 + len(s.filters)) % len(s.filters)
		s.load()
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.entries)-1 {
			s.selected++
		}
	case "enter", "space":
		if len(s.entries) > 0 {
			s.revealed[s.selected] = !s.revealed[s.selected]
		}
	case "a":
		s.showAll = !s.showAll
		if !s.showAll {
			s.revealed = make(map[int]bool)
		}
	}
	return s, nil
}

func (s *ReviewScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	var tabs []string
	for i, f := range s.filters {
		name := "All"
		if f != "" {
			name = f.DisplayName()
		}
		label := fmt.Sprintf("%s (%d)", name, len(s.questions.ByType(f)))
		if i == s.filter {
			tabs = append(tabs, theme.Selected.Render(label))
		} else {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.TextDim).Render(label))
		}
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(tabs, "     ")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 70)))))
	b.WriteString("\n\n")

	if len(s.entries) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("No questions of this type"))
		return b.String()
	}

	// Each entry takes two lines when its answer is shown.
	maxVisible := max((height-6)/2, 3)
	start := 0
	if s.selected >= maxVisible {
		start = s.selected - maxVisible + 1
	}
	end := min(start+maxVisible, len(s.entries))

	lineWidth := min(width-4, 90)
	for i := start; i < end; i++ {
		e := s.entries[i]
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "▸ "
			style = theme.Selected
		}
		tag := lipgloss.NewStyle().Foreground(theme.Secondary).
			Render(fmt.Sprintf("[%s]", e.Question.Type.DisplayName()))
		line := style.Render(fmt.Sprintf("%s%d. ", prefix, e.Number)) + tag + " " +
			style.Render(e.Question.Question)
		b.WriteString(lipgloss.NewStyle().Width(lineWidth).Render(line))
		b.WriteString("\n")
		if s.Visible(i) {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Width(lineWidth).
				Render("     → " + e.Answer))
			b.WriteString("\n")
		}
	}

	if end < len(s.entries) {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(fmt.Sprintf("  ... %d more", len(s.entries)-end)))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}
