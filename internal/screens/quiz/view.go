package quiz

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/gachadeck/internal/bank"
	qz "github.com/abhisek/gachadeck/internal/quiz"
	"github.com/abhisek/gachadeck/internal/ui/components"
	"github.com/abhisek/gachadeck/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var sections []string

	sections = append(sections, s.renderFilter(width))

	if s.empty {
		msg := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("No questions here") + "\n\n" +
			theme.Hint.Render("Press t to try another question type.")
		sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center,
			components.ArcadeCard(msg, cw)))
	} else {
		sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center,
			s.renderQuestion(cw)))
	}

	if s.notice != "" {
		sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Notice.Render(s.notice)))
	}
	sections = append(sections, s.renderStatus(width))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n\n"))
}

func (s *QuizScreen) renderFilter(width int) string {
	label := "All types"
	if f := s.quiz.Filter(); f != "" {
		label = f.DisplayName()
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Hint.Render("Showing: "+label))
}

func (s *QuizScreen) renderQuestion(cw int) string {
	q, _ := s.quiz.Current()
	inner := cw - 6

	var b strings.Builder
	tag := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true).
		Render("[" + q.Type.DisplayName() + "]")
	b.WriteString(tag)
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(inner).
		Render(q.Question))
	b.WriteString("\n\n")

	phase := s.quiz.Phase()
	switch q.Type {
	case bank.TypeChoice:
		b.WriteString(lipgloss.NewStyle().Align(lipgloss.Left).Render(s.choice.View()))
	case bank.TypeFill:
		if phase != qz.PhaseRevealed {
			b.WriteString(s.fill.View())
			b.WriteString("\n")
		}
	}

	if phase == qz.PhaseAsking && q.Hint != "" {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("💡 " + q.Hint))
		b.WriteString("\n")
	}

	if phase == qz.PhaseAnswered || phase == qz.PhaseRevealed {
		b.WriteString("\n")
		b.WriteString(s.renderBack(q, inner))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.borderColor()).
		Width(cw - 2).
		Padding(1, 2).
		Render(b.String())
}

func (s *QuizScreen) borderColor() color.Color {
	switch {
	case s.result == nil:
		return theme.Border
	case s.result.Correct:
		return theme.Success
	default:
		return theme.Error
	}
}

// renderBack is the answer side: the canonical answer, the explanation and
// the verdict once there is one.
func (s *QuizScreen) renderBack(q bank.Question, inner int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Width(inner).
		Render("Answer: " + q.AnswerText()))
	if q.Explanation != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Width(inner).
			Render(q.Explanation))
	}
	b.WriteString("\n\n")

	switch {
	case s.result == nil:
		b.WriteString(theme.Hint.Render("Did you know it?  y / n"))
	case s.result.Correct:
		b.WriteString(theme.Correct.Render(fmt.Sprintf("Correct! +%d", s.result.Delta)))
	default:
		b.WriteString(theme.Incorrect.Render("Not quite. Streak reset."))
	}
	return b.String()
}

func (s *QuizScreen) renderStatus(width int) string {
	st := s.mgr.State()
	bar := components.NewXPBar(st.Level(), st.LevelProgress(), min(width-8, 50))
	line := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("Score %d    Streak %d", st.Score, st.Streak))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()) + "\n" +
		lipgloss.PlaceHorizontal(width, lipgloss.Center, line)
}
