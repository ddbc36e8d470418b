package gacha

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	game "github.com/abhisek/gachadeck/internal/gacha"
	"github.com/abhisek/gachadeck/internal/ui/components"
	"github.com/abhisek/gachadeck/internal/ui/theme"
)

const (
	minCardWidth = 18
	maxCardWidth = 30
	cardHeight   = 9
)

func (s *GachaScreen) View(width, height int) string {
	var sections []string

	switch {
	case s.game.Exhausted():
		sections = append(sections, s.renderExhausted(width))
	case len(s.game.Hand()) == 0:
		sections = append(sections, s.renderEmptyHand(width))
	default:
		sections = append(sections, s.renderHand(width))
	}

	if s.notice != "" {
		sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Notice.Render(s.notice)))
	}
	sections = append(sections, s.renderStatus(width))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n\n"))
}

func (s *GachaScreen) renderExhausted(width int) string {
	msg := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).
		Render("🎉 Every card is mastered!") + "\n\n" +
		theme.Hint.Render("Reset progress from the home menu to collect them again.")
	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.ArcadeCard(msg, components.ContentWidth(width)))
}

func (s *GachaScreen) renderEmptyHand(width int) string {
	left := len(s.game.Available())
	msg := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Ready to draw?") + "\n\n" +
		theme.Hint.Render(fmt.Sprintf("d draws one card, b draws %d. %d cards left to learn.",
			s.opts.BatchSize, left))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.ArcadeCard(msg, components.ContentWidth(width)))
}

// renderHand lays the hand out in as many rows as the width needs.
func (s *GachaScreen) renderHand(width int) string {
	hand := s.game.Hand()
	focus := s.game.Focus()

	cols := max(1, min(len(hand), (width-2)/(minCardWidth+3)))
	cw := min(maxCardWidth, (width-2)/cols-3)

	var rows []string
	for start := 0; start < len(hand); start += cols {
		end := min(start+cols, len(hand))
		var cards []string
		for i := start; i < end; i++ {
			cards = append(cards, renderCard(hand[i], i, i == focus, cw))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(rows, "\n"))
}

func renderCard(slot game.Slot, index int, focused bool, cw int) string {
	card := slot.Card
	rarity := game.ParseRarity(card.Rarity)
	rc := theme.Hex(rarity.Color())

	border := lipgloss.RoundedBorder()
	borderColor := rc
	if focused {
		border = lipgloss.ThickBorder()
		borderColor = theme.Primary
	}

	text := lipgloss.NewStyle().Foreground(theme.Text)
	var body string
	switch {
	case slot.Leaving:
		borderColor = theme.Success
		body = theme.Correct.Render("✓ Got it!") + "\n\n" +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(card.Term)
	case slot.Shaking:
		borderColor = theme.Error
		body = theme.Incorrect.Render("✗ Not yet") + "\n\n" +
			text.Render(card.Term)
	case slot.Flipped:
		body = text.Bold(true).Render(card.Term) + "\n\n" + text.Render(card.Def)
		if card.Analogy != "" {
			body += "\n\n" + theme.Hint.Render("💡 "+card.Analogy)
		}
	default:
		body = lipgloss.NewStyle().Foreground(rc).Bold(true).Render(string(rarity)) + "\n\n" +
			game.Icon(card.Term) + "\n" +
			text.Bold(true).Render(card.Term)
		if card.Hint != "" {
			body += "\n\n" + theme.Hint.Render(card.Hint)
		}
	}

	style := lipgloss.NewStyle().
		Border(border).
		BorderForeground(borderColor).
		Width(cw).
		Height(cardHeight).
		Align(lipgloss.Center).
		Padding(0, 1).
		MarginRight(1)
	if slot.Shaking {
		style = style.MarginLeft(1).MarginRight(0)
	}

	label := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("[%d]", index+1))
	return lipgloss.JoinVertical(lipgloss.Center, style.Render(body), label)
}

func (s *GachaScreen) renderStatus(width int) string {
	st := s.mgr.State()
	bw := min(width-8, 50)
	bar := components.NewXPBar(st.Level(), st.LevelProgress(), bw)
	line := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf(
		"Mastered %d/%d    Score %d    Streak %d",
		st.MasteredCount(), s.deck.Len(), st.Score, st.Streak))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()) + "\n" +
		lipgloss.PlaceHorizontal(width, lipgloss.Center, line)
}
