package album

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gachadeck/internal/bank"
	game "github.com/abhisek/gachadeck/internal/gacha"
	"github.com/abhisek/gachadeck/internal/router"
)

func testEntries() []game.AlbumEntry {
	return []game.AlbumEntry{
		{Card: bank.Card{ID: "nn", Term: "Neural Network"}, Rarity: game.RaritySSR, Icon: "🧠", Mastered: true},
		{Card: bank.Card{ID: "cnn", Term: "CNN"}, Rarity: game.RaritySR, Icon: "👁️"},
		{Card: bank.Card{ID: "rl", Term: "Reinforcement Learning"}, Rarity: game.RarityUR, Icon: "🎮"},
	}
}

func TestAlbumScreen_View(t *testing.T) {
	s := New(testEntries())
	view := s.View(100, 40)

	if !strings.Contains(view, "Collected: 1 / 3 cards") {
		t.Error("view should show the collected count")
	}
	if !strings.Contains(view, "Neural Network") || !strings.Contains(view, "locked") {
		t.Error("view should list mastered and locked cards")
	}
	if !strings.Contains(view, "SSR (1/1)") {
		t.Error("rarity tabs should carry counts")
	}
}

func TestAlbumScreen_RarityTabs(t *testing.T) {
	s := New(testEntries())
	if s.Rarity() != "" {
		t.Fatalf("initial rarity = %q, want all", s.Rarity())
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if s.Rarity() != game.RarityR {
		t.Errorf("after tab rarity = %q, want R", s.Rarity())
	}
	if !strings.Contains(s.View(100, 40), "No cards of this rarity") {
		t.Error("R tab should be empty")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	if s.Rarity() != game.RarityUR {
		t.Errorf("wrapping back: rarity = %q, want UR", s.Rarity())
	}
	if len(s.filtered()) != 1 {
		t.Errorf("UR filter = %d entries", len(s.filtered()))
	}
}

func TestAlbumScreen_Escape(t *testing.T) {
	s := New(testEntries())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("esc should return a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("esc should pop the screen")
	}
}
