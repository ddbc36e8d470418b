package gacha

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/abhisek/gachadeck/internal/bank"
	"github.com/abhisek/gachadeck/internal/session"
)

func testDeck(ids ...string) *bank.Deck {
	cards := make([]bank.Card, len(ids))
	for i, id := range ids {
		cards[i] = bank.Card{ID: id, Term: "term " + id, Def: "def " + id}
	}
	return bank.NewDeck(cards)
}

func newGame(seed uint64, deck *bank.Deck, mastered ...string) (*Game, *session.State) {
	st := session.New()
	for _, id := range mastered {
		st.AwardKnown(id)
	}
	st.Score, st.Streak = 0, 0
	return New(deck, st, rand.New(rand.NewPCG(seed, seed^0x9e3779b9))), st
}

func TestDraw_NeverReturnsMastered(t *testing.T) {
	deck := testDeck("a", "b", "c", "d", "e", "f")
	for seed := uint64(0); seed < 50; seed++ {
		g, _ := newGame(seed, deck, "b", "d", "f")
		cards, err := g.Draw(5)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if len(cards) != 5 {
			t.Fatalf("seed %d: drew %d cards", seed, len(cards))
		}
		for _, c := range cards {
			if c.ID == "b" || c.ID == "d" || c.ID == "f" {
				t.Fatalf("seed %d: drew mastered card %q", seed, c.ID)
			}
		}
	}
}

func TestDraw_SingleRemainingCardRepeats(t *testing.T) {
	g, _ := newGame(7, testDeck("a", "b", "c"), "a", "c")
	cards, err := g.Draw(5)
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range cards {
		if c.ID != "b" {
			t.Errorf("card %d = %q, want b", i, c.ID)
		}
	}
	if len(g.Hand()) != 5 {
		t.Errorf("hand size = %d, want 5", len(g.Hand()))
	}
}

func TestDraw_Exhausted(t *testing.T) {
	g, _ := newGame(1, testDeck("a", "b"))
	if _, err := g.Draw(2); err != nil {
		t.Fatal(err)
	}

	g2, _ := newGame(1, testDeck("a", "b"), "a", "b")
	if _, err := g2.Draw(1); !errors.Is(err, ErrExhausted) {
		t.Fatalf("err = %v, want ErrExhausted", err)
	}
	if !g2.Exhausted() || len(g2.Hand()) != 0 || g2.Focus() != -1 {
		t.Errorf("exhausted game: hand=%v focus=%d", g2.Hand(), g2.Focus())
	}
}

func TestDraw_ResetsFlipAndFocus(t *testing.T) {
	g, _ := newGame(3, testDeck("a", "b", "c"))
	g.Draw(3)
	g.FlipAll()
	g.Select(2)

	g.Draw(3)
	if g.Focus() != 0 {
		t.Errorf("focus = %d after draw", g.Focus())
	}
	for i, s := range g.Hand() {
		if s.Flipped {
			t.Errorf("slot %d face up after draw", i)
		}
	}
}

func TestSelectNext_Wraps(t *testing.T) {
	g, _ := newGame(3, testDeck("a", "b", "c"))
	g.Draw(3)

	got := []int{g.SelectNext(), g.SelectNext(), g.SelectNext()}
	want := []int{1, 2, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SelectNext #%d = %d, want %d", i, got[i], want[i])
		}
	}
	if g.SelectPrev() != 2 {
		t.Error("SelectPrev should wrap to the last slot")
	}
}

func TestFlipAll(t *testing.T) {
	g, _ := newGame(3, testDeck("a", "b", "c"))
	g.Draw(3)
	g.Flip(1)

	g.FlipAll()
	for i, s := range g.Hand() {
		if !s.Flipped {
			t.Errorf("slot %d should be face up after mixed FlipAll", i)
		}
	}
	g.FlipAll()
	for i, s := range g.Hand() {
		if s.Flipped {
			t.Errorf("slot %d should be face down after second FlipAll", i)
		}
	}
}

func TestRevealIsIdempotent(t *testing.T) {
	g, _ := newGame(3, testDeck("a"))
	g.Draw(1)
	g.Reveal(0)
	g.Reveal(0)
	if !g.Hand()[0].Flipped {
		t.Error("Reveal twice should leave the card face up")
	}
}

func TestKnown(t *testing.T) {
	g, st := newGame(3, testDeck("a", "b"))
	g.Draw(2)

	if _, err := g.Known(0); !errors.Is(err, ErrFaceDown) {
		t.Fatalf("Known face down: err = %v", err)
	}

	g.Reveal(0)
	id := g.Hand()[0].Card.ID
	c, err := g.Known(0)
	if err != nil {
		t.Fatal(err)
	}
	if c.CardID != id || c.Delta != session.KnownPoints {
		t.Errorf("commit = %+v", c)
	}
	if st.Score != 0 || st.Streak != 0 || st.IsMastered(id) {
		t.Errorf("award applied before the card left: score=%d streak=%d mastered=%v", st.Score, st.Streak, st.Mastered())
	}
	if g.Pending() != 1 {
		t.Errorf("Pending = %d, want 1", g.Pending())
	}
	if !g.Hand()[0].Leaving {
		t.Error("slot should be leaving")
	}
	if _, err := g.Known(0); !errors.Is(err, ErrBusy) {
		t.Errorf("second Known: err = %v, want ErrBusy", err)
	}
	if err := g.Flip(0); !errors.Is(err, ErrBusy) {
		t.Errorf("Flip leaving slot: err = %v, want ErrBusy", err)
	}

	done, ok := g.Remove(c.Serial)
	if !ok || done.Delta != session.KnownPoints {
		t.Errorf("Remove = %+v, %v", done, ok)
	}
	if st.Score != 100 || st.Streak != 1 || !st.IsMastered(id) {
		t.Errorf("state after remove: score=%d streak=%d mastered=%v", st.Score, st.Streak, st.Mastered())
	}
	if len(g.Hand()) != 1 {
		t.Errorf("hand size after remove = %d", len(g.Hand()))
	}
	if _, ok := g.Remove(c.Serial); ok || len(g.Hand()) != 1 || st.Score != 100 {
		t.Error("second Remove should be a no-op")
	}
}

func TestKnown_PendingCardNotDrawable(t *testing.T) {
	g, _ := newGame(3, testDeck("a", "b"))
	g.Draw(1)
	g.Reveal(0)
	id := g.Hand()[0].Card.ID
	g.Known(0)

	for _, c := range g.Available() {
		if c.ID == id {
			t.Fatalf("card %q is leaving but still drawable", id)
		}
	}
}

func TestFinish_AppliesPendingInOrder(t *testing.T) {
	g, st := newGame(3, testDeck("a", "b", "c"))
	g.Draw(3)
	g.FlipAll()
	first, _ := g.Known(0)
	second, _ := g.Known(1)

	done := g.Finish()
	if len(done) != 2 || done[0].Serial != first.Serial || done[1].Serial != second.Serial {
		t.Fatalf("Finish = %+v", done)
	}
	if st.Score != 200 || st.Streak != 2 || g.Pending() != 0 {
		t.Errorf("after finish: score=%d streak=%d pending=%d", st.Score, st.Streak, g.Pending())
	}
	if len(g.Hand()) != 1 {
		t.Errorf("hand size = %d, want 1", len(g.Hand()))
	}
	if g.Finish() != nil {
		t.Error("second Finish should apply nothing")
	}
}

func TestDraw_ZeroDrawsNothing(t *testing.T) {
	g, _ := newGame(3, testDeck("a", "b"))
	g.Draw(2)
	cards, err := g.Draw(0)
	if err != nil || cards != nil {
		t.Errorf("Draw(0) = %v, %v", cards, err)
	}
	if len(g.Hand()) != 2 {
		t.Errorf("Draw(0) changed the hand: %d slots", len(g.Hand()))
	}
}

func TestRemove_AfterRedrawIsNoop(t *testing.T) {
	g, _ := newGame(3, testDeck("a", "b", "c"))
	g.Draw(2)
	g.Reveal(0)
	c, _ := g.Known(0)

	g.Draw(2)
	if _, ok := g.Remove(c.Serial); !ok {
		t.Error("award should survive a redraw")
	}
	if len(g.Hand()) != 2 {
		t.Errorf("stale Remove changed the new hand: %d slots", len(g.Hand()))
	}
}

func TestRemove_KeepsFocusInRange(t *testing.T) {
	g, _ := newGame(3, testDeck("a", "b", "c"))
	g.Draw(3)
	g.Select(2)
	g.Reveal(2)
	c, _ := g.Known(2)
	g.Remove(c.Serial)
	if g.Focus() != 1 {
		t.Errorf("focus = %d, want 1", g.Focus())
	}
}

func TestUnknown(t *testing.T) {
	g, st := newGame(3, testDeck("a", "b"))
	st.Streak = 4
	g.Draw(1)
	g.Reveal(0)
	id := g.Hand()[0].Card.ID

	serial, err := g.Unknown(0)
	if err != nil {
		t.Fatal(err)
	}
	if st.Streak != 0 || st.Score != 0 || st.IsMastered(id) {
		t.Errorf("state after unknown: %+v", st)
	}
	if !g.Hand()[0].Shaking || !g.Hand()[0].Flipped {
		t.Error("slot should shake face up until settled")
	}

	g.Settle(serial)
	s := g.Hand()[0]
	if s.Shaking || s.Flipped {
		t.Errorf("after settle: %+v", s)
	}
	if len(g.Available()) != 2 {
		t.Error("unknown card must stay in the pool")
	}
}

func TestScoreNeverDecreases(t *testing.T) {
	g, st := newGame(11, testDeck("a", "b", "c", "d"))
	last := 0
	for round := 0; round < 20; round++ {
		if _, err := g.Draw(3); err != nil {
			break
		}
		for i := range g.Hand() {
			g.Reveal(i)
			if (round+i)%2 == 0 {
				if c, err := g.Known(i); err == nil {
					g.Remove(c.Serial)
				}
			} else {
				g.Unknown(i)
			}
			if st.Score < last {
				t.Fatalf("score decreased from %d to %d", last, st.Score)
			}
			last = st.Score
		}
	}
}

func TestAlbum(t *testing.T) {
	deck := bank.NewDeck([]bank.Card{
		{ID: "nn", Term: "Neural Network", Rarity: "ur"},
		{ID: "x", Term: "Something", Rarity: ""},
	})
	g, _ := newGame(1, deck, "nn")

	album := g.Album()
	if len(album) != 2 {
		t.Fatalf("album size = %d", len(album))
	}
	if !album[0].Mastered || album[1].Mastered {
		t.Errorf("mastered flags = %v, %v", album[0].Mastered, album[1].Mastered)
	}
	if album[0].Rarity != RarityUR || album[1].Rarity != RarityR {
		t.Errorf("rarities = %v, %v", album[0].Rarity, album[1].Rarity)
	}
	if album[0].Icon != "🧠" || album[1].Icon != defaultIcon {
		t.Errorf("icons = %q, %q", album[0].Icon, album[1].Icon)
	}
}
