// Package gacha implements the flashcard draw game: draw a hand of random
// cards from the unmastered pool, flip them, and mark each as known or not.
package gacha

import (
	"errors"
	"math/rand/v2"

	"github.com/abhisek/gachadeck/internal/bank"
	"github.com/abhisek/gachadeck/internal/session"
)

var (
	// ErrExhausted means every card in the deck is mastered.
	ErrExhausted = errors.New("every card is mastered")

	// ErrNoSlot means the slot index does not name a card in the hand.
	ErrNoSlot = errors.New("no card in that slot")

	// ErrFaceDown means the card must be revealed before it can be rated.
	ErrFaceDown = errors.New("card is face down")

	// ErrBusy means the card is already animating out or shaking.
	ErrBusy = errors.New("card is busy")
)

// Slot is one card in the current hand.
type Slot struct {
	// Serial identifies the slot across hand changes.
	Serial  int
	Card    bank.Card
	Flipped bool
	// Leaving is set once the card is marked known; it is removed from the
	// hand when its exit animation completes.
	Leaving bool
	// Shaking is set once the card is marked unknown, until Settle.
	Shaking bool
}

// Commit describes a known-card award. Known returns it pending; Remove and
// Finish apply it and fill in the points actually awarded.
type Commit struct {
	Serial int
	CardID string
	Delta  int
}

// AlbumEntry is one card in the collection view.
type AlbumEntry struct {
	Card     bank.Card
	Rarity   Rarity
	Icon     string
	Mastered bool
}

// Game is the flashcard draw game. It is not safe for concurrent use.
type Game struct {
	deck  *bank.Deck
	state *session.State
	rng   *rand.Rand

	hand       []Slot
	focus      int
	nextSerial int
	exhausted  bool

	// pending holds known cards still animating out, in the order they were
	// marked. Their award is not applied to state until Remove or Finish.
	pending []Commit
}

// New creates a game over deck using state for scoring and rng for draws.
func New(deck *bank.Deck, state *session.State, rng *rand.Rand) *Game {
	return &Game{deck: deck, state: state, rng: rng}
}

// Available returns the cards that can still be drawn, in deck order.
// Cards awaiting a known award are excluded.
func (g *Game) Available() []bank.Card {
	var pool []bank.Card
	for i := 0; i < g.deck.Len(); i++ {
		c := g.deck.At(i)
		if !g.state.IsMastered(c.ID) && !g.isPending(c.ID) {
			pool = append(pool, c)
		}
	}
	return pool
}

// Draw replaces the hand with n cards picked independently and uniformly
// from the unmastered pool, so a hand may hold the same card twice. With an
// empty pool the hand is cleared and ErrExhausted is returned. A count below
// one draws nothing and leaves the hand as it is.
func (g *Game) Draw(n int) ([]bank.Card, error) {
	if n < 1 {
		return nil, nil
	}
	pool := g.Available()
	if len(pool) == 0 {
		g.hand = nil
		g.focus = 0
		g.exhausted = true
		return nil, ErrExhausted
	}
	cards := make([]bank.Card, n)
	hand := make([]Slot, n)
	for i := range n {
		c := pool[g.rng.IntN(len(pool))]
		g.nextSerial++
		cards[i] = c
		hand[i] = Slot{Serial: g.nextSerial, Card: c}
	}
	g.hand = hand
	g.focus = 0
	g.exhausted = false
	return cards, nil
}

// Exhausted reports whether the last draw found no unmastered cards.
func (g *Game) Exhausted() bool { return g.exhausted }

// Hand returns a copy of the current hand.
func (g *Game) Hand() []Slot {
	return append([]Slot(nil), g.hand...)
}

// Focus returns the index of the focused slot, or -1 with an empty hand.
func (g *Game) Focus() int {
	if len(g.hand) == 0 {
		return -1
	}
	return g.focus
}

// Select focuses slot i. It reports whether i was valid.
func (g *Game) Select(i int) bool {
	if i < 0 || i >= len(g.hand) {
		return false
	}
	g.focus = i
	return true
}

// SelectNext moves focus to the next slot, wrapping to the first.
func (g *Game) SelectNext() int {
	return g.step(1)
}

// SelectPrev moves focus to the previous slot, wrapping to the last.
func (g *Game) SelectPrev() int {
	return g.step(-1)
}

func (g *Game) step(d int) int {
	n := len(g.hand)
	if n == 0 {
		return -1
	}
	g.focus = ((g.focus+d)%n + n) % n
	return g.focus
}

// Flip toggles slot i between face down and face up.
func (g *Game) Flip(i int) error {
	s, err := g.slot(i)
	if err != nil {
		return err
	}
	if s.Leaving || s.Shaking {
		return ErrBusy
	}
	s.Flipped = !s.Flipped
	return nil
}

// Reveal turns slot i face up. Revealing a face-up card does nothing.
func (g *Game) Reveal(i int) error {
	s, err := g.slot(i)
	if err != nil {
		return err
	}
	if s.Leaving {
		return ErrBusy
	}
	s.Flipped = true
	return nil
}

// FlipFocused toggles the focused slot.
func (g *Game) FlipFocused() error {
	return g.Flip(g.focus)
}

// FlipAll turns every card face down if all are face up, otherwise turns
// every card face up. Cards that are leaving are left alone.
func (g *Game) FlipAll() {
	allUp := true
	live := 0
	for _, s := range g.hand {
		if s.Leaving {
			continue
		}
		live++
		if !s.Flipped {
			allUp = false
		}
	}
	if live == 0 {
		return
	}
	for i := range g.hand {
		if g.hand[i].Leaving {
			continue
		}
		g.hand[i].Flipped = !allUp
	}
}

// Known marks the face-up card in slot i as known and starts it leaving.
// State is untouched until the caller ends the exit animation with Remove
// (or Finish), which applies the award; the caller then persists.
func (g *Game) Known(i int) (Commit, error) {
	s, err := g.slot(i)
	if err != nil {
		return Commit{}, err
	}
	if s.Leaving || s.Shaking {
		return Commit{}, ErrBusy
	}
	if !s.Flipped {
		return Commit{}, ErrFaceDown
	}
	s.Leaving = true
	c := Commit{Serial: s.Serial, CardID: s.Card.ID, Delta: session.KnownPoints}
	g.pending = append(g.pending, c)
	return c, nil
}

// Unknown marks the face-up card in slot i as not known. The streak is
// reset; the card stays in the pool. The slot shakes until Settle.
func (g *Game) Unknown(i int) (int, error) {
	s, err := g.slot(i)
	if err != nil {
		return 0, err
	}
	if s.Leaving || s.Shaking {
		return 0, ErrBusy
	}
	if !s.Flipped {
		return 0, ErrFaceDown
	}
	s.Shaking = true
	g.state.Miss()
	return s.Serial, nil
}

// Settle ends the shake of the slot with serial and turns it face down.
func (g *Game) Settle(serial int) {
	if i := g.indexOf(serial); i >= 0 {
		g.hand[i].Shaking = false
		g.hand[i].Flipped = false
	}
}

// Remove ends the exit of the known card with serial: its slot leaves the
// hand, if still there, and its pending award is applied. ok is false when
// no award was pending for serial.
func (g *Game) Remove(serial int) (c Commit, ok bool) {
	if i := g.indexOf(serial); i >= 0 {
		g.hand = append(g.hand[:i], g.hand[i+1:]...)
		if g.focus > i || g.focus >= len(g.hand) {
			g.focus = max(g.focus-1, 0)
		}
	}
	for j, p := range g.pending {
		if p.Serial == serial {
			g.pending = append(g.pending[:j], g.pending[j+1:]...)
			p.Delta = g.state.AwardKnown(p.CardID)
			return p, true
		}
	}
	return Commit{}, false
}

// Finish removes every card still leaving and applies their awards in the
// order they were marked known.
func (g *Game) Finish() []Commit {
	var done []Commit
	for len(g.pending) > 0 {
		if c, ok := g.Remove(g.pending[0].Serial); ok {
			done = append(done, c)
		}
	}
	return done
}

// Pending is the number of known cards whose award is not yet applied.
func (g *Game) Pending() int { return len(g.pending) }

func (g *Game) isPending(id string) bool {
	for _, p := range g.pending {
		if p.CardID == id {
			return true
		}
	}
	return false
}

// Album lists every card in deck order with its mastered flag.
func (g *Game) Album() []AlbumEntry {
	entries := make([]AlbumEntry, g.deck.Len())
	for i := range entries {
		c := g.deck.At(i)
		entries[i] = AlbumEntry{
			Card:     c,
			Rarity:   ParseRarity(c.Rarity),
			Icon:     Icon(c.Term),
			Mastered: g.state.IsMastered(c.ID),
		}
	}
	return entries
}

func (g *Game) slot(i int) (*Slot, error) {
	if i < 0 || i >= len(g.hand) {
		return nil, ErrNoSlot
	}
	return &g.hand[i], nil
}

func (g *Game) indexOf(serial int) int {
	for i, s := range g.hand {
		if s.Serial == serial {
			return i
		}
	}
	return -1
}
