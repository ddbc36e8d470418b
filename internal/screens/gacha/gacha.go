// Package gacha is the card draw screen.
package gacha

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gachadeck/internal/bank"
	game "github.com/abhisek/gachadeck/internal/gacha"
	"github.com/abhisek/gachadeck/internal/gesture"
	"github.com/abhisek/gachadeck/internal/input"
	"github.com/abhisek/gachadeck/internal/logger"
	"github.com/abhisek/gachadeck/internal/router"
	"github.com/abhisek/gachadeck/internal/screen"
	"github.com/abhisek/gachadeck/internal/screens/summary"
	"github.com/abhisek/gachadeck/internal/session"
	"github.com/abhisek/gachadeck/internal/ui/layout"
)

// Options tunes the draw screen.
type Options struct {
	BatchSize int
	// FlyAway is how long a known card animates out before it is removed
	// and the award is saved.
	FlyAway time.Duration
	// Shake is how long an unknown card shakes before turning face down.
	Shake   time.Duration
	Gesture gesture.Profile
}

// DefaultOptions matches the configuration defaults.
func DefaultOptions() Options {
	return Options{
		BatchSize: 5,
		FlyAway:   600 * time.Millisecond,
		Shake:     500 * time.Millisecond,
		Gesture:   gesture.FlashcardProfile(0.08, 400*time.Millisecond),
	}
}

// GachaScreen lets the player draw, flip and rate flashcards.
type GachaScreen struct {
	game  *game.Game
	deck  *bank.Deck
	mgr   *session.Manager
	keys  input.KeyMap
	opts  Options
	log   *logger.Logger
	start session.Summary

	notice string
}

var _ screen.Screen = (*GachaScreen)(nil)
var _ screen.KeyHintProvider = (*GachaScreen)(nil)
var _ screen.GestureProfiler = (*GachaScreen)(nil)

// New creates the draw screen over g, persisting through mgr.
func New(g *game.Game, deck *bank.Deck, mgr *session.Manager, opts Options, log *logger.Logger) *GachaScreen {
	if opts.BatchSize < 1 {
		opts.BatchSize = DefaultOptions().BatchSize
	}
	return &GachaScreen{
		game:  g,
		deck:  deck,
		mgr:   mgr,
		keys:  input.FlashcardKeys(),
		opts:  opts,
		log:   log.With("screen", "gacha"),
		start: mgr.Summary(),
	}
}

func (s *GachaScreen) Init() tea.Cmd {
	if len(s.game.Available()) == 0 {
		s.game.Draw(1)
	}
	return nil
}

func (s *GachaScreen) Title() string {
	return "Card Draw"
}

func (s *GachaScreen) GestureProfile() gesture.Profile {
	return s.opts.Gesture
}

func (s *GachaScreen) KeyHints() []layout.KeyHint {
	if s.game.Exhausted() {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	if len(s.game.Hand()) == 0 {
		return []layout.KeyHint{
			{Key: "d", Description: "Draw 1"},
			{Key: "b", Description: "Draw 5"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Space", Description: "Flip"},
		{Key: "a", Description: "Flip all"},
		{Key: "←→", Description: "Select"},
		{Key: "y/n", Description: "Got it / Not yet"},
		{Key: "d/b", Description: "Draw"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *GachaScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case flyAwayDoneMsg:
		return s, s.handleFlyAwayDone(msg)

	case shakeDoneMsg:
		s.game.Settle(msg.serial)
		return s, nil

	case input.ActionMsg:
		return s, s.handleAction(msg.Action)

	case tea.KeyMsg:
		k := msg.String()
		if k == "esc" || k == "q" {
			return s, s.leave()
		}
		if len(k) == 1 && k[0] >= '1' && k[0] <= '9' {
			s.game.Select(int(k[0] - '1'))
			return s, nil
		}
		if a, ok := s.keys.Lookup(msg); ok {
			return s, s.handleAction(a)
		}
	}
	return s, nil
}

func (s *GachaScreen) handleAction(a input.Action) tea.Cmd {
	s.notice = ""
	switch a {
	case input.ActionDraw:
		s.draw(1)
	case input.ActionBatchDraw:
		s.draw(s.opts.BatchSize)
	case input.ActionFlip:
		if err := s.game.FlipFocused(); err != nil && !errors.Is(err, game.ErrNoSlot) {
			s.log.Debug("flip ignored", "error", err)
		}
	case input.ActionFlipAll:
		s.game.FlipAll()
	case input.ActionNext:
		s.game.SelectNext()
	case input.ActionPrev:
		s.game.SelectPrev()
	case input.ActionAccept:
		return s.accept()
	case input.ActionReject:
		return s.reject()
	}
	return nil
}

func (s *GachaScreen) draw(n int) {
	if _, err := s.game.Draw(n); err != nil {
		s.log.Info("draw found no cards", "error", err)
	}
}

func (s *GachaScreen) accept() tea.Cmd {
	c, err := s.game.Known(s.game.Focus())
	if err != nil {
		s.explain(err)
		return nil
	}
	s.log.Debug("card known", "card_id", c.CardID, "delta", c.Delta)
	return tea.Tick(s.opts.FlyAway, func(time.Time) tea.Msg {
		return flyAwayDoneMsg{commit: c}
	})
}

func (s *GachaScreen) reject() tea.Cmd {
	focus := s.game.Focus()
	serial, err := s.game.Unknown(focus)
	if err != nil {
		s.explain(err)
		return nil
	}
	id := s.game.Hand()[focus].Card.ID
	if err := s.mgr.Record(context.Background(), session.ModeGacha, id, false, 0); err != nil {
		s.saveFailed(err)
	}
	return tea.Tick(s.opts.Shake, func(time.Time) tea.Msg {
		return shakeDoneMsg{serial: serial}
	})
}

// handleFlyAwayDone removes the card once its exit animation ends and only
// then applies and writes the award.
func (s *GachaScreen) handleFlyAwayDone(msg flyAwayDoneMsg) tea.Cmd {
	if c, ok := s.game.Remove(msg.commit.Serial); ok {
		s.record(c)
	}
	if len(s.game.Available()) == 0 && len(s.game.Hand()) == 0 && s.game.Pending() == 0 {
		s.game.Draw(1)
	}
	return nil
}

func (s *GachaScreen) record(c game.Commit) {
	if err := s.mgr.Record(context.Background(), session.ModeGacha, c.CardID, true, c.Delta); err != nil {
		s.saveFailed(err)
	}
}

func (s *GachaScreen) explain(err error) {
	switch {
	case errors.Is(err, game.ErrFaceDown):
		s.notice = "Flip the card first"
	case errors.Is(err, game.ErrNoSlot):
		s.notice = "Draw a card first"
	}
}

func (s *GachaScreen) saveFailed(err error) {
	s.log.Error("progress not saved", "error", err)
	s.notice = "Progress could not be saved"
}

// leave shows the run summary if any card was rated, otherwise goes back.
// Cards still flying away are settled first so their awards are saved.
func (s *GachaScreen) leave() tea.Cmd {
	for _, c := range s.game.Finish() {
		s.record(c)
	}
	run := s.mgr.Summary().Since(s.start)
	if run.Answers == 0 {
		return func() tea.Msg { return router.PopScreenMsg{} }
	}
	sum := summary.New(session.ModeGacha, run, s.mgr.State(), s.deck.Len())
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: sum} }
}
