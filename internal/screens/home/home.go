package home

import (
	"context"
	"math/rand/v2"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gachadeck/internal/bank"
	game "github.com/abhisek/gachadeck/internal/gacha"
	"github.com/abhisek/gachadeck/internal/logger"
	qz "github.com/abhisek/gachadeck/internal/quiz"
	"github.com/abhisek/gachadeck/internal/router"
	"github.com/abhisek/gachadeck/internal/screen"
	"github.com/abhisek/gachadeck/internal/screens/album"
	"github.com/abhisek/gachadeck/internal/screens/gacha"
	"github.com/abhisek/gachadeck/internal/screens/quiz"
	"github.com/abhisek/gachadeck/internal/screens/review"
	"github.com/abhisek/gachadeck/internal/screens/stats"
	"github.com/abhisek/gachadeck/internal/session"
	"github.com/abhisek/gachadeck/internal/store"
	"github.com/abhisek/gachadeck/internal/ui/components"
	"github.com/abhisek/gachadeck/internal/ui/layout"
)

// Deps is what the home screen needs to start every other screen.
type Deps struct {
	Bank    *bank.Bank
	Manager *session.Manager
	// Events backs the stats screen. Nil disables it.
	Events store.EventRepo
	Gacha  gacha.Options
	Quiz   quiz.Options
	RNG    *rand.Rand
	Log    *logger.Logger
}

// HomeScreen is the main menu.
type HomeScreen struct {
	deps Deps
	menu components.Menu

	confirming bool
	// confirmSel is 0 for Cancel and 1 for Reset.
	confirmSel int
	notice     string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}

	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			s := build()
			return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
		}
	}

	items := []components.MenuItem{
		{Label: "DRAW CARDS", Hotkey: "d", Action: push(func() screen.Screen { return h.newGacha() })},
		{Label: "QUIZ", Hotkey: "z", Action: push(func() screen.Screen { return h.newQuiz() }),
			Disabled: deps.Bank.Questions.Len() == 0},
		{Label: "REVIEW", Hotkey: "v", Action: push(func() screen.Screen {
			return review.New(deps.Bank.Questions, deps.Quiz.Filter)
		}), Disabled: deps.Bank.Questions.Len() == 0},
		{Label: "ALBUM", Hotkey: "a", Action: push(func() screen.Screen {
			return album.New(h.newGame().Album())
		})},
		{Label: "STATS", Hotkey: "s", Action: push(func() screen.Screen {
			return stats.New(deps.Events, itemNames(deps.Bank))
		}), Disabled: deps.Events == nil},
		{Label: "RESET", Hotkey: "r", Action: func() tea.Cmd {
			h.confirming = true
			h.confirmSel = 0
			return nil
		}},
		{Label: "EXIT", Hotkey: "x", Action: func() tea.Cmd { return tea.Quit }},
	}
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) newGame() *game.Game {
	return game.New(h.deps.Bank.Deck, h.deps.Manager.State(), h.deps.RNG)
}

func (h *HomeScreen) newGacha() screen.Screen {
	return gacha.New(h.newGame(), h.deps.Bank.Deck, h.deps.Manager, h.deps.Gacha, h.deps.Log)
}

func (h *HomeScreen) newQuiz() screen.Screen {
	sess := qz.New(h.deps.Bank.Questions, h.deps.Manager.State(), h.deps.RNG)
	return quiz.New(sess, h.deps.Bank.Questions, h.deps.Manager, h.deps.Quiz, h.deps.Log)
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.confirming {
		return []layout.KeyHint{
			{Key: "←→", Description: "Choose"},
			{Key: "Enter", Description: "Confirm"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "q", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, isKey := msg.(tea.KeyMsg)
	if h.confirming {
		if isKey {
			h.updateConfirm(kmsg.String())
		}
		return h, nil
	}
	if isKey {
		h.notice = ""
		if kmsg.String() == "q" {
			return h, tea.Quit
		}
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) updateConfirm(k string) {
	switch k {
	case "left", "right", "tab", "shift+tab", "h", "l":
		h.confirmSel = 1 - h.confirmSel
	case "y":
		h.reset()
	case "n", "esc":
		h.confirming = false
	case "enter":
		if h.confirmSel == 1 {
			h.reset()
			return
		}
		h.confirming = false
	}
}

func (h *HomeScreen) reset() {
	h.confirming = false
	if err := h.deps.Manager.Reset(context.Background()); err != nil {
		h.deps.Log.Error("reset failed", "error", err)
		h.notice = "Reset failed: progress is unchanged"
		return
	}
	h.notice = "Progress reset. Every card is back in the pool."
}

// Confirming reports whether the reset confirmation is showing.
func (h *HomeScreen) Confirming() bool {
	return h.confirming
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 30 || width < 100

	cw := components.ContentWidth(width)
	st := h.deps.Manager.State()
	total := h.deps.Bank.Deck.Len()

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascotBox(mascotFor(st, total), cw))
	}
	sections = append(sections, renderStatsBar(st, total, cw, compact))

	switch {
	case h.confirming:
		sections = append(sections, renderResetConfirm(h.confirmSel, cw))
	case compact:
		sections = append(sections, renderArcadeMenuCompact(h.menu, cw))
	default:
		sections = append(sections, renderArcadeMenu(h.menu, cw))
	}

	if h.notice != "" {
		sections = append(sections, renderNotice(h.notice, cw))
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

// mascotFor picks the mascot mood from the player's progress.
func mascotFor(st *session.State, total int) MascotVariant {
	switch {
	case total > 0 && st.MasteredCount() >= total, st.Streak >= 5:
		return MascotCelebrating
	case st.Score > 0 && st.Streak == 0:
		return MascotAlert
	default:
		return MascotIdle
	}
}

// itemNames maps card and question ids to display text.
func itemNames(b *bank.Bank) map[string]string {
	names := make(map[string]string, b.Deck.Len()+b.Questions.Len())
	for _, c := range b.Deck.All() {
		names[c.ID] = c.Term
	}
	for _, q := range b.Questions.All() {
		names[q.ID()] = q.Question
	}
	return names
}
