// Package input defines the actions both game modes respond to and maps
// keyboard input onto them. Gesture input produces the same actions.
package input

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/bubbles/v2/key"
)

// Action is a mode-independent player intent.
type Action int

const (
	ActionNone Action = iota
	ActionFlip
	ActionFlipAll
	ActionNext
	ActionPrev
	ActionAccept
	ActionReject
	ActionDraw
	ActionBatchDraw
	ActionReveal
	ActionSubmit
)

func (a Action) String() string {
	switch a {
	case ActionFlip:
		return "flip"
	case ActionFlipAll:
		return "flip-all"
	case ActionNext:
		return "next"
	case ActionPrev:
		return "prev"
	case ActionAccept:
		return "accept"
	case ActionReject:
		return "reject"
	case ActionDraw:
		return "draw"
	case ActionBatchDraw:
		return "batch-draw"
	case ActionReveal:
		return "reveal"
	case ActionSubmit:
		return "submit"
	default:
		return "none"
	}
}

// Source identifies where an action came from.
type Source int

const (
	SourceKeyboard Source = iota
	SourceGesture
)

// ActionMsg delivers an action to the active screen.
type ActionMsg struct {
	Action Action
	Source Source
}

// Binding ties a key binding to the action it triggers.
type Binding struct {
	Key    key.Binding
	Action Action
}

// KeyMap is an ordered set of bindings. Earlier bindings win.
type KeyMap []Binding

// Lookup returns the action bound to msg.
func (m KeyMap) Lookup(msg tea.KeyMsg) (Action, bool) {
	for _, b := range m {
		if key.Matches(msg, b.Key) {
			return b.Action, true
		}
	}
	return ActionNone, false
}

// Help returns the key/description pairs of enabled bindings for footers.
func (m KeyMap) Help() []key.Help {
	var out []key.Help
	for _, b := range m {
		if b.Key.Enabled() {
			out = append(out, b.Key.Help())
		}
	}
	return out
}

// FlashcardKeys is the keymap of the card draw mode.
func FlashcardKeys() KeyMap {
	return KeyMap{
		{key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "draw 1")), ActionDraw},
		{key.NewBinding(key.WithKeys("D", "b"), key.WithHelp("b", "draw 5")), ActionBatchDraw},
		{key.NewBinding(key.WithKeys("space", "f"), key.WithHelp("space", "flip")), ActionFlip},
		{key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "flip all")), ActionFlipAll},
		{key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→", "next")), ActionNext},
		{key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←", "prev")), ActionPrev},
		{key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "got it")), ActionAccept},
		{key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "not yet")), ActionReject},
	}
}

// QuizKeys is the keymap of the quiz mode outside text entry. Choice
// options and typed answers are handled by the quiz screen itself.
func QuizKeys() KeyMap {
	return KeyMap{
		{key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")), ActionSubmit},
		{key.NewBinding(key.WithKeys("right", "tab"), key.WithHelp("→", "next")), ActionNext},
		{key.NewBinding(key.WithKeys("r", "space"), key.WithHelp("r", "reveal")), ActionReveal},
		{key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "I knew it")), ActionAccept},
		{key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "I didn't")), ActionReject},
	}
}
