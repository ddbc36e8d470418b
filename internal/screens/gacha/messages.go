package gacha

import game "github.com/abhisek/gachadeck/internal/gacha"

// flyAwayDoneMsg is sent when a known card has finished leaving the hand.
type flyAwayDoneMsg struct {
	commit game.Commit
}

// shakeDoneMsg is sent when an unknown card stops shaking.
type shakeDoneMsg struct {
	serial int
}
