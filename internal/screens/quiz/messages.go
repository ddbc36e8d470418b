package quiz

// advanceMsg moves on after a self-rated answer, unless the player already
// has.
type advanceMsg struct {
	serial int
}
