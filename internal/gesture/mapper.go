// Package gesture turns a stream of hand landmark frames into player
// actions. A detector subprocess supplies frames, a Mapper classifies the
// frame-to-frame motion of one anchor landmark, and a Loop ties the two
// together with a start/stop lifecycle.
package gesture

import (
	"math"
	"time"

	"github.com/abhisek/gachadeck/internal/input"
)

// AnchorLandmark is the landmark tracked for motion: the base of the middle
// finger, which stays stable while the hand swipes.
const AnchorLandmark = 9

// Point is a normalized image position; both axes run 0..1 with y down.
type Point struct {
	X, Y float64
}

// Sample is one observation of the anchor. Hand is false for frames in
// which no hand was detected.
type Sample struct {
	At    time.Duration
	Point Point
	Hand  bool
}

// Profile decides which swipe maps to which action.
type Profile struct {
	Name      string
	Threshold float64
	Cooldown  time.Duration
	classify  func(dx, dy, threshold float64) input.Action
}

// Enabled reports whether the profile maps anything.
func (p Profile) Enabled() bool { return p.classify != nil }

// Disabled maps nothing; used on screens without gesture control.
func Disabled() Profile { return Profile{Name: "disabled"} }

// FlashcardProfile: swipe up flips all cards, down draws a batch, right
// moves to the next card and left flips the focused card. Only the axis
// with the larger motion counts; vertical is taken on a tie.
func FlashcardProfile(threshold float64, cooldown time.Duration) Profile {
	return Profile{
		Name:      "flashcard",
		Threshold: threshold,
		Cooldown:  cooldown,
		classify: func(dx, dy, t float64) input.Action {
			if math.Abs(dy) >= math.Abs(dx) {
				switch {
				case dy < -t:
					return input.ActionFlipAll
				case dy > t:
					return input.ActionBatchDraw
				}
				return input.ActionNone
			}
			switch {
			case dx > t:
				return input.ActionNext
			case dx < -t:
				return input.ActionFlip
			}
			return input.ActionNone
		},
	}
}

// quizSteady bounds horizontal drift for a vertical reveal swipe.
const quizSteady = 0.05

// QuizProfile: swipe right for the next question, a mostly vertical swipe
// in either direction to reveal the answer.
func QuizProfile(threshold float64, cooldown time.Duration) Profile {
	return Profile{
		Name:      "quiz",
		Threshold: threshold,
		Cooldown:  cooldown,
		classify: func(dx, dy, t float64) input.Action {
			switch {
			case dx > t:
				return input.ActionNext
			case math.Abs(dx) < quizSteady && math.Abs(dy) > t:
				return input.ActionReveal
			}
			return input.ActionNone
		},
	}
}

// Mapper debounces anchor motion into actions. The first hand sample only
// records a position. After an action fires, further actions are
// suppressed for the profile cooldown, measured on sample time. The last
// position is updated on every hand sample, including suppressed ones.
type Mapper struct {
	profile   Profile
	last      Point
	primed    bool
	coolUntil time.Duration
	cooling   bool
}

func NewMapper(p Profile) *Mapper {
	return &Mapper{profile: p}
}

func (m *Mapper) Profile() Profile { return m.profile }

// SetProfile switches profiles and forgets motion history.
func (m *Mapper) SetProfile(p Profile) {
	*m = Mapper{profile: p}
}

// Observe feeds one sample and returns the action it triggers, if any.
func (m *Mapper) Observe(s Sample) (input.Action, bool) {
	if !s.Hand {
		return input.ActionNone, false
	}
	prev := m.last
	m.last = s.Point
	if !m.primed {
		m.primed = true
		return input.ActionNone, false
	}
	if m.cooling {
		if s.At < m.coolUntil {
			return input.ActionNone, false
		}
		m.cooling = false
	}
	if !m.profile.Enabled() {
		return input.ActionNone, false
	}

	a := m.profile.classify(s.Point.X-prev.X, s.Point.Y-prev.Y, m.profile.Threshold)
	if a == input.ActionNone {
		return input.ActionNone, false
	}
	m.cooling = true
	m.coolUntil = s.At + m.profile.Cooldown
	return a, true
}

// Anchor extracts the anchor point of the first hand in f.
func Anchor(f Frame) (Point, bool) {
	if len(f.Hands) == 0 || len(f.Hands[0]) <= AnchorLandmark {
		return Point{}, false
	}
	lm := f.Hands[0][AnchorLandmark]
	return Point{X: lm.X, Y: lm.Y}, true
}
