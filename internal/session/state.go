// Package session holds the player state shared by the flashcard and quiz
// modes: score, streak and the mastered set. Scoring rules live here so
// both modes apply them the same way.
package session

import (
	"slices"

	"github.com/abhisek/gachadeck/internal/store"
)

const (
	// LevelSpan is the number of points per level.
	LevelSpan = 500

	// KnownPoints is awarded for marking a flashcard as known.
	KnownPoints = 100

	// CorrectBase and StreakBonus make up a correct quiz answer:
	// CorrectBase + streak*StreakBonus, using the streak before the answer.
	CorrectBase = 100
	StreakBonus = 10

	// SelfRatedPoints is awarded for a self-rated correct short answer.
	SelfRatedPoints = 50
)

// Pool reports whether an item id exists in the loaded bank.
type Pool interface {
	Contains(id string) bool
}

// State is the in-memory player state. It is owned by a single goroutine.
type State struct {
	Score  int
	Streak int

	mastered []string
	seen     map[string]bool

	// foreign holds mastered ids from other banks sharing the save. They are
	// written back untouched and never counted here.
	foreign []string
}

// New returns the state of a fresh player.
func New() *State {
	return &State{seen: make(map[string]bool)}
}

// FromProgress restores state from a persisted blob. Mastered ids that are
// not in pool are set aside as foreign; a nil pool treats them all as local.
func FromProgress(p store.Progress, pool Pool) *State {
	s := New()
	s.Score = max(p.Score, 0)
	s.Streak = max(p.Streak, 0)
	for _, id := range p.Mastered {
		if pool != nil && !pool.Contains(id) {
			if id != "" && !slices.Contains(s.foreign, id) {
				s.foreign = append(s.foreign, id)
			}
			continue
		}
		s.addMastered(id)
	}
	return s
}

// Progress returns the persistable form of the state.
func (s *State) Progress() store.Progress {
	return store.Progress{
		Score:    s.Score,
		Level:    s.Level(),
		Mastered: append(append([]string{}, s.foreign...), s.mastered...),
		Streak:   s.Streak,
	}
}

// Level is floor(score / LevelSpan) + 1.
func (s *State) Level() int {
	return s.Score/LevelSpan + 1
}

// LevelProgress is the fraction of the current level completed, in [0,1).
func (s *State) LevelProgress() float64 {
	return float64(s.Score%LevelSpan) / LevelSpan
}

// Mastered returns the mastered ids of the loaded pool in the order they
// were mastered.
func (s *State) Mastered() []string {
	return append([]string{}, s.mastered...)
}

// ForeignCount is the number of saved mastered ids outside the loaded pool.
func (s *State) ForeignCount() int {
	return len(s.foreign)
}

func (s *State) MasteredCount() int {
	return len(s.mastered)
}

func (s *State) IsMastered(id string) bool {
	return s.seen[id]
}

// AwardKnown marks a flashcard as known. The card is added to the mastered
// set if absent and the streak grows. It returns the points awarded.
func (s *State) AwardKnown(id string) int {
	s.addMastered(id)
	s.Score += KnownPoints
	s.Streak++
	return KnownPoints
}

// AwardCorrect scores a correct quiz answer and returns the points awarded.
func (s *State) AwardCorrect() int {
	delta := CorrectBase + s.Streak*StreakBonus
	s.Score += delta
	s.Streak++
	return delta
}

// AwardSelfRated scores a short answer the player rated as correct.
func (s *State) AwardSelfRated() int {
	s.Score += SelfRatedPoints
	s.Streak++
	return SelfRatedPoints
}

// Miss records an incorrect answer. Score and mastered set are unchanged.
func (s *State) Miss() {
	s.Streak = 0
}

// Reset returns the state to that of a fresh player.
func (s *State) Reset() {
	s.Score = 0
	s.Streak = 0
	s.mastered = nil
	s.foreign = nil
	s.seen = make(map[string]bool)
}

func (s *State) addMastered(id string) {
	if id == "" || s.seen[id] {
		return
	}
	s.seen[id] = true
	s.mastered = append(s.mastered, id)
}
