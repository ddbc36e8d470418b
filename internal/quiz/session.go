// Package quiz implements the question mode: choice and fill-in questions
// are checked automatically, short answers are revealed and self-rated.
package quiz

import (
	"errors"
	"math/rand/v2"

	"github.com/abhisek/gachadeck/internal/bank"
	"github.com/abhisek/gachadeck/internal/session"
)

var (
	// ErrNoQuestions means the bank has no question matching the filter.
	ErrNoQuestions = errors.New("no questions available")

	// ErrNoQuestion means Next has not been called yet.
	ErrNoQuestion = errors.New("no current question")

	// ErrFlipped means the current question has already been answered or
	// revealed.
	ErrFlipped = errors.New("question already flipped")

	// ErrWrongType means the answer kind does not fit the question type.
	ErrWrongType = errors.New("answer does not fit question type")

	// ErrNotRevealed means self-rating was attempted before the reveal.
	ErrNotRevealed = errors.New("answer not revealed")
)

// Phase is where the current question stands.
type Phase int

const (
	PhaseIdle     Phase = iota // no question drawn yet
	PhaseAsking                // front face, awaiting an answer
	PhaseAnswered              // evaluated, back face showing
	PhaseRevealed              // back face showing, awaiting self-rating
)

// Result is the outcome of one evaluated answer.
type Result struct {
	Question bank.Question
	Correct  bool
	Delta    int
	Streak   int
}

// Session is one quiz run. It is not safe for concurrent use.
type Session struct {
	questions *bank.QuestionBank
	state     *session.State
	rng       *rand.Rand
	filter    bank.QuestionType

	current bank.Question
	phase   Phase
}

func New(questions *bank.QuestionBank, state *session.State, rng *rand.Rand) *Session {
	return &Session{questions: questions, state: state, rng: rng}
}

// SetFilter restricts Next to one question type. An empty type allows all.
func (s *Session) SetFilter(t bank.QuestionType) {
	s.filter = t
}

func (s *Session) Filter() bank.QuestionType { return s.filter }

// Next picks a question uniformly at random and shows its front face. The
// same question may come up twice in a row.
func (s *Session) Next() (bank.Question, error) {
	pool := s.questions.ByType(s.filter)
	if len(pool) == 0 {
		return bank.Question{}, ErrNoQuestions
	}
	s.current = pool[s.rng.IntN(len(pool))]
	s.phase = PhaseAsking
	return s.current, nil
}

// Current returns the question on screen, if any.
func (s *Session) Current() (bank.Question, bool) {
	return s.current, s.phase != PhaseIdle
}

func (s *Session) Phase() Phase { return s.phase }

// Flipped reports whether the back face is showing.
func (s *Session) Flipped() bool {
	return s.phase == PhaseAnswered || s.phase == PhaseRevealed
}

// AnswerChoice evaluates option index i of a choice question.
func (s *Session) AnswerChoice(i int) (Result, error) {
	if err := s.checkAnswerable(bank.TypeChoice); err != nil {
		return Result{}, err
	}
	if i < 0 || i >= len(s.current.Options) {
		return Result{}, ErrWrongType
	}
	return s.evaluate(i == s.current.Answer.Index), nil
}

// AnswerFill evaluates typed input for a fill-in question.
func (s *Session) AnswerFill(input string) (Result, error) {
	if err := s.checkAnswerable(bank.TypeFill); err != nil {
		return Result{}, err
	}
	return s.evaluate(MatchFill(input, s.current.Answer.Texts)), nil
}

// Reveal shows the back face for self-rating. Revealing again does nothing.
func (s *Session) Reveal() error {
	switch s.phase {
	case PhaseIdle:
		return ErrNoQuestion
	case PhaseAsking:
		s.phase = PhaseRevealed
	}
	return nil
}

// RateSelf scores a revealed question by the player's own judgement. The
// caller moves on with Next afterwards.
func (s *Session) RateSelf(correct bool) (Result, error) {
	if s.phase != PhaseRevealed {
		return Result{}, ErrNotRevealed
	}
	res := Result{Question: s.current, Correct: correct}
	if correct {
		res.Delta = s.state.AwardSelfRated()
	} else {
		s.state.Miss()
	}
	res.Streak = s.state.Streak
	s.phase = PhaseAnswered
	return res, nil
}

func (s *Session) checkAnswerable(t bank.QuestionType) error {
	switch {
	case s.phase == PhaseIdle:
		return ErrNoQuestion
	case s.Flipped():
		return ErrFlipped
	case s.current.Type != t:
		return ErrWrongType
	}
	return nil
}

func (s *Session) evaluate(correct bool) Result {
	res := Result{Question: s.current, Correct: correct}
	if correct {
		res.Delta = s.state.AwardCorrect()
	} else {
		s.state.Miss()
	}
	res.Streak = s.state.Streak
	s.phase = PhaseAnswered
	return res
}
