// Package quiz is the question screen.
package quiz

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gachadeck/internal/bank"
	"github.com/abhisek/gachadeck/internal/gesture"
	"github.com/abhisek/gachadeck/internal/input"
	"github.com/abhisek/gachadeck/internal/logger"
	qz "github.com/abhisek/gachadeck/internal/quiz"
	"github.com/abhisek/gachadeck/internal/router"
	"github.com/abhisek/gachadeck/internal/screen"
	"github.com/abhisek/gachadeck/internal/screens/review"
	"github.com/abhisek/gachadeck/internal/screens/summary"
	"github.com/abhisek/gachadeck/internal/session"
	"github.com/abhisek/gachadeck/internal/ui/components"
	"github.com/abhisek/gachadeck/internal/ui/layout"
)

// Options tunes the quiz screen.
type Options struct {
	// Advance is the pause after a self-rating before the next question.
	Advance time.Duration
	Gesture gesture.Profile
	Filter  bank.QuestionType
}

func DefaultOptions() Options {
	return Options{
		Advance: time.Second,
		Gesture: gesture.QuizProfile(0.15, time.Second),
	}
}

// QuizScreen asks questions one at a time.
type QuizScreen struct {
	quiz      *qz.Session
	questions *bank.QuestionBank
	mgr       *session.Manager
	keys      input.KeyMap
	opts      Options
	log       *logger.Logger
	start     session.Summary

	// serial counts questions shown, so a stale advance tick is ignored.
	serial int
	choice components.MultiChoice
	fill   components.TextInput
	result *qz.Result
	empty  bool
	notice string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.GestureProfiler = (*QuizScreen)(nil)

func New(quiz *qz.Session, questions *bank.QuestionBank, mgr *session.Manager, opts Options, log *logger.Logger) *QuizScreen {
	quiz.SetFilter(opts.Filter)
	return &QuizScreen{
		quiz:      quiz,
		questions: questions,
		mgr:       mgr,
		keys:      input.QuizKeys(),
		opts:      opts,
		log:       log.With("screen", "quiz"),
		start:     mgr.Summary(),
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.next()
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

func (s *QuizScreen) GestureProfile() gesture.Profile {
	return s.opts.Gesture
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	back := layout.KeyHint{Key: "Esc", Description: "Back"}
	if s.empty {
		return []layout.KeyHint{{Key: "t", Description: "Type filter"}, back}
	}
	q, _ := s.quiz.Current()
	switch s.quiz.Phase() {
	case qz.PhaseRevealed:
		return []layout.KeyHint{
			{Key: "y", Description: "I knew it"},
			{Key: "n", Description: "I didn't"},
			{Key: "→", Description: "Skip"},
			back,
		}
	case qz.PhaseAnswered:
		return []layout.KeyHint{
			{Key: "Enter/→", Description: "Next"},
			{Key: "v", Description: "Review"},
			{Key: "t", Description: "Type filter"},
			back,
		}
	}
	switch q.Type {
	case bank.TypeFill:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Tab", Description: "Skip"},
			back,
		}
	case bank.TypeChoice:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "A-D", Description: "Answer"},
			{Key: "r", Description: "Reveal"},
			{Key: "→", Description: "Skip"},
			back,
		}
	default:
		return []layout.KeyHint{
			{Key: "r/Enter", Description: "Reveal"},
			{Key: "→", Description: "Skip"},
			{Key: "v", Description: "Review"},
			back,
		}
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case advanceMsg:
		if msg.serial == s.serial && s.quiz.Phase() == qz.PhaseAnswered {
			return s, s.next()
		}
		return s, nil

	case input.ActionMsg:
		return s, s.handleAction(msg.Action)

	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}

	if s.typing() {
		var cmd tea.Cmd
		s.fill, cmd = s.fill.Update(msg)
		return s, cmd
	}
	return s, nil
}

// typing reports whether keys belong to the fill-in text box.
func (s *QuizScreen) typing() bool {
	q, ok := s.quiz.Current()
	return ok && q.Type == bank.TypeFill && s.quiz.Phase() == qz.PhaseAsking
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	k := msg.String()
	if k == "esc" {
		return s.leave()
	}

	if s.typing() {
		if a, ok := s.keys.Lookup(msg); ok && a == input.ActionSubmit {
			return s.submit()
		}
		if k == "tab" {
			return s.next()
		}
		var cmd tea.Cmd
		s.fill, cmd = s.fill.Update(msg)
		return cmd
	}

	switch k {
	case "q":
		return s.leave()
	case "v":
		rs := review.New(s.questions, s.quiz.Filter())
		return func() tea.Msg { return router.PushScreenMsg{Screen: rs} }
	case "t":
		if s.quiz.Phase() != qz.PhaseRevealed {
			return s.cycleFilter()
		}
	}

	if s.empty {
		return nil
	}

	q, _ := s.quiz.Current()
	switch s.quiz.Phase() {
	case qz.PhaseAsking:
		a, ok := s.keys.Lookup(msg)
		if ok && (a == input.ActionNext || a == input.ActionReveal) {
			return s.handleAction(a)
		}
		if q.Type == bank.TypeChoice {
			return s.updateChoice(msg)
		}
		if ok && a == input.ActionSubmit {
			return s.submit()
		}
	case qz.PhaseAnswered:
		if a, ok := s.keys.Lookup(msg); ok {
			return s.handleAction(a)
		}
	case qz.PhaseRevealed:
		if a, ok := s.keys.Lookup(msg); ok {
			return s.handleAction(a)
		}
	}
	return nil
}

func (s *QuizScreen) handleAction(a input.Action) tea.Cmd {
	if s.empty {
		return nil
	}
	switch a {
	case input.ActionNext:
		return s.next()
	case input.ActionReveal:
		if err := s.quiz.Reveal(); err != nil {
			s.log.Debug("reveal ignored", "error", err)
		}
		if s.quiz.Phase() == qz.PhaseRevealed {
			s.fill.Model.Blur()
		}
	case input.ActionAccept:
		return s.rate(true)
	case input.ActionReject:
		return s.rate(false)
	case input.ActionSubmit:
		return s.submit()
	}
	return nil
}

// submit checks a typed answer, reveals a short answer, or moves past an
// answered question.
func (s *QuizScreen) submit() tea.Cmd {
	q, _ := s.quiz.Current()
	switch {
	case s.quiz.Phase() == qz.PhaseAnswered:
		return s.next()
	case s.typing():
		return s.submitFill()
	case s.quiz.Phase() == qz.PhaseAsking && q.Type == bank.TypeShortAnswer:
		return s.handleAction(input.ActionReveal)
	}
	return nil
}

func (s *QuizScreen) next() tea.Cmd {
	s.result = nil
	s.notice = ""
	q, err := s.quiz.Next()
	if errors.Is(err, qz.ErrNoQuestions) {
		s.empty = true
		return nil
	}
	s.empty = false
	s.serial++

	switch q.Type {
	case bank.TypeChoice:
		s.choice = components.NewMultiChoice(q.Options, q.Answer.Index)
	case bank.TypeFill:
		s.fill = components.NewTextInput("Type your answer...", 80)
		return s.fill.Init()
	}
	return nil
}

func (s *QuizScreen) updateChoice(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	s.choice, cmd = s.choice.Update(msg)
	if !s.choice.Submitted {
		return cmd
	}
	res, err := s.quiz.AnswerChoice(s.choice.ChosenIndex)
	if err != nil {
		s.log.Debug("choice ignored", "error", err)
		return cmd
	}
	s.record(res)
	return cmd
}

func (s *QuizScreen) submitFill() tea.Cmd {
	res, err := s.quiz.AnswerFill(s.fill.Value())
	if err != nil {
		s.log.Debug("fill ignored", "error", err)
		return nil
	}
	s.fill.Submit(res.Correct)
	s.record(res)
	return nil
}

// rate scores a revealed question and moves on after a short pause.
func (s *QuizScreen) rate(correct bool) tea.Cmd {
	res, err := s.quiz.RateSelf(correct)
	if err != nil {
		return nil
	}
	s.record(res)
	serial := s.serial
	return tea.Tick(s.opts.Advance, func(time.Time) tea.Msg {
		return advanceMsg{serial: serial}
	})
}

func (s *QuizScreen) record(res qz.Result) {
	s.result = &res
	if err := s.mgr.Record(context.Background(), session.ModeQuiz, res.Question.ID(), res.Correct, res.Delta); err != nil {
		s.log.Error("progress not saved", "error", err)
		s.notice = "Progress could not be saved"
	}
}

func (s *QuizScreen) cycleFilter() tea.Cmd {
	filters := qz.ReviewFilters()
	cur := 0
	for i, f := range filters {
		if f == s.quiz.Filter() {
			cur = i
		}
	}
	s.quiz.SetFilter(filters[(cur+1)%len(filters)])
	return s.next()
}

func (s *QuizScreen) leave() tea.Cmd {
	run := s.mgr.Summary().Since(s.start)
	if run.Answers == 0 {
		return func() tea.Msg { return router.PopScreenMsg{} }
	}
	sum := summary.New(session.ModeQuiz, run, s.mgr.State(), 0)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: sum} }
}
