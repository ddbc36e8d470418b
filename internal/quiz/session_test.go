package quiz

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/abhisek/gachadeck/internal/bank"
	"github.com/abhisek/gachadeck/internal/session"
)

var (
	choiceQ = bank.Question{Type: bank.TypeChoice, Question: "Pick B", Options: []string{"A", "B", "C"}, Answer: bank.Answer{Index: 1}}
	fillQ   = bank.Question{Type: bank.TypeFill, Question: "Name it", Answer: bank.Answer{Texts: []string{"CNN", "convolutional network"}}}
	shortQ  = bank.Question{Type: bank.TypeShortAnswer, Question: "Explain", Answer: bank.Answer{Texts: []string{"because"}}}
)

func newSession(qs ...bank.Question) (*Session, *session.State) {
	st := session.New()
	return New(bank.NewQuestionBank(qs), st, rand.New(rand.NewPCG(1, 2))), st
}

func TestNext_Empty(t *testing.T) {
	s, _ := newSession()
	if _, err := s.Next(); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("err = %v, want ErrNoQuestions", err)
	}
	if _, ok := s.Current(); ok {
		t.Error("no current question expected")
	}
}

func TestNext_Filter(t *testing.T) {
	s, _ := newSession(choiceQ, fillQ, shortQ)
	s.SetFilter(bank.TypeFill)
	for range 10 {
		q, err := s.Next()
		if err != nil {
			t.Fatal(err)
		}
		if q.Type != bank.TypeFill {
			t.Fatalf("filtered Next returned %s", q.Type)
		}
	}

	s2, _ := newSession(choiceQ)
	s2.SetFilter(bank.TypeShortAnswer)
	if _, err := s2.Next(); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("err = %v, want ErrNoQuestions", err)
	}
}

func TestStreakSequence(t *testing.T) {
	s, st := newSession(choiceQ)
	picks := []int{1, 1, 0, 1}
	wantStreak := []int{1, 2, 0, 1}
	wantDelta := []int{100, 110, 0, 100}

	for i, pick := range picks {
		if _, err := s.Next(); err != nil {
			t.Fatal(err)
		}
		res, err := s.AnswerChoice(pick)
		if err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		if res.Streak != wantStreak[i] || st.Streak != wantStreak[i] {
			t.Errorf("answer %d: streak = %d, want %d", i, res.Streak, wantStreak[i])
		}
		if res.Delta != wantDelta[i] {
			t.Errorf("answer %d: delta = %d, want %d", i, res.Delta, wantDelta[i])
		}
	}
	if st.Score != 310 {
		t.Errorf("Score = %d, want 310", st.Score)
	}
}

func TestAnswerIgnoredOnceFlipped(t *testing.T) {
	s, st := newSession(choiceQ)
	s.Next()
	if _, err := s.AnswerChoice(1); err != nil {
		t.Fatal(err)
	}
	if !s.Flipped() {
		t.Fatal("card should be flipped after answering")
	}
	if _, err := s.AnswerChoice(1); !errors.Is(err, ErrFlipped) {
		t.Errorf("second answer: err = %v, want ErrFlipped", err)
	}
	if st.Score != 100 {
		t.Errorf("second answer changed score to %d", st.Score)
	}
}

func TestAnswerFill(t *testing.T) {
	s, st := newSession(fillQ)
	s.Next()
	res, err := s.AnswerFill("  cnn ")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Correct || st.Score != 100 {
		t.Errorf("res = %+v score = %d", res, st.Score)
	}

	s.Next()
	res, _ = s.AnswerFill("rnn")
	if res.Correct || st.Streak != 0 {
		t.Errorf("wrong fill: res = %+v streak = %d", res, st.Streak)
	}
}

func TestAnswerWrongType(t *testing.T) {
	s, _ := newSession(fillQ)
	s.Next()
	if _, err := s.AnswerChoice(0); !errors.Is(err, ErrWrongType) {
		t.Errorf("err = %v, want ErrWrongType", err)
	}

	s2, _ := newSession(choiceQ)
	s2.Next()
	if _, err := s2.AnswerChoice(7); !errors.Is(err, ErrWrongType) {
		t.Errorf("out of range: err = %v, want ErrWrongType", err)
	}
	if s2.Flipped() {
		t.Error("rejected answer must not flip")
	}
}

func TestAnswerBeforeNext(t *testing.T) {
	s, _ := newSession(choiceQ)
	if _, err := s.AnswerChoice(1); !errors.Is(err, ErrNoQuestion) {
		t.Errorf("err = %v, want ErrNoQuestion", err)
	}
	if err := s.Reveal(); !errors.Is(err, ErrNoQuestion) {
		t.Errorf("Reveal err = %v, want ErrNoQuestion", err)
	}
}

func TestRevealAndRateSelf(t *testing.T) {
	s, st := newSession(shortQ)
	s.Next()

	if _, err := s.RateSelf(true); !errors.Is(err, ErrNotRevealed) {
		t.Errorf("rate before reveal: err = %v", err)
	}

	if err := s.Reveal(); err != nil {
		t.Fatal(err)
	}
	if err := s.Reveal(); err != nil {
		t.Errorf("second reveal: %v", err)
	}
	if s.Phase() != PhaseRevealed {
		t.Fatalf("phase = %v, want revealed", s.Phase())
	}

	res, err := s.RateSelf(true)
	if err != nil {
		t.Fatal(err)
	}
	if res.Delta != session.SelfRatedPoints || st.Streak != 1 {
		t.Errorf("res = %+v streak = %d", res, st.Streak)
	}
	if _, err := s.RateSelf(true); !errors.Is(err, ErrNotRevealed) {
		t.Error("rating twice should fail")
	}

	s.Next()
	s.Reveal()
	res, _ = s.RateSelf(false)
	if res.Correct || st.Streak != 0 || st.Score != session.SelfRatedPoints {
		t.Errorf("self-rated miss: res = %+v state = %+v", res, st)
	}
}

func TestRevealAfterAnswerIsNoop(t *testing.T) {
	s, _ := newSession(choiceQ)
	s.Next()
	s.AnswerChoice(0)
	if err := s.Reveal(); err != nil {
		t.Fatal(err)
	}
	if s.Phase() != PhaseAnswered {
		t.Errorf("phase = %v, want answered", s.Phase())
	}
}

func TestRevealBlocksAutoAnswer(t *testing.T) {
	s, _ := newSession(choiceQ)
	s.Next()
	s.Reveal()
	if _, err := s.AnswerChoice(1); !errors.Is(err, ErrFlipped) {
		t.Errorf("answer after reveal: err = %v, want ErrFlipped", err)
	}
}

func TestReview(t *testing.T) {
	qb := bank.NewQuestionBank([]bank.Question{choiceQ, fillQ, shortQ})

	all := Review(qb, "")
	if len(all) != 3 {
		t.Fatalf("all = %d entries", len(all))
	}
	if all[0].Number != 1 || all[0].Answer != "B: B" {
		t.Errorf("choice entry = %+v", all[0])
	}
	if all[1].Answer != "CNN / convolutional network" {
		t.Errorf("fill entry answer = %q", all[1].Answer)
	}
	if all[2].Answer != "because" {
		t.Errorf("short entry answer = %q", all[2].Answer)
	}

	fills := Review(qb, bank.TypeFill)
	if len(fills) != 1 || fills[0].Number != 1 {
		t.Errorf("fill filter = %+v", fills)
	}

	if f := ReviewFilters(); len(f) != 4 || f[0] != "" {
		t.Errorf("ReviewFilters = %v", f)
	}
}
