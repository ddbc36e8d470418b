package session

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/abhisek/gachadeck/internal/logger"
	"github.com/abhisek/gachadeck/internal/store"
)

type setPool map[string]bool

func (p setPool) Contains(id string) bool { return p[id] }

func TestLevel(t *testing.T) {
	tests := []struct {
		score    int
		level    int
		progress float64
	}{
		{0, 1, 0},
		{499, 1, 0.998},
		{500, 2, 0},
		{750, 2, 0.5},
		{1000, 3, 0},
	}
	for _, tt := range tests {
		s := New()
		s.Score = tt.score
		if got := s.Level(); got != tt.level {
			t.Errorf("Level(%d) = %d, want %d", tt.score, got, tt.level)
		}
		if got := s.LevelProgress(); got < tt.progress-1e-9 || got > tt.progress+1e-9 {
			t.Errorf("LevelProgress(%d) = %v, want %v", tt.score, got, tt.progress)
		}
	}
}

func TestAwardKnown(t *testing.T) {
	s := New()
	if d := s.AwardKnown("a"); d != KnownPoints {
		t.Errorf("delta = %d", d)
	}
	s.AwardKnown("a")
	s.AwardKnown("b")

	if s.Score != 300 {
		t.Errorf("Score = %d, want 300", s.Score)
	}
	if !reflect.DeepEqual(s.Mastered(), []string{"a", "b"}) {
		t.Errorf("Mastered = %v, want [a b]", s.Mastered())
	}
	if s.Streak != 3 {
		t.Errorf("Streak = %d, want 3", s.Streak)
	}
}

func TestQuizStreakSequence(t *testing.T) {
	s := New()
	answers := []bool{true, true, false, true}
	wantStreaks := []int{1, 2, 0, 1}
	wantDeltas := []int{100, 110, 0, 100}

	for i, correct := range answers {
		before := s.Score
		if correct {
			s.AwardCorrect()
		} else {
			s.Miss()
		}
		if s.Streak != wantStreaks[i] {
			t.Errorf("answer %d: streak = %d, want %d", i, s.Streak, wantStreaks[i])
		}
		if d := s.Score - before; d != wantDeltas[i] {
			t.Errorf("answer %d: delta = %d, want %d", i, d, wantDeltas[i])
		}
		if s.Score < before {
			t.Errorf("answer %d: score decreased", i)
		}
	}
}

func TestAwardSelfRated(t *testing.T) {
	s := New()
	s.Streak = 4
	if d := s.AwardSelfRated(); d != SelfRatedPoints {
		t.Errorf("delta = %d, want %d", d, SelfRatedPoints)
	}
	if s.Streak != 5 {
		t.Errorf("Streak = %d, want 5", s.Streak)
	}
}

func TestMissKeepsMastered(t *testing.T) {
	s := New()
	s.AwardKnown("a")
	s.Miss()
	if s.Streak != 0 || s.Score != 100 || !s.IsMastered("a") {
		t.Errorf("after miss: %+v mastered=%v", s, s.Mastered())
	}
}

func TestFromProgress(t *testing.T) {
	p := store.Progress{Score: 1200, Level: 9, Mastered: []string{"a", "gone", "b", "a"}, Streak: 2}
	s := FromProgress(p, setPool{"a": true, "b": true})

	if !reflect.DeepEqual(s.Mastered(), []string{"a", "b"}) {
		t.Errorf("Mastered = %v, want [a b]", s.Mastered())
	}
	got := s.Progress()
	if got.Level != 3 {
		t.Errorf("Level = %d, want 3 (derived from score)", got.Level)
	}
	if got.Streak != 2 || got.Score != 1200 {
		t.Errorf("Progress = %+v", got)
	}
	if !reflect.DeepEqual(got.Mastered, []string{"gone", "a", "b"}) {
		t.Errorf("persisted Mastered = %v, want ids outside the pool kept", got.Mastered)
	}
	if s.IsMastered("gone") || s.MasteredCount() != 2 || s.ForeignCount() != 1 {
		t.Errorf("foreign id counted as local: count=%d foreign=%d", s.MasteredCount(), s.ForeignCount())
	}

	all := FromProgress(p, nil)
	if all.MasteredCount() != 3 {
		t.Errorf("nil pool MasteredCount = %d, want 3", all.MasteredCount())
	}
}

func TestReset(t *testing.T) {
	s := New()
	s.AwardKnown("a")
	s.AwardCorrect()
	s.Reset()
	if s.Score != 0 || s.Streak != 0 || s.MasteredCount() != 0 || s.IsMastered("a") {
		t.Errorf("after reset: %+v", s)
	}
}

// --- Manager ---

type mockProgressRepo struct {
	loaded  store.Progress
	loadErr error
	saved   []store.Progress
	fields  [][]store.Field
	cleared bool
	saveErr error
}

func (m *mockProgressRepo) Load(ctx context.Context) (store.Progress, error) {
	return m.loaded, m.loadErr
}

func (m *mockProgressRepo) Save(ctx context.Context, p store.Progress, fields ...store.Field) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, p)
	m.fields = append(m.fields, fields)
	return nil
}

func (m *mockProgressRepo) Clear(ctx context.Context) error {
	m.cleared = true
	return nil
}

type mockEventRepo struct {
	events []store.AnswerEventData
	err    error
}

func (m *mockEventRepo) AppendAnswer(ctx context.Context, data store.AnswerEventData) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, data)
	return nil
}

func (m *mockEventRepo) AnswerStats(ctx context.Context) ([]store.ModeStats, error) {
	return nil, nil
}

func (m *mockEventRepo) RecentAnswers(ctx context.Context, limit int) ([]store.AnswerEventData, error) {
	return m.events, nil
}

func TestManager_Record(t *testing.T) {
	repo := &mockProgressRepo{loaded: store.DefaultProgress()}
	events := &mockEventRepo{}
	m, err := Open(context.Background(), repo, events, nil, logger.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	delta := m.State().AwardCorrect()
	if err := m.Record(context.Background(), ModeQuiz, "q-1", true, delta); err != nil {
		t.Fatalf("Record: %v", err)
	}
	m.State().Miss()
	if err := m.Record(context.Background(), ModeQuiz, "q-2", false, 0); err != nil {
		t.Fatalf("Record: %v", err)
	}

	if len(repo.saved) != 2 {
		t.Fatalf("saves = %d, want 2", len(repo.saved))
	}
	if !reflect.DeepEqual(repo.fields[0], ModeQuiz.Fields()) {
		t.Errorf("quiz saved fields = %v", repo.fields[0])
	}
	for _, f := range repo.fields[0] {
		if f == store.FieldMastered {
			t.Error("quiz mode must not write the mastered set")
		}
	}
	if len(events.events) != 2 || events.events[0].SessionID != m.SessionID() || events.events[0].Score != 100 {
		t.Errorf("events = %+v", events.events)
	}

	sum := m.Summary()
	if sum.Answers != 2 || sum.Correct != 1 || sum.PointsGained != 100 || sum.Accuracy() != 0.5 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestManager_HistoryFailureIsNotFatal(t *testing.T) {
	repo := &mockProgressRepo{loaded: store.DefaultProgress()}
	m, err := Open(context.Background(), repo, &mockEventRepo{err: errors.New("disk full")}, nil, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Record(context.Background(), ModeGacha, "a", true, 100); err != nil {
		t.Errorf("Record: %v", err)
	}
}

func TestManager_SaveFailure(t *testing.T) {
	repo := &mockProgressRepo{loaded: store.DefaultProgress(), saveErr: errors.New("locked")}
	m, err := Open(context.Background(), repo, nil, nil, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Commit(context.Background(), ModeGacha); err == nil {
		t.Error("expected save error")
	}
}

func TestManager_Reset(t *testing.T) {
	repo := &mockProgressRepo{loaded: store.Progress{Score: 900, Level: 2, Mastered: []string{"a"}}}
	m, err := Open(context.Background(), repo, nil, setPool{"a": true}, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if m.State().Score != 900 {
		t.Fatalf("loaded score = %d", m.State().Score)
	}
	if err := m.Reset(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !repo.cleared || m.State().Score != 0 || m.State().MasteredCount() != 0 {
		t.Errorf("reset did not clear: cleared=%v state=%+v", repo.cleared, m.State())
	}
}

func TestManager_KeepsOtherBanksMastered(t *testing.T) {
	repo := &mockProgressRepo{loaded: store.Progress{Score: 300, Level: 1, Mastered: []string{"math-1", "math-2"}}}
	m, err := Open(context.Background(), repo, nil, setPool{"ai-1": true}, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if m.State().MasteredCount() != 0 {
		t.Fatalf("MasteredCount = %d, want 0 for this bank", m.State().MasteredCount())
	}

	m.State().AwardKnown("ai-1")
	if err := m.Commit(context.Background(), ModeGacha); err != nil {
		t.Fatal(err)
	}
	saved := repo.saved[len(repo.saved)-1]
	if !reflect.DeepEqual(saved.Mastered, []string{"math-1", "math-2", "ai-1"}) {
		t.Errorf("saved Mastered = %v, want other banks' ids kept", saved.Mastered)
	}
	if saved.Score != 400 {
		t.Errorf("saved Score = %d", saved.Score)
	}

	if err := m.Reset(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(m.State().Progress().Mastered) != 0 {
		t.Errorf("reset kept %v", m.State().Progress().Mastered)
	}
}

func TestManager_LoadError(t *testing.T) {
	repo := &mockProgressRepo{loadErr: errors.New("boom")}
	if _, err := Open(context.Background(), repo, nil, nil, logger.Nop()); err == nil {
		t.Error("expected load error")
	}
}

func TestSummarySince(t *testing.T) {
	before := Summary{Duration: time.Minute, Answers: 3, Correct: 2, PointsGained: 210}
	after := Summary{Duration: 3 * time.Minute, Answers: 7, Correct: 5, PointsGained: 560}

	got := after.Since(before)
	want := Summary{Duration: 2 * time.Minute, Answers: 4, Correct: 3, PointsGained: 350}
	if got != want {
		t.Errorf("Since = %+v, want %+v", got, want)
	}
	if acc := got.Accuracy(); acc != 0.75 {
		t.Errorf("Accuracy = %v, want 0.75", acc)
	}
}
