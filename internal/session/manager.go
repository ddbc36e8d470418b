package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/gachadeck/internal/logger"
	"github.com/abhisek/gachadeck/internal/store"
)

// Mode names a game mode in answer history.
type Mode string

const (
	ModeGacha Mode = "gacha"
	ModeQuiz  Mode = "quiz"
)

// Fields returns the progress fields a mode writes. The quiz does not own
// the mastered set, so it leaves that key alone.
func (m Mode) Fields() []store.Field {
	if m == ModeQuiz {
		return []store.Field{store.FieldScore, store.FieldLevel, store.FieldStreak}
	}
	return store.AllFields()
}

// Manager owns the State for one run and persists it.
type Manager struct {
	state  *State
	repo   store.ProgressRepo
	events store.EventRepo
	log    *logger.Logger

	sessionID string
	startedAt time.Time
	summary   Summary
}

// Open loads persisted progress and returns a Manager for it. events may be
// nil, in which case answer history is not recorded.
func Open(ctx context.Context, repo store.ProgressRepo, events store.EventRepo, pool Pool, log *logger.Logger) (*Manager, error) {
	p, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	m := &Manager{
		state:     FromProgress(p, pool),
		repo:      repo,
		events:    events,
		log:       log,
		sessionID: uuid.New().String(),
		startedAt: time.Now(),
	}
	if n := m.state.ForeignCount(); n > 0 {
		log.Info("keeping mastered ids from other banks", "count", n)
	}
	log.Info("session opened", "session_id", m.sessionID, "score", m.state.Score, "mastered", m.state.MasteredCount())
	return m, nil
}

func (m *Manager) State() *State { return m.state }

func (m *Manager) SessionID() string { return m.sessionID }

// Commit persists the fields owned by mode.
func (m *Manager) Commit(ctx context.Context, mode Mode) error {
	if err := m.repo.Save(ctx, m.state.Progress(), mode.Fields()...); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// Record persists the state after an answer and appends it to history.
// A history failure is logged and does not fail the call.
func (m *Manager) Record(ctx context.Context, mode Mode, itemID string, correct bool, delta int) error {
	m.summary.add(correct, delta)
	if err := m.Commit(ctx, mode); err != nil {
		return err
	}
	if m.events == nil {
		return nil
	}
	err := m.events.AppendAnswer(ctx, store.AnswerEventData{
		SessionID: m.sessionID,
		Mode:      string(mode),
		ItemID:    itemID,
		Correct:   correct,
		Delta:     delta,
		Score:     m.state.Score,
		Streak:    m.state.Streak,
		Timestamp: time.Now(),
	})
	if err != nil {
		m.log.Warn("answer history not recorded", "item_id", itemID, "error", err)
	}
	return nil
}

// Reset clears persisted progress and the in-memory state.
func (m *Manager) Reset(ctx context.Context) error {
	if err := m.repo.Clear(ctx); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	m.state.Reset()
	m.log.Info("progress reset", "session_id", m.sessionID)
	return nil
}

// Summary reports what happened since Open.
func (m *Manager) Summary() Summary {
	s := m.summary
	s.Duration = time.Since(m.startedAt)
	return s
}
