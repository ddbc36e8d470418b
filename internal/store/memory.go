package store

import (
	"context"
	"sort"
	"sync"

	"github.com/abhisek/gachadeck/internal/logger"
)

// MemoryStore keeps progress and answer history in process memory. It backs
// guest play, where nothing should outlive the run.
type MemoryStore struct {
	log *logger.Logger

	mu     sync.Mutex
	blob   []byte
	events []AnswerEventData
}

var (
	_ ProgressRepo = (*MemoryStore)(nil)
	_ EventRepo    = (*MemoryStore)(nil)
)

func NewMemory(log *logger.Logger) *MemoryStore {
	return &MemoryStore{log: log}
}

// Seed replaces the stored blob verbatim.
func (m *MemoryStore) Seed(raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blob = append([]byte(nil), raw...)
}

// Raw returns a copy of the stored blob, or nil when nothing is saved.
func (m *MemoryStore) Raw() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.blob...)
}

func (m *MemoryStore) Load(ctx context.Context) (Progress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.blob == nil {
		return DefaultProgress(), nil
	}
	p, err := decodeProgress(m.blob)
	if err != nil {
		m.log.Warn("discarding unreadable progress", "backend", "memory", "error", err)
		return DefaultProgress(), nil
	}
	return p, nil
}

func (m *MemoryStore) Save(ctx context.Context, p Progress, fields ...Field) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	merged, err := mergeProgress(m.blob, p, fields)
	if err != nil {
		return err
	}
	m.blob = merged
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blob = nil
	return nil
}

func (m *MemoryStore) AppendAnswer(ctx context.Context, data AnswerEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, data)
	return nil
}

func (m *MemoryStore) AnswerStats(ctx context.Context) ([]ModeStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byMode := make(map[string]*ModeStats)
	for _, e := range m.events {
		s, ok := byMode[e.Mode]
		if !ok {
			s = &ModeStats{Mode: e.Mode}
			byMode[e.Mode] = s
		}
		s.Answers++
		if e.Correct {
			s.Correct++
		}
		s.Points += e.Delta
		if e.Timestamp.After(s.LastAt) {
			s.LastAt = e.Timestamp
		}
	}
	out := make([]ModeStats, 0, len(byMode))
	for _, s := range byMode {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mode < out[j].Mode })
	return out, nil
}

// RecentAnswers returns events newest first.
func (m *MemoryStore) RecentAnswers(ctx context.Context, limit int) ([]AnswerEventData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.events)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]AnswerEventData, 0, n)
	for i := len(m.events) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.events[i])
	}
	return out, nil
}
