package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gachadeck/internal/logger"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "open test store")
	t.Cleanup(func() { s.Close() })
	return s
}

func writeRaw(t *testing.T, s *Store, key, value string) {
	t.Helper()
	_, err := s.DB().Exec("INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, 0)", key, value)
	require.NoError(t, err)
}

func readRaw(t *testing.T, s *Store, key string) map[string]any {
	t.Helper()
	var value string
	require.NoError(t, s.DB().QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value))
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(value), &doc))
	return doc
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}
	for _, tt := range tests {
		var got string
		require.NoError(t, s.DB().QueryRow("PRAGMA "+tt.pragma).Scan(&got), tt.pragma)
		assert.Equal(t, tt.want, got, "PRAGMA %s", tt.pragma)
	}
}

func TestOpen_CreatesSchemaAndReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	for _, table := range []string{tableKV, tableAnswers} {
		var name string
		err := s.DB().QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, "table %s", table)
	}
	require.NoError(t, s.ProgressRepo(DefaultSaveKey, logger.Nop()).Save(ctx, Progress{Score: 300, Level: 1}))
	require.NoError(t, s.EventRepo().AppendAnswer(ctx, AnswerEventData{SessionID: "s1", Mode: "quiz", ItemID: "q1", Correct: true, Delta: 100}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err, "second open must not fail on existing tables")
	t.Cleanup(func() { s.Close() })

	p, err := s.ProgressRepo(DefaultSaveKey, logger.Nop()).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 300, p.Score)

	recent, err := s.EventRepo().RecentAnswers(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "q1", recent[0].ItemID)
}

func TestProgress_LoadEmpty(t *testing.T) {
	repo := openTestStore(t).ProgressRepo(DefaultSaveKey, logger.Nop())

	p, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultProgress(), p)
}

func TestProgress_RoundTrip(t *testing.T) {
	repo := openTestStore(t).ProgressRepo(DefaultSaveKey, logger.Nop())
	ctx := context.Background()

	want := Progress{Score: 700, Level: 2, Mastered: []string{"a", "c"}, Streak: 3}
	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Saving again overwrites.
	want.Score = 800
	require.NoError(t, repo.Save(ctx, want))
	got, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 800, got.Score)
}

func TestProgress_SavePreservesUnknownKeys(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo(DefaultSaveKey, logger.Nop())
	ctx := context.Background()

	writeRaw(t, s, DefaultSaveKey, `{"score":10,"level":1,"mastered":["x"],"theme":"dark"}`)

	require.NoError(t, repo.Save(ctx, Progress{Score: 150, Level: 1, Streak: 2}, FieldScore, FieldLevel, FieldStreak))

	doc := readRaw(t, s, DefaultSaveKey)
	assert.Equal(t, "dark", doc["theme"])
	assert.Equal(t, []any{"x"}, doc["mastered"], "mastered was not in the field list")
	assert.EqualValues(t, 150, doc["score"])
	assert.EqualValues(t, 2, doc["streak"])
}

func TestProgress_MalformedFallsBackToDefault(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo(DefaultSaveKey, logger.Nop())
	ctx := context.Background()

	writeRaw(t, s, DefaultSaveKey, `{not json`)

	p, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultProgress(), p)

	// A later save replaces the unreadable blob.
	require.NoError(t, repo.Save(ctx, Progress{Score: 100, Level: 1, Mastered: []string{"a"}}))
	p, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, p.Score)
}

func TestProgress_Normalizes(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo(DefaultSaveKey, logger.Nop())

	writeRaw(t, s, DefaultSaveKey, `{"score":-5,"level":0,"mastered":["a","a","","b"],"streak":-1}`)

	p, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Progress{Score: 0, Level: 1, Mastered: []string{"a", "b"}, Streak: 0}, p)
}

func TestProgress_Clear(t *testing.T) {
	repo := openTestStore(t).ProgressRepo(DefaultSaveKey, logger.Nop())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, Progress{Score: 300, Level: 1, Mastered: []string{"a"}}))
	require.NoError(t, repo.Clear(ctx))

	p, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultProgress(), p)
}

func TestProgress_KeysAreIndependent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	a := s.ProgressRepo("save_a", logger.Nop())
	b := s.ProgressRepo("save_b", logger.Nop())

	require.NoError(t, a.Save(ctx, Progress{Score: 100, Level: 1}))
	p, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Score)
}

func TestMergeProgress(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		fields   []Field
		want     map[string]any
	}{
		{
			name:   "empty existing writes all fields",
			fields: nil,
			want:   map[string]any{"score": 5.0, "level": 1.0, "mastered": []any{}, "streak": 0.0},
		},
		{
			name:     "non-object existing is replaced",
			existing: `[1,2]`,
			fields:   []Field{FieldScore},
			want:     map[string]any{"score": 5.0},
		},
		{
			name:     "only named fields change",
			existing: `{"score":1,"streak":9,"extra":true}`,
			fields:   []Field{FieldScore},
			want:     map[string]any{"score": 5.0, "streak": 9.0, "extra": true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := mergeProgress([]byte(tt.existing), Progress{Score: 5, Level: 1}, tt.fields)
			require.NoError(t, err)
			var got map[string]any
			require.NoError(t, json.Unmarshal(out, &got))
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := mergeProgress(nil, Progress{}, []Field{"bogus"})
	assert.Error(t, err)
}

func TestAnswerEvents(t *testing.T) {
	t.Run("sqlite", func(t *testing.T) { checkAnswerEvents(t, openTestStore(t).EventRepo()) })
	t.Run("memory", func(t *testing.T) { checkAnswerEvents(t, NewMemory(logger.Nop())) })
}

func checkAnswerEvents(t *testing.T, repo EventRepo) {
	t.Helper()
	ctx := context.Background()
	base := time.UnixMilli(1_700_000_000_000)

	events := []AnswerEventData{
		{SessionID: "s1", Mode: "quiz", ItemID: "q-1", Correct: true, Delta: 100, Score: 100, Streak: 1, Timestamp: base},
		{SessionID: "s1", Mode: "quiz", ItemID: "q-2", Correct: false, Delta: 0, Score: 100, Streak: 0, Timestamp: base.Add(time.Second)},
		{SessionID: "s1", Mode: "gacha", ItemID: "nn", Correct: true, Delta: 100, Score: 200, Streak: 1, Timestamp: base.Add(2 * time.Second)},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendAnswer(ctx, e))
	}

	stats, err := repo.AnswerStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "gacha", stats[0].Mode)
	assert.Equal(t, 1, stats[0].Answers)
	assert.Equal(t, "quiz", stats[1].Mode)
	assert.Equal(t, 2, stats[1].Answers)
	assert.Equal(t, 1, stats[1].Correct)
	assert.Equal(t, 100, stats[1].Points)
	assert.InDelta(t, 0.5, stats[1].Accuracy(), 1e-9)
	assert.True(t, stats[1].LastAt.Equal(base.Add(time.Second)))

	recent, err := repo.RecentAnswers(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "nn", recent[0].ItemID)
	assert.Equal(t, "q-2", recent[1].ItemID)
	assert.False(t, recent[1].Correct)
}
