package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gachadeck/internal/logger"
)

func openTestRedis(t *testing.T) (*RedisProgressRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	repo, err := OpenRedis(context.Background(), RedisConfig{Addr: mr.Addr()}, DefaultSaveKey, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo, mr
}

func TestRedis_RoundTrip(t *testing.T) {
	repo, _ := openTestRedis(t)
	ctx := context.Background()

	p, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultProgress(), p)

	want := Progress{Score: 550, Level: 2, Mastered: []string{"nn", "rl"}, Streak: 4}
	require.NoError(t, repo.Save(ctx, want))
	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, repo.Clear(ctx))
	got, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultProgress(), got)
}

func TestRedis_SavePreservesUnknownKeys(t *testing.T) {
	repo, mr := openTestRedis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(DefaultSaveKey, `{"score":10,"level":1,"mastered":["x"],"theme":"dark"}`))
	require.NoError(t, repo.Save(ctx, Progress{Score: 160, Level: 1, Streak: 1}, FieldScore, FieldLevel, FieldStreak))

	raw, err := mr.Get(DefaultSaveKey)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "dark", doc["theme"])
	assert.Equal(t, []any{"x"}, doc["mastered"])
	assert.EqualValues(t, 160, doc["score"])
}

func TestRedis_MalformedFallsBackToDefault(t *testing.T) {
	repo, mr := openTestRedis(t)
	require.NoError(t, mr.Set(DefaultSaveKey, "{not json"))

	p, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultProgress(), p)
}

func TestRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := OpenRedis(context.Background(), RedisConfig{Addr: addr}, DefaultSaveKey, logger.Nop())
	assert.Error(t, err)
}
