package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "data", "gachadeck", "gachadeck.db"), cfg.DB)
	assert.Equal(t, filepath.Join(dir, "data", "gachadeck", "gachadeck.log"), cfg.Log.File)
	assert.Equal(t, "default", cfg.Subject)
	assert.Equal(t, "ai_gacha_save", cfg.SaveKey)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, 5, cfg.Gacha.BatchSize)
	assert.Equal(t, 600*time.Millisecond, cfg.Gacha.FlyAway)
	assert.Equal(t, 0.08, cfg.Gesture.Flashcard.Threshold)
	assert.Equal(t, 400*time.Millisecond, cfg.Gesture.Flashcard.Cooldown)
	assert.Equal(t, time.Second, cfg.Gesture.Quiz.Cooldown)
	assert.Equal(t, []string{"python3", "scripts/hand_landmarks.py"}, cfg.Gesture.Command)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "custom", "deck.db")
	t.Setenv("GACHADECK_DB", db)
	t.Setenv("GACHADECK_SUBJECT", "physics")
	t.Setenv("GACHADECK_GACHA_BATCH_SIZE", "3")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, db, cfg.DB)
	assert.Equal(t, "physics", cfg.Subject)
	assert.Equal(t, 3, cfg.Gacha.BatchSize)
	assert.DirExists(t, filepath.Dir(db))
}

func TestLoad_File(t *testing.T) {
	dir := isolate(t)
	file := filepath.Join(dir, "gachadeck.yaml")
	body := `
subject: chemistry
store:
  backend: redis
  redis_addr: cache:6379
gesture:
  enabled: true
  quiz:
    threshold: 0.2
    cooldown: 750ms
`
	require.NoError(t, os.WriteFile(file, []byte(body), 0o644))

	cfg, err := Load(viper.New(), file)
	require.NoError(t, err)

	assert.Equal(t, "chemistry", cfg.Subject)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "cache:6379", cfg.Store.RedisAddr)
	assert.True(t, cfg.Gesture.Enabled)
	assert.Equal(t, 0.2, cfg.Gesture.Quiz.Threshold)
	assert.Equal(t, 750*time.Millisecond, cfg.Gesture.Quiz.Cooldown)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(viper.New(), filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_UnknownBackend(t *testing.T) {
	isolate(t)
	t.Setenv("GACHADECK_STORE_BACKEND", "etcd")

	_, err := Load(viper.New(), "")
	assert.ErrorContains(t, err, "unknown store backend")
}
