// Package config resolves runtime settings from defaults, an optional YAML
// file, GACHADECK_* environment variables and command-line flags, in that
// order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	appName   = "gachadeck"
	envPrefix = "GACHADECK"
)

type Config struct {
	DB       string        `mapstructure:"db"`
	BanksDir string        `mapstructure:"banks_dir"`
	Subject  string        `mapstructure:"subject"`
	SaveKey  string        `mapstructure:"save_key"`
	Store    StoreConfig   `mapstructure:"store"`
	Log      LogConfig     `mapstructure:"log"`
	Gesture  GestureConfig `mapstructure:"gesture"`
	Gacha    GachaConfig   `mapstructure:"gacha"`
}

type StoreConfig struct {
	// Backend is "sqlite", "redis", or "memory" for guest play.
	Backend       string `mapstructure:"backend"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type GestureConfig struct {
	Enabled   bool           `mapstructure:"enabled"`
	Command   []string       `mapstructure:"command"`
	FPS       int            `mapstructure:"fps"`
	Flashcard GestureProfile `mapstructure:"flashcard"`
	Quiz      GestureProfile `mapstructure:"quiz"`
}

type GestureProfile struct {
	Threshold float64       `mapstructure:"threshold"`
	Cooldown  time.Duration `mapstructure:"cooldown"`
}

type GachaConfig struct {
	BatchSize int           `mapstructure:"batch_size"`
	FlyAway   time.Duration `mapstructure:"fly_away"`
	Shake     time.Duration `mapstructure:"shake"`
}

// SetDefaults registers every known key so that environment overrides and
// Unmarshal see them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("db", "")
	v.SetDefault("banks_dir", "banks")
	v.SetDefault("subject", "default")
	v.SetDefault("save_key", "ai_gacha_save")

	v.SetDefault("store.backend", "sqlite")
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.redis_password", "")
	v.SetDefault("store.redis_db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetDefault("gesture.enabled", false)
	v.SetDefault("gesture.command", []string{"python3", "scripts/hand_landmarks.py"})
	v.SetDefault("gesture.fps", 30)
	v.SetDefault("gesture.flashcard.threshold", 0.08)
	v.SetDefault("gesture.flashcard.cooldown", 400*time.Millisecond)
	v.SetDefault("gesture.quiz.threshold", 0.15)
	v.SetDefault("gesture.quiz.cooldown", time.Second)

	v.SetDefault("gacha.batch_size", 5)
	v.SetDefault("gacha.fly_away", 600*time.Millisecond)
	v.SetDefault("gacha.shake", 500*time.Millisecond)
}

// Load reads configuration into a Config. file may be empty, in which case
// config.yaml is looked up in the XDG config directory and the working
// directory; a missing file there is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	// .env only seeds the environment; real variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: .env: %v\n", err)
	}

	SetDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) resolve() error {
	if c.DB == "" {
		p, err := DefaultDBPath()
		if err != nil {
			return err
		}
		c.DB = p
	} else if err := EnsureDir(c.DB); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(filepath.Dir(c.DB), appName+".log")
	}
	if c.Subject == "" {
		c.Subject = "default"
	}
	switch c.Store.Backend {
	case "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Gacha.BatchSize < 1 {
		c.Gacha.BatchSize = 1
	}
	if c.Gesture.FPS < 1 {
		c.Gesture.FPS = 30
	}
	return nil
}

// DefaultDBPath resolves the database file path:
// 1. $XDG_DATA_HOME/gachadeck/gachadeck.db
// 2. ~/.local/share/gachadeck/gachadeck.db
func DefaultDBPath() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, appName, appName+".db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func configDir() (string, error) {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
