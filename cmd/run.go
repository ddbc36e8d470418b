package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/abhisek/gachadeck/internal/app"
	"github.com/abhisek/gachadeck/internal/bank"
	"github.com/abhisek/gachadeck/internal/config"
	"github.com/abhisek/gachadeck/internal/gesture"
	"github.com/abhisek/gachadeck/internal/logger"
	"github.com/abhisek/gachadeck/internal/screen"
	"github.com/abhisek/gachadeck/internal/screens/gacha"
	"github.com/abhisek/gachadeck/internal/screens/home"
	"github.com/abhisek/gachadeck/internal/screens/quiz"
	"github.com/abhisek/gachadeck/internal/screens/welcome"
	"github.com/abhisek/gachadeck/internal/session"
	"github.com/abhisek/gachadeck/internal/store"
)

// env is everything a command needs once config is loaded.
type env struct {
	cfg    *config.Config
	log    *logger.Logger
	bank   *bank.Bank
	mgr    *session.Manager
	events store.EventRepo

	closers []func() error
}

// openEnv sets up logging, loads the bank and opens the progress backend.
func openEnv(ctx context.Context, cfg *config.Config) (*env, error) {
	log, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	e := &env{cfg: cfg, log: log}

	b, err := loadBank(cfg, log)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.bank = b

	repo, err := e.openStore(ctx)
	if err != nil {
		e.Close()
		return nil, err
	}

	mgr, err := session.Open(ctx, repo, e.events, b.Deck, log)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open session: %w", err)
	}
	e.mgr = mgr
	return e, nil
}

// loadBank reads the configured subject. The default subject falls back to
// the embedded bank when the banks directory has none.
func loadBank(cfg *config.Config, log *logger.Logger) (*bank.Bank, error) {
	b, err := bank.NewLoader(cfg.BanksDir).Load(cfg.Subject)
	if errors.Is(err, bank.ErrNotFound) && cfg.Subject == bank.DefaultSubject {
		log.Warn("default bank missing, using the built-in bank", "dir", cfg.BanksDir)
		return bank.Builtin()
	}
	if err != nil {
		return nil, fmt.Errorf("load bank: %w", err)
	}
	log.Info("bank loaded", "subject", b.Subject, "cards", b.Deck.Len(), "questions", b.Questions.Len())
	return b, nil
}

// openStore returns the progress repo for the configured backend and sets
// e.events. Answer history lives in SQLite for the sqlite and redis
// backends and in memory for guest play.
func (e *env) openStore(ctx context.Context) (store.ProgressRepo, error) {
	backend := e.cfg.Store.Backend
	if backend == "memory" {
		mem := store.NewMemory(e.log)
		e.events = mem
		return mem, nil
	}

	st, err := store.Open(e.cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	e.closers = append(e.closers, st.Close)
	e.events = st.EventRepo()

	if backend != "redis" {
		return st.ProgressRepo(e.cfg.SaveKey, e.log), nil
	}
	rc := store.RedisConfig{
		Addr:     e.cfg.Store.RedisAddr,
		Password: e.cfg.Store.RedisPassword,
		DB:       e.cfg.Store.RedisDB,
	}
	repo, err := store.OpenRedis(ctx, rc, e.cfg.SaveKey, e.log)
	if err != nil {
		return nil, err
	}
	e.closers = append(e.closers, repo.Close)
	return repo, nil
}

// Close releases backends in reverse order and flushes the log.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			e.log.Warn("close", "error", err)
		}
	}
	e.log.Sync()
}

func (e *env) rng() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func (e *env) gachaOptions() gacha.Options {
	g := e.cfg.Gesture.Flashcard
	return gacha.Options{
		BatchSize: e.cfg.Gacha.BatchSize,
		FlyAway:   e.cfg.Gacha.FlyAway,
		Shake:     e.cfg.Gacha.Shake,
		Gesture:   gesture.FlashcardProfile(g.Threshold, g.Cooldown),
	}
}

func (e *env) quizOptions(filter bank.QuestionType) quiz.Options {
	q := e.cfg.Gesture.Quiz
	opts := quiz.DefaultOptions()
	opts.Gesture = gesture.QuizProfile(q.Threshold, q.Cooldown)
	opts.Filter = filter
	return opts
}

func (e *env) homeDeps(filter bank.QuestionType) home.Deps {
	return home.Deps{
		Bank:    e.bank,
		Manager: e.mgr,
		Events:  e.events,
		Gacha:   e.gachaOptions(),
		Quiz:    e.quizOptions(filter),
		RNG:     e.rng(),
		Log:     e.log,
	}
}

// rootBuilder picks the first screen of the TUI.
type rootBuilder func(e *env) (screen.Screen, error)

func homeRoot(e *env) (screen.Screen, error) {
	deps := e.homeDeps("")
	return welcome.New(func() screen.Screen { return home.New(deps) }), nil
}

// runApp opens the environment, wires gesture input and launches the TUI.
func runApp(cmd *cobra.Command, build rootBuilder) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	e, err := openEnv(ctx, cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	root, err := build(e)
	if err != nil {
		return err
	}

	opts := app.Options{
		Root:       root,
		Manager:    e.mgr,
		GesturesOn: e.cfg.Gesture.Enabled,
		Log:        e.log,
	}
	if len(e.cfg.Gesture.Command) > 0 {
		det, err := gesture.NewDetector(gesture.DetectorConfig{Command: e.cfg.Gesture.Command}, e.log)
		if err != nil {
			return fmt.Errorf("gesture detector: %w", err)
		}
		events := make(chan gesture.Event, 8)
		opts.Gestures = gesture.NewLoop(det, e.cfg.Gesture.FPS, gesture.Disabled(), events, e.log)
		opts.GestureEvents = events
	}

	e.log.Info("starting", "subject", e.bank.Subject, "backend", e.cfg.Store.Backend, "session_id", e.mgr.SessionID())
	return app.Run(ctx, opts)
}
