package gesture

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/abhisek/gachadeck/internal/input"
	"github.com/abhisek/gachadeck/internal/logger"
)

// Source yields detector frames.
type Source interface {
	Next(ctx context.Context) (Frame, error)
}

// Lifecycle is implemented by sources that must be started and closed,
// such as Detector.
type Lifecycle interface {
	Start(ctx context.Context) error
	Close() error
}

// Event is delivered for each gesture action, or once with Err set when the
// source fails and the loop stops.
type Event struct {
	Action input.Action
	Err    error
}

// Loop pulls frames from a Source at a bounded rate, maps them to actions
// and delivers Events. Stop clears the running flag; a frame already being
// read when that happens is discarded rather than acted on.
type Loop struct {
	src     Source
	limiter *rate.Limiter
	out     chan<- Event
	log     *logger.Logger

	mu     sync.Mutex
	mapper *Mapper

	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewLoop creates a stopped loop reading at most fps frames per second.
func NewLoop(src Source, fps int, profile Profile, out chan<- Event, log *logger.Logger) *Loop {
	if fps < 1 {
		fps = 30
	}
	return &Loop{
		src:     src,
		limiter: rate.NewLimiter(rate.Limit(fps), 1),
		out:     out,
		log:     log.With("component", "gesture-loop"),
		mapper:  NewMapper(profile),
	}
}

// Running reports whether the loop is started.
func (l *Loop) Running() bool { return l.running.Load() }

// Profile returns the active action mapping.
func (l *Loop) Profile() Profile {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mapper.Profile()
}

// SetProfile changes the action mapping. Safe to call from any goroutine.
func (l *Loop) SetProfile(p Profile) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.mapper.Profile().Name == p.Name {
		return
	}
	l.mapper.SetProfile(p)
	l.log.Debug("gesture profile", "name", p.Name)
}

// Start begins reading frames. Starting a running loop does nothing.
func (l *Loop) Start(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return nil
	}
	if lc, ok := l.src.(Lifecycle); ok {
		if err := lc.Start(ctx); err != nil {
			l.running.Store(false)
			return err
		}
	}

	l.mu.Lock()
	l.mapper.SetProfile(l.mapper.Profile())
	l.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})
	go l.run(ctx, cancel, l.done)
	l.log.Info("gesture loop started")
	return nil
}

// Stop ends the loop and waits for it to exit. Stopping a stopped loop
// does nothing.
func (l *Loop) Stop() {
	if !l.running.CompareAndSwap(true, false) {
		return
	}
	l.cancel()
	<-l.done
	l.closeSource()
	l.log.Info("gesture loop stopped")
}

// run releases its context on exit, so a loop that fails on its own does
// not hold it until the next Stop.
func (l *Loop) run(ctx context.Context, cancel context.CancelFunc, done chan struct{}) {
	defer close(done)
	defer cancel()
	for {
		if !l.running.Load() {
			return
		}
		if err := l.limiter.Wait(ctx); err != nil {
			return
		}
		frame, err := l.src.Next(ctx)
		if !l.running.Load() {
			return
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			l.fail(ctx, err)
			return
		}

		p, hand := Anchor(frame)
		l.mu.Lock()
		a, fired := l.mapper.Observe(Sample{At: frame.TS, Point: p, Hand: hand})
		l.mu.Unlock()
		if fired {
			l.log.Debug("gesture", "action", a.String(), "ts", frame.TS)
			l.emit(ctx, Event{Action: a})
		}
	}
}

// fail reports a source error once and leaves the loop stopped.
func (l *Loop) fail(ctx context.Context, err error) {
	if !errors.Is(err, ErrUnavailable) {
		err = errors.Join(ErrUnavailable, err)
	}
	l.log.Warn("gesture input stopped", "error", err)
	if l.running.CompareAndSwap(true, false) {
		l.emit(ctx, Event{Err: err})
		l.closeSource()
	}
}

func (l *Loop) emit(ctx context.Context, e Event) {
	select {
	case l.out <- e:
	case <-ctx.Done():
	}
}

func (l *Loop) closeSource() {
	if lc, ok := l.src.(Lifecycle); ok {
		if err := lc.Close(); err != nil {
			l.log.Warn("closing gesture source", "error", err)
		}
	}
}
