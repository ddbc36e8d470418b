package gesture

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/gachadeck/internal/logger"
)

// ErrUnavailable means gesture input cannot be used: the detector could not
// start, or it stopped producing frames.
var ErrUnavailable = errors.New("gesture input unavailable")

const (
	writeTimeout = 2 * time.Second
	stopTimeout  = 2 * time.Second
	frameBuffer  = 4
)

// DetectorConfig configures the landmark detector subprocess.
type DetectorConfig struct {
	// Command is the program and arguments to run.
	Command []string
	// Dir is the working directory; empty means the current one.
	Dir string
}

// Detector runs a hand landmark detector as a subprocess. Frames arrive on
// its stdout as length-prefixed msgpack; control commands go to its stdin
// the same way.
type Detector struct {
	cfg DetectorConfig
	log *logger.Logger

	active atomic.Bool
	cancel context.CancelFunc
	stdin  io.WriteCloser
	frames chan Frame
	done   chan struct{}

	mu  sync.Mutex
	err error
}

func NewDetector(cfg DetectorConfig, log *logger.Logger) (*Detector, error) {
	if len(cfg.Command) == 0 || strings.TrimSpace(cfg.Command[0]) == "" {
		return nil, errors.New("detector command is required")
	}
	return &Detector{cfg: cfg, log: log.With("component", "gesture-detector")}, nil
}

// Start spawns the subprocess and asks it to begin streaming.
func (d *Detector) Start(ctx context.Context) error {
	if !d.active.CompareAndSwap(false, true) {
		return errors.New("detector already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, d.cfg.Command[0], d.cfg.Command[1:]...)
	cmd.Dir = d.cfg.Dir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return d.abort(cancel, errors.Wrap(err, "stdin pipe"))
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return d.abort(cancel, errors.Wrap(err, "stdout pipe"))
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return d.abort(cancel, errors.Wrap(err, "stderr pipe"))
	}
	if err := cmd.Start(); err != nil {
		return d.abort(cancel, errors.Wrapf(err, "start %s", d.cfg.Command[0]))
	}

	d.cancel = cancel
	d.stdin = stdin
	d.frames = make(chan Frame, frameBuffer)
	d.done = make(chan struct{})
	d.setErr(nil)

	d.log.Info("detector spawned", "command", strings.Join(d.cfg.Command, " "), "pid", cmd.Process.Pid)

	g, gctx := errgroup.WithContext(ctx)
	frames := d.frames
	g.Go(func() error {
		defer close(frames)
		return d.readFrames(gctx, stdout, frames)
	})
	g.Go(func() error {
		d.logStderr(stderr)
		return nil
	})

	done := d.done
	go func() {
		defer close(done)
		// Pipes must be drained before Wait.
		readErr := g.Wait()
		waitErr := cmd.Wait()
		switch {
		case ctx.Err() != nil:
			d.log.Debug("detector stopped")
		case readErr != nil:
			d.setErr(readErr)
			d.log.Error("detector failed", "error", readErr, "exit", waitErr)
		default:
			d.setErr(errors.Wrap(ErrUnavailable, "detector exited"))
			d.log.Warn("detector exited", "exit", waitErr)
		}
	}()

	if err := d.send(ctx, command{Type: "command", Command: "start"}); err != nil {
		d.Close()
		return errors.Wrap(ErrUnavailable, err.Error())
	}
	return nil
}

func (d *Detector) abort(cancel context.CancelFunc, err error) error {
	cancel()
	d.active.Store(false)
	return errors.Wrap(ErrUnavailable, err.Error())
}

// Next returns the next frame, blocking until one arrives.
func (d *Detector) Next(ctx context.Context) (Frame, error) {
	if !d.active.Load() {
		return Frame{}, ErrUnavailable
	}
	select {
	case f, ok := <-d.frames:
		if !ok {
			if err := d.Err(); err != nil {
				return Frame{}, err
			}
			return Frame{}, ErrUnavailable
		}
		return f, nil
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	}
}

// Close asks the subprocess to stop and waits for it, killing it if it
// does not exit in time. Closing a stopped detector does nothing.
func (d *Detector) Close() error {
	if !d.active.CompareAndSwap(true, false) {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	if err := d.send(ctx, command{Type: "command", Command: "stop"}); err != nil {
		d.log.Debug("stop command not delivered", "error", err)
	}
	cancel()
	d.stdin.Close()

	select {
	case <-d.done:
	case <-time.After(stopTimeout):
		d.log.Warn("detector did not exit, killing")
	}
	d.cancel()
	<-d.done
	return nil
}

// Err returns the error that ended the frame stream, if any.
func (d *Detector) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

func (d *Detector) setErr(err error) {
	d.mu.Lock()
	d.err = err
	d.mu.Unlock()
}

// send writes a command, giving up after writeTimeout so a hung detector
// cannot block the caller.
func (d *Detector) send(ctx context.Context, c command) error {
	errc := make(chan error, 1)
	go func() { errc <- writeMessage(d.stdin, c) }()

	select {
	case err := <-errc:
		return err
	case <-time.After(writeTimeout):
		return errors.New("stdin write timeout")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Detector) readFrames(ctx context.Context, r io.Reader, out chan<- Frame) error {
	br := bufio.NewReader(r)
	for {
		f, err := readFrame(br)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return errors.Wrap(ErrUnavailable, err.Error())
		}
		select {
		case out <- f:
		case <-ctx.Done():
			return nil
		default:
			// Consumer is behind; a stale frame is worth less than a fresh one.
			d.log.Debug("dropping frame", "ts", f.TS)
		}
	}
}

// logStderr forwards detector log lines, mapping level prefixes.
func (d *Detector) logStderr(r io.Reader) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.Contains(line, "[ERROR]"), strings.Contains(line, "[CRITICAL]"):
			d.log.Error("detector", "line", line)
		case strings.Contains(line, "[WARNING]"), strings.Contains(line, "[WARN]"):
			d.log.Warn("detector", "line", line)
		default:
			d.log.Debug("detector", "line", line)
		}
	}
}
