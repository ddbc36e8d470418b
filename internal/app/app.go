package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gachadeck/internal/gesture"
	"github.com/abhisek/gachadeck/internal/input"
	"github.com/abhisek/gachadeck/internal/logger"
	"github.com/abhisek/gachadeck/internal/router"
	"github.com/abhisek/gachadeck/internal/screen"
	"github.com/abhisek/gachadeck/internal/session"
	"github.com/abhisek/gachadeck/internal/ui/layout"
)

// Options configures Run.
type Options struct {
	// Root is the first screen shown.
	Root    screen.Screen
	Manager *session.Manager

	// Gestures is the gesture loop, nil when gesture input is not
	// configured. Its events arrive on GestureEvents.
	Gestures      *gesture.Loop
	GestureEvents <-chan gesture.Event
	// GesturesOn starts the loop with the program.
	GesturesOn bool

	Log *logger.Logger
}

// gestureEventMsg carries a loop event into the program.
type gestureEventMsg gesture.Event

// gestureToggledMsg reports the outcome of starting or stopping the loop.
type gestureToggledMsg struct {
	on  bool
	err error
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	ctx    context.Context
	router *router.Router
	mgr    *session.Manager
	loop   *gesture.Loop
	log    *logger.Logger
	width  int
	height int

	startGestures bool
	gestures      bool
	// pending is set while a start or stop runs, so toggles do not overlap.
	pending bool
	notice  string
}

func newAppModel(ctx context.Context, opts Options) AppModel {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	m := AppModel{
		ctx:           ctx,
		router:        router.New(opts.Root),
		mgr:           opts.Manager,
		loop:          opts.Gestures,
		log:           log,
		startGestures: opts.GesturesOn && opts.Gestures != nil,
	}
	m.syncProfile()
	return m
}

func (m AppModel) Init() tea.Cmd {
	cmd := m.router.Active().Init()
	if m.startGestures {
		return tea.Batch(cmd, m.setGestures(true))
	}
	return cmd
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.notice = ""
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+g":
			return m.toggleGestures()
		}

	case router.PopScreenMsg:
		if m.router.Depth() <= 1 {
			return m, tea.Quit
		}

	case gestureToggledMsg:
		m.pending = false
		if msg.err != nil {
			m.log.Warn("gesture input unavailable", "error", msg.err)
			m.gestures = false
			m.notice = "Camera unavailable: keyboard only"
			return m, nil
		}
		m.gestures = msg.on
		return m, nil

	case gestureEventMsg:
		if msg.Err != nil {
			m.gestures = false
			m.notice = "Gesture input stopped: keyboard only"
			return m, nil
		}
		if !m.gestures {
			return m, nil
		}
		if _, ok := m.router.Active().(screen.GestureProfiler); !ok {
			return m, nil
		}
		cmd := m.router.Update(input.ActionMsg{Action: msg.Action, Source: input.SourceGesture})
		m.syncProfile()
		return m, cmd
	}

	cmd := m.router.Update(msg)
	m.syncProfile()
	return m, cmd
}

func (m AppModel) toggleGestures() (tea.Model, tea.Cmd) {
	if m.loop == nil {
		m.notice = "Gestures are not configured"
		return m, nil
	}
	if m.pending {
		return m, nil
	}
	m.pending = true
	return m, m.setGestures(!m.gestures)
}

// setGestures starts or stops the loop off the program goroutine.
func (m AppModel) setGestures(on bool) tea.Cmd {
	loop, ctx := m.loop, m.ctx
	return func() tea.Msg {
		if !on {
			loop.Stop()
			return gestureToggledMsg{on: false}
		}
		if err := loop.Start(ctx); err != nil {
			return gestureToggledMsg{err: err}
		}
		return gestureToggledMsg{on: true}
	}
}

// syncProfile points the loop at the active screen's gesture mapping.
func (m AppModel) syncProfile() {
	if m.loop == nil {
		return
	}
	p := gesture.Disabled()
	if gp, ok := m.router.Active().(screen.GestureProfiler); ok {
		p = gp.GestureProfile()
	}
	m.loop.SetProfile(p)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the header, active screen and footer.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	header := layout.RenderHeader(active.Title(), m.headerStats(), m.width)
	footer := layout.RenderFooter(m.footerHints(), m.notice, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) headerStats() layout.HeaderStats {
	st := m.mgr.State()
	return layout.HeaderStats{
		Level:    st.Level(),
		Score:    st.Score,
		Streak:   st.Streak,
		Gestures: m.gestures,
	}
}

func (m AppModel) footerHints() []layout.KeyHint {
	active := m.router.Active()

	var hints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		hints = append(hints, hp.KeyHints()...)
	} else if m.router.Depth() > 1 {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}

	if _, ok := active.(screen.GestureProfiler); ok && m.loop != nil {
		label := "Gestures on"
		if m.gestures {
			label = "Gestures off"
		}
		hints = append(hints, layout.KeyHint{Key: "Ctrl+G", Description: label})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// forward delivers loop events to the program until ctx ends.
func forward(ctx context.Context, events <-chan gesture.Event, p *tea.Program) {
	for {
		select {
		case e := <-events:
			p.Send(gestureEventMsg(e))
		case <-ctx.Done():
			return
		}
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newAppModel(ctx, opts), tea.WithContext(ctx))

	if opts.Gestures != nil {
		fwdCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go forward(fwdCtx, opts.GestureEvents, p)
		defer opts.Gestures.Stop()
	}

	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
