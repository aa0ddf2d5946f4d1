package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/elmterm/internal/app"
	"github.com/dshills/elmterm/internal/command"
	"github.com/dshills/elmterm/internal/config"
	"github.com/dshills/elmterm/internal/event"
	"github.com/dshills/elmterm/internal/input/key"
	"github.com/dshills/elmterm/internal/input/mouse"
)

var demoWatch string

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the counter demo",
	Long: `A counter driven by keys, the mouse wheel and timers.

  + / -        change the count (the mouse wheel works too)
  r            reset, then report completion (a command sequence)
  b            start three timers at once (a command batch)
  click        report single, double and triple clicks
  q, ctrl+c    quit

With --watch, changes to the given file are reported in the status line.
Edits to the config file are picked up while the demo runs.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().StringVar(&demoWatch, "watch", "", "Report changes to this file")
}

// Demo messages
type (
	tickMsg      time.Time
	resetMsg     struct{}
	statusMsg    string
	batchDoneMsg int

	fileChangedMsg struct {
		path string
		op   config.Operation
	}

	configReloadedMsg struct {
		cfg *config.File
		err error
	}
)

const batchSize = 3

type demoState struct {
	count   int
	ticks   int
	width   int
	height  int
	focused bool
	batch   int
	status  string
	clicks  mouse.ClickCounter
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	countStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 3).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func demoModel() app.Model[demoState] {
	return app.Model[demoState]{
		Init:   demoInit,
		Update: demoUpdate,
		View:   demoView,
	}
}

func demoInit() (demoState, command.Cmd) {
	s := demoState{
		focused: true,
		clicks:  mouse.NewClickCounter(400*time.Millisecond, 1),
	}
	return s, everySecond()
}

func everySecond() command.Cmd {
	return command.Every(time.Second, func(t time.Time) event.Msg {
		return tickMsg(t)
	})
}

func batchTimer(n int) command.Cmd {
	return command.Tick(time.Duration(n)*150*time.Millisecond, func(time.Time) event.Msg {
		return batchDoneMsg(n)
	})
}

func demoUpdate(s demoState, msg event.Msg) (demoState, command.Cmd) {
	switch m := msg.(type) {
	case event.KeyMsg:
		return demoKey(s, m.Event)

	case event.MouseMsg:
		switch m.Action {
		case mouse.ActionWheelUp:
			s.count++
		case mouse.ActionWheelDown:
			s.count--
		case mouse.ActionPress:
			n := s.clicks.Record(m.Event, time.Now())
			s.status = fmt.Sprintf("%s %s click at %d,%d", mouse.ClickType(n), m.Button, m.X, m.Y)
		}

	case event.WindowSizeMsg:
		s.width, s.height = m.Width, m.Height

	case event.FocusMsg:
		s.focused = true

	case event.BlurMsg:
		s.focused = false

	case event.UnknownMsg:
		s.status = "unknown sequence " + strconv.Quote(m.Sequence)

	case tickMsg:
		s.ticks++
		return s, everySecond()

	case resetMsg:
		s.count = 0
		s.status = "resetting"

	case statusMsg:
		s.status = string(m)

	case batchDoneMsg:
		s.batch++
		s.status = fmt.Sprintf("batch %d/%d done (timer %d)", s.batch, batchSize, int(m))

	case fileChangedMsg:
		s.status = fmt.Sprintf("%s: %s", m.path, m.op)

	case configReloadedMsg:
		if m.err != nil {
			s.status = "config error: " + m.err.Error()
		} else {
			s.status = fmt.Sprintf("config reloaded (fps %d, mouse %s)", m.cfg.FPS, m.cfg.MouseMode)
		}
	}
	return s, nil
}

type demoAction int

const (
	actionNone demoAction = iota
	actionQuit
	actionIncrement
	actionDecrement
	actionReset
	actionBatch
)

// demoKeys binds key specifications to actions. The first match wins.
var demoKeys = []struct {
	spec   string
	action demoAction
}{
	{"q", actionQuit},
	{"Esc", actionQuit},
	{"Ctrl+C", actionQuit},
	{"+", actionIncrement},
	{"=", actionIncrement},
	{"-", actionDecrement},
	{"_", actionDecrement},
	{"r", actionReset},
	{"b", actionBatch},
}

func lookupAction(k key.Event) demoAction {
	for _, b := range demoKeys {
		if k.Matches(b.spec) {
			return b.action
		}
	}
	return actionNone
}

func demoKey(s demoState, k key.Event) (demoState, command.Cmd) {
	switch lookupAction(k) {
	case actionQuit:
		return s, command.Quit()
	case actionIncrement:
		s.count++
	case actionDecrement:
		s.count--
	case actionReset:
		return s, command.Sequence(
			command.Message(resetMsg{}),
			command.Tick(500*time.Millisecond, func(time.Time) event.Msg {
				return statusMsg("reset complete")
			}),
		)
	case actionBatch:
		s.batch = 0
		s.status = "batch started"
		cmds := make([]command.Cmd, 0, batchSize)
		for i := 1; i <= batchSize; i++ {
			cmds = append(cmds, batchTimer(i))
		}
		return s, command.Batch(cmds...)
	}
	return s, nil
}

func demoView(s demoState) string {
	focus := "focused"
	if !s.focused {
		focus = "blurred"
	}

	lines := []string{
		titleStyle.Render("elmterm demo"),
		"",
		countStyle.Render(strconv.Itoa(s.count)),
		"",
		fmt.Sprintf("size %dx%d   ticks %d   %s", s.width, s.height, s.ticks, focus),
	}
	if s.status != "" {
		lines = append(lines, statusStyle.Render(s.status))
	}
	lines = append(lines, "", helpStyle.Render("+/- or wheel: count   r: reset   b: batch   q: quit"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func runDemo(cmd *cobra.Command, args []string) error {
	p, err := newProgram(demoModel())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if demoWatch != "" {
		w, err := config.NewWatcher(demoWatch)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return w.Run(gctx, func(c config.Change) {
				p.Send(fileChangedMsg{path: c.Path, op: c.Op})
			})
		})
	}

	if _, err := os.Stat(configPath); err == nil {
		g.Go(func() error {
			return config.Watch(gctx, configPath, func(cfg *config.File, err error) {
				p.Send(configReloadedMsg{cfg: cfg, err: err})
			})
		})
	}

	var final demoState
	g.Go(func() error {
		defer cancel()
		var err error
		final, err = p.Run(gctx)
		return err
	})

	err = g.Wait()
	if err != nil && !errors.Is(err, app.ErrKilled) {
		return err
	}

	snap := p.Metrics().Snapshot()
	logger.Info("demo finished",
		zap.Int("count", final.count),
		zap.Int("ticks", final.ticks),
		zap.Uint64("renders", snap.RenderCount),
		zap.Float64("avg_burst", snap.AvgBurst()))
	return err
}
