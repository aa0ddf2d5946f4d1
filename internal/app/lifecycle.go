package app

import (
	"context"
	"errors"
	"runtime/debug"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/elmterm/internal/command"
	"github.com/dshills/elmterm/internal/input"
	"github.com/dshills/elmterm/internal/renderer/backend"
)

// Run starts the program and blocks until it stops.
//
// It returns the final state and:
//   - nil after a QuitMsg or Stop
//   - the cause of a fatal ErrorMsg
//   - an error wrapping ErrKilled when ctx ends
//   - a *PanicError if update or view panicked
//
// Terminal cleanup runs on every path; cleanup failures are joined to the
// returned error.
func (p *Program[S]) Run(ctx context.Context) (state S, err error) {
	if !p.started.CompareAndSwap(false, true) {
		return state, ErrAlreadyRunning
	}
	defer close(p.done)

	if err := p.term.Start(); err != nil {
		p.queue.Close()
		return state, &TerminalError{Op: "start", Err: err}
	}
	p.running.Store(true)
	p.logger.Info("program started")

	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	pump := input.NewPump(p.term)

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("program panicked", zap.Any("value", r))
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
		cancel()
		if terr := p.teardown(g, pump, err); terr != nil {
			err = errors.Join(err, terr)
		}
		p.running.Store(false)
		p.logStopped(err)
	}()

	if err := p.setup(gctx); err != nil {
		return state, err
	}

	var cmd command.Cmd
	state, cmd = p.model.Init()

	g.Go(func() error {
		return p.readInput(gctx, pump)
	})
	p.exec.Execute(cmd)
	p.render(state)

	err = p.eventLoop(gctx, &state)
	return state, err
}

// setup applies display modes, installs the resize watcher and queues the
// initial size.
func (p *Program[S]) setup(ctx context.Context) error {
	if p.opts.altScreen {
		if err := p.modes.EnterAltScreen(); err != nil {
			return &TerminalError{Op: "alt screen", Err: err}
		}
	}
	if p.opts.hideCursor {
		if err := p.modes.HideCursor(); err != nil {
			return &TerminalError{Op: "hide cursor", Err: err}
		}
	}
	if p.opts.mouse != backend.MouseNone {
		if err := p.modes.EnableMouse(p.opts.mouse); err != nil {
			return &TerminalError{Op: "mouse mode", Err: err}
		}
	}
	if p.opts.focus {
		if err := p.modes.EnableFocusReporting(); err != nil {
			return &TerminalError{Op: "focus reporting", Err: err}
		}
	}

	p.resize = newResizeWatcher(ctx, p.term, p.queue, p.logger.Named("resize"))
	p.term.NotifyResize(p.resize.check)

	w, h, err := p.term.Size()
	if err != nil {
		return &TerminalError{Op: "size", Err: err}
	}
	p.renderer.Resize(w, h)
	p.resize.prime(w, h)
	return nil
}

func (p *Program[S]) readInput(ctx context.Context, pump *input.Pump) error {
	asm := input.NewAssembler(pump,
		input.WithAmbiguityTimeout(p.opts.ambiguity),
		input.WithKeymap(p.keys),
		input.WithMetrics(p.inputMetrics))
	r := input.NewReader(asm,
		input.WithPollInterval(p.opts.pollInterval),
		input.WithReaderLogger(p.logger.Named("input")))

	if err := r.Run(ctx, p.queue); err != nil {
		return &TerminalError{Op: "read", Err: err}
	}
	return nil
}

// teardown stops the reader, closes the queue and restores the terminal.
// Every step is attempted.
func (p *Program[S]) teardown(g *errgroup.Group, pump *input.Pump, runErr error) error {
	var errs []error

	if err := p.term.Interrupt(); err != nil {
		errs = append(errs, &TerminalError{Op: "interrupt", Err: err})
	}
	p.queue.Close()
	if err := g.Wait(); err != nil && !errors.Is(runErr, err) {
		errs = append(errs, err)
	}
	pump.Close()

	p.renderer.Stop()
	if err := p.modes.Restore(); err != nil {
		errs = append(errs, &TerminalError{Op: "restore modes", Err: err})
	}
	if err := p.term.Stop(); err != nil {
		errs = append(errs, &TerminalError{Op: "stop", Err: err})
	}
	return errors.Join(errs...)
}

func (p *Program[S]) logStopped(err error) {
	m := p.metrics.Snapshot()
	in := p.inputMetrics.Snapshot()
	fields := []zap.Field{
		zap.Duration("uptime", m.Uptime),
		zap.Uint64("messages", m.Messages),
		zap.Uint64("updates", m.Updates),
		zap.Uint64("bursts", m.Bursts),
		zap.Uint64("renders", m.RenderCount),
		zap.Uint64("unknown_sequences", in.Unknown),
	}
	if err != nil {
		p.logger.Warn("program stopped", append(fields, zap.Error(err))...)
		return
	}
	p.logger.Info("program stopped", fields...)
}
